package fetcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"time"
)

// FetchEvent records one file fetch.
type FetchEvent struct {
	Path      string
	Bytes     int
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

// Observer receives fetch events for logging and metrics.
type Observer interface {
	OnFetchComplete(event FetchEvent)
}

// LogObserver writes fetch events to a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnFetchComplete(event FetchEvent) {
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	o.logger.Info("catalog_fetch",
		"path", event.Path,
		"bytes", event.Bytes,
		"latency_ms", event.Latency.Milliseconds(),
		"status", status,
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnFetchComplete(FetchEvent) {}

func errorCode(err error) string {
	var netErr *net.OpError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrUnexpectedStatus):
		return "STATUS"
	case errors.Is(err, fs.ErrNotExist):
		return "NOT_FOUND"
	case errors.As(err, &netErr):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}
