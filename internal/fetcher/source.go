package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

// Source retrieves one catalog file by its manifest path.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPSource fetches files relative to a base URL.
type HTTPSource struct {
	base    string
	timeout time.Duration
	retries int
	http    *http.Client
}

// NewHTTPSource creates a source rooted at base. Each attempt is bounded by
// timeout; transport errors and 5xx responses are retried up to retries
// extra times.
func NewHTTPSource(base string, timeout time.Duration, retries int) *HTTPSource {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &HTTPSource{
		base:    base,
		timeout: timeout,
		retries: retries,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var lastErr error
	for i := 0; i < 1+s.retries; i++ {
		data, retry, err := s.fetchOnce(ctx, name)
		if err == nil {
			return data, nil
		}
		lastErr = err
		// Don't retry on cancellation or client errors
		if ctx.Err() != nil || !retry {
			break
		}
	}
	return nil, fmt.Errorf("fetching %s: %w", name, lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context, name string) ([]byte, bool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+name, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return body, false, nil
}

// DirSource reads files from a directory tree.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource serves files under root.
func NewDirSource(root string) *DirSource {
	return &DirSource{fsys: os.DirFS(root)}
}

// NewFSSource serves files from fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, path.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// NewSource picks an HTTP source for http(s) URLs and a directory source for
// file:// URLs and plain paths.
func NewSource(location string, timeout time.Duration, retries int) (Source, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, timeout, retries), nil
	case strings.HasPrefix(location, "file://"):
		location = strings.TrimPrefix(location, "file://")
	}
	if location == "" {
		return nil, errors.New("empty catalog location")
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog directory: %s is not a directory", location)
	}
	return NewDirSource(location), nil
}
