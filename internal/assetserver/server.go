// Package assetserver serves a catalog directory over HTTP the way the
// published site lays it out, for local development against the fetcher.
package assetserver

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/semplan/internal/builder"
	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/fetcher"
	"github.com/alexanderramin/semplan/internal/logging"
)

// Prefix is the URL path the catalog files live under.
const Prefix = "/assets/data/"

// Server serves catalog files from a filesystem.
type Server struct {
	fsys   fs.FS
	years  catalog.Years
	router *chi.Mux
	server *http.Server
}

// New creates a server over fsys. When fsys has no metadata file one is
// synthesized from the manifest files, declaring years.
func New(fsys fs.FS, years catalog.Years) *Server {
	s := &Server{fsys: fsys, years: years, router: chi.NewRouter()}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.router.Get(Prefix+fetcher.MetadataPath, s.handleMetadata)
	s.router.Handle(Prefix+"*", http.StripPrefix(Prefix, http.FileServer(http.FS(fsys))))
	return s
}

// NewDir serves the directory at root.
func NewDir(root string, years catalog.Years) *Server {
	return New(os.DirFS(root), years)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if data, err := fs.ReadFile(s.fsys, fetcher.MetadataPath); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	meta, err := s.synthesize()
	if err != nil {
		logging.WithFields(r.Context(), "path", r.URL.Path).Error("building metadata", "error", err)
		http.Error(w, "catalog incomplete", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(meta)
}

// synthesize derives metadata from the manifest files: their sizes and the
// newest modification time as the timestamp.
func (s *Server) synthesize() (*fetcher.Metadata, error) {
	meta := &fetcher.Metadata{FileSizes: map[string]int64{}, Years: s.years}
	for _, p := range builder.AssetPaths() {
		info, err := fs.Stat(s.fsys, p)
		if err != nil {
			return nil, err
		}
		meta.FileSizes[p] = info.Size()
		if ms := info.ModTime().UnixMilli(); ms > meta.Timestamp {
			meta.Timestamp = ms
		}
	}
	return meta, nil
}

// requestLogger logs each request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
