package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MapSource serves catalog files from memory. Setting FailPath makes fetches
// of that path return Err; Hold blocks a path until released.
type MapSource struct {
	Files    map[string][]byte
	FailPath string
	Err      error

	mu      sync.Mutex
	fetched []string
	holds   map[string]*hold
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewMapSource wraps files, typically RawCatalog.Files plus metadata.
func NewMapSource(files map[string][]byte) *MapSource {
	return &MapSource{Files: files}
}

func (s *MapSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, path)
	h := s.holds[path]
	data, ok := s.Files[path]
	fail := s.FailPath == path
	s.mu.Unlock()

	if h != nil {
		h.once.Do(func() { close(h.arrived) })
		select {
		case <-h.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		err := s.Err
		if err == nil {
			err = fmt.Errorf("injected failure for %s", path)
		}
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}
	return data, nil
}

// Set replaces one file.
func (s *MapSource) Set(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[path] = data
}

// Hold makes the next fetch of path block until release is called. arrived
// closes once a fetch of path is waiting.
func (s *MapSource) Hold(path string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	if s.holds == nil {
		s.holds = make(map[string]*hold)
	}
	s.holds[path] = h
	s.mu.Unlock()
	var once sync.Once
	return h.arrived, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, path)
			s.mu.Unlock()
			close(h.release)
		})
	}
}

// Fetched returns the paths requested so far, in order.
func (s *MapSource) Fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}
