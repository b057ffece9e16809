package store

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/wikigold/go-wikiparse"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type jsonLines struct {
	mu  sync.Mutex
	w   io.WriteCloser
	enc *json.Encoder
}

// NewJSONLines gets a Sink writing one JSON record per line to w. Close
// closes w.
func NewJSONLines(w io.WriteCloser) Sink {
	return &jsonLines{w: w, enc: json.NewEncoder(w)}
}

func (s *jsonLines) Put(_ context.Context, a *wikiparse.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(NewRecord(a))
}

func (s *jsonLines) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
