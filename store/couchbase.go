package store

import (
	"context"
	"fmt"

	"github.com/couchbase/go-couchbase"
	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
)

type couchbaseSink struct {
	b      *couchbase.Bucket
	logger *zap.Logger
}

// NewCouchbase gets a Sink setting one document per article title in a
// bucket of the default pool.
func NewCouchbase(url, bucket string, logger *zap.Logger) (Sink, error) {
	b, err := couchbase.GetBucket(url, "default", bucket)
	if err != nil {
		return nil, fmt.Errorf("connecting to couchbase: %w", err)
	}
	return &couchbaseSink{b: b, logger: logger}, nil
}

func (s *couchbaseSink) Put(_ context.Context, a *wikiparse.Article) error {
	if err := s.b.Set(a.Title, 0, NewRecord(a)); err != nil {
		return fmt.Errorf("setting %v: %w", a.Title, err)
	}
	return nil
}

func (s *couchbaseSink) Close() error {
	s.b.Close()
	return nil
}
