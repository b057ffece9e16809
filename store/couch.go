package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-couch"
	"github.com/dustin/httputil"
	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
)

type couchDoc struct {
	ID  string `json:"_id"`
	Rev string `json:"_rev,omitempty"`
	Record
}

type couchSink struct {
	db     couch.Database
	logger *zap.Logger
}

// NewCouch gets a Sink storing one CouchDB document per article, keyed by
// title. When a title is already stored the newer revision wins.
func NewCouch(url string, logger *zap.Logger) (Sink, error) {
	db, err := couch.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to couchdb: %w", err)
	}
	return &couchSink{db: db, logger: logger}, nil
}

func escapeTitle(in string) string {
	return strings.Replace(strings.Replace(in, "/", "%2f", -1),
		"+", "%2b", -1)
}

func (s *couchSink) Put(_ context.Context, a *wikiparse.Article) error {
	doc := couchDoc{ID: escapeTitle(a.Title), Record: *NewRecord(a)}

	_, _, err := s.db.Insert(&doc)
	switch {
	case err == nil:
		return nil
	case httputil.IsHTTPStatus(err, 409):
		return s.resolveConflict(&doc)
	}
	return err
}

func (s *couchSink) resolveConflict(doc *couchDoc) error {
	s.logger.Debug("Resolving conflict", zap.String("id", doc.ID))
	var prev couchDoc
	if err := s.db.Retrieve(doc.ID, &prev); err != nil {
		return fmt.Errorf("retrieving existing %v: %w", doc.ID, err)
	}
	if prev.Rev == "" {
		return fmt.Errorf("got no rev from %v", doc.ID)
	}
	if doc.Timestamp <= prev.Timestamp {
		return nil
	}
	s.logger.Debug("Replacing older revision",
		zap.String("id", doc.ID), zap.String("rev", prev.Rev))
	if _, err := s.db.EditWith(doc, doc.ID, prev.Rev); err != nil {
		return fmt.Errorf("updating %v: %w", doc.ID, err)
	}
	return nil
}

func (s *couchSink) Close() error {
	return nil
}
