// Package store writes extracted articles to databases and files.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
)

// ErrUnknownKind is returned by Open for an unsupported store kind.
var ErrUnknownKind = errors.New("unknown store kind")

// A Sink stores articles. Put may be called from several goroutines.
type Sink interface {
	Put(ctx context.Context, a *wikiparse.Article) error
	Close() error
}

// A Link is a link of a stored article.
type Link struct {
	Line        int    `json:"line" bson:"line"`
	Start       int    `json:"start" bson:"start"`
	Length      int    `json:"length" bson:"length"`
	Destination string `json:"destination" bson:"destination"`
	Label       string `json:"label" bson:"label"`
}

// A Record is the stored form of an article.
type Record struct {
	Title      string   `json:"title" bson:"title"`
	PageID     uint64   `json:"page_id" bson:"page_id"`
	RevisionID uint64   `json:"revision_id,omitempty" bson:"revision_id,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	Author     string   `json:"author,omitempty" bson:"author,omitempty"`
	RedirectTo string   `json:"redirect_to,omitempty" bson:"redirect_to,omitempty"`
	Lines      []string `json:"lines,omitempty" bson:"lines,omitempty"`
	Links      []Link   `json:"links,omitempty" bson:"links,omitempty"`
	Files      []string `json:"files,omitempty" bson:"files,omitempty"`
}

// NewRecord converts an article to its stored form.
func NewRecord(a *wikiparse.Article) *Record {
	r := &Record{
		Title:      a.Title,
		PageID:     a.PageID,
		RevisionID: a.RevisionID,
		Timestamp:  a.Timestamp,
		Author:     a.Author,
		RedirectTo: a.RedirectTo,
		Lines:      a.Lines,
		Files:      a.Files,
	}
	for _, l := range a.Links {
		r.Links = append(r.Links, Link(l))
	}
	return r
}

// Config selects and addresses a store.
type Config struct {
	// Kind is one of mongo, couch, couchbase, elastic or jsonl.
	Kind       string `yaml:"kind"`
	URL        string `yaml:"url"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	Bucket     string `yaml:"bucket"`
	Index      string `yaml:"index"`
}

// WithDefaults fills in unset fields for the configured kind.
func (c Config) WithDefaults() Config {
	if c.Kind == "" {
		c.Kind = "jsonl"
	}
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	switch c.Kind {
	case "mongo":
		def(&c.URL, "localhost")
		def(&c.Database, "wp")
		def(&c.Collection, "articles")
	case "couch":
		def(&c.URL, "http://localhost:5984/wikipedia")
	case "couchbase":
		def(&c.URL, "http://localhost:8091/")
		def(&c.Bucket, "default")
	case "elastic":
		def(&c.URL, "http://localhost:9200")
		def(&c.Index, "wikipedia")
	case "jsonl":
		def(&c.URL, "-")
	}
	return c
}

// Open connects to the store described by cfg.
func Open(cfg Config, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.WithDefaults()
	switch cfg.Kind {
	case "mongo":
		return NewMongo(cfg.URL, cfg.Database, cfg.Collection, logger)
	case "couch":
		return NewCouch(cfg.URL, logger)
	case "couchbase":
		return NewCouchbase(cfg.URL, cfg.Bucket, logger)
	case "elastic":
		return NewElastic(cfg.URL, cfg.Index), nil
	case "jsonl":
		if cfg.URL == "-" {
			return NewJSONLines(nopCloser{os.Stdout}), nil
		}
		f, err := os.Create(cfg.URL)
		if err != nil {
			return nil, err
		}
		return NewJSONLines(f), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
}
