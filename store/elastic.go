package store

import (
	"context"
	"strings"
	"sync"

	"github.com/dustin/go-elasticsearch"

	"github.com/wikigold/go-wikiparse"
)

const elasticBatch = 1000

type elasticSink struct {
	index string

	ch        chan *elasticsearch.UpdateInstruction
	done      chan struct{}
	closeOnce sync.Once
}

// NewElastic gets a Sink bulk loading articles into an ElasticSearch
// index, in batches of about a thousand.
func NewElastic(url, index string) Sink {
	s := &elasticSink{
		index: index,
		ch:    make(chan *elasticsearch.UpdateInstruction, elasticBatch),
		done:  make(chan struct{}),
	}
	go s.load(url)
	return s
}

func (s *elasticSink) load(url string) {
	defer close(s.done)

	es := elasticsearch.ElasticSearch{URL: url}
	bulkLoader := es.Bulk()

	counter := 0
	for ui := range s.ch {
		counter++
		if counter > elasticBatch {
			bulkLoader.SendBatch()
			counter = 0
		}
		bulkLoader.Update(ui)
	}
	bulkLoader.Quit()
}

func elasticBody(a *wikiparse.Article) map[string]interface{} {
	links := make([]string, 0, len(a.Links))
	for _, l := range a.Links {
		links = append(links, l.Destination)
	}
	body := map[string]interface{}{
		"author":    a.Author,
		"text":      strings.Join(a.Lines, "\n"),
		"timestamp": a.Timestamp,
		"links":     links,
	}
	if a.IsRedirect() {
		body["redirect_to"] = a.RedirectTo
	}
	return body
}

// Put must not be called after Close.
func (s *elasticSink) Put(ctx context.Context, a *wikiparse.Article) error {
	ui := &elasticsearch.UpdateInstruction{
		Id:    a.Title,
		Index: s.index,
		Type:  "article",
		Body:  elasticBody(a),
	}
	select {
	case s.ch <- ui:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes the last batch.
func (s *elasticSink) Close() error {
	s.closeOnce.Do(func() { close(s.ch) })
	<-s.done
	return nil
}
