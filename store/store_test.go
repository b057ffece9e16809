package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikigold/go-wikiparse"
)

var testArticle = &wikiparse.Article{
	Title:      "Dog",
	PageID:     4269567,
	RevisionID: 77,
	Timestamp:  "2017-01-01T00:00:00Z",
	Author:     "Someone",
	Lines:      []string{"The dog is a mammal.", "Dogs bark."},
	Links: []wikiparse.ArticleLink{
		{Line: 0, Start: 13, Length: 6, Destination: "Mammal", Label: "mammal"},
	},
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	r := NewRecord(testArticle)
	assert.Equal(t, "Dog", r.Title)
	assert.Equal(t, uint64(77), r.RevisionID)
	assert.Equal(t, testArticle.Lines, r.Lines)
	assert.Equal(t, []Link{{Line: 0, Start: 13, Length: 6, Destination: "Mammal", Label: "mammal"}}, r.Links)

	redirect := NewRecord(&wikiparse.Article{Title: "Doggy", RedirectTo: "Dog"})
	assert.Empty(t, redirect.Links)
	assert.Equal(t, "Dog", redirect.RedirectTo)
}

func TestJSONLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewJSONLines(nopCloser{&buf})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Put(context.Background(), testArticle))
		}()
	}
	wg.Wait()
	require.NoError(t, s.Close())

	sc := bufio.NewScanner(&buf)
	n := 0
	for sc.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		assert.Equal(t, *NewRecord(testArticle), r)
		n++
	}
	assert.Equal(t, 5, n)
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want Config
	}{
		{Config{}, Config{Kind: "jsonl", URL: "-"}},
		{Config{Kind: "mongo"}, Config{Kind: "mongo", URL: "localhost", Database: "wp", Collection: "articles"}},
		{Config{Kind: "mongo", Database: "enwiki"},
			Config{Kind: "mongo", URL: "localhost", Database: "enwiki", Collection: "articles"}},
		{Config{Kind: "couch"}, Config{Kind: "couch", URL: "http://localhost:5984/wikipedia"}},
		{Config{Kind: "couchbase"}, Config{Kind: "couchbase", URL: "http://localhost:8091/", Bucket: "default"}},
		{Config{Kind: "elastic", URL: "http://es:9200"},
			Config{Kind: "elastic", URL: "http://es:9200", Index: "wikipedia"}},
		{Config{Kind: "other"}, Config{Kind: "other"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.WithDefaults(), tt.in.Kind)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{Kind: "cassandra"}, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)

	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := Open(Config{Kind: "jsonl", URL: path}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), testArticle))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"Dog"`)
	assert.Contains(t, string(data), `"destination":"Mammal"`)

	_, err = Open(Config{Kind: "jsonl", URL: filepath.Join(t.TempDir(), "no", "such", "dir")}, nil)
	assert.Error(t, err)
}

func TestEscapeTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AC%2fDC", escapeTitle("AC/DC"))
	assert.Equal(t, "C%2b%2b", escapeTitle("C++"))
	assert.Equal(t, "Plain", escapeTitle("Plain"))
}

func TestElasticBody(t *testing.T) {
	t.Parallel()

	body := elasticBody(testArticle)
	assert.Equal(t, "The dog is a mammal.\nDogs bark.", body["text"])
	assert.Equal(t, []string{"Mammal"}, body["links"])
	assert.Equal(t, "Someone", body["author"])
	assert.NotContains(t, body, "redirect_to")

	body = elasticBody(&wikiparse.Article{Title: "Doggy", RedirectTo: "Dog"})
	assert.Equal(t, "Dog", body["redirect_to"])
	assert.Equal(t, []string{}, body["links"])
}
