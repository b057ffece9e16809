package wikiparse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type slicePages struct {
	pages []*Page
	err   error
}

func (s *slicePages) Next() (*Page, error) {
	if len(s.pages) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	p := s.pages[0]
	s.pages = s.pages[1:]
	return p, nil
}

func (s *slicePages) SiteInfo() SiteInfo { return SiteInfo{} }

func textPage(title, text string) *Page {
	return &Page{Title: title, Revisions: []Revision{{Text: text}}}
}

type collected struct {
	mu       sync.Mutex
	articles map[string]*Article
}

func (c *collected) add(_ context.Context, a *Article) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.articles == nil {
		c.articles = map[string]*Article{}
	}
	c.articles[a.Title] = a
	return nil
}

func TestProcess(t *testing.T) {
	t.Parallel()

	r, err := NewDumpReader(strings.NewReader(testDump))
	require.NoError(t, err)

	var c collected
	st, err := Process(context.Background(), r, ProcessOptions{Workers: 2}, c.add)
	require.NoError(t, err)

	assert.Equal(t, int64(3), st.Pages)
	assert.Equal(t, int64(1), st.Articles)
	assert.Equal(t, int64(1), st.Redirects)
	assert.Equal(t, int64(1), st.Skipped)
	assert.Zero(t, st.Failed)

	require.Len(t, c.articles, 2)
	assert.Equal(t, "Computer_accessibility", c.articles["AccessibleComputing"].RedirectTo)
	assert.Equal(t, []string{"Anarchism is a political philosophy."}, c.articles["Anarchism"].Lines)
}

func TestProcessLimit(t *testing.T) {
	t.Parallel()

	var pages []*Page
	for i := 0; i < 10; i++ {
		pages = append(pages, &Page{Title: "talk", Ns: 1})
		pages = append(pages, textPage(fmt.Sprint("p", i), "text"))
	}

	var calls int
	var mu sync.Mutex
	st, err := Process(context.Background(), &slicePages{pages: pages},
		ProcessOptions{Workers: 3, Limit: 4, OnArticle: func() {
			mu.Lock()
			calls++
			mu.Unlock()
		}}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(8), st.Pages)
	assert.Equal(t, int64(4), st.Articles)
	assert.Equal(t, int64(4), st.Skipped)
	assert.Equal(t, 4, calls)
}

func TestProcessErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	readErr := errors.New("truncated")
	r := &slicePages{
		pages: []*Page{textPage("good", "x"), textPage("bad", "y"), {Title: "norev"}},
		err:   readErr,
	}

	st, err := Process(context.Background(), r, ProcessOptions{Logger: zap.New(core), ReportEvery: -1},
		func(_ context.Context, a *Article) error {
			if a.Title == "Bad" {
				return errors.New("sink full")
			}
			return nil
		})
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, int64(3), st.Pages)
	assert.Equal(t, int64(2), st.Articles)
	assert.Equal(t, int64(1), st.Failed)
	assert.Equal(t, int64(1), st.Skipped)

	entries := logs.FilterMessage("Error handling article").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Bad", entries[0].ContextMap()["title"])
}

func TestProcessCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := Process(ctx, &slicePages{pages: []*Page{textPage("a", "a")}}, ProcessOptions{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Pages)
}

func TestProcessProgress(t *testing.T) {
	t.Parallel()

	var pages []*Page
	for i := 0; i < 5; i++ {
		pages = append(pages, textPage(fmt.Sprint("p", i), "x"))
	}

	core, logs := observer.New(zap.InfoLevel)
	_, err := Process(context.Background(), &slicePages{pages: pages},
		ProcessOptions{Logger: zap.New(core), ReportEvery: 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("Processed 2 pages total").Len())
	assert.Equal(t, 1, logs.FilterMessage("Processed 4 pages total").Len())
}
