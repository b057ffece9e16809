package wikiparse

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// An ArticleFunc receives each extracted article. It is called from
// several goroutines at once.
type ArticleFunc func(ctx context.Context, a *Article) error

// ProcessOptions tune Process. The zero value is usable.
type ProcessOptions struct {
	// Workers is the number of extracting goroutines, GOMAXPROCS if zero.
	Workers int
	// Limit stops after this many main namespace pages; zero means all.
	Limit int
	// ReportEvery logs progress after this many pages; zero means 1000,
	// negative disables it.
	ReportEvery int64

	Logger    *zap.Logger
	Extractor *Extractor

	// OnArticle is called after each article is handled.
	OnArticle func()
}

// Stats count what Process did.
type Stats struct {
	Pages     int64         `json:"pages"`
	Articles  int64         `json:"articles"`
	Redirects int64         `json:"redirects"`
	Skipped   int64         `json:"skipped"`
	Failed    int64         `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

type processCounters struct {
	articles, redirects, skipped, failed atomic.Int64
}

// Process reads every page from r, extracts the main namespace ones and
// hands them to fn on opts.Workers goroutines.
//
// Extraction and fn errors are logged and counted, not returned. The
// returned error is the first read error other than io.EOF, or the
// context's error.
func Process(ctx context.Context, r DumpReader, opts ProcessOptions, fn ArticleFunc) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	reportfreq := opts.ReportEvery
	if reportfreq == 0 {
		reportfreq = 1000
	}

	var c processCounters
	ch := make(chan *Page, 1000)
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for p := range ch {
				handlePage(ctx, logger, opts.Extractor, p, fn, &c)
				if opts.OnArticle != nil {
					opts.OnArticle()
				}
			}
		}()
	}

	var skippedNs int64
	pages, articles := int64(0), 0
	start := time.Now()
	prev := start
	var err error
loop:
	for opts.Limit <= 0 || articles < opts.Limit {
		if err = ctx.Err(); err != nil {
			break
		}
		var page *Page
		page, err = r.Next()
		if err != nil {
			break
		}

		pages++
		if reportfreq > 0 && pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			logger.Info("Processed "+humanize.Comma(pages)+" pages total",
				zap.Float64("pages_per_second", float64(reportfreq)/d.Seconds()))
			prev = now
		}

		if page.Ns != 0 {
			skippedNs++
			continue
		}
		articles++
		select {
		case ch <- page:
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		}
	}
	close(ch)
	wg.Wait()

	if errors.Is(err, io.EOF) {
		err = nil
	}
	st := Stats{
		Pages:     pages,
		Articles:  c.articles.Load(),
		Redirects: c.redirects.Load(),
		Skipped:   skippedNs + c.skipped.Load(),
		Failed:    c.failed.Load(),
		Elapsed:   time.Since(start),
	}
	logger.Info("Ended after "+st.Elapsed.String()+": "+humanize.Comma(pages)+" pages",
		zap.Int64("articles", st.Articles),
		zap.Int64("redirects", st.Redirects),
		zap.Int64("failed", st.Failed),
		zap.Float64("pages_per_second", float64(pages)/st.Elapsed.Seconds()),
		zap.Error(err))
	return st, err
}

func handlePage(ctx context.Context, logger *zap.Logger, e *Extractor,
	p *Page, fn ArticleFunc, c *processCounters) {

	a, err := e.Extract(p)
	switch {
	case errors.Is(err, ErrSkipPage):
		c.skipped.Add(1)
		return
	case err != nil:
		c.failed.Add(1)
		logger.Warn("Cannot parse, skipping", zap.String("title", p.Title), zap.Error(err))
		return
	}

	if a.IsRedirect() {
		c.redirects.Add(1)
	} else {
		c.articles.Add(1)
	}
	if fn == nil {
		return
	}
	if err := fn(ctx, a); err != nil {
		c.failed.Add(1)
		logger.Error("Error handling article", zap.String("title", a.Title), zap.Error(err))
	}
}
