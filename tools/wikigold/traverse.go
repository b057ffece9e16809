package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
)

var errDumpArgs = errors.New("need either a single stream dump, or index and multi-stream")

// openReader opens a single stream dump, or an index and multistream
// dump pair.
func openReader(args []string, workers int) (wikiparse.DumpReader, io.Closer, error) {
	switch len(args) {
	case 1:
		f, err := wikiparse.OpenDump(args[0])
		if err != nil {
			return nil, nil, err
		}
		r, err := wikiparse.NewDumpReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("setting up page reader: %w", err)
		}
		return r, f, nil
	case 2:
		r, err := wikiparse.NewIndexedDumpReader(args[0], args[1], workers)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing multistream reader: %w", err)
		}
		return r, r.(io.Closer), nil
	}
	return nil, nil, errDumpArgs
}

// processOptions builds pipeline options from the configuration, with an
// optional progress bar on stderr.
func (a *app) processOptions(progress bool) (wikiparse.ProcessOptions, *progressbar.ProgressBar) {
	opts := wikiparse.ProcessOptions{
		Workers:     a.cfg.Workers,
		Limit:       a.cfg.Limit,
		ReportEvery: a.cfg.ReportEvery,
		Logger:      a.logger,
		Extractor:   &wikiparse.Extractor{Parser: a.parser},
	}
	if !progress {
		return opts, nil
	}

	total := int64(-1)
	if a.cfg.Limit > 0 {
		total = int64(a.cfg.Limit)
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("articles"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)
	opts.OnArticle = func() { _ = bar.Add(1) }
	// The bar replaces the periodic log lines.
	opts.ReportEvery = -1
	return opts, bar
}

func printStats(w io.Writer, st wikiparse.Stats) {
	fmt.Fprintf(w, "%s pages, %s articles, %s redirects, %s skipped, %s failed in %v\n",
		humanize.Comma(st.Pages), humanize.Comma(st.Articles),
		humanize.Comma(st.Redirects), humanize.Comma(st.Skipped),
		humanize.Comma(st.Failed), st.Elapsed)
}

func newTraverseCommand(a *app) *cobra.Command {
	var labelsPath string
	var progress bool

	cmd := &cobra.Command{
		Use:   "traverse <dump> | <index> <multistream dump>",
		Short: "Parse every article of a dump and report statistics",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closer, err := openReader(args, a.cfg.Workers)
			if err != nil {
				return err
			}
			defer closer.Close()

			a.logger.Info("Got site info", zap.String("site", r.SiteInfo().SiteName),
				zap.String("base", r.SiteInfo().Base))

			opts, bar := a.processOptions(progress)
			var fn wikiparse.ArticleFunc
			var counter *wikiparse.LabelCounter
			if labelsPath != "" {
				counter = wikiparse.NewLabelCounter(nil)
				fn = func(_ context.Context, art *wikiparse.Article) error {
					counter.Observe(art)
					return nil
				}
			}

			st, err := wikiparse.Process(cmd.Context(), r, opts, fn)
			if bar != nil {
				_ = bar.Finish()
			}
			printStats(cmd.OutOrStdout(), st)
			if err != nil {
				return err
			}

			if counter != nil {
				return writeLabels(labelsPath, counter)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&labelsPath, "labels", "", "write link label statistics as JSON to this file")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")

	return cmd
}

func writeLabels(path string, c *wikiparse.LabelCounter) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
