package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
	"github.com/wikigold/go-wikiparse/store"
)

func newLoadCommand(a *app) *cobra.Command {
	var flags store.Config
	var progress bool

	cmd := &cobra.Command{
		Use:   "load <dump> | <index> <multistream dump>",
		Short: "Parse a dump and load the articles into a store",
		Long: `Parse a dump and load the articles into a store.

Stores are mongo, couch, couchbase, elastic and jsonl. Flags override the
store section of the config file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Store
			f := cmd.Flags()
			override := func(name string, dst *string, v string) {
				if f.Changed(name) {
					*dst = v
				}
			}
			override("store", &cfg.Kind, flags.Kind)
			override("url", &cfg.URL, flags.URL)
			override("db", &cfg.Database, flags.Database)
			override("collection", &cfg.Collection, flags.Collection)
			override("bucket", &cfg.Bucket, flags.Bucket)
			override("index-name", &cfg.Index, flags.Index)
			cfg = cfg.WithDefaults()

			sink, err := store.Open(cfg, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("Loading", zap.String("store", cfg.Kind), zap.String("url", cfg.URL))

			r, closer, err := openReader(args, a.cfg.Workers)
			if err != nil {
				sink.Close()
				return err
			}
			defer closer.Close()

			opts, bar := a.processOptions(progress)
			st, err := wikiparse.Process(cmd.Context(), r, opts, sink.Put)
			if bar != nil {
				_ = bar.Finish()
			}
			printStats(cmd.ErrOrStderr(), st)
			if cerr := sink.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.Kind, "store", "jsonl", "mongo, couch, couchbase, elastic or jsonl")
	fl.StringVar(&flags.URL, "url", "", "store URL, or output file for jsonl")
	fl.StringVar(&flags.Database, "db", "", "mongo database name")
	fl.StringVar(&flags.Collection, "collection", "", "mongo collection")
	fl.StringVar(&flags.Bucket, "bucket", "", "couchbase bucket")
	fl.StringVar(&flags.Index, "index-name", "", "elasticsearch index")
	fl.BoolVar(&progress, "progress", false, "show a progress bar")

	return cmd
}
