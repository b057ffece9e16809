package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wikigold/go-wikiparse"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by all commands once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	tokens     string
	modeBind   string
	rulesYAML  string
	workers    int
	limit      int

	cfg    Config
	logger *zap.Logger
	rules  *wikiparse.RuleTable
	parser *wikiparse.Parser
}

// setup loads the configuration and applies flags that were set on the
// command line over it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("tokens") {
		cfg.Rules.Tokens = a.tokens
	}
	if flags.Changed("mode-bind") {
		cfg.Rules.ModeBind = a.modeBind
	}
	if flags.Changed("rules-yaml") {
		cfg.Rules.YAML = a.rulesYAML
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("limit") {
		cfg.Limit = a.limit
	}
	a.cfg = cfg

	if a.logger, err = newLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if a.rules, err = cfg.ruleTable(); err != nil {
		return err
	}
	g, err := a.rules.Compile()
	if err != nil {
		return err
	}
	a.parser = wikiparse.NewParser(g)
	return nil
}

// newRootCommand creates the root wikigold command with all subcommands.
func newRootCommand(info BuildInfo) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wikigold",
		Short: "Render wikitext to plain text with aligned links",
		Long: `wikigold renders MediaWiki wikitext to plain text lines and records
where each internal link lands in that text.

It parses single pages, walks whole XML dumps (plain, bz2 or indexed
multistream) and loads the results into a store.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&a.tokens, "tokens", "", "token table file")
	pf.StringVar(&a.modeBind, "mode-bind", "", "mode binding table file")
	pf.StringVar(&a.rulesYAML, "rules-yaml", "", "rule table in YAML form")
	pf.IntVar(&a.workers, "workers", 0, "number of parsing workers")
	pf.IntVar(&a.limit, "limit", 0, "stop after this many articles")

	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newTokensCommand(a))
	rootCmd.AddCommand(newRulesCommand(a))
	rootCmd.AddCommand(newTraverseCommand(a))
	rootCmd.AddCommand(newLoadCommand(a))
	rootCmd.AddCommand(newIndexCommand(a))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// readInput reads the named file, or stdin for "-" or no name.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}
