package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wikigold/go-wikiparse"
	"github.com/wikigold/go-wikiparse/store"
)

// RulesConfig points at rule tables to use instead of the built in one.
// YAML wins over the line oriented pair.
type RulesConfig struct {
	Tokens   string `yaml:"tokens"`
	ModeBind string `yaml:"mode_bind"`
	YAML     string `yaml:"yaml"`
}

// Config is the wikigold configuration file.
type Config struct {
	Workers     int          `yaml:"workers"`
	ReportEvery int64        `yaml:"report_every"`
	Limit       int          `yaml:"limit"`
	LogLevel    string       `yaml:"log_level"`
	Rules       RulesConfig  `yaml:"rules"`
	Store       store.Config `yaml:"store"`
}

func defaultConfig() Config {
	return Config{
		Workers:     runtime.GOMAXPROCS(0),
		ReportEvery: 1000,
		LogLevel:    "info",
	}
}

// loadConfig reads path over the defaults. An empty path gives the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

var errHalfRuleTable = errors.New("tokens and mode_bind must be given together")

// ruleTable loads the configured rule table.
func (c Config) ruleTable() (*wikiparse.RuleTable, error) {
	switch {
	case c.Rules.YAML != "":
		return wikiparse.LoadRuleTableYAML(c.Rules.YAML)
	case c.Rules.Tokens != "" && c.Rules.ModeBind != "":
		return wikiparse.LoadRuleTable(c.Rules.Tokens, c.Rules.ModeBind)
	case c.Rules.Tokens != "" || c.Rules.ModeBind != "":
		return nil, errHalfRuleTable
	}
	return wikiparse.DefaultRuleTable(), nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
