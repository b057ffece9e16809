package wikiparse

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules/tokens rules/mode_bind
var defaultRuleFiles embed.FS

// ErrRuleTable is returned for malformed rule tables.
var ErrRuleTable = errors.New("bad rule table")

// A TokenDef declares a token label and its pattern.
type TokenDef struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
	Push    string `yaml:"push,omitempty"`
	Pop     bool   `yaml:"pop,omitempty"`
}

// Transition returns the mode stack transition of the token, or nil.
func (d TokenDef) Transition() *Transition {
	switch {
	case d.Pop:
		return &Transition{Op: Pop}
	case d.Push != "":
		return &Transition{Op: Push, Mode: d.Push}
	}
	return nil
}

// A ModeBinding lists the token labels active in a mode.
type ModeBinding struct {
	Mode   string   `yaml:"mode"`
	Labels []string `yaml:"labels,flow"`
}

// A RuleTable is the declarative form of a Grammar.
type RuleTable struct {
	Tokens []TokenDef    `yaml:"tokens"`
	Modes  []ModeBinding `yaml:"modes"`
}

// ParseRuleTable reads the line oriented token and mode binding tables.
//
// Each token line is "label pattern"; the label may end in ">mode" to push
// mode or in "<" to pop. Each binding line is "mode label...". Blank lines
// and lines starting with # are ignored.
func ParseRuleTable(tokens, modeBind io.Reader) (*RuleTable, error) {
	rt := &RuleTable{}

	err := scanLines(tokens, "tokens", func(where, line string) error {
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			return fmt.Errorf("%w: %s: no pattern", ErrRuleTable, where)
		}
		def := TokenDef{
			Label:   line[:i],
			Pattern: strings.TrimLeft(line[i:], " \t"),
		}
		if name, next, ok := strings.Cut(def.Label, ">"); ok {
			if next == "" {
				return fmt.Errorf("%w: %s: empty push target", ErrRuleTable, where)
			}
			def.Label, def.Push = name, next
		} else if strings.HasSuffix(def.Label, "<") {
			def.Label, def.Pop = strings.TrimSuffix(def.Label, "<"), true
		}
		if def.Label == "" {
			return fmt.Errorf("%w: %s: empty label", ErrRuleTable, where)
		}
		rt.Tokens = append(rt.Tokens, def)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = scanLines(modeBind, "mode_bind", func(where, line string) error {
		f := strings.Fields(line)
		rt.Modes = append(rt.Modes, ModeBinding{Mode: f[0], Labels: f[1:]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func scanLines(r io.Reader, name string, fn func(where, line string) error) error {
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimRight(s.Text(), " \t\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if err := fn(fmt.Sprintf("%s:%d", name, n), line); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}

// LoadRuleTable reads the two tables from files.
func LoadRuleTable(tokensPath, modeBindPath string) (*RuleTable, error) {
	tf, err := os.Open(tokensPath)
	if err != nil {
		return nil, err
	}
	defer tf.Close()

	mf, err := os.Open(modeBindPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	return ParseRuleTable(tf, mf)
}

// ParseRuleTableYAML reads a rule table in YAML form.
func ParseRuleTableYAML(r io.Reader) (*RuleTable, error) {
	rt := &RuleTable{}
	if err := yaml.NewDecoder(r).Decode(rt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleTable, err)
	}
	return rt, nil
}

// LoadRuleTableYAML reads a YAML rule table file.
func LoadRuleTableYAML(path string) (*RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rt, err := ParseRuleTableYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rt, nil
}

// DefaultRuleTable returns the built in rule table.
func DefaultRuleTable() *RuleTable {
	tf, err := defaultRuleFiles.Open("rules/tokens")
	if err != nil {
		panic(err)
	}
	defer tf.Close()
	mf, err := defaultRuleFiles.Open("rules/mode_bind")
	if err != nil {
		panic(err)
	}
	defer mf.Close()

	rt, err := ParseRuleTable(tf, mf)
	if err != nil {
		panic(fmt.Sprintf("invalid built in rule table: %v", err))
	}
	return rt
}

// Compile builds a Grammar from the table, keeping the declared order.
func (rt *RuleTable) Compile() (*Grammar, error) {
	defs := make(map[string]TokenDef, len(rt.Tokens))
	for _, d := range rt.Tokens {
		if _, dup := defs[d.Label]; dup {
			return nil, fmt.Errorf("%w: token %s defined twice", ErrRuleTable, d.Label)
		}
		defs[d.Label] = d
	}

	g := NewGrammar()
	bound := map[string]map[string]bool{}
	for _, mb := range rt.Modes {
		if bound[mb.Mode] == nil {
			bound[mb.Mode] = map[string]bool{}
		}
		for _, label := range mb.Labels {
			d, ok := defs[label]
			if !ok {
				return nil, fmt.Errorf("%w: mode %s binds unknown token %s",
					ErrRuleTable, mb.Mode, label)
			}
			if bound[mb.Mode][label] {
				return nil, fmt.Errorf("%w: mode %s binds %s twice",
					ErrRuleTable, mb.Mode, label)
			}
			bound[mb.Mode][label] = true
			g.AddRule(mb.Mode, d.Pattern, d.Label, d.Transition())
		}
	}

	if err := g.Build(); err != nil {
		return nil, err
	}
	return g, nil
}

// WriteText writes the table in the line oriented form accepted by
// ParseRuleTable: the token table, then the mode bindings.
func (rt *RuleTable) WriteText(tokens, modeBind io.Writer) error {
	for _, d := range rt.Tokens {
		label := d.Label
		switch {
		case d.Pop:
			label += "<"
		case d.Push != "":
			label += ">" + d.Push
		}
		if _, err := fmt.Fprintf(tokens, "%s %s\n", label, d.Pattern); err != nil {
			return err
		}
	}
	for _, mb := range rt.Modes {
		if _, err := fmt.Fprintf(modeBind, "%s %s\n", mb.Mode, strings.Join(mb.Labels, " ")); err != nil {
			return err
		}
	}
	return nil
}
