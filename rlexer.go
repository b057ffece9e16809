package wikiparse

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
)

// BaseMode is the mode every document starts in.
const BaseMode = "base"

// ErrGrammar is returned for rules that cannot form a working grammar.
var ErrGrammar = errors.New("invalid grammar")

// TransitionOp says what a matched token does to the mode stack.
type TransitionOp int

const (
	Push TransitionOp = iota + 1
	Pop
)

func (op TransitionOp) String() string {
	switch op {
	case Push:
		return "push"
	case Pop:
		return "pop"
	}
	return fmt.Sprintf("TransitionOp(%d)", int(op))
}

// A Transition is applied to the mode stack after its token matches.
type Transition struct {
	Op   TransitionOp
	Mode string // target mode of a Push
}

// A Grammar holds one Lexer per mode and the transitions between modes.
//
// A built Grammar is read-only and may be shared by any number of
// ModeLexers running concurrently.
type Grammar struct {
	lexers      map[string]*Lexer
	transitions map[string]map[string]Transition
	built       bool
}

// NewGrammar gets an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		lexers:      map[string]*Lexer{},
		transitions: map[string]map[string]Transition{},
	}
}

// AddRule binds a rule to a mode. t may be nil when the token leaves the
// mode stack alone.
func (g *Grammar) AddRule(mode, pattern, label string, t *Transition) {
	if g.built {
		panic("wikiparse: rule " + label + " added after Build")
	}
	lx, ok := g.lexers[mode]
	if !ok {
		lx = NewLexer()
		g.lexers[mode] = lx
		g.transitions[mode] = map[string]Transition{}
	}
	lx.Add(pattern, label)
	if t != nil {
		g.transitions[mode][label] = *t
	}
}

// Build compiles every mode and checks that all transitions are sound.
func (g *Grammar) Build() error {
	if _, ok := g.lexers[BaseMode]; !ok {
		return fmt.Errorf("%w: no %q mode", ErrGrammar, BaseMode)
	}
	for _, mode := range g.Modes() {
		if err := g.lexers[mode].Build(); err != nil {
			return fmt.Errorf("mode %s: %w", mode, err)
		}
		for label, t := range g.transitions[mode] {
			switch t.Op {
			case Push:
				if _, ok := g.lexers[t.Mode]; !ok {
					return fmt.Errorf("%w: %s in mode %s pushes unknown mode %q",
						ErrGrammar, label, mode, t.Mode)
				}
			case Pop:
				if mode == BaseMode {
					return fmt.Errorf("%w: %s would pop the %s mode",
						ErrGrammar, label, BaseMode)
				}
			default:
				return fmt.Errorf("%w: %s has no transition op", ErrGrammar, label)
			}
		}
	}
	g.built = true
	return nil
}

// Modes lists the declared modes, sorted.
func (g *Grammar) Modes() []string {
	rv := make([]string, 0, len(g.lexers))
	for m := range g.lexers {
		rv = append(rv, m)
	}
	sort.Strings(rv)
	return rv
}

// Rules returns the rules active in mode, in priority order.
func (g *Grammar) Rules(mode string) []Rule {
	if lx, ok := g.lexers[mode]; ok {
		return lx.Rules()
	}
	return nil
}

// NewModeLexer gets a lexer over this grammar for a single document.
func (g *Grammar) NewModeLexer() *ModeLexer {
	if !g.built {
		panic("wikiparse: grammar used before Build")
	}
	return &ModeLexer{g: g, stack: []string{BaseMode}}
}

// A ModeLexer tokenizes one document, switching modes as tokens demand.
type ModeLexer struct {
	g       *Grammar
	stack   []string
	doc     string
	midLine bool // doc does not start a line
	pending *Token
}

// Consume resets the lexer to the base mode over doc.
func (m *ModeLexer) Consume(doc string) {
	m.stack = append(m.stack[:0], BaseMode)
	m.doc = doc
	m.midLine = false
	m.pending = nil
}

// Mode returns the active mode.
func (m *ModeLexer) Mode() string {
	return m.stack[len(m.stack)-1]
}

// Stack returns a copy of the mode stack, base first.
func (m *ModeLexer) Stack() []string {
	return append([]string(nil), m.stack...)
}

// Advance returns the next token. ok is false once the document is done.
func (m *ModeLexer) Advance() (tok Token, ok bool) {
	if m.pending != nil {
		tok, m.pending = *m.pending, nil
		return tok, true
	}
	if m.doc == "" {
		return Token{}, false
	}

	mode := m.Mode()
	lx := m.g.lexers[mode]
	advance := lx.Advance
	if m.midLine {
		advance = lx.AdvanceMidLine
	}
	prefix, tok, rest, found := advance(m.doc)
	if !found {
		tok = Token{Label: Unknown, Text: m.doc}
		m.doc = ""
		return tok, true
	}
	m.doc = rest
	m.midLine = !strings.HasSuffix(tok.Text, "\n")

	if t, ok := m.g.transitions[mode][tok.Label]; ok {
		switch t.Op {
		case Push:
			m.stack = append(m.stack, t.Mode)
		case Pop:
			if len(m.stack) == 1 {
				// Build rejects grammars that can get here.
				panic("wikiparse: cannot pop " + BaseMode + " mode")
			}
			m.stack = m.stack[:len(m.stack)-1]
		}
	}

	if prefix != "" {
		next := tok
		m.pending = &next
		return Token{Label: Unknown, Text: prefix}, true
	}
	return tok, true
}

// Tokenize yields the tokens of doc in order. The sequence can be ranged
// over once.
func (m *ModeLexer) Tokenize(doc string) iter.Seq[Token] {
	m.Consume(doc)
	return func(yield func(Token) bool) {
		for {
			tok, ok := m.Advance()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}
