package wikiparse

import (
	"iter"
	"sync"
	"sync/atomic"
)

// A Parser renders wikitext into Documents using a Grammar.
//
// A Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	g *Grammar
}

// NewParser gets a Parser for g. A nil g means DefaultGrammar.
func NewParser(g *Grammar) *Parser {
	if g == nil {
		g = DefaultGrammar()
	}
	return &Parser{g: g}
}

// Grammar returns the grammar the parser tokenizes with.
func (p *Parser) Grammar() *Grammar {
	return p.g
}

// Parse renders wikitext into a trimmed Document.
func (p *Parser) Parse(wikitext string) *Document {
	d := p.ParseUntrimmed(wikitext)
	d.Trim()
	return d
}

// ParseUntrimmed is Parse without dropping leading and trailing empty
// lines.
func (p *Parser) ParseUntrimmed(wikitext string) *Document {
	b := newBuilder()
	for tok := range p.Tokens(wikitext) {
		b.handle(tok)
	}
	return b.finish()
}

// Tokens yields the raw tokens of wikitext.
func (p *Parser) Tokens(wikitext string) iter.Seq[Token] {
	return p.g.NewModeLexer().Tokenize(wikitext)
}

var (
	defaultGrammar atomic.Pointer[Grammar]

	builtinOnce    sync.Once
	builtinGrammar *Grammar
)

// DefaultGrammar returns the grammar used by Parse. Until SetDefaultGrammar
// is called this is the built in rule table.
func DefaultGrammar() *Grammar {
	if g := defaultGrammar.Load(); g != nil {
		return g
	}
	builtinOnce.Do(func() {
		g, err := DefaultRuleTable().Compile()
		if err != nil {
			panic("wikiparse: built in grammar: " + err.Error())
		}
		builtinGrammar = g
	})
	defaultGrammar.CompareAndSwap(nil, builtinGrammar)
	return defaultGrammar.Load()
}

// SetDefaultGrammar replaces the grammar used by Parse. g must be built.
func SetDefaultGrammar(g *Grammar) {
	if g == nil || !g.built {
		panic("wikiparse: SetDefaultGrammar needs a built grammar")
	}
	defaultGrammar.Store(g)
}

// Parse renders wikitext with the default grammar.
func Parse(wikitext string) *Document {
	return NewParser(nil).Parse(wikitext)
}
