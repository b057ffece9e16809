package wikiparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerAdvance(t *testing.T) {
	t.Parallel()

	l := NewLexer()
	l.Add(`\[\[`, "open")
	l.Add(`\]\]`, "close")
	l.Add(`(a)(b)`, "ab")
	l.Add(`b`, "b")
	require.NoError(t, l.Build())

	tests := []struct {
		name   string
		text   string
		prefix string
		tok    Token
		rest   string
		ok     bool
	}{
		{"match at start", "[[x]]", "", Token{"open", "[["}, "x]]", true},
		{"prefix", "xy]] z", "xy", Token{"close", "]]"}, " z", true},
		{"groups inside rules", "zab", "z", Token{"ab", "ab"}, "", true},
		{"rule after groups", "zzb!", "zz", Token{"b", "b"}, "!", true},
		{"no match", "plain", "", Token{}, "plain", false},
		{"earliest wins", "b[[", "", Token{"b", "b"}, "[[", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, tok, rest, ok := l.Advance(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.tok, tok)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestLexerLineAnchors(t *testing.T) {
	t.Parallel()

	l := NewLexer()
	l.Add(`(?m)^=+`, "header")
	l.Add(`\]\]`, "close")
	l.Add(`[^\]]x`, "anyx")
	require.NoError(t, l.Build())

	tests := []struct {
		name      string
		text      string
		lineStart bool
		prefix    string
		tok       Token
		ok        bool
	}{
		{"line start", "== a", true, "", Token{"header", "=="}, true},
		{"mid line", "== a", false, "", Token{}, false},
		{"mid line then new line", "= a\n== b", false, "= a\n", Token{"header", "=="}, true},
		{"mid line before other rule", "= a]]", false, "= a", Token{"close", "]]"}, true},
		{"rule needing a character before", "x", false, "", Token{}, false},
		{"offsets after the mark", "ab]]", false, "ab", Token{"close", "]]"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advance := l.AdvanceMidLine
			if tt.lineStart {
				advance = l.Advance
			}
			prefix, tok, _, ok := advance(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.tok, tok)
		})
	}
}

func TestLexerFirstRuleWinsTies(t *testing.T) {
	t.Parallel()

	l := NewLexer()
	l.Add(`=`, "one")
	l.Add(`={2}`, "two")
	require.NoError(t, l.Build())

	_, tok, rest, ok := l.Advance("==")
	require.True(t, ok)
	assert.Equal(t, Token{"one", "="}, tok)
	assert.Equal(t, "=", rest)
}

func TestLexerBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []Rule
	}{
		{"no rules", nil},
		{"bad pattern", []Rule{{Pattern: `(`, Label: "x"}}},
		{"empty match", []Rule{{Pattern: `a*`, Label: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer()
			for _, r := range tt.rules {
				l.Add(r.Pattern, r.Label)
			}
			assert.ErrorIs(t, l.Build(), ErrGrammar)
		})
	}
}

func TestLexerPanics(t *testing.T) {
	t.Parallel()

	l := NewLexer()
	l.Add(`a`, "a")
	assert.Panics(t, func() { l.Advance("a") })

	require.NoError(t, l.Build())
	assert.Panics(t, func() { l.Add(`b`, "b") })
	assert.Equal(t, []Rule{{Pattern: `a`, Label: "a"}}, l.Rules())
}
