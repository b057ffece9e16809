package wikiparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown labels text that precedes a match and belongs to no rule.
const Unknown = "UNKNOWN"

// A Token is a labeled piece of wikitext.
type Token struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// A Rule pairs a regular expression with the label it produces.
type Rule struct {
	Pattern string
	Label   string
}

// A Lexer matches an ordered list of rules as a single alternation.
//
// The earliest match in the text wins. When several rules match at the
// same position the one added first wins, so rule order is significant.
type Lexer struct {
	rules  []Rule
	groups []int // capture group index of each rule
	re     *regexp.Regexp
}

// NewLexer gets an empty lexer.
func NewLexer() *Lexer {
	return &Lexer{}
}

// Add appends a rule. It panics if the lexer was already built.
func (l *Lexer) Add(pattern, label string) {
	if l.re != nil {
		panic("wikiparse: rule " + label + " added after Build")
	}
	l.rules = append(l.rules, Rule{Pattern: pattern, Label: label})
}

// Rules returns the rules in priority order.
func (l *Lexer) Rules() []Rule {
	return append([]Rule(nil), l.rules...)
}

// Build compiles the rules.
func (l *Lexer) Build() error {
	if len(l.rules) == 0 {
		return fmt.Errorf("%w: lexer has no rules", ErrGrammar)
	}

	parts := make([]string, 0, len(l.rules))
	groups := make([]int, 0, len(l.rules))
	group := 1
	for _, r := range l.rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("%w: rule %s: %v", ErrGrammar, r.Label, err)
		}
		if re.MatchString("") {
			return fmt.Errorf("%w: rule %s matches empty text", ErrGrammar, r.Label)
		}
		parts = append(parts, "("+r.Pattern+")")
		groups = append(groups, group)
		group += 1 + re.NumSubexp()
	}

	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGrammar, err)
	}
	l.re = re
	l.groups = groups
	return nil
}

// Advance finds the next token in text, taking text to start a line.
//
// prefix holds the unmatched text before the token and rest the text after
// it. ok is false when no rule matches anywhere in text; the whole of text
// is then unmatched.
func (l *Lexer) Advance(text string) (prefix string, tok Token, rest string, ok bool) {
	return l.advance(text, true)
}

// AdvanceMidLine is Advance for text that continues a line, so rules
// anchored with (?m)^ cannot match at its very start.
func (l *Lexer) AdvanceMidLine(text string) (prefix string, tok Token, rest string, ok bool) {
	return l.advance(text, false)
}

// midLineMark is put in front of text that continues a line.
const midLineMark = "\x00"

func (l *Lexer) advance(text string, lineStart bool) (prefix string, tok Token, rest string, ok bool) {
	if l.re == nil {
		panic("wikiparse: Advance called before Build")
	}

	var loc []int
	if !lineStart {
		loc = l.re.FindStringSubmatchIndex(midLineMark + text)
		switch {
		case loc == nil:
		case loc[0] < len(midLineMark):
			// A rule took in the mark itself.
			loc = l.re.FindStringSubmatchIndex(text)
		default:
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] -= len(midLineMark)
				}
			}
		}
	} else {
		loc = l.re.FindStringSubmatchIndex(text)
	}
	if loc == nil {
		return "", Token{}, text, false
	}
	if loc[0] == loc[1] {
		panic(fmt.Sprintf("wikiparse: empty match at %d", loc[0]))
	}

	for i, g := range l.groups {
		if loc[2*g] >= 0 {
			tok = Token{Label: l.rules[i].Label, Text: text[loc[2*g]:loc[2*g+1]]}
			break
		}
	}
	return text[:loc[0]], tok, text[loc[1]:], true
}
