package wikiparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTagMismatch is returned when a closing token has no matching open tag.
var ErrTagMismatch = errors.New("tag mismatch")

type tagKind uint8

const (
	tagWikilink tagKind = iota
	tagHeader
	tagRef
	tagTable
	tagComment
	tagDiv
	tagGallery
	tagScore
	tagDoubleBraces
	tagMath
)

var tagNames = [...]string{
	tagWikilink:     "wikilink",
	tagHeader:       "header",
	tagRef:          "ref",
	tagTable:        "table",
	tagComment:      "comment",
	tagDiv:          "div",
	tagGallery:      "gallery",
	tagScore:        "score",
	tagDoubleBraces: "doublebraces",
	tagMath:         "math",
}

func (k tagKind) String() string {
	if int(k) < len(tagNames) {
		return tagNames[k]
	}
	return fmt.Sprintf("tagKind(%d)", int(k))
}

// A tag is an open construct collecting everything written while it is on
// top of the stack.
type tag struct {
	kind    tagKind
	marker  string // the opening token text
	content strings.Builder
}

type tagStack []*tag

func (s *tagStack) push(kind tagKind, marker string) {
	*s = append(*s, &tag{kind: kind, marker: marker})
}

func (s tagStack) top() *tag {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// pop removes the top tag if it is of the expected kind.
func (s *tagStack) pop(expect tagKind) (*tag, error) {
	t := s.top()
	if t == nil {
		return nil, fmt.Errorf("%w: %s closed with nothing open", ErrTagMismatch, expect)
	}
	if t.kind != expect {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrTagMismatch, expect, t.kind)
	}
	*s = (*s)[:len(*s)-1]
	return t, nil
}
