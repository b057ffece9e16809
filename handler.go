package wikiparse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var namespaceRE = regexp.MustCompile(`(?i)^[a-z]+:`)

// A builder turns a token stream into a Document.
//
// While a tag is open all text goes into that tag; otherwise it goes to
// the last line. lines is never empty.
type builder struct {
	tags  tagStack
	lines []string
	links []Link

	previous, current string

	// linked is set by the token that recorded the last link, afterLink
	// while handling the token right after it.
	linked, afterLink bool

	titled int // number of the next untitled external link
}

func newBuilder() *builder {
	return &builder{lines: []string{""}, titled: 1}
}

type handlerFunc func(b *builder, text string) error

var handlers = map[string]handlerFunc{
	"unknown":      (*builder).unknown,
	"nbsp":         (*builder).nbsp,
	"wikilink":     (*builder).wikilink,
	"wikilink_end": (*builder).wikilinkEnd,
	"genericlink":  (*builder).genericLink,
	"titledlink":   (*builder).titledLink,
	"header":       (*builder).header,
	"header_end":   (*builder).headerEnd,
	"header_break": (*builder).headerBreak,
	"list":         (*builder).list,
	"ref":          (*builder).ref,
	"ref_single":   (*builder).ref,
	"ref_end":      closeTag(tagRef),

	"doublebraces":     openTag(tagDoubleBraces),
	"doublebraces_end": closeTag(tagDoubleBraces),
	"table":            openTag(tagTable),
	"table_end":        closeTag(tagTable),
	"comment":          openTag(tagComment),
	"comment_end":      closeTag(tagComment),
	"div":              openTag(tagDiv),
	"div_end":          closeTag(tagDiv),
	"gallery":          openTag(tagGallery),
	"gallery_end":      closeTag(tagGallery),
	"score":            openTag(tagScore),
	"score_end":        closeTag(tagScore),
	"math":             openTag(tagMath),
	"math_end":         closeTag(tagMath),
}

func openTag(kind tagKind) handlerFunc {
	return func(b *builder, text string) error {
		b.tags.push(kind, text)
		return nil
	}
}

// closeTag drops everything the tag collected.
func closeTag(kind tagKind) handlerFunc {
	return func(b *builder, _ string) error {
		_, err := b.tags.pop(kind)
		return err
	}
}

// handle feeds one token to the builder. Labels without a handler are
// ignored.
func (b *builder) handle(tok Token) {
	b.previous, b.current = b.current, strings.ToLower(tok.Label)
	b.afterLink, b.linked = b.linked, false

	h, ok := handlers[b.current]
	if !ok {
		return
	}
	err := h(b, tok.Text)
	if errors.Is(err, ErrTagMismatch) {
		// A closer with nothing to close is plain text.
		b.previous, b.current = b.current, strings.ToLower(Unknown)
		b.afterLink = false
		err = b.unknown(tok.Text)
	}
	if err != nil {
		panic(fmt.Sprintf("wikiparse: handling %s: %v", tok.Label, err))
	}
}

// finish closes whatever is still open and returns the untrimmed document.
func (b *builder) finish() *Document {
	for len(b.tags) > 0 {
		t := b.tags[len(b.tags)-1]
		b.tags = b.tags[:len(b.tags)-1]
		if t.kind == tagWikilink || t.kind == tagHeader {
			b.appendContent(t.marker + t.content.String())
		}
	}
	b.endLine()
	return &Document{Lines: b.lines, Links: b.links}
}

func (b *builder) line() string {
	return b.lines[len(b.lines)-1]
}

func (b *builder) lineBlank() bool {
	return strings.Trim(b.line(), " \t") == ""
}

// endLine drops trailing blanks from the current line.
func (b *builder) endLine() {
	b.lines[len(b.lines)-1] = strings.TrimRight(b.line(), " ")
}

func (b *builder) breakLine() {
	b.endLine()
	b.lines = append(b.lines, "")
}

// appendToLine adds text to the current line with runs of white space
// collapsed to a single space.
func (b *builder) appendToLine(text string) {
	if text == "" {
		return
	}
	cur := b.line()
	spaced := cur != "" && !strings.HasSuffix(cur, " ")

	words := strings.Fields(text)
	if len(words) == 0 {
		if spaced {
			cur += " "
		}
		b.lines[len(b.lines)-1] = cur
		return
	}

	first, _ := utf8.DecodeRuneInString(text)
	if spaced && unicode.IsSpace(first) {
		cur += " "
	}
	cur += strings.Join(words, " ")
	last, _ := utf8.DecodeLastRuneInString(text)
	if unicode.IsSpace(last) {
		cur += " "
	}
	b.lines[len(b.lines)-1] = cur
}

// appendContent writes text to the open tag, or to the document. In the
// document a blank line starts a new paragraph while a single newline
// joins the next line onto the current one.
func (b *builder) appendContent(text string) {
	if t := b.tags.top(); t != nil {
		t.content.WriteString(text)
		return
	}

	segs := strings.Split(text, "\n")
	b.appendToLine(segs[0])
	for _, seg := range segs[1:] {
		if seg == "" && b.line() != "" {
			b.breakLine()
			continue
		}
		if cur := b.line(); cur != "" && !strings.HasSuffix(cur, " ") {
			b.lines[len(b.lines)-1] = cur + " "
		}
		b.appendToLine(seg)
	}
}

func (b *builder) unknown(text string) error {
	// A run of letters right after a link belongs to it: [[dog]]s.
	if b.afterLink && len(b.links) > 0 {
		n := 0
		for _, r := range text {
			if !unicode.IsLetter(r) {
				break
			}
			n++
		}
		b.links[len(b.links)-1].Length += n
	}
	b.appendContent(text)
	return nil
}

func (b *builder) nbsp(string) error {
	b.appendContent(" ")
	return nil
}

func (b *builder) wikilink(text string) error {
	b.tags.push(tagWikilink, text)
	return nil
}

func (b *builder) wikilinkEnd(text string) error {
	t, err := b.tags.pop(tagWikilink)
	if err != nil {
		return err
	}
	content := t.content.String()

	// Links cannot span lines.
	if strings.Contains(content, "\n") {
		b.appendContent(t.marker + content + text)
		return nil
	}

	dest, label, _ := strings.Cut(content, "|")
	dest = strings.TrimSpace(dest)
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		label = strings.Join(strings.Fields(dest), " ")
	}

	// File:, Category:, interwiki and the like are not article links.
	if namespaceRE.MatchString(dest) {
		return nil
	}
	// [[]] renders nothing, so there is nothing to anchor a link to.
	if label == "" {
		return nil
	}

	if len(b.tags) == 0 {
		b.links = append(b.links, Link{
			Line:        len(b.lines) - 1,
			Start:       utf8.RuneCountInString(b.line()),
			Length:      utf8.RuneCountInString(label),
			Destination: dest,
		})
		b.linked = true
	}
	b.appendContent(label)
	return nil
}

func (b *builder) genericLink(text string) error {
	b.appendContent(text)
	return nil
}

// titledLink renders [url title] as title and [url] as a running number.
func (b *builder) titledLink(text string) error {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	inner = strings.TrimLeftFunc(inner, unicode.IsSpace)

	title := ""
	if i := strings.IndexFunc(inner, unicode.IsSpace); i >= 0 {
		title = strings.TrimSpace(inner[i:])
	}
	if title == "" {
		title = fmt.Sprintf("[%d]", b.titled)
		b.titled++
	}
	b.appendContent(title)
	return nil
}

// header opens a header only at the start of a line.
func (b *builder) header(text string) error {
	if !b.lineBlank() {
		b.appendContent(text)
		return nil
	}
	b.tags.push(tagHeader, text)
	return nil
}

func (b *builder) headerEnd(string) error {
	t, err := b.tags.pop(tagHeader)
	if err != nil {
		return err
	}
	b.appendContent(strings.TrimSpace(t.content.String()))
	b.breakLine()
	return nil
}

// headerBreak ends the line of a header that was never closed.
func (b *builder) headerBreak(text string) error {
	if t := b.tags.top(); t != nil && t.kind == tagHeader {
		b.tags = b.tags[:len(b.tags)-1]
		b.appendContent(t.marker + t.content.String())
	}
	b.appendContent(text)
	return nil
}

// list drops list and indent markers at the start of a line.
func (b *builder) list(text string) error {
	if !b.lineBlank() {
		b.appendContent(text)
	}
	return nil
}

func (b *builder) ref(text string) error {
	if strings.HasSuffix(text, "/>") {
		return nil
	}
	b.tags.push(tagRef, text)
	return nil
}
