package wikiparse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrSkipPage is returned by Extract for pages that are not articles.
	ErrSkipPage = errors.New("not an article")
	// ErrParse is returned when an article's wikitext could not be parsed.
	ErrParse = errors.New("cannot parse article")
)

// NormalizeTitle turns a page title into its URL form: runs of white
// space become a single underscore and the first letter is upper case.
func NormalizeTitle(title string) string {
	title = strings.Join(strings.Fields(title), "_")
	r, n := utf8.DecodeRuneInString(title)
	if n == 0 {
		return title
	}
	return string(unicode.ToUpper(r)) + title[n:]
}

// An ArticleLink is a link found in an article, with the text it covers.
type ArticleLink struct {
	Line        int    `json:"line"`
	Start       int    `json:"start"`
	Length      int    `json:"length"`
	Destination string `json:"destination"`
	Label       string `json:"label"`
}

// An Article is a main namespace page rendered to plain text.
type Article struct {
	Title      string        `json:"title"`
	PageID     uint64        `json:"page_id"`
	RevisionID uint64        `json:"revision_id,omitempty"`
	Timestamp  string        `json:"timestamp,omitempty"`
	Author     string        `json:"author,omitempty"`
	RedirectTo string        `json:"redirect_to,omitempty"`
	Lines      []string      `json:"lines"`
	Links      []ArticleLink `json:"links"`
	Files      []string      `json:"files,omitempty"`
}

// IsRedirect reports whether the article only points at another.
func (a *Article) IsRedirect() bool {
	return a.RedirectTo != ""
}

// LinksByLine groups the article's links by the line they are on.
func (a *Article) LinksByLine() map[int][]ArticleLink {
	rv := map[int][]ArticleLink{}
	for _, l := range a.Links {
		rv[l.Line] = append(rv[l.Line], l)
	}
	return rv
}

// An Extractor turns dump pages into Articles.
type Extractor struct {
	// Parser renders the wikitext. Nil means the default grammar.
	Parser *Parser
}

func (e *Extractor) parser() *Parser {
	if e == nil || e.Parser == nil {
		return NewParser(nil)
	}
	return e.Parser
}

// Extract renders the newest revision of p. Pages outside the main
// namespace give ErrSkipPage; redirects give an Article with only
// RedirectTo set.
func (e *Extractor) Extract(p *Page) (a *Article, err error) {
	if p.Ns != 0 {
		return nil, ErrSkipPage
	}

	a = &Article{Title: NormalizeTitle(p.Title), PageID: p.ID}
	rev := p.Latest()
	if rev != nil {
		a.RevisionID = rev.ID
		a.Timestamp = rev.Timestamp
		a.Author = rev.Contributor.Username
	}
	if p.Redirect != nil {
		a.RedirectTo = NormalizeTitle(p.Redirect.Title)
		return a, nil
	}
	if rev == nil {
		return nil, fmt.Errorf("%w: %q has no revision", ErrSkipPage, p.Title)
	}

	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("%w %q: %v", ErrParse, p.Title, r)
		}
	}()

	parser := e.parser()
	doc := parser.Parse(rev.Text)
	a.Lines = doc.Lines
	a.Links = make([]ArticleLink, 0, len(doc.Links))
	for _, l := range doc.Links {
		label, ok := doc.LinkText(l)
		if !ok {
			continue
		}
		a.Links = append(a.Links, ArticleLink{
			Line:        l.Line,
			Start:       l.Start,
			Length:      l.Length,
			Destination: NormalizeTitle(l.Destination),
			Label:       label,
		})
	}
	a.Files = parser.Files(rev.Text)
	return a, nil
}
