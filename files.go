package wikiparse

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var fileRE = regexp.MustCompile(`(?is)^\s*(?:file|image)\s*:\s*(.*\S)`)

// Files finds the names of the files an article body links to with
// [[File:...]] or [[Image:...]].
//
// Links inside comments, nowiki, templates and references are not
// reported.
func (p *Parser) Files(text string) []string {
	rv := []string{}
	var target *strings.Builder
	depth, hidden := 0, 0

	for tok := range p.Tokens(text) {
		switch tok.Label {
		case "comment", "nowiki":
			hidden++
		case "comment_end", "nowiki_end":
			if hidden > 0 {
				hidden--
			}
		case "wikilink":
			depth++
			if depth == 1 && hidden == 0 {
				target = &strings.Builder{}
			}
		case "wikilink_end":
			if depth == 0 {
				continue
			}
			depth--
			if depth > 0 || target == nil {
				continue
			}
			name, _, _ := strings.Cut(target.String(), "|")
			if m := fileRE.FindStringSubmatch(name); m != nil {
				rv = append(rv, m[1])
			}
			target = nil
		default:
			if target != nil && depth == 1 && hidden == 0 {
				target.WriteString(tok.Text)
			}
		}
	}

	return rv
}

// FindFiles finds all the File references from within an article
// body using the default grammar.
func FindFiles(text string) []string {
	return NewParser(nil).Files(text)
}

// URLForFile gets the wikimedia URL for the given named file.
func URLForFile(name string) string {
	m := md5.New()
	name = strings.Replace(name, " ", "_", -1)
	m.Write([]byte(name))
	h := hex.EncodeToString(m.Sum([]byte{}))

	return "http://upload.wikimedia.org/wikipedia/commons/" +
		string(h[0]) + "/" + h[0:2] + "/" + url.QueryEscape(name)
}
