package wikiparse

import (
	"unicode/utf8"
)

// A Link is an internal link anchored in a Document's text.
//
// Start and Length count runes of Lines[Line].
type Link struct {
	Line        int    `json:"line"`
	Start       int    `json:"start"`
	Length      int    `json:"length"`
	Destination string `json:"destination"`
}

// A Document is the plain text rendering of an article and its links.
type Document struct {
	Lines []string `json:"lines"`
	Links []Link   `json:"links"`
}

// Trim removes leading and trailing empty lines, moving links up to
// follow their lines. Trimming twice is the same as trimming once.
func (d *Document) Trim() {
	start := 0
	for start < len(d.Lines) && d.Lines[start] == "" {
		start++
	}
	end := len(d.Lines)
	for end > start && d.Lines[end-1] == "" {
		end--
	}

	d.Lines = d.Lines[start:end]
	for i := range d.Links {
		d.Links[i].Line -= start
	}
}

// LinkText returns the text a link covers, or false if its span does not
// fit the document.
func (d *Document) LinkText(l Link) (string, bool) {
	if l.Line < 0 || l.Line >= len(d.Lines) || l.Start < 0 || l.Length < 0 {
		return "", false
	}
	return runeSlice(d.Lines[l.Line], l.Start, l.Length)
}

// runeSlice returns length runes of s starting at rune start.
func runeSlice(s string, start, length int) (string, bool) {
	i, n := 0, 0
	for n < start {
		if i >= len(s) {
			return "", false
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
		n++
	}
	j := i
	for n < start+length {
		if j >= len(s) {
			return "", false
		}
		_, w := utf8.DecodeRuneInString(s[j:])
		j += w
		n++
	}
	return s[i:j], true
}
