package wikiparse

// FindLinks finds the destinations of all the article links within an
// article body, in order of appearance.
//
// Links inside templates, references, comments and headers are not
// reported.
func FindLinks(text string) []string {
	doc := Parse(text)

	rv := make([]string, 0, len(doc.Links))
	for _, l := range doc.Links {
		rv = append(rv, l.Destination)
	}
	return rv
}
