package wikiparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "just [[text]]", []string{}},
		{"file", "[[File:Foo.png|thumb|caption]]", []string{"Foo.png"}},
		{"image", "[[image: Bar baz.jpg ]]", []string{"Bar baz.jpg"}},
		{"nested caption links", "[[File:A.svg|thumb|see [[b]] and [[File:Inner.png]]]] [[File:C.gif]]",
			[]string{"A.svg", "C.gif"}},
		{"commented out", "<!-- [[File:Hidden.png]] -->[[File:Shown.png]]", []string{"Shown.png"}},
		{"nowiki", "<nowiki>[[File:Literal.png]]</nowiki>", []string{}},
		{"in template", "{{infobox|[[File:T.png]]}}", []string{}},
		{"unclosed", "[[File:Never.png", []string{}},
		{"other namespace", "[[Category:Files]]", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindFiles(tt.text))
		})
	}
}

func TestURLForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, exp string
	}{
		{"BoredEncrustedShell.JPG",
			"http://upload.wikimedia.org/wikipedia/commons/1/10/BoredEncrustedShell.JPG"},
		{"AURI B-25.jpg",
			"http://upload.wikimedia.org/wikipedia/commons/9/93/AURI_B-25.jpg"},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, URLForFile(test.input), test.input)
	}
}
