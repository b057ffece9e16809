package wikiparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"in order", "[[b]] then [[a|x]] then [[b]]", []string{"b", "a", "b"}},
		{"namespaces skipped", "[[File:x.png]] [[Category:Y]] [[de:Hund]] [[dog]]", []string{"dog"}},
		{"templates and refs hidden", "{{t|[[x]]}}<ref>[[y]]</ref>[[z]]", []string{"z"}},
		{"comment hidden", "<!-- [[x]] -->", []string{}},
		{"spans lines", "[[broken\nlink]]", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindLinks(tt.text))
		})
	}
}
