package wikiparse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrappedIndex has offsets that went past 2^31 and came back negative.
const wrappedIndex = `600:10:AccessibleComputing
600:12:Anarchism
600:25:Autism
2147418907:2638569:William Earl Brown
2147418907:2638570:Talk:Lebuhraya: Persekutuan
-2147469295:2638585:Philadelphia Bulletin
-2147469295:2638588:Zrínyi Miklós
-2147469295:2638604:Island of Montréal
`

func collectEntries(t *testing.T, ir *IndexReader) []IndexEntry {
	t.Helper()

	var rv []IndexEntry
	for e, err := range ir.Entries() {
		require.NoError(t, err)
		rv = append(rv, e)
	}
	return rv
}

func TestIndexEntries(t *testing.T) {
	t.Parallel()

	got := collectEntries(t, NewIndexReader(strings.NewReader(wrappedIndex)))
	require.Len(t, got, 8)

	assert.Equal(t, IndexEntry{StreamOffset: 600, PageID: 10, Title: "AccessibleComputing"}, got[0])
	assert.Equal(t, "Talk:Lebuhraya: Persekutuan", got[4].Title)
	assert.Equal(t, int64(-2147469295+1<<32), got[5].StreamOffset)
	assert.Equal(t, "2147498001:2638604:Island of Montréal", got[7].String())
}

func TestIndexReaderNext(t *testing.T) {
	t.Parallel()

	ir := NewIndexReader(strings.NewReader("1:2:One\n"))
	e, err := ir.Next()
	require.NoError(t, err)
	assert.Equal(t, "One", e.Title)

	_, err = ir.Next()
	assert.Equal(t, io.EOF, err)
}

func TestIndexBadRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"one colon", "499:10:Ok\n499:nope\n"},
		{"no colon", "499:10:Ok\njunk\n"},
		{"bad offset", "499:10:Ok\nx:11:Broken\n"},
		{"bad page id", "499:10:Ok\n499:-3:Broken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []IndexEntry
			var last error
			for e, err := range NewIndexReader(strings.NewReader(tt.data)).Entries() {
				if err != nil {
					last = err
					continue
				}
				entries = append(entries, e)
			}
			assert.Len(t, entries, 1)
			assert.ErrorIs(t, last, ErrBadIndexRecord)
			assert.ErrorContains(t, last, "line 2")
		})
	}
}

func TestIndexStreams(t *testing.T) {
	t.Parallel()

	var got []IndexStream
	for s, err := range NewIndexReader(strings.NewReader(wrappedIndex)).Streams() {
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []IndexStream{
		{Offset: 600, Pages: 3},
		{Offset: 2147418907, Pages: 2},
		{Offset: 2147498001, Pages: 3},
	}, got)

	for range NewIndexReader(strings.NewReader("")).Streams() {
		t.Fatal("empty index has no streams")
	}
}

func TestIndexStreamsStopEarly(t *testing.T) {
	t.Parallel()

	n := 0
	for range NewIndexReader(strings.NewReader(wrappedIndex)).Streams() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)

	var errs int
	for s, err := range NewIndexReader(strings.NewReader("1:1:a\n2:2:b\nbroken\n")).Streams() {
		if err != nil {
			errs++
			assert.ErrorIs(t, err, ErrBadIndexRecord)
			continue
		}
		assert.Equal(t, 1, s.Pages)
	}
	assert.Equal(t, 1, errs)
}
