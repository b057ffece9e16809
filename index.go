package wikiparse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// ErrBadIndexRecord is returned for index lines that are not
// offset:id:title.
var ErrBadIndexRecord = errors.New("bad index record")

// An IndexEntry is one page of a multistream index: the offset of the bz2
// stream holding it in the dump, its page id and its title.
type IndexEntry struct {
	StreamOffset int64
	PageID       uint64
	Title        string
}

func (e IndexEntry) String() string {
	return fmt.Sprintf("%d:%d:%s", e.StreamOffset, e.PageID, e.Title)
}

// An IndexStream is one compressed stream of a multistream dump.
type IndexStream struct {
	Offset int64
	Pages  int
}

// An IndexReader reads the offset:id:title lines of a multistream index.
//
// Older indexes wrote offsets as signed 32 bit numbers. An offset lower
// than the one before it is taken to mean the counter wrapped, and is
// corrected.
type IndexReader struct {
	sc   *bufio.Scanner
	line int
	wrap int64
	last int64
}

// NewIndexReader gets a reader over the uncompressed index in r.
func NewIndexReader(r io.Reader) *IndexReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &IndexReader{sc: sc}
}

// Next returns the next entry, or io.EOF after the last one.
func (ir *IndexReader) Next() (IndexEntry, error) {
	if !ir.sc.Scan() {
		if err := ir.sc.Err(); err != nil {
			return IndexEntry{}, err
		}
		return IndexEntry{}, io.EOF
	}
	ir.line++

	e, raw, err := parseIndexLine(ir.sc.Text())
	if err != nil {
		return IndexEntry{}, fmt.Errorf("%w: line %d: %v", ErrBadIndexRecord, ir.line, err)
	}
	if raw < ir.last {
		ir.wrap += 1 << 32
	}
	ir.last = raw
	e.StreamOffset = raw + ir.wrap
	return e, nil
}

// parseIndexLine splits a line, returning the offset as written.
// Titles may contain colons.
func parseIndexLine(s string) (IndexEntry, int64, error) {
	off, rest, ok := strings.Cut(s, ":")
	if !ok {
		return IndexEntry{}, 0, errors.New("want offset:id:title")
	}
	id, title, ok := strings.Cut(rest, ":")
	if !ok {
		return IndexEntry{}, 0, errors.New("want offset:id:title")
	}

	raw, err := strconv.ParseInt(off, 10, 64)
	if err != nil {
		return IndexEntry{}, 0, err
	}
	pid, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return IndexEntry{}, 0, err
	}
	return IndexEntry{PageID: pid, Title: title}, raw, nil
}

// Entries yields the remaining entries. A read error is yielded once and
// ends the sequence.
func (ir *IndexReader) Entries() iter.Seq2[IndexEntry, error] {
	return func(yield func(IndexEntry, error) bool) {
		for {
			e, err := ir.Next()
			if err == io.EOF {
				return
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// Streams yields the remaining entries grouped into streams, in index
// order.
func (ir *IndexReader) Streams() iter.Seq2[IndexStream, error] {
	return func(yield func(IndexStream, error) bool) {
		var cur IndexStream
		for e, err := range ir.Entries() {
			if err != nil {
				yield(IndexStream{}, err)
				return
			}
			if cur.Pages > 0 && e.StreamOffset != cur.Offset {
				if !yield(cur, nil) {
					return
				}
				cur = IndexStream{}
			}
			cur.Offset = e.StreamOffset
			cur.Pages++
		}
		if cur.Pages > 0 {
			yield(cur, nil)
		}
	}
}
