package wikiparse

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// The toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName   string `xml:"sitename"`
	Base       string `xml:"base"`
	Generator  string `xml:"generator"`
	Case       string `xml:"case"`
	Namespaces []struct {
		Key   string `xml:"key,attr"`
		Case  string `xml:"case,attr"`
		Value string `xml:",chardata"`
	} `xml:"namespaces>namespace"`
}

// A user who contributed a revision.
type Contributor struct {
	ID       uint64 `xml:"id"`
	Username string `xml:"username"`
}

// A revision to a page.
type Revision struct {
	ID          uint64      `xml:"id"`
	Timestamp   string      `xml:"timestamp"`
	Contributor Contributor `xml:"contributor"`
	Comment     string      `xml:"comment"`
	Text        string      `xml:"text"`
}

// Redirect names the page a redirect page points at.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// A wiki page.
type Page struct {
	Title     string     `xml:"title"`
	Ns        int        `xml:"ns"`
	ID        uint64     `xml:"id"`
	Redirect  *Redirect  `xml:"redirect"`
	Revisions []Revision `xml:"revision"`
}

// Latest returns the newest revision of the page, or nil if it has none.
func (p *Page) Latest() *Revision {
	if len(p.Revisions) == 0 {
		return nil
	}
	return &p.Revisions[len(p.Revisions)-1]
}

// A DumpReader emits wiki pages.
//
// Next returns io.EOF after the last page.
type DumpReader interface {
	Next() (*Page, error)
	SiteInfo() SiteInfo
}

type singleStreamReader struct {
	siteInfo SiteInfo
	x        *xml.Decoder
}

// NewDumpReader gets a dump reader over a single stream XML dump.
func NewDumpReader(r io.Reader) (DumpReader, error) {
	d, si, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return &singleStreamReader{siteInfo: si, x: d}, nil
}

// readHeader consumes the opening mediawiki element and the siteinfo.
func readHeader(r io.Reader) (*xml.Decoder, SiteInfo, error) {
	d := xml.NewDecoder(r)
	si := SiteInfo{}
	if _, err := d.Token(); err != nil {
		return nil, si, fmt.Errorf("reading dump header: %w", err)
	}
	if err := d.Decode(&si); err != nil {
		return nil, si, fmt.Errorf("reading site info: %w", err)
	}
	return d, si, nil
}

func (p *singleStreamReader) Next() (*Page, error) {
	rv := new(Page)
	if err := p.x.Decode(rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (p *singleStreamReader) SiteInfo() SiteInfo {
	return p.siteInfo
}

type bz2File struct {
	io.Reader
	f *os.File
}

func (b bz2File) Close() error {
	return b.f.Close()
}

// OpenDump opens a dump or index file, decompressing it if the name ends
// in .bz2.
func OpenDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".bz2") {
		return bz2File{Reader: bzip2.NewReader(f), f: f}, nil
	}
	return f, nil
}
