package wikiparse

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sync"
)

type multiStreamReader struct {
	siteInfo SiteInfo

	workerch chan IndexStream
	entries  chan *Page
	done     chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// fail records the first worker error and stops everything.
func (p *multiStreamReader) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.Close()
}

func (p *multiStreamReader) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func multiStreamIndexWorker(indexfn string, p *multiStreamReader) {
	defer close(p.workerch)

	r, err := os.Open(indexfn)
	if err != nil {
		p.fail(err)
		return
	}
	defer r.Close()

	for stream, err := range NewIndexReader(bzip2.NewReader(r)).Streams() {
		if err != nil {
			p.fail(fmt.Errorf("reading index %v: %w", indexfn, err))
			return
		}
		select {
		case p.workerch <- stream:
		case <-p.done:
			return
		}
	}
}

func multiStreamWorker(datafn string, wg *sync.WaitGroup, p *multiStreamReader) {
	defer wg.Done()

	r, err := os.Open(datafn)
	if err != nil {
		p.fail(err)
		return
	}
	defer r.Close()

	for stream := range p.workerch {
		if _, err := r.Seek(stream.Offset, io.SeekStart); err != nil {
			p.fail(fmt.Errorf("seeking to %v: %w", stream.Offset, err))
			return
		}
		d := xml.NewDecoder(bzip2.NewReader(r))

		for i := 0; i < stream.Pages; i++ {
			newpage := new(Page)
			err := d.Decode(newpage)
			if err == io.EOF {
				break
			}
			if err != nil {
				p.fail(fmt.Errorf("decoding stream at %v: %w", stream.Offset, err))
				return
			}
			select {
			case p.entries <- newpage:
			case <-p.done:
				return
			}
		}
	}
}

// NewIndexedDumpReader gets a dump reader over a bz2 multistream dump,
// using its index to decode streams on numWorkers goroutines.
//
// Pages come out in no particular order. The returned reader is also an
// io.Closer; closing it stops the workers.
func NewIndexedDumpReader(indexfn, datafn string, numWorkers int) (DumpReader, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	r, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	_, si, err := readHeader(bzip2.NewReader(r))
	if err != nil {
		return nil, err
	}

	rv := &multiStreamReader{
		siteInfo: si,
		workerch: make(chan IndexStream, 1000),
		entries:  make(chan *Page, 1000),
		done:     make(chan struct{}),
	}

	wg := sync.WaitGroup{}
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go multiStreamWorker(datafn, &wg, rv)
	}

	go multiStreamIndexWorker(indexfn, rv)

	go func() {
		wg.Wait()
		close(rv.entries)
	}()

	return rv, nil
}

// Next returns the next decoded page. Once the streams are exhausted it
// returns the first worker error, or io.EOF.
func (p *multiStreamReader) Next() (*Page, error) {
	rv, ok := <-p.entries
	if !ok {
		if err := p.failure(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return rv, nil
}

func (p *multiStreamReader) SiteInfo() SiteInfo {
	return p.siteInfo
}

func (p *multiStreamReader) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}
