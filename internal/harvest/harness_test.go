package harvest

import (
	"context"
	"errors"
	"sync"
	"time"
)

// scriptedFetcher serves pre-registered pages and records every URL it was
// asked for, in call order.
type scriptedFetcher struct {
	mu     sync.Mutex
	pages  map[string]*Page
	errs   map[string]error
	fn     func(ctx context.Context, url string) (*Page, error)
	calls  []string
	closed bool
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		pages: make(map[string]*Page),
		errs:  make(map[string]error),
	}
}

func (f *scriptedFetcher) serve(url string, status int) {
	f.pages[url] = &Page{URL: url, StatusCode: status}
}

func (f *scriptedFetcher) fail(url string, err error) {
	f.errs[url] = err
}

func (f *scriptedFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(ctx, url)
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return nil, errors.New("unexpected fetch: " + url)
}

func (f *scriptedFetcher) Close(context.Context) error {
	f.closed = true
	return nil
}

func (f *scriptedFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// scriptedCollector maps listing-page URLs to candidate lists.
type scriptedCollector struct {
	byURL map[string][]Candidate
}

func (c *scriptedCollector) Collect(page *Page) []Candidate {
	return c.byURL[page.URL]
}

// scriptedExtractor returns the registered record for a URL and tracks which
// URLs it was asked to extract.
type scriptedExtractor struct {
	mu    sync.Mutex
	byURL map[string]Record
	calls []string
}

func (e *scriptedExtractor) Extract(_ *Page, url string, _ time.Time) Record {
	e.mu.Lock()
	e.calls = append(e.calls, url)
	e.mu.Unlock()
	return e.byURL[url]
}

func (e *scriptedExtractor) extracted() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu        sync.Mutex
	records   []Record
	appendErr error
}

func (s *memStore) Append(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *memStore) Snapshot() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...), nil
}

func (s *memStore) CountValid() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.Valid() {
			n++
		}
	}
	return n, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }
