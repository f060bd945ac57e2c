package harvest

import (
	"context"
	"time"
)

// PageFetcher opens one URL and returns a parsed snapshot of its DOM. A
// denial response is not an error: the page comes back with its status code
// so the caller can recognize it. Close releases browser resources.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
	Close(ctx context.Context) error
}

// Extractor turns a fetched detail page into a Record. Missing fields come
// back as empty strings; extraction never fails past its own boundary.
type Extractor interface {
	Extract(page *Page, url string, now time.Time) Record
}

// LinkCollector lifts candidate detail links from a listing page.
type LinkCollector interface {
	Collect(page *Page) []Candidate
}

// Store is the durable dataset the engine appends to. It is the single
// source of truth for what is already harvested.
type Store interface {
	Append(records []Record) error
	Snapshot() ([]Record, error)
	CountValid() (int, error)
}

// Pacer spaces requests against an origin at a fixed rate.
type Pacer interface {
	Wait(ctx context.Context, url string) error
}

// Clock returns the current time (swappable in tests).
type Clock interface {
	Now() time.Time
}
