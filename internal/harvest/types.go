// Package harvest defines the core types and interfaces of the incremental
// collection engine: pagination traversal, deduplication, bounded concurrent
// detail fetches, and target-driven termination.
package harvest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DenialTitle is the sentinel title recorded when the source blocks a request
// instead of returning content. Rows carrying it never count toward progress.
const DenialTitle = "403 ERROR"

// ScrapedAtLayout is the timestamp format written into the scraped_at column.
const ScrapedAtLayout = "2006-01-02 15:04:05"

// Header is the fixed dataset column order. Every reader and writer of the
// dataset file agrees on this tuple.
var Header = []string{
	"id", "url", "title", "company", "salary",
	"location", "work_time", "contract_type", "scraped_at", "description",
}

// Record is one harvested job listing.
type Record struct {
	ID           string
	URL          string
	Title        string
	Company      string
	Salary       string
	Location     string
	WorkTime     string
	ContractType string
	ScrapedAt    string
	Description  string
}

// Denied reports whether the record marks a blocked fetch rather than content.
func (r Record) Denied() bool {
	return strings.TrimSpace(r.Title) == DenialTitle
}

// Valid reports whether the record counts toward progress: it has a title and
// is not a denial marker.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && !r.Denied()
}

// Fields returns the record's values in Header order.
func (r Record) Fields() []string {
	return []string{
		r.ID, r.URL, r.Title, r.Company, r.Salary,
		r.Location, r.WorkTime, r.ContractType, r.ScrapedAt, r.Description,
	}
}

// RecordFromFields builds a Record from a row in Header order. Short rows
// leave the remaining fields empty rather than failing.
func RecordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		ID:           get(0),
		URL:          get(1),
		Title:        get(2),
		Company:      get(3),
		Salary:       get(4),
		Location:     get(5),
		WorkTime:     get(6),
		ContractType: get(7),
		ScrapedAt:    get(8),
		Description:  get(9),
	}
}

// Candidate is a detail-page link lifted from a listing page. Title is the
// listing-side caption when one was visible near the anchor; it may be empty.
type Candidate struct {
	URL   string
	Title string
}

// Page is a fetched page handle: the parsed DOM plus transport metadata.
type Page struct {
	URL        string
	StatusCode int
	Doc        *goquery.Document
}

// Summary reports what a harvest run accomplished.
type Summary struct {
	RunID        string
	PagesScanned int
	FoundOnSite  int
	Skipped      int
	Existing     int
	Accepted     int
	Denied       int
	Target       int
}

// Total is the record count after the run: pre-existing plus newly accepted.
func (s Summary) Total() int {
	return s.Existing + s.Accepted
}
