package harvest

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const fingerprintSize = 10

var pageSuffixRE = regexp.MustCompile(`/page\d+$`)

// Walker advances through listing pages, collects candidate links, and
// detects a stalled paginator. It holds only the previous page's fingerprint,
// overwritten each page.
type Walker struct {
	base            string
	fetcher         PageFetcher
	links           LinkCollector
	identity        Identity
	logger          *zap.Logger
	lastFingerprint []string
}

// NewWalker builds a walker rooted at base. Any /pageN suffix on base is
// stripped so page numbers compose cleanly.
func NewWalker(base string, fetcher PageFetcher, links LinkCollector, identity Identity, logger *zap.Logger) *Walker {
	return &Walker{
		base:     NormalizeBaseURL(base),
		fetcher:  fetcher,
		links:    links,
		identity: identity,
		logger:   logger,
	}
}

// NormalizeBaseURL removes a trailing slash and any path-style page suffix.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	return pageSuffixRE.ReplaceAllString(raw, "")
}

// ListingURLs returns the URLs to try for a page, primary first: the
// path-style suffix (/page2), then the query-parameter fallback (?page=2).
// Page 1 is the bare base URL plus the query fallback.
func ListingURLs(base string, page int) []string {
	base = NormalizeBaseURL(base)
	urls := make([]string, 0, 2)
	if page == 1 {
		urls = append(urls, base)
	} else {
		urls = append(urls, fmt.Sprintf("%s/page%d", base, page))
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return urls
	}
	q := parsed.Query()
	q.Set("page", strconv.Itoa(page))
	parsed.RawQuery = q.Encode()
	return append(urls, parsed.String())
}

// Page fetches listing page n and returns its candidates. The fallback URL
// is tried only when the primary yields zero candidates. A fetch error on
// the primary form ends the walk; the caller treats it as end-of-pagination.
func (w *Walker) Page(ctx context.Context, n int) ([]Candidate, error) {
	var candidates []Candidate
	for _, listingURL := range ListingURLs(w.base, n) {
		w.logger.Info("scanning listing page",
			zap.Int("page", n),
			zap.String("url", listingURL),
		)
		page, err := w.fetcher.Fetch(ctx, listingURL)
		if err != nil {
			return nil, fmt.Errorf("fetch listing page %d: %w", n, err)
		}
		candidates = w.links.Collect(page)
		if len(candidates) > 0 {
			break
		}
	}
	return candidates, nil
}

// Stalled computes the page's fingerprint (the first ten candidate
// identities, in order) and compares it with the previous page's. A repeat
// past page 1 means the site clamped an out-of-range page to the last valid
// one; the walk must stop. The fingerprint is stored for the next call.
func (w *Walker) Stalled(candidates []Candidate, page int) bool {
	fp := w.fingerprint(candidates)
	stalled := page > 1 && equalFingerprints(fp, w.lastFingerprint)
	w.lastFingerprint = fp
	return stalled
}

func (w *Walker) fingerprint(candidates []Candidate) []string {
	fp := make([]string, 0, fingerprintSize)
	for _, c := range candidates {
		if len(fp) == fingerprintSize {
			break
		}
		fp = append(fp, w.identity.CandidateKey(c))
	}
	return fp
}

func equalFingerprints(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
