package harvest

import (
	"fmt"
	"net/url"
	"strings"
)

// Identity derives the key used to decide whether a candidate already exists
// in the dataset. Listings differ in what is stable: some expose a native id
// in the URL, others only a title. The rule is selected per source.
type Identity interface {
	Name() string
	// CandidateKey keys a listing-page candidate before its detail fetch.
	CandidateKey(c Candidate) string
	// RecordKeys returns every key a persisted record answers to. The first
	// entry is canonical; extras keep listing-time keys comparable with
	// historical rows.
	RecordKeys(r Record) []string
}

// NewIdentity resolves a strategy by its config name.
func NewIdentity(name string) (Identity, error) {
	switch name {
	case "url_segment", "":
		return urlSegmentIdentity{}, nil
	case "title_company":
		return titleCompanyIdentity{}, nil
	default:
		return nil, fmt.Errorf("unknown identity strategy %q", name)
	}
}

// URLSegmentID extracts the site-native id: the final path segment of the
// canonical URL (e.g. "5417380692" from ".../driver-wanted/5417380692").
func URLSegmentID(raw string) string {
	trimmed := strings.TrimRight(raw, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// CanonicalURL strips the query and fragment so the same listing always
// yields the same URL regardless of tracking parameters.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

type urlSegmentIdentity struct{}

func (urlSegmentIdentity) Name() string { return "url_segment" }

func (urlSegmentIdentity) CandidateKey(c Candidate) string {
	return URLSegmentID(CanonicalURL(c.URL))
}

func (urlSegmentIdentity) RecordKeys(r Record) []string {
	if key := URLSegmentID(CanonicalURL(r.URL)); key != "" {
		return []string{key}
	}
	if r.ID != "" {
		return []string{r.ID}
	}
	return nil
}

// titleCompanyIdentity keys records by normalized title plus company. The
// company is not visible on listing pages, so candidates key by title alone
// and persisted records answer to both forms.
type titleCompanyIdentity struct{}

func (titleCompanyIdentity) Name() string { return "title_company" }

func (titleCompanyIdentity) CandidateKey(c Candidate) string {
	return normalizeKeyPart(c.Title)
}

func (titleCompanyIdentity) RecordKeys(r Record) []string {
	title := normalizeKeyPart(r.Title)
	if title == "" {
		return nil
	}
	keys := []string{title}
	if company := normalizeKeyPart(r.Company); company != "" {
		keys = append(keys, title+"|"+company)
	}
	return keys
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
