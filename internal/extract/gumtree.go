package extract

import (
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pkruk/jobharvest/internal/harvest"
)

const listingTitleSelector = `h3, h4, .title, [class*="title"]`

// Gumtree extracts job records and listing links from gumtree.com pages.
// It implements both harvest.Extractor and harvest.LinkCollector.
type Gumtree struct {
	base *url.URL
}

// NewGumtree builds an extractor resolving relative links against siteBase.
func NewGumtree(siteBase string) (*Gumtree, error) {
	base, err := url.Parse(siteBase)
	if err != nil {
		return nil, err
	}
	return &Gumtree{base: base}, nil
}

// Collect lifts candidate detail links from a listing page. Search-result
// anchors are primary; /p/ style links are the fallback when the page uses
// the older markup.
func (g *Gumtree) Collect(page *harvest.Page) []harvest.Candidate {
	candidates := g.collectAnchors(page.Doc, `a[data-q="search-result-anchor"]`)
	if len(candidates) == 0 {
		candidates = g.collectAnchors(page.Doc, `a[href^="/p/"]`)
	}
	return candidates
}

func (g *Gumtree) collectAnchors(doc *goquery.Document, selector string) []harvest.Candidate {
	var candidates []harvest.Candidate
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		full := g.resolve(href)
		if full == "" {
			return
		}
		title := collapse(a.Find(listingTitleSelector).First().Text())
		if title == "" {
			title = collapse(a.Parent().Find(listingTitleSelector).First().Text())
		}
		candidates = append(candidates, harvest.Candidate{
			URL:   harvest.CanonicalURL(full),
			Title: title,
		})
	})
	return candidates
}

func (g *Gumtree) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return g.base.ResolveReference(ref).String()
}

// Extract parses a detail page into a Record. Every field runs through its
// own fallback chain; a field no strategy can fill stays empty.
func (g *Gumtree) Extract(page *harvest.Page, rawURL string, now time.Time) harvest.Record {
	doc := page.Doc
	rec := harvest.Record{
		ID:        harvest.URLSegmentID(harvest.CanonicalURL(rawURL)),
		URL:       harvest.CanonicalURL(rawURL),
		ScrapedAt: now.Format(harvest.ScrapedAtLayout),
	}

	rec.Title = firstNonEmpty(doc, selectorText("h1"))

	rec.Location = firstNonEmpty(doc,
		selectorText(
			"h1 + h4",
			"h1 + h3",
			"h1 + p",
			`[data-q="vip-location"]`,
			".location",
			`[itemprop="addressLocality"]`,
		),
		labelValue("Location", "Area"),
	)

	rec.Salary = SanitizeSalary(firstNonEmpty(doc,
		labelValue("Salary", "Pay", "Wage", "Rate"),
	))
	rec.ContractType = firstNonEmpty(doc, labelValue("Contract Type", "Contract"))
	rec.WorkTime = firstNonEmpty(doc, labelValue("Hours", "Working hours", "Work hours"))
	rec.Company = firstNonEmpty(doc,
		labelValue("Recruiter", "Company", "Advertiser", "Employer"),
	)

	rec.Description = firstNonEmpty(doc,
		headingBlock("Description"),
		selectorText(
			`[data-q="vip-description"]`,
			`[itemprop="description"]`,
			"#vip__description",
			".vip__description",
			".description",
		),
	)

	if rec.Salary == "" {
		rec.Salary = SalaryFromDescription(rec.Description)
	}
	return rec
}
