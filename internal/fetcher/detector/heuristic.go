// Package detector recognizes script-rendered shell pages, the usual reason a
// plain HTTP fetch comes back with no harvestable listings.
package detector

import (
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/harvest"
)

const shellMarkers = `#__next, #root, #app, [data-reactroot], [data-server-rendered]`

// scriptDensityThreshold is the share of markup, in percent, above which a
// page is assumed to build its content client-side.
const scriptDensityThreshold = 25

// ScriptRendered reports whether the page looks like an SPA shell: a known
// framework mount point, or markup dominated by script tags with almost no
// visible text.
func ScriptRendered(page *harvest.Page) bool {
	if page == nil || page.Doc == nil || page.StatusCode != 200 {
		return false
	}
	doc := page.Doc
	if doc.Find(shellMarkers).Length() > 0 {
		return true
	}

	html, err := doc.Html()
	if err != nil || len(html) == 0 {
		return false
	}
	scriptLen := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			scriptLen += len(h)
		}
	})
	return scriptLen*100/len(html) >= scriptDensityThreshold
}

// Collector wraps a LinkCollector and warns, once per process, when a page
// that yielded no candidates looks script-rendered. It changes no results;
// the fix is switching the source to the browser-backed fetcher.
type Collector struct {
	inner  harvest.LinkCollector
	logger *zap.Logger
	once   sync.Once
}

// Wrap decorates a collector with shell detection.
func Wrap(inner harvest.LinkCollector, logger *zap.Logger) *Collector {
	return &Collector{inner: inner, logger: logger}
}

// Collect delegates to the wrapped collector.
func (c *Collector) Collect(page *harvest.Page) []harvest.Candidate {
	candidates := c.inner.Collect(page)
	if len(candidates) == 0 && ScriptRendered(page) {
		c.once.Do(func() {
			c.logger.Warn("page appears script-rendered, static fetches will stay empty",
				zap.String("url", page.URL),
				zap.String("hint", "set source.fetcher to headless"),
			)
		})
	}
	return candidates
}
