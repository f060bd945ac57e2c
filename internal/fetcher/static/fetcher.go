// Package static implements the page-fetch capability over plain HTTP using
// Colly, for sources that render server-side.
package static

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/pkruk/jobharvest/internal/harvest"
)

// Config controls collector behavior.
type Config struct {
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// Fetcher implements harvest.PageFetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher with a pooled transport shared by all fetches.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Close is a no-op; the transport holds no browser resources.
func (f *Fetcher) Close(_ context.Context) error { return nil }

// fetchResult is the outcome of one collector visit, produced entirely on
// the visiting goroutine.
type fetchResult struct {
	page *harvest.Page
	err  error
}

// Fetch executes a single HTTP GET and returns the parsed document. A
// forbidden response is returned as a page with its status code, not as an
// error, so the caller can recognize the denial.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*harvest.Page, error) {
	collector := f.baseCollector.Clone()
	// Revisit suppression lives in the dedup index, not the transport.
	collector.AllowURLRevisit = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = !f.cfg.RespectRobots
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	done := make(chan fetchResult, 1)
	go func() {
		done <- visit(collector, url)
	}()

	select {
	case <-ctx.Done():
		// The visit goroutine still owns its callback state; nothing of it
		// is read on this branch.
		return nil, fmt.Errorf("fetch %s canceled: %w", url, ctx.Err())
	case res := <-done:
		return res.page, res.err
	}
}

// visit runs one GET to completion and resolves the callback outcomes. All
// shared state stays on this goroutine; callers only see the result value.
func visit(collector *colly.Collector, url string) fetchResult {
	var (
		page     *harvest.Page
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		page, fetchErr = buildPage(r)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode == http.StatusForbidden {
			page, fetchErr = buildPage(r)
			return
		}
		fetchErr = err
	})

	visitErr := collector.Visit(url)
	switch {
	case fetchErr != nil:
		return fetchResult{err: fmt.Errorf("fetch %s: %w", url, fetchErr)}
	case page != nil:
		// A denial page captured in OnError outranks the visit error.
		return fetchResult{page: page}
	case visitErr != nil:
		return fetchResult{err: fmt.Errorf("fetch %s: %w", url, visitErr)}
	default:
		return fetchResult{err: fmt.Errorf("fetch %s: no response received", url)}
	}
}

func buildPage(r *colly.Response) (*harvest.Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &harvest.Page{
		URL:        r.Request.URL.String(),
		StatusCode: r.StatusCode,
		Doc:        doc,
	}, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
