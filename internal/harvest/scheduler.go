package harvest

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Scheduler fans out detail-page fetches for one batch, bounded by a counting
// semaphore, and fans the results back in. Every fetch settles (success,
// denial, or error) before the batch completes; one failure never cancels
// its siblings and is not retried within the run.
type Scheduler struct {
	sem       *semaphore.Weighted
	fetcher   PageFetcher
	extractor Extractor
	pacer     Pacer
	clock     Clock
	logger    *zap.Logger
}

// NewScheduler builds a scheduler with concurrency bound c. Values of 2-3
// are recommended against a single origin.
func NewScheduler(c int, fetcher PageFetcher, extractor Extractor, pacer Pacer, clock Clock, logger *zap.Logger) *Scheduler {
	if c <= 0 {
		c = 1
	}
	return &Scheduler{
		sem:       semaphore.NewWeighted(int64(c)),
		fetcher:   fetcher,
		extractor: extractor,
		pacer:     pacer,
		clock:     clock,
		logger:    logger,
	}
}

// FetchBatch fetches the given URLs with at most the configured number in
// flight and returns the usable records partitioned into accepted (counted
// toward target) and denied (blocked fetches, persisted but never counted).
// Failed or empty extractions yield nothing.
func (s *Scheduler) FetchBatch(ctx context.Context, urls []string) (accepted, denied []Record) {
	results := make([]*Record, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(slot int, url string) {
			defer wg.Done()
			results[slot] = s.fetchOne(ctx, url)
		}(i, u)
	}
	wg.Wait()

	for _, rec := range results {
		switch {
		case rec == nil:
		case rec.Denied():
			denied = append(denied, *rec)
		case rec.Valid():
			accepted = append(accepted, *rec)
		default:
			detailFetchesEmpty.Inc()
		}
	}
	return accepted, denied
}

// fetchOne runs a single detail fetch inside a semaphore slot. The slot is
// held through the post-fetch pacing wait so the origin sees a steady rate.
func (s *Scheduler) fetchOne(ctx context.Context, url string) *Record {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.logger.Warn("batch slot wait canceled", zap.String("url", url), zap.Error(err))
		return nil
	}
	defer s.sem.Release(1)

	detailFetchesTotal.Inc()
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		detailFetchErrors.Inc()
		s.logger.Warn("detail fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	rec := s.buildRecord(page, url)

	if s.pacer != nil {
		if err := s.pacer.Wait(ctx, url); err != nil {
			s.logger.Debug("pacing wait interrupted", zap.String("url", url), zap.Error(err))
		}
	}
	return &rec
}

func (s *Scheduler) buildRecord(page *Page, url string) Record {
	if page.StatusCode == http.StatusForbidden {
		denialHits.Inc()
		s.logger.Warn("fetch denied by source", zap.String("url", url))
		return Record{
			ID:        URLSegmentID(CanonicalURL(url)),
			URL:       CanonicalURL(url),
			Title:     DenialTitle,
			ScrapedAt: s.clock.Now().Format(ScrapedAtLayout),
		}
	}
	return s.extractor.Extract(page, url, s.clock.Now())
}
