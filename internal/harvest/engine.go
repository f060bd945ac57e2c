package harvest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine drives the incremental collection loop: page by page, it filters
// candidates through the deduplication index, fetches the still-needed subset
// concurrently, and appends each completed batch durably before moving on.
// All bookkeeping mutation happens on this single coordinating goroutine.
type Engine struct {
	walker    *Walker
	scheduler *Scheduler
	index     *Index
	target    *Target
	store     Store
	identity  Identity
	logger    *zap.Logger
	runID     string
	maxPages  int
	pageDelay time.Duration
}

// NewEngine wires the collection loop together.
func NewEngine(
	walker *Walker,
	scheduler *Scheduler,
	index *Index,
	target *Target,
	store Store,
	identity Identity,
	runID string,
	maxPages int,
	pageDelay time.Duration,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		walker:    walker,
		scheduler: scheduler,
		index:     index,
		target:    target,
		store:     store,
		identity:  identity,
		logger:    logger,
		runID:     runID,
		maxPages:  maxPages,
		pageDelay: pageDelay,
	}
}

// Run walks listing pages until the target is met, pagination is exhausted,
// the pager stalls, or the page limit is reached. Everything appended before
// a failure stays appended; only dataset write errors abort the run.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	sum := Summary{
		RunID:    e.runID,
		Existing: e.target.Existing(),
		Target:   e.target.Goal(),
	}
	e.logger.Info("harvest run starting",
		zap.String("run_id", e.runID),
		zap.Int("existing", sum.Existing),
		zap.Int("target", sum.Target),
	)

	for page := 1; e.maxPages <= 0 || page <= e.maxPages; page++ {
		if e.target.Satisfied() {
			e.logger.Info("target reached", zap.Int("target", e.target.Goal()))
			break
		}
		if ctx.Err() != nil {
			e.finish(sum)
			return sum, fmt.Errorf("harvest canceled: %w", ctx.Err())
		}

		candidates, err := e.walker.Page(ctx, page)
		if err != nil {
			// A listing-page failure ends the walk; it is not retried.
			e.logger.Error("listing page failed, ending walk",
				zap.Int("page", page), zap.Error(err))
			break
		}
		sum.PagesScanned++
		listingPagesTotal.Inc()

		if len(candidates) == 0 {
			e.logger.Info("no listings found, stopping", zap.Int("page", page))
			break
		}
		if e.walker.Stalled(candidates, page) {
			e.logger.Warn("pagination stalled, stopping",
				zap.Int("page", page))
			break
		}
		sum.FoundOnSite += len(candidates)

		fresh := e.filterCandidates(candidates, &sum)
		e.logger.Info("page scanned",
			zap.Int("page", page),
			zap.Int("found", len(candidates)),
			zap.Int("new", len(fresh)),
			zap.Int("remaining", e.target.Remaining()),
		)

		if err := e.runBatch(ctx, fresh, &sum); err != nil {
			return sum, err
		}
		if e.target.Satisfied() {
			e.logger.Info("target reached", zap.Int("target", e.target.Goal()))
			break
		}

		Pause(ctx, e.pageDelay)
	}

	e.finish(sum)
	return sum, nil
}

// filterCandidates drops already-known identities and marks the survivors
// known immediately, so duplicate links within a page or across pages of the
// same run are scheduled at most once. Candidates without a derivable key
// pass through unmarked.
func (e *Engine) filterCandidates(candidates []Candidate, sum *Summary) []Candidate {
	fresh := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.URL = CanonicalURL(c.URL)
		key := e.identity.CandidateKey(c)
		if e.index.IsKnown(key) {
			sum.Skipped++
			duplicatesSkipped.Inc()
			e.logger.Debug("duplicate skipped",
				zap.String("key", key), zap.String("url", c.URL))
			continue
		}
		e.index.MarkKnown(key)
		fresh = append(fresh, c)
	}
	return fresh
}

// runBatch truncates the batch to the remaining need, fetches it, and appends
// the results in one durable write. Denied records are persisted alongside
// accepted ones but never counted toward progress.
func (e *Engine) runBatch(ctx context.Context, fresh []Candidate, sum *Summary) error {
	need := e.target.Remaining()
	if need == 0 || len(fresh) == 0 {
		return nil
	}
	if len(fresh) > need {
		fresh = fresh[:need]
	}

	urls := make([]string, len(fresh))
	for i, c := range fresh {
		urls[i] = c.URL
	}
	e.logger.Info("fetching batch", zap.Int("size", len(urls)))

	accepted, denied := e.scheduler.FetchBatch(ctx, urls)

	batch := make([]Record, 0, len(accepted)+len(denied))
	batch = append(batch, accepted...)
	batch = append(batch, denied...)
	if len(batch) > 0 {
		if err := e.store.Append(batch); err != nil {
			return fmt.Errorf("append batch: %w", err)
		}
		recordsAppended.Add(float64(len(batch)))
	}

	// Freshly persisted records answer to every key form, same as rows
	// loaded at startup.
	for _, r := range accepted {
		for _, key := range e.identity.RecordKeys(r) {
			e.index.MarkKnown(key)
		}
	}

	e.target.RecordAccepted(len(accepted))
	sum.Accepted += len(accepted)
	sum.Denied += len(denied)

	e.logger.Info("batch complete",
		zap.Int("accepted", len(accepted)),
		zap.Int("denied", len(denied)),
		zap.Int("total", e.target.Total()),
		zap.Int("target", e.target.Goal()),
	)
	return nil
}

func (e *Engine) finish(sum Summary) {
	e.logger.Info("harvest run finished",
		zap.String("run_id", sum.RunID),
		zap.Int("pages_scanned", sum.PagesScanned),
		zap.Int("found_on_site", sum.FoundOnSite),
		zap.Int("duplicates_skipped", sum.Skipped),
		zap.Int("accepted", sum.Accepted),
		zap.Int("denied", sum.Denied),
		zap.Int("total", sum.Total()),
		zap.Int("target", sum.Target),
	)
}
