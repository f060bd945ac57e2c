package harvest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// listingPagesTotal counts listing pages scanned during harvest runs.
	listingPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_listing_pages_total",
		Help: "The total number of listing pages scanned.",
	})
	// detailFetchesTotal counts detail-page fetches dispatched.
	detailFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_detail_fetches_total",
		Help: "The total number of detail page fetches dispatched.",
	})
	// detailFetchErrors counts detail fetches that failed in transport or timed out.
	detailFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_detail_fetch_errors_total",
		Help: "The total number of failed detail page fetches.",
	})
	// detailFetchesEmpty counts fetches that produced no usable record.
	detailFetchesEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_detail_fetches_empty_total",
		Help: "The total number of detail fetches that yielded no usable record.",
	})
	// denialHits counts responses where the source blocked the request.
	denialHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_denial_hits_total",
		Help: "The total number of fetches blocked by the source.",
	})
	// duplicatesSkipped counts candidates rejected by the deduplication index.
	duplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_duplicates_skipped_total",
		Help: "The total number of candidates skipped as already harvested.",
	})
	// recordsAppended counts records durably appended to the dataset.
	recordsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_records_appended_total",
		Help: "The total number of records appended to the dataset.",
	})
)
