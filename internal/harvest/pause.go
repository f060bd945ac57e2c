package harvest

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pause sleeps for delay or until the context finishes, whichever is first.
func Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// OriginPacer spaces fetches against each origin at a fixed interval. The
// rate never adapts; throttling feedback is deliberately ignored.
type OriginPacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewOriginPacer builds a pacer enforcing one fetch per interval per host.
func NewOriginPacer(interval time.Duration) *OriginPacer {
	return &OriginPacer{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the origin's next slot, honoring the context.
func (p *OriginPacer) Wait(ctx context.Context, rawURL string) error {
	if p.interval <= 0 {
		return nil
	}
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}

	p.mu.Lock()
	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(p.interval), 1)
		p.limiters[host] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}
