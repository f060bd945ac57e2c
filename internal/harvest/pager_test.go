package harvest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://site.test/jobs", "https://site.test/jobs"},
		{"https://site.test/jobs/", "https://site.test/jobs"},
		{"https://site.test/jobs/page7", "https://site.test/jobs"},
		{"https://site.test/jobs/page7/", "https://site.test/jobs"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeBaseURL(tt.in), tt.in)
	}
}

func TestListingURLs(t *testing.T) {
	t.Parallel()

	base := "https://site.test/jobs"

	require.Equal(t,
		[]string{base, base + "?page=1"},
		ListingURLs(base, 1),
	)
	require.Equal(t,
		[]string{base + "/page3", base + "?page=3"},
		ListingURLs(base, 3),
	)
	// A page suffix already on the base never stacks.
	require.Equal(t,
		[]string{base + "/page2", base + "?page=2"},
		ListingURLs(base+"/page9", 2),
	)
}

func TestWalkerPageUsesFallbackOnEmptyPrimary(t *testing.T) {
	t.Parallel()

	base := "https://site.test/jobs"
	fetcher := newScriptedFetcher()
	fetcher.serve(base+"/page2", 200)
	fetcher.serve(base+"?page=2", 200)

	links := &scriptedCollector{byURL: map[string][]Candidate{
		base + "?page=2": {{URL: "https://site.test/p/a/1"}},
	}}
	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)

	w := NewWalker(base, fetcher, links, identity, zap.NewNop())
	candidates, err := w.Page(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, []string{base + "/page2", base + "?page=2"}, fetcher.fetched())
}

func TestWalkerPageStopsAtPrimaryWhenPopulated(t *testing.T) {
	t.Parallel()

	base := "https://site.test/jobs"
	fetcher := newScriptedFetcher()
	fetcher.serve(base, 200)

	links := &scriptedCollector{byURL: map[string][]Candidate{
		base: {{URL: "https://site.test/p/a/1"}, {URL: "https://site.test/p/b/2"}},
	}}
	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)

	w := NewWalker(base, fetcher, links, identity, zap.NewNop())
	candidates, err := w.Page(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, []string{base}, fetcher.fetched())
}

func TestWalkerPageFetchError(t *testing.T) {
	t.Parallel()

	base := "https://site.test/jobs"
	fetcher := newScriptedFetcher()
	fetcher.fail(base, errors.New("connection refused"))

	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)

	w := NewWalker(base, fetcher, &scriptedCollector{}, identity, zap.NewNop())
	_, err = w.Page(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch listing page 1")
}

func TestWalkerStalled(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)
	w := NewWalker("https://site.test/jobs", nil, nil, identity, zap.NewNop())

	pageOf := func(start int) []Candidate {
		out := make([]Candidate, 0, fingerprintSize)
		for i := 0; i < fingerprintSize; i++ {
			out = append(out, Candidate{URL: fmt.Sprintf("https://site.test/p/x/%d", start+i)})
		}
		return out
	}

	first := pageOf(100)
	require.False(t, w.Stalled(first, 1))

	second := pageOf(200)
	require.False(t, w.Stalled(second, 2))

	// The site clamps page 3 back to page 2's content: same leading ids in
	// the same order means the paginator has stopped advancing.
	require.True(t, w.Stalled(pageOf(200), 3))
}

func TestWalkerStalledIgnoresEmptyFingerprints(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)
	w := NewWalker("https://site.test/jobs", nil, nil, identity, zap.NewNop())

	require.False(t, w.Stalled(nil, 1))
	require.False(t, w.Stalled(nil, 2))
	require.False(t, w.Stalled(nil, 3))
}

func TestWalkerStalledNeverOnFirstPage(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)
	w := NewWalker("https://site.test/jobs", nil, nil, identity, zap.NewNop())

	candidates := []Candidate{{URL: "https://site.test/p/a/1"}}
	require.False(t, w.Stalled(candidates, 1))
}
