package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURLSegmentID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain id", "https://www.gumtree.com/p/driver-wanted/5417380692", "5417380692"},
		{"trailing slash", "https://www.gumtree.com/p/driver-wanted/5417380692/", "5417380692"},
		{"query stripped first", "https://www.gumtree.com/p/x/123?utm=abc", "123?utm=abc"},
		{"no path", "5417380692", "5417380692"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, URLSegmentID(tt.url))
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.gumtree.com/p/x/123",
		CanonicalURL("https://www.gumtree.com/p/x/123?utm_source=feed#top"),
	)
	require.Equal(t, "https://example.org/a", CanonicalURL("https://example.org/a"))
}

func TestURLSegmentIdentity(t *testing.T) {
	t.Parallel()

	id, err := NewIdentity("url_segment")
	require.NoError(t, err)
	require.Equal(t, "url_segment", id.Name())

	key := id.CandidateKey(Candidate{URL: "https://www.gumtree.com/p/x/123?page=2"})
	require.Equal(t, "123", key)

	keys := id.RecordKeys(Record{URL: "https://www.gumtree.com/p/x/123"})
	require.Equal(t, []string{"123"}, keys)

	// A record without a URL falls back to its stored id.
	keys = id.RecordKeys(Record{ID: "987"})
	require.Equal(t, []string{"987"}, keys)
}

func TestTitleCompanyIdentity(t *testing.T) {
	t.Parallel()

	id, err := NewIdentity("title_company")
	require.NoError(t, err)

	key := id.CandidateKey(Candidate{Title: "  Warehouse   Operative "})
	require.Equal(t, "warehouse operative", key)

	keys := id.RecordKeys(Record{Title: "Warehouse Operative", Company: "Acme Ltd"})
	require.Equal(t, []string{"warehouse operative", "warehouse operative|acme ltd"}, keys)

	// Candidate and record keys stay comparable: the bare title form is
	// always present.
	require.Contains(t, keys, id.CandidateKey(Candidate{Title: "Warehouse Operative"}))

	require.Empty(t, id.RecordKeys(Record{Company: "Acme Ltd"}))
}

func TestNewIdentityDefaultsAndErrors(t *testing.T) {
	t.Parallel()

	id, err := NewIdentity("")
	require.NoError(t, err)
	require.Equal(t, "url_segment", id.Name())

	_, err = NewIdentity("checksum")
	require.Error(t, err)
}
