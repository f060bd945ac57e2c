package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("url_segment")
	require.NoError(t, err)

	records := []Record{
		{ID: "100", URL: "https://site.test/p/a/100", Title: "Driver"},
		{ID: "101", URL: "https://site.test/p/b/101", Title: "Cleaner"},
		{ID: "102", URL: "https://site.test/p/c/102", Title: DenialTitle},
	}

	idx := BuildIndex(records, identity)

	require.True(t, idx.IsKnown("100"))
	require.True(t, idx.IsKnown("101"))
	// Denial rows never enter the index.
	require.False(t, idx.IsKnown("102"))
	require.Equal(t, 2, idx.Len())
}

func TestIndexMarkKnown(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	require.False(t, idx.IsKnown("500"))

	idx.MarkKnown("500")
	require.True(t, idx.IsKnown("500"))

	// Re-marking is idempotent and empty keys are ignored.
	idx.MarkKnown("500")
	idx.MarkKnown("")
	require.False(t, idx.IsKnown(""))
	require.Equal(t, 1, idx.Len())
}

func TestBuildIndexTitleCompany(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("title_company")
	require.NoError(t, err)

	records := []Record{
		{Title: "Warehouse Operative", Company: "Acme Ltd"},
	}
	idx := BuildIndex(records, identity)

	// A listing-time candidate carrying only the title still matches.
	require.True(t, idx.IsKnown(identity.CandidateKey(Candidate{Title: "warehouse   OPERATIVE"})))
	require.True(t, idx.IsKnown("warehouse operative|acme ltd"))
}
