package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTargetRemaining(t *testing.T) {
	t.Parallel()

	target := NewTarget(10, 4)
	require.Equal(t, 6, target.Remaining())
	require.False(t, target.Satisfied())

	target.RecordAccepted(2)
	require.Equal(t, 4, target.Remaining())
	require.Equal(t, 6, target.Total())

	target.RecordAccepted(4)
	require.Equal(t, 0, target.Remaining())
	require.True(t, target.Satisfied())
}

func TestTargetAlreadyMet(t *testing.T) {
	t.Parallel()

	// A dataset that already holds more rows than the goal clamps at zero
	// instead of going negative.
	target := NewTarget(100, 150)
	require.Equal(t, 0, target.Remaining())
	require.True(t, target.Satisfied())
}

func TestTargetIgnoresNonPositiveAccepts(t *testing.T) {
	t.Parallel()

	target := NewTarget(5, 0)
	target.RecordAccepted(0)
	target.RecordAccepted(-3)
	require.Equal(t, 5, target.Remaining())
	require.Equal(t, 0, target.Accepted())
}
