package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElapsed(t *testing.T) {
	require.EqualValues(t, 0, Elapsed(100, 100))
	require.EqualValues(t, 42, Elapsed(100, 142))
	// a current height below the checkpoint is a host anomaly, never negative
	require.EqualValues(t, 0, Elapsed(500, 100))
}

func TestRemaining(t *testing.T) {
	require.EqualValues(t, Tier1Threshold, Remaining(Tier1Threshold, 0))
	require.EqualValues(t, 1, Remaining(Tier1Threshold, Tier1Threshold-1))
	require.EqualValues(t, 0, Remaining(Tier1Threshold, Tier1Threshold))
	require.EqualValues(t, 0, Remaining(Tier1Threshold, Tier1Threshold+1000))
}

func TestTriggerThresholds(t *testing.T) {
	const heartbeat = Height(1000)

	require.False(t, CanTriggerTier1(heartbeat, heartbeat+Tier1Threshold-1))
	require.True(t, CanTriggerTier1(heartbeat, heartbeat+Tier1Threshold))
	require.True(t, CanTriggerTier1(heartbeat, heartbeat+Tier1Threshold+1))

	require.False(t, CanTriggerTier2(heartbeat, heartbeat+Tier2Threshold-1))
	require.True(t, CanTriggerTier2(heartbeat, heartbeat+Tier2Threshold))

	// tier 2 threshold is twice tier 1: the second tranche runs on the same
	// heartbeat checkpoint, not on the tier 1 release moment
	require.EqualValues(t, 2*Tier1Threshold, Tier2Threshold)
}

func TestHeightBytes(t *testing.T) {
	h := Height(0xcafebabe)
	back, err := HeightFromBytes(h.Bytes())
	require.NoError(t, err)
	require.EqualValues(t, h, back)

	_, err = HeightFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
