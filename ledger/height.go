package ledger

import (
	"encoding/binary"
	"fmt"
)

const HeightByteLength = 8

// Height is the monotonically increasing block counter of the host
// environment. The ledger never reads a wall clock: all time-based logic is
// recomputed from a stored checkpoint and a host-supplied current height
type Height uint64

func HeightFromBytes(data []byte) (Height, error) {
	if len(data) != HeightByteLength {
		return 0, fmt.Errorf("HeightFromBytes: wrong data length")
	}
	return Height(binary.BigEndian.Uint64(data)), nil
}

func (h Height) Bytes() []byte {
	var ret [HeightByteLength]byte
	binary.BigEndian.PutUint64(ret[:], uint64(h))
	return ret[:]
}

func (h Height) String() string {
	return fmt.Sprintf("%d", h)
}

// Elapsed blocks passed since the checkpoint, clamped at zero. A current
// height below the checkpoint can only come from a host anomaly such as a
// reorg; in that case the vault is treated as freshly alive, never as
// 'elapsed forever'
func Elapsed(lastHeartbeat, current Height) Height {
	if current < lastHeartbeat {
		return 0
	}
	return current - lastHeartbeat
}

// Remaining blocks until the threshold. Exactly 0 at and after the threshold,
// never negative
func Remaining(threshold, elapsed Height) Height {
	if elapsed < threshold {
		return threshold - elapsed
	}
	return 0
}

func CanTriggerTier1(lastHeartbeat, current Height) bool {
	return Elapsed(lastHeartbeat, current) >= Tier1Threshold
}

func CanTriggerTier2(lastHeartbeat, current Height) bool {
	return Elapsed(lastHeartbeat, current) >= Tier2Threshold
}
