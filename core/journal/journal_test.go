package journal

import (
	"testing"

	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/lunfardo314/unitrie/common"
	"github.com/stretchr/testify/require"
)

func addr(fill byte) (ret ledger.Address) {
	for i := range ret {
		ret[i] = fill
	}
	return
}

func releaseEvent(tier byte, height ledger.Height) vaultledger.ReleaseEvent {
	return vaultledger.ReleaseEvent{
		VaultID:     ledger.VaultIDFromUint64(uint64(height)),
		Owner:       addr(1),
		Beneficiary: addr(2),
		Tier:        tier,
		Amount:      ledger.NewAmount(uint64(height) * 10),
		Height:      height,
		TriggeredBy: addr(7),
	}
}

func TestJournalAppend(t *testing.T) {
	j := New(global.NewDefault(), common.NewInMemoryKVStore())
	require.EqualValues(t, 0, j.NumRecords())
	require.EqualValues(t, 0, len(j.Recent(10)))

	var heard []vaultledger.ReleaseEvent
	j.ListenToReleases(func(ev vaultledger.ReleaseEvent) {
		heard = append(heard, ev)
	})

	j.Append(releaseEvent(1, 100))
	j.Append(releaseEvent(2, 200))
	require.EqualValues(t, 2, j.NumRecords())
	require.EqualValues(t, 2, len(heard))

	recent := j.Recent(10)
	require.EqualValues(t, 2, len(recent))
	// newest last
	require.EqualValues(t, 100, recent[0].Height)
	require.EqualValues(t, 200, recent[1].Height)

	recent = j.Recent(1)
	require.EqualValues(t, 1, len(recent))
	require.EqualValues(t, 200, recent[0].Height)
}

func TestJournalRestore(t *testing.T) {
	store := common.NewInMemoryKVStore()
	env := global.NewDefault()

	j := New(env, store)
	for i := 1; i <= 5; i++ {
		j.Append(releaseEvent(1, ledger.Height(i*100)))
	}
	require.EqualValues(t, 5, j.NumRecords())

	// a fresh journal over the same store continues where the old one stopped
	j2 := New(env, store)
	require.EqualValues(t, 5, j2.NumRecords())
	recent := j2.Recent(0)
	require.EqualValues(t, 5, len(recent))
	require.EqualValues(t, 100, recent[0].Height)
	require.EqualValues(t, 500, recent[4].Height)

	ev := recent[2]
	require.EqualValues(t, ledger.VaultIDFromUint64(300), ev.VaultID)
	require.EqualValues(t, addr(1), ev.Owner)
	require.EqualValues(t, addr(2), ev.Beneficiary)
	require.EqualValues(t, addr(7), ev.TriggeredBy)
	require.EqualValues(t, 0, ev.Amount.Cmp(ledger.NewAmount(3000)))

	j2.Append(releaseEvent(2, 600))
	require.EqualValues(t, 6, j2.NumRecords())
}

func TestJournalRecentWindow(t *testing.T) {
	store := common.NewInMemoryKVStore()
	env := global.NewDefault()

	j := New(env, store)
	for i := 1; i <= recentWindowSize+20; i++ {
		j.Append(releaseEvent(1, ledger.Height(i)))
	}
	require.EqualValues(t, recentWindowSize+20, j.NumRecords())

	recent := j.Recent(0)
	require.EqualValues(t, recentWindowSize, len(recent))
	require.EqualValues(t, 21, recent[0].Height)
	require.EqualValues(t, recentWindowSize+20, recent[len(recent)-1].Height)

	// restore keeps only the newest window too
	j2 := New(env, store)
	recent = j2.Recent(0)
	require.EqualValues(t, recentWindowSize, len(recent))
	require.EqualValues(t, 21, recent[0].Height)
}
