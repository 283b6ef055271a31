package vaultledger

import (
	"sync"
	"testing"

	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/lunfardo314/unitrie/common"
	"github.com/stretchr/testify/require"
)

func addr(fill byte) (ret ledger.Address) {
	for i := range ret {
		ret[i] = fill
	}
	return
}

func newTestLedger(t *testing.T) *Ledger {
	store := common.NewInMemoryKVStore()
	par := ledger.DefaultParams()
	par.FeeAmount = ledger.NewAmount(15)
	vaultstate.InitLedgerState(store, par)

	lg, err := New(global.NewDefault(), store)
	require.NoError(t, err)
	return lg
}

func TestCreateVault(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)

	id, err := lg.CreateVault(owner, addr(2), 1000)
	require.NoError(t, err)
	require.EqualValues(t, ledger.VaultIDFromUint64(1), id)
	require.True(t, lg.HasVault(id))
	require.EqualValues(t, 1, lg.TotalVaultCount())
	require.EqualValues(t, 1, lg.GetVaultCount(owner))

	// a fresh vault starts with the full countdowns and zero entitlements
	s, err := lg.GetStatus(id, 1000)
	require.NoError(t, err)
	require.EqualValues(t, ledger.StatusActive, s.Status)
	require.True(t, s.Tier1Amount.IsZero())
	require.True(t, s.Tier2Amount.IsZero())
	require.EqualValues(t, ledger.Tier1Threshold, s.Tier1Remaining)
	require.EqualValues(t, ledger.Tier2Threshold, s.Tier2Remaining)

	// sequential ids
	id2, err := lg.CreateVault(owner, addr(2), 1001)
	require.NoError(t, err)
	require.EqualValues(t, ledger.VaultIDFromUint64(2), id2)
	require.EqualValues(t, 2, lg.GetVaultCount(owner))

	_, err = lg.CreateVault(owner, owner, 1002)
	require.ErrorIs(t, err, ledger.ErrInvalidBeneficiary)
	_, err = lg.CreateVault(owner, ledger.NilAddress, 1002)
	require.ErrorIs(t, err, ledger.ErrInvalidBeneficiary)
	// failed creation does not burn ids
	require.EqualValues(t, 2, lg.TotalVaultCount())
	id3, err := lg.CreateVault(addr(3), addr(4), 1003)
	require.NoError(t, err)
	require.EqualValues(t, ledger.VaultIDFromUint64(3), id3)
}

// the backup guardian walkthrough: fund, go silent, two releases in order
func TestFullLifecycle(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)
	beneficiary := addr(2)
	guardian := addr(7)
	const created = ledger.Height(1000)

	id, err := lg.CreateVault(owner, beneficiary, created)
	require.NoError(t, err)
	require.NoError(t, lg.Deposit(owner, id, ledger.NewAmount(1_000_000), created))

	var events []ReleaseEvent
	lg.OnRelease(func(ev ReleaseEvent) {
		events = append(events, ev)
	})

	// premature trigger attempts change nothing
	_, err = lg.TriggerTier1(guardian, id, created+ledger.Tier1Threshold-1)
	require.ErrorIs(t, err, ledger.ErrTimeoutNotReached)
	_, err = lg.TriggerTier2(guardian, id, created+ledger.Tier2Threshold)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	released, err := lg.TriggerTier1(guardian, id, created+ledger.Tier1Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(ledger.NewAmount(100_000)))

	s, err := lg.GetStatus(id, created+ledger.Tier1Threshold)
	require.NoError(t, err)
	require.EqualValues(t, ledger.StatusTier1Released, s.Status)
	// the heartbeat clock is not reset by the release
	require.EqualValues(t, created, s.LastHeartbeat)

	released, err = lg.TriggerTier2(guardian, id, created+ledger.Tier2Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(ledger.NewAmount(900_000)))

	s, err = lg.GetStatus(id, created+ledger.Tier2Threshold)
	require.NoError(t, err)
	require.EqualValues(t, ledger.StatusFinalized, s.Status)

	require.EqualValues(t, 2, len(events))
	require.EqualValues(t, 1, events[0].Tier)
	require.EqualValues(t, 2, events[1].Tier)
	require.EqualValues(t, beneficiary, events[0].Beneficiary)
	require.EqualValues(t, guardian, events[0].TriggeredBy)
	require.EqualValues(t, id, events[1].VaultID)
}

func TestFailedUpdateIsNotPersisted(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)

	id, err := lg.CreateVault(owner, addr(2), 1000)
	require.NoError(t, err)
	require.NoError(t, lg.Deposit(owner, id, ledger.NewAmount(100), 1000))

	// a non-owner deposit fails and leaves the record intact
	require.ErrorIs(t, lg.Deposit(addr(9), id, ledger.NewAmount(50), 1001), ledger.ErrNotOwner)
	v, err := lg.GetVault(id)
	require.NoError(t, err)
	require.EqualValues(t, 0, v.TotalDeposited.Cmp(ledger.NewAmount(100)))

	require.ErrorIs(t, lg.CheckIn(owner, ledger.VaultIDFromUint64(42), 1001), ledger.ErrNotFound)
	_, err = lg.GetStatus(ledger.VaultIDFromUint64(42), 1001)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestVaultIsolation(t *testing.T) {
	lg := newTestLedger(t)
	owner1 := addr(1)
	owner2 := addr(2)
	const created = ledger.Height(1000)

	id1, err := lg.CreateVault(owner1, addr(10), created)
	require.NoError(t, err)
	id2, err := lg.CreateVault(owner2, addr(20), created)
	require.NoError(t, err)
	require.NoError(t, lg.Deposit(owner1, id1, ledger.NewAmount(100), created))
	require.NoError(t, lg.Deposit(owner2, id2, ledger.NewAmount(200), created))

	// owner2 keeps checking in, owner1 goes silent
	require.NoError(t, lg.CheckIn(owner2, id2, created+ledger.Tier1Threshold-10))

	_, err = lg.TriggerTier1(addr(7), id1, created+ledger.Tier1Threshold)
	require.NoError(t, err)
	_, err = lg.TriggerTier1(addr(7), id2, created+ledger.Tier1Threshold)
	require.ErrorIs(t, err, ledger.ErrTimeoutNotReached)

	s2, err := lg.GetStatus(id2, created+ledger.Tier1Threshold)
	require.NoError(t, err)
	require.EqualValues(t, ledger.StatusActive, s2.Status)
}

func TestSetBeneficiary(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)

	id, err := lg.CreateVault(owner, addr(2), 1000)
	require.NoError(t, err)

	ben, err := lg.GetBeneficiary(id)
	require.NoError(t, err)
	require.EqualValues(t, addr(2), ben)

	require.NoError(t, lg.SetBeneficiary(owner, id, addr(3), 1001))
	ben, err = lg.GetBeneficiary(id)
	require.NoError(t, err)
	require.EqualValues(t, addr(3), ben)

	require.ErrorIs(t, lg.SetBeneficiary(addr(9), id, addr(4), 1002), ledger.ErrNotOwner)
}

func TestQueries(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)

	require.EqualValues(t, 0, lg.GetFeeAmount().Cmp(ledger.NewAmount(15)))

	var ids []ledger.VaultID
	for i := 0; i < 3; i++ {
		id, err := lg.CreateVault(owner, addr(2), 1000)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for i, idExpected := range ids {
		id, err := lg.GetVaultIDByIndex(owner, uint64(i))
		require.NoError(t, err)
		require.EqualValues(t, idExpected, id)
	}
	_, err := lg.GetVaultIDByIndex(owner, 3)
	require.ErrorIs(t, err, ledger.ErrIndexOutOfBounds)
}

func TestConcurrentDeposits(t *testing.T) {
	lg := newTestLedger(t)
	owner := addr(1)

	id, err := lg.CreateVault(owner, addr(2), 1000)
	require.NoError(t, err)

	const numWorkers = 10
	const depositsPerWorker = 50

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for k := 0; k < depositsPerWorker; k++ {
				require.NoError(t, lg.Deposit(owner, id, ledger.NewAmount(10), 1001))
			}
		}()
	}
	wg.Wait()

	v, err := lg.GetVault(id)
	require.NoError(t, err)
	require.EqualValues(t, 0, v.TotalDeposited.Cmp(ledger.NewAmount(numWorkers*depositsPerWorker*10)))
	sum, err := v.Tier1Amount.Add(v.Tier2Amount)
	require.NoError(t, err)
	require.EqualValues(t, 0, sum.Cmp(v.TotalDeposited))
}
