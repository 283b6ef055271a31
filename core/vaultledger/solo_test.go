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

func newTestSoloLedger(t *testing.T) *SoloLedger {
	store := common.NewInMemoryKVStore()
	vaultstate.InitLedgerState(store, ledger.DefaultParams())

	lg, err := NewSolo(global.NewDefault(), store)
	require.NoError(t, err)
	return lg
}

func TestSoloCreateVault(t *testing.T) {
	lg := newTestSoloLedger(t)
	owner := addr(1)

	require.False(t, lg.HasVault(owner))
	require.NoError(t, lg.CreateVault(owner, addr(2), 1000))
	require.True(t, lg.HasVault(owner))
	require.EqualValues(t, 1, lg.TotalVaultCount())

	// one vault per owner
	require.ErrorIs(t, lg.CreateVault(owner, addr(3), 1001), ledger.ErrVaultAlreadyExists)

	// another owner is unaffected
	require.NoError(t, lg.CreateVault(addr(5), addr(2), 1001))
	require.EqualValues(t, 2, lg.TotalVaultCount())

	require.ErrorIs(t, lg.CreateVault(addr(6), addr(6), 1002), ledger.ErrInvalidBeneficiary)
}

func TestSoloLifecycle(t *testing.T) {
	lg := newTestSoloLedger(t)
	owner := addr(1)
	guardian := addr(7)
	const created = ledger.Height(1000)

	require.NoError(t, lg.CreateVault(owner, addr(2), created))
	require.NoError(t, lg.Deposit(owner, ledger.NewAmount(1_000_000), created))
	require.NoError(t, lg.CheckIn(owner, created+100))

	var events []ReleaseEvent
	lg.OnRelease(func(ev ReleaseEvent) {
		events = append(events, ev)
	})

	// the heartbeat at created+100 shifted the whole schedule
	_, err := lg.TriggerTier1(guardian, owner, created+ledger.Tier1Threshold)
	require.ErrorIs(t, err, ledger.ErrTimeoutNotReached)

	released, err := lg.TriggerTier1(guardian, owner, created+100+ledger.Tier1Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(ledger.NewAmount(100_000)))

	// owner operations are rejected after the first release
	require.ErrorIs(t, lg.CheckIn(owner, created+100+ledger.Tier1Threshold), ledger.ErrInvalidState)
	require.ErrorIs(t, lg.Deposit(owner, ledger.NewAmount(1), created+100+ledger.Tier1Threshold), ledger.ErrInvalidState)

	released, err = lg.TriggerTier2(guardian, owner, created+100+ledger.Tier2Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(ledger.NewAmount(900_000)))

	s, err := lg.GetStatus(owner, created+100+ledger.Tier2Threshold)
	require.NoError(t, err)
	require.EqualValues(t, ledger.StatusFinalized, s.Status)

	require.EqualValues(t, 2, len(events))
	require.True(t, events[0].VaultID.IsNil())
	require.EqualValues(t, owner, events[0].Owner)
	require.EqualValues(t, guardian, events[1].TriggeredBy)
}

func TestSoloConcurrentCreate(t *testing.T) {
	lg := newTestSoloLedger(t)

	// owners land on distinct lock stripes, so only the creation mutex
	// protects the shared total vault counter
	const numOwners = 32

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(numOwners)
	for i := 0; i < numOwners; i++ {
		owner := addr(byte(i + 1))
		go func() {
			defer wg.Done()
			<-start
			require.NoError(t, lg.CreateVault(owner, addr(200), 1000))
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, numOwners, lg.TotalVaultCount())
	for i := 0; i < numOwners; i++ {
		require.True(t, lg.HasVault(addr(byte(i+1))))
	}
}

func TestSoloNotFound(t *testing.T) {
	lg := newTestSoloLedger(t)

	require.ErrorIs(t, lg.CheckIn(addr(1), 1000), ledger.ErrNotFound)
	require.ErrorIs(t, lg.Deposit(addr(1), ledger.NewAmount(10), 1000), ledger.ErrNotFound)
	_, err := lg.GetStatus(addr(1), 1000)
	require.ErrorIs(t, err, ledger.ErrNotFound)
	_, err = lg.GetBeneficiary(addr(1))
	require.ErrorIs(t, err, ledger.ErrNotFound)
}
