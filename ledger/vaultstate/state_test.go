package vaultstate

import (
	"testing"

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

func TestInitLedgerState(t *testing.T) {
	store := common.NewInMemoryKVStore()
	require.False(t, IsInitialized(store))

	par := ledger.DefaultParams()
	par.Description = "test ledger"
	par.FeeAmount = ledger.NewAmount(15)
	InitLedgerState(store, par)

	require.True(t, IsInitialized(store))
	parBack := MustFetchParams(store)
	require.EqualValues(t, "test ledger", parBack.Description)
	require.EqualValues(t, 0, parBack.FeeAmount.Cmp(ledger.NewAmount(15)))

	require.EqualValues(t, ledger.VaultIDFromUint64(1), FetchIDCounter(store))
	require.EqualValues(t, 0, FetchTotalVaultCount(store))

	_, err := FetchParams(common.NewInMemoryKVStore())
	require.Error(t, err)
}

func TestSaveNewVault(t *testing.T) {
	store := common.NewInMemoryKVStore()
	InitLedgerState(store, ledger.DefaultParams())

	owner := addr(1)
	id := FetchIDCounter(store)
	v, err := ledger.NewVault(id, owner, addr(2), 1000)
	require.NoError(t, err)
	require.NoError(t, SaveNewVault(store, v))

	require.True(t, HasVault(store, id))
	require.False(t, HasVault(store, id.Inc()))
	require.EqualValues(t, id.Inc(), FetchIDCounter(store))
	require.EqualValues(t, 1, FetchTotalVaultCount(store))
	require.EqualValues(t, 1, FetchVaultCountByOwner(store, owner))
	require.EqualValues(t, 0, FetchVaultCountByOwner(store, addr(9)))

	back, found := FetchVault(store, id)
	require.True(t, found)
	require.EqualValues(t, owner, back.Owner)
	require.EqualValues(t, ledger.StatusActive, back.Status)
}

func TestOwnerIndex(t *testing.T) {
	store := common.NewInMemoryKVStore()
	InitLedgerState(store, ledger.DefaultParams())

	owner := addr(1)
	other := addr(3)
	var ids []ledger.VaultID
	for i := 0; i < 5; i++ {
		o := owner
		if i == 2 {
			o = other
		}
		id := FetchIDCounter(store)
		v, err := ledger.NewVault(id, o, addr(2), 1000)
		require.NoError(t, err)
		require.NoError(t, SaveNewVault(store, v))
		if o == owner {
			ids = append(ids, id)
		}
	}
	require.EqualValues(t, 5, FetchTotalVaultCount(store))
	require.EqualValues(t, 4, FetchVaultCountByOwner(store, owner))
	require.EqualValues(t, 1, FetchVaultCountByOwner(store, other))

	// creation order is preserved
	for i, idExpected := range ids {
		id, err := FetchVaultIDByIndex(store, owner, uint64(i))
		require.NoError(t, err)
		require.EqualValues(t, idExpected, id)
	}

	_, err := FetchVaultIDByIndex(store, owner, 4)
	require.ErrorIs(t, err, ledger.ErrIndexOutOfBounds)
	_, err = FetchVaultIDByIndex(store, addr(9), 0)
	require.ErrorIs(t, err, ledger.ErrIndexOutOfBounds)
}

func TestSaveVaultUpdate(t *testing.T) {
	store := common.NewInMemoryKVStore()
	InitLedgerState(store, ledger.DefaultParams())

	owner := addr(1)
	id := FetchIDCounter(store)
	v, err := ledger.NewVault(id, owner, addr(2), 1000)
	require.NoError(t, err)
	require.NoError(t, SaveNewVault(store, v))

	upd, found := FetchVault(store, id)
	require.True(t, found)
	require.NoError(t, upd.Deposit(owner, ledger.NewAmount(1000)))
	require.NoError(t, SaveVault(store, upd))

	back, found := FetchVault(store, id)
	require.True(t, found)
	require.EqualValues(t, 0, back.TotalDeposited.Cmp(ledger.NewAmount(1000)))
	// the update does not touch the allocation bookkeeping
	require.EqualValues(t, 1, FetchTotalVaultCount(store))
	require.EqualValues(t, id.Inc(), FetchIDCounter(store))
}

func TestSoloVault(t *testing.T) {
	store := common.NewInMemoryKVStore()
	InitLedgerState(store, ledger.DefaultParams())

	owner := addr(1)
	require.False(t, HasSoloVault(store, owner))

	v, err := ledger.NewVault(ledger.NilVaultID, owner, addr(2), 1000)
	require.NoError(t, err)
	require.NoError(t, SaveNewSoloVault(store, v))

	require.True(t, HasSoloVault(store, owner))
	require.False(t, HasSoloVault(store, addr(9)))
	require.EqualValues(t, 1, FetchTotalVaultCount(store))

	back, found := FetchSoloVault(store, owner)
	require.True(t, found)
	require.EqualValues(t, owner, back.Owner)

	require.NoError(t, back.CheckIn(owner, 2000))
	require.NoError(t, SaveSoloVault(store, back))
	back, found = FetchSoloVault(store, owner)
	require.True(t, found)
	require.EqualValues(t, 2000, back.LastHeartbeat)
}

func TestIterateVaults(t *testing.T) {
	store := common.NewInMemoryKVStore()
	InitLedgerState(store, ledger.DefaultParams())

	for i := 0; i < 10; i++ {
		id := FetchIDCounter(store)
		v, err := ledger.NewVault(id, addr(byte(i+1)), addr(100), 1000)
		require.NoError(t, err)
		require.NoError(t, SaveNewVault(store, v))
	}

	count := 0
	prev := ledger.NilVaultID
	IterateVaults(store, func(v *ledger.Vault) bool {
		require.True(t, ledger.LessVaultID(prev, v.ID))
		prev = v.ID
		count++
		return true
	})
	require.EqualValues(t, 10, count)

	// early termination
	count = 0
	IterateVaults(store, func(_ *ledger.Vault) bool {
		count++
		return count < 3
	})
	require.EqualValues(t, 3, count)
}
