package vaultstate

import (
	"encoding/binary"
	"fmt"

	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/util"
	"github.com/lunfardo314/unitrie/common"
)

// partitions of the state store
const (
	// PartitionVaults vault id -> vault record (multi-vault variant)
	PartitionVaults = byte(iota)
	// PartitionOwnerIndex owner || index -> vault id, append-only creation order
	PartitionOwnerIndex
	// PartitionOwnerCount owner -> number of vaults created by the owner
	PartitionOwnerCount
	// PartitionSolo owner -> vault record (single-vault variant)
	PartitionSolo
	// PartitionConfig ledger params, id counter, total vault count
	PartitionConfig
)

// keys of the config partition
const (
	configKeyParams = byte(iota)
	configKeyIDCounter
	configKeyTotalVaultCount
)

func PartitionToString(p byte) string {
	switch p {
	case PartitionVaults:
		return "VLTS"
	case PartitionOwnerIndex:
		return "OIDX"
	case PartitionOwnerCount:
		return "OCNT"
	case PartitionSolo:
		return "SOLO"
	case PartitionConfig:
		return "CONF"
	default:
		return "????"
	}
}

func configKey(k byte) []byte {
	return []byte{PartitionConfig, k}
}

func vaultKey(id ledger.VaultID) []byte {
	return common.Concat(PartitionVaults, id.Bytes())
}

func ownerIndexKey(owner ledger.Address, idx uint64) []byte {
	var idxBin [8]byte
	binary.BigEndian.PutUint64(idxBin[:], idx)
	return common.Concat(PartitionOwnerIndex, owner.Bytes(), idxBin[:])
}

func ownerCountKey(owner ledger.Address) []byte {
	return common.Concat(PartitionOwnerCount, owner.Bytes())
}

func soloKey(owner ledger.Address) []byte {
	return common.Concat(PartitionSolo, owner.Bytes())
}

// InitLedgerState writes the genesis records of an empty vault ledger:
// params, the id counter starting at 1 and the zero total count.
// Expects a virgin store
func InitLedgerState(store StateStore, par *ledger.Params) {
	util.Assertf(!IsInitialized(store), "InitLedgerState: the store has already been initialized")

	batch := store.BatchedWriter()
	batch.Set(configKey(configKeyParams), par.Bytes())
	batch.Set(configKey(configKeyIDCounter), ledger.VaultIDFromUint64(1).Bytes())
	batch.Set(configKey(configKeyTotalVaultCount), make([]byte, 8))
	err := batch.Commit()
	util.AssertNoError(err)
}

func IsInitialized(r common.KVReader) bool {
	return r.Has(configKey(configKeyParams))
}

func FetchParams(r common.KVReader) (*ledger.Params, error) {
	data := r.Get(configKey(configKeyParams))
	if len(data) == 0 {
		return nil, fmt.Errorf("FetchParams: state has not been initialized")
	}
	return ledger.ParamsFromBytes(data)
}

func MustFetchParams(r common.KVReader) *ledger.Params {
	ret, err := FetchParams(r)
	util.AssertNoError(err)
	return ret
}

// FetchIDCounter the id to be assigned to the next created vault
func FetchIDCounter(r common.KVReader) ledger.VaultID {
	data := r.Get(configKey(configKeyIDCounter))
	ret, err := ledger.VaultIDFromBytes(data)
	util.AssertNoError(err, "FetchIDCounter")
	return ret
}

func FetchTotalVaultCount(r common.KVReader) uint64 {
	data := r.Get(configKey(configKeyTotalVaultCount))
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

func FetchVault(r common.KVReader, id ledger.VaultID) (*ledger.Vault, bool) {
	data := r.Get(vaultKey(id))
	if len(data) == 0 {
		return nil, false
	}
	ret, err := ledger.VaultFromBytes(id, data)
	util.AssertNoError(err, "FetchVault: corrupted vault record")
	return ret, true
}

func HasVault(r common.KVReader, id ledger.VaultID) bool {
	return r.Has(vaultKey(id))
}

func FetchVaultCountByOwner(r common.KVReader, owner ledger.Address) uint64 {
	data := r.Get(ownerCountKey(owner))
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// FetchVaultIDByIndex the i-th vault id created by the owner, in creation order
func FetchVaultIDByIndex(r common.KVReader, owner ledger.Address, idx uint64) (ledger.VaultID, error) {
	if idx >= FetchVaultCountByOwner(r, owner) {
		return ledger.NilVaultID, fmt.Errorf("%w: index %d, owner %s", ledger.ErrIndexOutOfBounds, idx, owner.String())
	}
	data := r.Get(ownerIndexKey(owner, idx))
	return ledger.VaultIDFromBytes(data)
}

func FetchSoloVault(r common.KVReader, owner ledger.Address) (*ledger.Vault, bool) {
	data := r.Get(soloKey(owner))
	if len(data) == 0 {
		return nil, false
	}
	ret, err := ledger.VaultFromBytes(ledger.NilVaultID, data)
	util.AssertNoError(err, "FetchSoloVault: corrupted vault record")
	util.Assertf(ret.Owner == owner, "FetchSoloVault: inconsistent owner in the record")
	return ret, true
}

func HasSoloVault(r common.KVReader, owner ledger.Address) bool {
	return r.Has(soloKey(owner))
}

// SaveNewVault persists a freshly created vault together with all allocation
// bookkeeping in one atomic batch: the record itself, the owner index entry,
// the per-owner count, the incremented id counter and the global total.
// The caller must have assigned v.ID from the current counter value
func SaveNewVault(store StateStore, v *ledger.Vault) error {
	util.Assertf(v.ID == FetchIDCounter(store), "SaveNewVault: vault id %s is not the allocator value", v.ID.String())

	ownerCount := FetchVaultCountByOwner(store, v.Owner)
	totalCount := FetchTotalVaultCount(store)

	var countBin, totalBin [8]byte
	binary.BigEndian.PutUint64(countBin[:], ownerCount+1)
	binary.BigEndian.PutUint64(totalBin[:], totalCount+1)

	batch := store.BatchedWriter()
	batch.Set(vaultKey(v.ID), v.Bytes())
	batch.Set(ownerIndexKey(v.Owner, ownerCount), v.ID.Bytes())
	batch.Set(ownerCountKey(v.Owner), countBin[:])
	batch.Set(configKey(configKeyIDCounter), v.ID.Inc().Bytes())
	batch.Set(configKey(configKeyTotalVaultCount), totalBin[:])
	return batch.Commit()
}

// SaveVault persists an update of an existing vault record
func SaveVault(store StateStore, v *ledger.Vault) error {
	batch := store.BatchedWriter()
	batch.Set(vaultKey(v.ID), v.Bytes())
	return batch.Commit()
}

// SaveNewSoloVault single-vault variant: the record is keyed by the owner,
// only the global total needs bookkeeping
func SaveNewSoloVault(store StateStore, v *ledger.Vault) error {
	totalCount := FetchTotalVaultCount(store)
	var totalBin [8]byte
	binary.BigEndian.PutUint64(totalBin[:], totalCount+1)

	batch := store.BatchedWriter()
	batch.Set(soloKey(v.Owner), v.Bytes())
	batch.Set(configKey(configKeyTotalVaultCount), totalBin[:])
	return batch.Commit()
}

func SaveSoloVault(store StateStore, v *ledger.Vault) error {
	batch := store.BatchedWriter()
	batch.Set(soloKey(v.Owner), v.Bytes())
	return batch.Commit()
}

// IterateVaults all vault records of the multi-vault partition, in id order
func IterateVaults(store StateStoreReader, fun func(v *ledger.Vault) bool) {
	store.Iterator([]byte{PartitionVaults}).Iterate(func(k, data []byte) bool {
		id, err := ledger.VaultIDFromBytes(k[1:])
		util.AssertNoError(err)
		v, err := ledger.VaultFromBytes(id, data)
		util.AssertNoError(err)
		return fun(v)
	})
}

// IterateSoloVaults all vault records of the single-vault partition
func IterateSoloVaults(store StateStoreReader, fun func(v *ledger.Vault) bool) {
	store.Iterator([]byte{PartitionSolo}).Iterate(func(_, data []byte) bool {
		v, err := ledger.VaultFromBytes(ledger.NilVaultID, data)
		util.AssertNoError(err)
		return fun(v)
	})
}
