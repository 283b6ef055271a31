package vaultledger

import (
	"fmt"
	"sync"

	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

// The vault ledger is invoked synchronously, once per external call, by a
// host that supplies the current block height and the caller identity. It has
// no background processes of its own: all time-based logic is recomputed on
// demand from the stored heartbeat checkpoint and the supplied height.
//
// When exposed to concurrent callers, per-vault isolation is enforced with a
// striped lock keyed by the vault id: the read-modify-write of a single
// vault record is atomic as a unit. No ordering is guaranteed across
// different vaults

type (
	environment interface {
		global.Logging
		global.Metrics
	}

	// Ledger the multi-vault variant: every creation allocates a fresh
	// sequential id, an owner may create arbitrarily many vaults
	Ledger struct {
		environment
		store  vaultstate.StateStore
		params *ledger.Params

		// allocMutex serializes id allocation and the owner index append
		allocMutex sync.Mutex
		vaultLocks lockStripes

		onReleaseMutex sync.RWMutex
		onRelease      []func(ev ReleaseEvent)

		numCalls atomic.Uint64
		metrics
	}

	metrics struct {
		callCounter *prometheus.CounterVec
	}

	// ReleaseEvent emitted on every successful tier trigger
	ReleaseEvent struct {
		VaultID     ledger.VaultID
		Owner       ledger.Address
		Beneficiary ledger.Address
		Tier        byte
		Amount      ledger.Amount
		Height      ledger.Height
		TriggeredBy ledger.Address
	}

	lockStripes [256]sync.Mutex
)

const TraceTag = "vaultledger"

func New(env environment, store vaultstate.StateStore) (*Ledger, error) {
	par, err := vaultstate.FetchParams(store)
	if err != nil {
		return nil, fmt.Errorf("vaultledger.New: %w", err)
	}
	ret := &Ledger{
		environment: env,
		store:       store,
		params:      par,
		onRelease:   make([]func(ev ReleaseEvent), 0),
	}
	ret.registerMetrics(env.MetricsRegistry())
	env.Log().Infof("vault ledger started. Total vaults: %d, fee amount: %s",
		vaultstate.FetchTotalVaultCount(store), par.FeeAmount.String())
	return ret, nil
}

func (lg *Ledger) registerMetrics(reg *prometheus.Registry) {
	lg.metrics.callCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hereditas_ledger_calls",
		Help: "number of vault ledger calls by operation and outcome",
	}, []string{"op", "outcome"})
	reg.MustRegister(lg.metrics.callCounter)
}

func (lg *Ledger) countCall(op string, err error) {
	lg.numCalls.Inc()
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	lg.metrics.callCounter.WithLabelValues(op, outcome).Inc()
}

func (lg *Ledger) NumCalls() uint64 {
	return lg.numCalls.Load()
}

// OnRelease registers a listener of release events. Listeners are called
// synchronously inside the trigger call, after the state update committed
func (lg *Ledger) OnRelease(fun func(ev ReleaseEvent)) {
	lg.onReleaseMutex.Lock()
	defer lg.onReleaseMutex.Unlock()

	lg.onRelease = append(lg.onRelease, fun)
}

func (lg *Ledger) emitRelease(ev ReleaseEvent) {
	lg.onReleaseMutex.RLock()
	defer lg.onReleaseMutex.RUnlock()

	for _, fun := range lg.onRelease {
		fun(ev)
	}
}

func (s *lockStripes) lock(id ledger.VaultID) *sync.Mutex {
	return &s[id[ledger.VaultIDByteLength-1]]
}

// CreateVault allocates the next sequential id and writes the new Active
// vault with all owner index bookkeeping atomically. Callable by any
// principal; the caller becomes the immutable owner
func (lg *Ledger) CreateVault(caller, beneficiary ledger.Address, now ledger.Height) (id ledger.VaultID, err error) {
	defer func() { lg.countCall("createVault", err) }()

	lg.allocMutex.Lock()
	defer lg.allocMutex.Unlock()

	id = vaultstate.FetchIDCounter(lg.store)
	v, err := ledger.NewVault(id, caller, beneficiary, now)
	if err != nil {
		return ledger.NilVaultID, err
	}
	if err = vaultstate.SaveNewVault(lg.store, v); err != nil {
		return ledger.NilVaultID, err
	}
	lg.Tracef(TraceTag, "createVault: %s owner %s, beneficiary %s, height %d",
		id.String(), caller.StringShort(), beneficiary.StringShort(), now)
	return id, nil
}

// withVaultUpdate runs the transition under the vault's lock: fetch, clone,
// mutate the clone, persist. Any error aborts the call with no mutation
func (lg *Ledger) withVaultUpdate(id ledger.VaultID, fun func(v *ledger.Vault) error) error {
	m := lg.vaultLocks.lock(id)
	m.Lock()
	defer m.Unlock()

	v, found := vaultstate.FetchVault(lg.store, id)
	if !found {
		return fmt.Errorf("%w: id %s", ledger.ErrNotFound, id.String())
	}
	upd := v.Clone()
	if err := fun(upd); err != nil {
		return err
	}
	return vaultstate.SaveVault(lg.store, upd)
}

// CheckIn the owner heartbeat: resets the inactivity clock to the current height
func (lg *Ledger) CheckIn(caller ledger.Address, id ledger.VaultID, now ledger.Height) (err error) {
	defer func() { lg.countCall("checkIn", err) }()

	err = lg.withVaultUpdate(id, func(v *ledger.Vault) error {
		return v.CheckIn(caller, now)
	})
	if err == nil {
		lg.Tracef(TraceTag, "checkIn: %s at height %d", id.String(), now)
	}
	return err
}

// Deposit records an accounting deposit and recomputes the materialized tier split
func (lg *Ledger) Deposit(caller ledger.Address, id ledger.VaultID, amount ledger.Amount, now ledger.Height) (err error) {
	defer func() { lg.countCall("deposit", err) }()

	err = lg.withVaultUpdate(id, func(v *ledger.Vault) error {
		return v.Deposit(caller, amount)
	})
	if err == nil {
		lg.Tracef(TraceTag, "deposit: %s amount %s at height %d", id.String(), amount.String(), now)
	}
	return err
}

func (lg *Ledger) SetBeneficiary(caller ledger.Address, id ledger.VaultID, newBeneficiary ledger.Address, now ledger.Height) (err error) {
	defer func() { lg.countCall("setBeneficiary", err) }()

	err = lg.withVaultUpdate(id, func(v *ledger.Vault) error {
		return v.SetBeneficiary(caller, newBeneficiary)
	})
	if err == nil {
		lg.Tracef(TraceTag, "setBeneficiary: %s -> %s at height %d", id.String(), newBeneficiary.StringShort(), now)
	}
	return err
}

// TriggerTier1 open 'dead man' release of the first tranche. The caller
// identity is not checked, it is only recorded with the release event
func (lg *Ledger) TriggerTier1(caller ledger.Address, id ledger.VaultID, now ledger.Height) (released ledger.Amount, err error) {
	defer func() { lg.countCall("triggerTier1", err) }()

	var ev ReleaseEvent
	err = lg.withVaultUpdate(id, func(v *ledger.Vault) error {
		amount, err1 := v.TriggerTier1(now)
		if err1 != nil {
			return err1
		}
		released = amount
		ev = ReleaseEvent{
			VaultID:     id,
			Owner:       v.Owner,
			Beneficiary: v.Beneficiary,
			Tier:        1,
			Amount:      amount,
			Height:      now,
			TriggeredBy: caller,
		}
		return nil
	})
	if err != nil {
		return ledger.Amount{}, err
	}
	lg.Log().Infof("tier 1 released on vault %s: %s to %s, triggered by %s at height %d",
		id.String(), released.String(), ev.Beneficiary.StringShort(), caller.StringShort(), now)
	lg.emitRelease(ev)
	return released, nil
}

// TriggerTier2 open release of the final tranche; the vault becomes a
// permanent tombstone
func (lg *Ledger) TriggerTier2(caller ledger.Address, id ledger.VaultID, now ledger.Height) (released ledger.Amount, err error) {
	defer func() { lg.countCall("triggerTier2", err) }()

	var ev ReleaseEvent
	err = lg.withVaultUpdate(id, func(v *ledger.Vault) error {
		amount, err1 := v.TriggerTier2(now)
		if err1 != nil {
			return err1
		}
		released = amount
		ev = ReleaseEvent{
			VaultID:     id,
			Owner:       v.Owner,
			Beneficiary: v.Beneficiary,
			Tier:        2,
			Amount:      amount,
			Height:      now,
			TriggeredBy: caller,
		}
		return nil
	})
	if err != nil {
		return ledger.Amount{}, err
	}
	lg.Log().Infof("tier 2 released on vault %s: %s to %s, vault finalized. Triggered by %s at height %d",
		id.String(), released.String(), ev.Beneficiary.StringShort(), caller.StringShort(), now)
	lg.emitRelease(ev)
	return released, nil
}

// queries

func (lg *Ledger) GetStatus(id ledger.VaultID, now ledger.Height) (*ledger.StatusBundle, error) {
	v, found := vaultstate.FetchVault(lg.store, id)
	if !found {
		return nil, fmt.Errorf("%w: id %s", ledger.ErrNotFound, id.String())
	}
	return v.StatusBundle(now), nil
}

func (lg *Ledger) GetVault(id ledger.VaultID) (*ledger.Vault, error) {
	v, found := vaultstate.FetchVault(lg.store, id)
	if !found {
		return nil, fmt.Errorf("%w: id %s", ledger.ErrNotFound, id.String())
	}
	return v, nil
}

func (lg *Ledger) GetBeneficiary(id ledger.VaultID) (ledger.Address, error) {
	v, found := vaultstate.FetchVault(lg.store, id)
	if !found {
		return ledger.NilAddress, fmt.Errorf("%w: id %s", ledger.ErrNotFound, id.String())
	}
	return v.Beneficiary, nil
}

func (lg *Ledger) HasVault(id ledger.VaultID) bool {
	return vaultstate.HasVault(lg.store, id)
}

func (lg *Ledger) GetVaultCount(owner ledger.Address) uint64 {
	return vaultstate.FetchVaultCountByOwner(lg.store, owner)
}

func (lg *Ledger) GetVaultIDByIndex(owner ledger.Address, idx uint64) (ledger.VaultID, error) {
	return vaultstate.FetchVaultIDByIndex(lg.store, owner, idx)
}

func (lg *Ledger) GetFeeAmount() ledger.Amount {
	return lg.params.FeeAmount
}

func (lg *Ledger) Params() *ledger.Params {
	return lg.params
}

func (lg *Ledger) TotalVaultCount() uint64 {
	return vaultstate.FetchTotalVaultCount(lg.store)
}
