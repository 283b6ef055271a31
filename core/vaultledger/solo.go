package vaultledger

import (
	"fmt"
	"sync"

	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/prometheus/client_golang/prometheus"
)

// SoloLedger the single-vault variant: all per-vault state is keyed directly
// by the owner identity, each owner has at most one vault and creation fails
// with ErrVaultAlreadyExists on a repeated attempt. The identity and indexing
// semantics differ from the multi-vault Ledger, which is why the two are
// separate types with separate method signatures and are never merged
type SoloLedger struct {
	environment
	store  vaultstate.StateStore
	params *ledger.Params

	// serializes creations: SaveNewSoloVault bumps the shared total vault
	// counter, which stripe locks of different owners do not protect
	createMutex sync.Mutex
	vaultLocks  soloLockStripes

	onReleaseMutex sync.RWMutex
	onRelease      []func(ev ReleaseEvent)

	metrics
}

type soloLockStripes [256]sync.Mutex

func NewSolo(env environment, store vaultstate.StateStore) (*SoloLedger, error) {
	par, err := vaultstate.FetchParams(store)
	if err != nil {
		return nil, fmt.Errorf("vaultledger.NewSolo: %w", err)
	}
	ret := &SoloLedger{
		environment: env,
		store:       store,
		params:      par,
		onRelease:   make([]func(ev ReleaseEvent), 0),
	}
	ret.metrics.callCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hereditas_sololedger_calls",
		Help: "number of solo vault ledger calls by operation and outcome",
	}, []string{"op", "outcome"})
	env.MetricsRegistry().MustRegister(ret.metrics.callCounter)
	env.Log().Infof("solo vault ledger started. Total vaults: %d", vaultstate.FetchTotalVaultCount(store))
	return ret, nil
}

func (lg *SoloLedger) countCall(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	lg.metrics.callCounter.WithLabelValues(op, outcome).Inc()
}

func (lg *SoloLedger) OnRelease(fun func(ev ReleaseEvent)) {
	lg.onReleaseMutex.Lock()
	defer lg.onReleaseMutex.Unlock()

	lg.onRelease = append(lg.onRelease, fun)
}

func (lg *SoloLedger) emitRelease(ev ReleaseEvent) {
	lg.onReleaseMutex.RLock()
	defer lg.onReleaseMutex.RUnlock()

	for _, fun := range lg.onRelease {
		fun(ev)
	}
}

func (s *soloLockStripes) lock(owner ledger.Address) *sync.Mutex {
	return &s[owner[ledger.AddressByteLength-1]]
}

// CreateVault at most one vault per owner. The vault is keyed by the caller
// identity, no id is allocated
func (lg *SoloLedger) CreateVault(caller, beneficiary ledger.Address, now ledger.Height) (err error) {
	defer func() { lg.countCall("createVault", err) }()

	lg.createMutex.Lock()
	defer lg.createMutex.Unlock()

	m := lg.vaultLocks.lock(caller)
	m.Lock()
	defer m.Unlock()

	if vaultstate.HasSoloVault(lg.store, caller) {
		return fmt.Errorf("%w: owner %s", ledger.ErrVaultAlreadyExists, caller.String())
	}
	v, err := ledger.NewVault(ledger.NilVaultID, caller, beneficiary, now)
	if err != nil {
		return err
	}
	if err = vaultstate.SaveNewSoloVault(lg.store, v); err != nil {
		return err
	}
	lg.Tracef(TraceTag, "solo createVault: owner %s, beneficiary %s, height %d",
		caller.StringShort(), beneficiary.StringShort(), now)
	return nil
}

func (lg *SoloLedger) withVaultUpdate(owner ledger.Address, fun func(v *ledger.Vault) error) error {
	m := lg.vaultLocks.lock(owner)
	m.Lock()
	defer m.Unlock()

	v, found := vaultstate.FetchSoloVault(lg.store, owner)
	if !found {
		return fmt.Errorf("%w: owner %s", ledger.ErrNotFound, owner.String())
	}
	upd := v.Clone()
	if err := fun(upd); err != nil {
		return err
	}
	return vaultstate.SaveSoloVault(lg.store, upd)
}

func (lg *SoloLedger) CheckIn(caller ledger.Address, now ledger.Height) (err error) {
	defer func() { lg.countCall("checkIn", err) }()

	return lg.withVaultUpdate(caller, func(v *ledger.Vault) error {
		return v.CheckIn(caller, now)
	})
}

func (lg *SoloLedger) Deposit(caller ledger.Address, amount ledger.Amount, now ledger.Height) (err error) {
	defer func() { lg.countCall("deposit", err) }()

	return lg.withVaultUpdate(caller, func(v *ledger.Vault) error {
		return v.Deposit(caller, amount)
	})
}

func (lg *SoloLedger) SetBeneficiary(caller, newBeneficiary ledger.Address, now ledger.Height) (err error) {
	defer func() { lg.countCall("setBeneficiary", err) }()

	return lg.withVaultUpdate(caller, func(v *ledger.Vault) error {
		return v.SetBeneficiary(caller, newBeneficiary)
	})
}

// TriggerTier1 open release, keyed by the owner of the vault, callable by anyone
func (lg *SoloLedger) TriggerTier1(caller, owner ledger.Address, now ledger.Height) (released ledger.Amount, err error) {
	defer func() { lg.countCall("triggerTier1", err) }()

	var ev ReleaseEvent
	err = lg.withVaultUpdate(owner, func(v *ledger.Vault) error {
		amount, err1 := v.TriggerTier1(now)
		if err1 != nil {
			return err1
		}
		released = amount
		ev = ReleaseEvent{
			Owner:       owner,
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
	lg.Log().Infof("tier 1 released on solo vault of %s: %s, triggered by %s at height %d",
		owner.StringShort(), released.String(), caller.StringShort(), now)
	lg.emitRelease(ev)
	return released, nil
}

func (lg *SoloLedger) TriggerTier2(caller, owner ledger.Address, now ledger.Height) (released ledger.Amount, err error) {
	defer func() { lg.countCall("triggerTier2", err) }()

	var ev ReleaseEvent
	err = lg.withVaultUpdate(owner, func(v *ledger.Vault) error {
		amount, err1 := v.TriggerTier2(now)
		if err1 != nil {
			return err1
		}
		released = amount
		ev = ReleaseEvent{
			Owner:       owner,
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
	lg.Log().Infof("tier 2 released on solo vault of %s: %s, vault finalized. Triggered by %s at height %d",
		owner.StringShort(), released.String(), caller.StringShort(), now)
	lg.emitRelease(ev)
	return released, nil
}

// queries

func (lg *SoloLedger) GetStatus(owner ledger.Address, now ledger.Height) (*ledger.StatusBundle, error) {
	v, found := vaultstate.FetchSoloVault(lg.store, owner)
	if !found {
		return nil, fmt.Errorf("%w: owner %s", ledger.ErrNotFound, owner.String())
	}
	return v.StatusBundle(now), nil
}

func (lg *SoloLedger) GetBeneficiary(owner ledger.Address) (ledger.Address, error) {
	v, found := vaultstate.FetchSoloVault(lg.store, owner)
	if !found {
		return ledger.NilAddress, fmt.Errorf("%w: owner %s", ledger.ErrNotFound, owner.String())
	}
	return v.Beneficiary, nil
}

func (lg *SoloLedger) HasVault(owner ledger.Address) bool {
	return vaultstate.HasSoloVault(lg.store, owner)
}

func (lg *SoloLedger) GetFeeAmount() ledger.Amount {
	return lg.params.FeeAmount
}

func (lg *SoloLedger) Params() *ledger.Params {
	return lg.params
}

func (lg *SoloLedger) TotalVaultCount() uint64 {
	return vaultstate.FetchTotalVaultCount(lg.store)
}
