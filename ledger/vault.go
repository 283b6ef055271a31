package ledger

import (
	"fmt"

	"github.com/hereditas-net/hereditas/util/lines"
)

// Vault is the central record of the ledger: a claimed deposit balance with a
// two-tranche timed release schedule driven by owner inactivity.
//
// The record layout (without the id, which is the storage key):
//
//	byte 0        status
//	bytes 1-20    owner
//	bytes 21-40   beneficiary
//	bytes 41-48   lastHeartbeat, big-endian
//	bytes 49-80   totalDeposited, big-endian
//	bytes 81-112  tier1Amount, big-endian
//	bytes 113-144 tier2Amount, big-endian
type Vault struct {
	ID          VaultID
	Owner       Address
	Beneficiary Address
	Status      VaultStatus
	// LastHeartbeat block height recorded at creation and at every owner check-in.
	// Never modified by tier triggers
	LastHeartbeat Height
	// TotalDeposited cumulative accounting figure, monotonically non-decreasing.
	// The ledger never moves real value, it only tracks entitlements
	TotalDeposited Amount
	// Tier1Amount, Tier2Amount materialized entitlement split, recomputed on
	// every deposit. Invariant: Tier1Amount + Tier2Amount == TotalDeposited
	Tier1Amount Amount
	Tier2Amount Amount
}

// StatusBundle is the full non-mutating view of a vault at a given height
type StatusBundle struct {
	Status         VaultStatus
	LastHeartbeat  Height
	CurrentHeight  Height
	TotalDeposited Amount
	Tier1Amount    Amount
	Tier2Amount    Amount
	Tier1Remaining Height
	Tier2Remaining Height
	Owner          Address
}

const vaultRecordByteLength = 1 + 2*AddressByteLength + HeightByteLength + 3*AmountByteLength

// NewVault the creation transition: Uninitialized -> Active. The creator
// becomes the immutable owner; the heartbeat checkpoint starts at the current
// height; deposit and tiers start at zero
func NewVault(id VaultID, owner, beneficiary Address, now Height) (*Vault, error) {
	if err := validBeneficiary(owner, beneficiary); err != nil {
		return nil, err
	}
	return &Vault{
		ID:             id,
		Owner:          owner,
		Beneficiary:    beneficiary,
		Status:         StatusActive,
		LastHeartbeat:  now,
		TotalDeposited: NewAmount(0),
		Tier1Amount:    NewAmount(0),
		Tier2Amount:    NewAmount(0),
	}, nil
}

func validBeneficiary(owner, beneficiary Address) error {
	if beneficiary.IsNil() {
		return fmt.Errorf("%w: beneficiary is nil", ErrInvalidBeneficiary)
	}
	if beneficiary == owner {
		return fmt.Errorf("%w: beneficiary equals owner", ErrInvalidBeneficiary)
	}
	return nil
}

// checkOwnerActive common guard of the three owner-gated operations
func (v *Vault) checkOwnerActive(caller Address) error {
	if v.Status != StatusActive {
		return fmt.Errorf("%w: vault %s is %s", ErrInvalidState, v.ID.String(), v.Status.String())
	}
	if caller != v.Owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, caller.String())
	}
	return nil
}

// CheckIn resets the inactivity clock. Owner-only, Active-only
func (v *Vault) CheckIn(caller Address, now Height) error {
	if err := v.checkOwnerActive(caller); err != nil {
		return err
	}
	v.LastHeartbeat = now
	return nil
}

// Deposit adds to the cumulative deposited figure and recomputes the
// materialized tier split. Owner-only, Active-only, amount must be positive
func (v *Vault) Deposit(caller Address, amount Amount) error {
	if err := v.checkOwnerActive(caller); err != nil {
		return err
	}
	if amount.IsZero() {
		return fmt.Errorf("%w: deposit amount is zero", ErrInvalidAmount)
	}
	total, err := v.TotalDeposited.Add(amount)
	if err != nil {
		return err
	}
	tier1, tier2, err := SplitTiers(total)
	if err != nil {
		return err
	}
	v.TotalDeposited = total
	v.Tier1Amount = tier1
	v.Tier2Amount = tier2
	return nil
}

// SetBeneficiary owner-only, Active-only; same validity rule as at creation
func (v *Vault) SetBeneficiary(caller, newBeneficiary Address) error {
	if err := v.checkOwnerActive(caller); err != nil {
		return err
	}
	if err := validBeneficiary(v.Owner, newBeneficiary); err != nil {
		return err
	}
	v.Beneficiary = newBeneficiary
	return nil
}

// TriggerTier1 the open 'dead man' release of the first tranche. No caller
// check at all: eligibility is purely state- and time-based because the owner
// may be unreachable. Does not touch the heartbeat checkpoint
func (v *Vault) TriggerTier1(now Height) (Amount, error) {
	if v.Status != StatusActive {
		return Amount{}, fmt.Errorf("%w: vault %s is %s", ErrInvalidState, v.ID.String(), v.Status.String())
	}
	if !CanTriggerTier1(v.LastHeartbeat, now) {
		return Amount{}, fmt.Errorf("%w: %d block(s) to go",
			ErrTimeoutNotReached, Remaining(Tier1Threshold, Elapsed(v.LastHeartbeat, now)))
	}
	v.Status = StatusTier1Released
	return v.Tier1Amount, nil
}

// TriggerTier2 the final release. Requires having passed through
// Tier1Released: it never fires directly from Active even when enough time
// has elapsed for both thresholds. The elapsed clock is the same
// since-heartbeat value as tier 1's, not restarted at tier 1 release
func (v *Vault) TriggerTier2(now Height) (Amount, error) {
	if v.Status != StatusTier1Released {
		return Amount{}, fmt.Errorf("%w: vault %s is %s", ErrInvalidState, v.ID.String(), v.Status.String())
	}
	if !CanTriggerTier2(v.LastHeartbeat, now) {
		return Amount{}, fmt.Errorf("%w: %d block(s) to go",
			ErrTimeoutNotReached, Remaining(Tier2Threshold, Elapsed(v.LastHeartbeat, now)))
	}
	v.Status = StatusFinalized
	return v.Tier2Amount, nil
}

// StatusBundle snapshot of all queryable fields plus the countdown figures
// recomputed at the given height
func (v *Vault) StatusBundle(now Height) *StatusBundle {
	elapsed := Elapsed(v.LastHeartbeat, now)
	return &StatusBundle{
		Status:         v.Status,
		LastHeartbeat:  v.LastHeartbeat,
		CurrentHeight:  now,
		TotalDeposited: v.TotalDeposited,
		Tier1Amount:    v.Tier1Amount,
		Tier2Amount:    v.Tier2Amount,
		Tier1Remaining: Remaining(Tier1Threshold, elapsed),
		Tier2Remaining: Remaining(Tier2Threshold, elapsed),
		Owner:          v.Owner,
	}
}

func (v *Vault) Clone() *Vault {
	ret := *v
	return &ret
}

func (v *Vault) Bytes() []byte {
	ret := make([]byte, 0, vaultRecordByteLength)
	ret = append(ret, byte(v.Status))
	ret = append(ret, v.Owner.Bytes()...)
	ret = append(ret, v.Beneficiary.Bytes()...)
	ret = append(ret, v.LastHeartbeat.Bytes()...)
	ret = append(ret, v.TotalDeposited.Bytes()...)
	ret = append(ret, v.Tier1Amount.Bytes()...)
	ret = append(ret, v.Tier2Amount.Bytes()...)
	return ret
}

func VaultFromBytes(id VaultID, data []byte) (*Vault, error) {
	if len(data) != vaultRecordByteLength {
		return nil, fmt.Errorf("VaultFromBytes: wrong data length %d", len(data))
	}
	status, err := VaultStatusFromByte(data[0])
	if err != nil {
		return nil, fmt.Errorf("VaultFromBytes: %w", err)
	}
	ret := &Vault{ID: id, Status: status}
	pos := 1
	ret.Owner, err = AddressFromBytes(data[pos : pos+AddressByteLength])
	if err != nil {
		return nil, err
	}
	pos += AddressByteLength
	ret.Beneficiary, err = AddressFromBytes(data[pos : pos+AddressByteLength])
	if err != nil {
		return nil, err
	}
	pos += AddressByteLength
	ret.LastHeartbeat, err = HeightFromBytes(data[pos : pos+HeightByteLength])
	if err != nil {
		return nil, err
	}
	pos += HeightByteLength
	ret.TotalDeposited, err = AmountFromBytes(data[pos : pos+AmountByteLength])
	if err != nil {
		return nil, err
	}
	pos += AmountByteLength
	ret.Tier1Amount, err = AmountFromBytes(data[pos : pos+AmountByteLength])
	if err != nil {
		return nil, err
	}
	pos += AmountByteLength
	ret.Tier2Amount, err = AmountFromBytes(data[pos : pos+AmountByteLength])
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (v *Vault) Lines(prefix ...string) *lines.Lines {
	ret := lines.New(prefix...)
	ret.Add("id:             %s", v.ID.String()).
		Add("status:         %s", v.Status.String()).
		Add("owner:          %s", v.Owner.String()).
		Add("beneficiary:    %s", v.Beneficiary.String()).
		Add("last heartbeat: %s", v.LastHeartbeat.String()).
		Add("deposited:      %s", v.TotalDeposited.String()).
		Add("tier 1 tranche: %s", v.Tier1Amount.String()).
		Add("tier 2 tranche: %s", v.Tier2Amount.String())
	return ret
}

func (s *StatusBundle) Lines(prefix ...string) *lines.Lines {
	ret := lines.New(prefix...)
	ret.Add("status:           %s", s.Status.String()).
		Add("owner:            %s", s.Owner.String()).
		Add("last heartbeat:   %s", s.LastHeartbeat.String()).
		Add("current height:   %s", s.CurrentHeight.String()).
		Add("deposited:        %s", s.TotalDeposited.String()).
		Add("tier 1 tranche:   %s", s.Tier1Amount.String()).
		Add("tier 2 tranche:   %s", s.Tier2Amount.String()).
		Add("tier 1 remaining: %d block(s)", s.Tier1Remaining).
		Add("tier 2 remaining: %d block(s)", s.Tier2Remaining)
	return ret
}
