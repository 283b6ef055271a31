package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func addr(fill byte) (ret Address) {
	for i := range ret {
		ret[i] = fill
	}
	return
}

func TestNewVault(t *testing.T) {
	owner := addr(1)
	beneficiary := addr(2)

	v, err := NewVault(VaultIDFromUint64(1), owner, beneficiary, 1000)
	require.NoError(t, err)
	require.EqualValues(t, StatusActive, v.Status)
	require.EqualValues(t, owner, v.Owner)
	require.EqualValues(t, beneficiary, v.Beneficiary)
	require.EqualValues(t, 1000, v.LastHeartbeat)
	require.True(t, v.TotalDeposited.IsZero())
	require.True(t, v.Tier1Amount.IsZero())
	require.True(t, v.Tier2Amount.IsZero())

	_, err = NewVault(VaultIDFromUint64(1), owner, NilAddress, 1000)
	require.ErrorIs(t, err, ErrInvalidBeneficiary)

	_, err = NewVault(VaultIDFromUint64(1), owner, owner, 1000)
	require.ErrorIs(t, err, ErrInvalidBeneficiary)
}

func TestVaultOwnerOperations(t *testing.T) {
	owner := addr(1)
	stranger := addr(3)

	v, err := NewVault(VaultIDFromUint64(1), owner, addr(2), 1000)
	require.NoError(t, err)

	require.ErrorIs(t, v.CheckIn(stranger, 1100), ErrNotOwner)
	require.NoError(t, v.CheckIn(owner, 1100))
	require.EqualValues(t, 1100, v.LastHeartbeat)

	require.ErrorIs(t, v.Deposit(stranger, NewAmount(100)), ErrNotOwner)
	require.ErrorIs(t, v.Deposit(owner, NewAmount(0)), ErrInvalidAmount)
	require.NoError(t, v.Deposit(owner, NewAmount(100)))
	require.EqualValues(t, 0, v.TotalDeposited.Cmp(NewAmount(100)))
	require.EqualValues(t, 0, v.Tier1Amount.Cmp(NewAmount(10)))
	require.EqualValues(t, 0, v.Tier2Amount.Cmp(NewAmount(90)))

	// deposits accumulate and the split is recomputed from the new total
	require.NoError(t, v.Deposit(owner, NewAmount(25)))
	require.EqualValues(t, 0, v.TotalDeposited.Cmp(NewAmount(125)))
	require.EqualValues(t, 0, v.Tier1Amount.Cmp(NewAmount(12)))
	require.EqualValues(t, 0, v.Tier2Amount.Cmp(NewAmount(113)))

	require.ErrorIs(t, v.SetBeneficiary(stranger, addr(4)), ErrNotOwner)
	require.ErrorIs(t, v.SetBeneficiary(owner, owner), ErrInvalidBeneficiary)
	require.ErrorIs(t, v.SetBeneficiary(owner, NilAddress), ErrInvalidBeneficiary)
	require.NoError(t, v.SetBeneficiary(owner, addr(4)))
	require.EqualValues(t, addr(4), v.Beneficiary)
}

func TestVaultTriggers(t *testing.T) {
	owner := addr(1)
	const created = Height(1000)

	v, err := NewVault(VaultIDFromUint64(1), owner, addr(2), created)
	require.NoError(t, err)
	require.NoError(t, v.Deposit(owner, NewAmount(1_000_000)))

	// one block short of the threshold
	_, err = v.TriggerTier1(created + Tier1Threshold - 1)
	require.ErrorIs(t, err, ErrTimeoutNotReached)
	require.EqualValues(t, StatusActive, v.Status)

	// tier 2 never fires from Active, not even past both thresholds
	_, err = v.TriggerTier2(created + Tier2Threshold + 1000)
	require.ErrorIs(t, err, ErrInvalidState)
	require.EqualValues(t, StatusActive, v.Status)

	released, err := v.TriggerTier1(created + Tier1Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(NewAmount(100_000)))
	require.EqualValues(t, StatusTier1Released, v.Status)
	// the heartbeat checkpoint is untouched by the trigger
	require.EqualValues(t, created, v.LastHeartbeat)

	// repeated tier 1 fails
	_, err = v.TriggerTier1(created + Tier1Threshold)
	require.ErrorIs(t, err, ErrInvalidState)

	// tier 2 runs against the original heartbeat, not the tier 1 moment
	_, err = v.TriggerTier2(created + Tier2Threshold - 1)
	require.ErrorIs(t, err, ErrTimeoutNotReached)

	released, err = v.TriggerTier2(created + Tier2Threshold)
	require.NoError(t, err)
	require.EqualValues(t, 0, released.Cmp(NewAmount(900_000)))
	require.EqualValues(t, StatusFinalized, v.Status)

	// the finalized vault is inert
	_, err = v.TriggerTier2(created + Tier2Threshold)
	require.ErrorIs(t, err, ErrInvalidState)
	require.ErrorIs(t, v.CheckIn(owner, created+Tier2Threshold), ErrInvalidState)
	require.ErrorIs(t, v.Deposit(owner, NewAmount(1)), ErrInvalidState)
	require.ErrorIs(t, v.SetBeneficiary(owner, addr(5)), ErrInvalidState)
}

func TestVaultCheckInDefersRelease(t *testing.T) {
	owner := addr(1)
	const created = Height(1000)

	v, err := NewVault(VaultIDFromUint64(1), owner, addr(2), created)
	require.NoError(t, err)

	// a heartbeat one block before the threshold restarts the countdown
	require.NoError(t, v.CheckIn(owner, created+Tier1Threshold-1))
	_, err = v.TriggerTier1(created + Tier1Threshold)
	require.ErrorIs(t, err, ErrTimeoutNotReached)

	_, err = v.TriggerTier1(created + Tier1Threshold - 1 + Tier1Threshold)
	require.NoError(t, err)
}

func TestStatusBundle(t *testing.T) {
	owner := addr(1)
	const created = Height(1000)

	v, err := NewVault(VaultIDFromUint64(7), owner, addr(2), created)
	require.NoError(t, err)
	require.NoError(t, v.Deposit(owner, NewAmount(500)))

	s := v.StatusBundle(created + 100)
	require.EqualValues(t, StatusActive, s.Status)
	require.EqualValues(t, created, s.LastHeartbeat)
	require.EqualValues(t, created+100, s.CurrentHeight)
	require.EqualValues(t, Tier1Threshold-100, s.Tier1Remaining)
	require.EqualValues(t, Tier2Threshold-100, s.Tier2Remaining)
	require.EqualValues(t, owner, s.Owner)

	s = v.StatusBundle(created + Tier2Threshold + 5000)
	require.EqualValues(t, 0, s.Tier1Remaining)
	require.EqualValues(t, 0, s.Tier2Remaining)
}

func TestVaultBytes(t *testing.T) {
	owner := addr(1)
	v, err := NewVault(VaultIDFromUint64(42), owner, addr(2), 12345)
	require.NoError(t, err)
	require.NoError(t, v.Deposit(owner, NewAmount(1_000_000)))

	back, err := VaultFromBytes(v.ID, v.Bytes())
	require.NoError(t, err)
	require.EqualValues(t, v.ID, back.ID)
	require.EqualValues(t, v.Status, back.Status)
	require.EqualValues(t, v.Owner, back.Owner)
	require.EqualValues(t, v.Beneficiary, back.Beneficiary)
	require.EqualValues(t, v.LastHeartbeat, back.LastHeartbeat)
	require.EqualValues(t, 0, v.TotalDeposited.Cmp(back.TotalDeposited))
	require.EqualValues(t, 0, v.Tier1Amount.Cmp(back.Tier1Amount))
	require.EqualValues(t, 0, v.Tier2Amount.Cmp(back.Tier2Amount))

	_, err = VaultFromBytes(v.ID, v.Bytes()[1:])
	require.Error(t, err)

	data := v.Bytes()
	data[0] = 0xff
	_, err = VaultFromBytes(v.ID, data)
	require.Error(t, err)
}

func TestVaultID(t *testing.T) {
	id := VaultIDFromUint64(1)
	require.EqualValues(t, "#1", id.String())

	next := id.Inc()
	v, ok := next.Uint64()
	require.True(t, ok)
	require.EqualValues(t, 2, v)
	require.True(t, LessVaultID(id, next))

	back, err := VaultIDFromBytes(id.Bytes())
	require.NoError(t, err)
	require.EqualValues(t, id, back)

	back, err = VaultIDFromHexString(id.StringHex())
	require.NoError(t, err)
	require.EqualValues(t, id, back)

	back, err = VaultIDFromString("42")
	require.NoError(t, err)
	require.EqualValues(t, VaultIDFromUint64(42), back)

	// the byte-wise increment carries across byte boundaries
	require.EqualValues(t, VaultIDFromUint64(256), VaultIDFromUint64(255).Inc())
}
