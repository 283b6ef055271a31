package ledger

import "fmt"

// VaultStatus lifecycle state of a vault. The numeric values are part of the
// persistent record layout and only ever move forward:
// Uninitialized -> Active -> Tier1Released -> Finalized
type VaultStatus byte

const (
	StatusUninitialized = VaultStatus(iota)
	StatusActive
	StatusTier1Released
	StatusFinalized
)

func VaultStatusFromByte(b byte) (VaultStatus, error) {
	if b > byte(StatusFinalized) {
		return StatusUninitialized, fmt.Errorf("VaultStatusFromByte: wrong status value %d", b)
	}
	return VaultStatus(b), nil
}

func (s VaultStatus) String() string {
	switch s {
	case StatusUninitialized:
		return "UNINITIALIZED"
	case StatusActive:
		return "ACTIVE"
	case StatusTier1Released:
		return "TIER1_RELEASED"
	case StatusFinalized:
		return "FINALIZED"
	default:
		return "????"
	}
}

// IsTerminal once Finalized the vault is a permanent tombstone
func (s VaultStatus) IsTerminal() bool {
	return s == StatusFinalized
}
