package ledger

import "errors"

// Error taxonomy of the vault ledger. Every error is a rejection of the whole
// call: no field of any vault is ever left partially updated
var (
	// ErrNotOwner caller is not the vault's recorded owner on an owner-gated operation
	ErrNotOwner = errors.New("caller is not the vault owner")
	// ErrInvalidState the operation's required status precondition is not met
	ErrInvalidState = errors.New("invalid vault state for the operation")
	// ErrInvalidBeneficiary beneficiary is the nil identity or equals the owner
	ErrInvalidBeneficiary = errors.New("invalid beneficiary")
	// ErrInvalidAmount deposit amount is zero
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTimeoutNotReached trigger called before its elapsed-time threshold
	ErrTimeoutNotReached = errors.New("inactivity timeout not reached")
	// ErrVaultAlreadyExists creation attempted when the caller already owns a vault (solo variant)
	ErrVaultAlreadyExists = errors.New("vault already exists for the owner")
	// ErrIndexOutOfBounds vault-by-index lookup with index >= count
	ErrIndexOutOfBounds = errors.New("vault index out of bounds")
	// ErrArithmeticOverflow 256 bit arithmetic guard in the tier split
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrNotFound no vault under the given id or owner
	ErrNotFound = errors.New("vault not found")
)
