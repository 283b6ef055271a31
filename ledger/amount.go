package ledger

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/hereditas-net/hereditas/util"
)

const AmountByteLength = 32

// Amount is an unsigned 256 bit accounting value. The width matches the host
// environment's native amount/address word so that deposited figures never
// need narrowing on the boundary.
// The zero value is a valid zero amount. Amount is immutable: all arithmetic
// returns new values and never mutates the receiver
type Amount struct {
	v *big.Int
}

var (
	bigMaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tierNumerator   = big.NewInt(TierSplitNumerator)
	tierDenominator = big.NewInt(TierSplitDenominator)
)

func NewAmount(v uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(v)}
}

// AmountFromBig clones the argument. Fails if negative or beyond 256 bits
func AmountFromBig(v *big.Int) (Amount, error) {
	if v.Sign() < 0 || v.Cmp(bigMaxUint256) > 0 {
		return Amount{}, ErrArithmeticOverflow
	}
	return Amount{v: new(big.Int).Set(v)}, nil
}

// AmountFromBytes interprets data as a big-endian unsigned integer, up to 32 bytes
func AmountFromBytes(data []byte) (Amount, error) {
	if len(data) > AmountByteLength {
		return Amount{}, fmt.Errorf("AmountFromBytes: wrong data length")
	}
	return Amount{v: new(big.Int).SetBytes(data)}, nil
}

// AmountFromDecimalString parses a decimal amount. Underscores are allowed as
// thousands separators
func AmountFromDecimalString(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("AmountFromDecimalString: not a decimal number: '%s'", s)
	}
	return AmountFromBig(v)
}

func (a Amount) bigInt() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Bytes big-endian, padded to exactly 32 bytes. Used as the canonical
// persistence form of the amount
func (a Amount) Bytes() []byte {
	var ret [AmountByteLength]byte
	a.bigInt().FillBytes(ret[:])
	return ret[:]
}

func (a Amount) IsZero() bool {
	return a.bigInt().Sign() == 0
}

func (a Amount) Cmp(b Amount) int {
	return a.bigInt().Cmp(b.bigInt())
}

// Uint64 value and flag if it fits into uint64
func (a Amount) Uint64() (uint64, bool) {
	if !a.bigInt().IsUint64() {
		return 0, false
	}
	return a.bigInt().Uint64(), true
}

func (a Amount) String() string {
	if v, ok := a.Uint64(); ok {
		return util.Th(v)
	}
	return a.bigInt().String()
}

// DecimalString plain decimal form without separators, for the API
func (a Amount) DecimalString() string {
	return a.bigInt().String()
}

// Add overflow-checked addition at 256 bit width
func (a Amount) Add(b Amount) (Amount, error) {
	sum := new(big.Int).Add(a.bigInt(), b.bigInt())
	if sum.Cmp(bigMaxUint256) > 0 {
		return Amount{}, ErrArithmeticOverflow
	}
	return Amount{v: sum}, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return Amount{}, ErrArithmeticOverflow
	}
	return Amount{v: new(big.Int).Sub(a.bigInt(), b.bigInt())}, nil
}

// SplitTiers computes the materialized two-tranche entitlement split of the
// cumulative deposited amount:
//
//	tier1 = floor(total * TierSplitNumerator / TierSplitDenominator)
//	tier2 = total - tier1
//
// tier1 is computed multiply-then-divide so no precision is lost before the
// final floor; tier2 is the remainder, which makes tier1+tier2 == total exact
// by construction. The multiplication intermediate is checked against the
// 256 bit bound and fails with ErrArithmeticOverflow instead of wrapping
func SplitTiers(total Amount) (tier1, tier2 Amount, err error) {
	mul := new(big.Int).Mul(total.bigInt(), tierNumerator)
	// the intermediate product must not exceed the host word width
	if mul.Cmp(bigMaxUint256) > 0 {
		err = ErrArithmeticOverflow
		return
	}
	tier1 = Amount{v: mul.Div(mul, tierDenominator)}
	tier2, err = total.Sub(tier1)
	return
}
