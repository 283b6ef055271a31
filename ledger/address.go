package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

const AddressByteLength = 20

// Address is the fixed-width identity of a principal, as derived by the host
// environment from its public key. The ledger never interprets address bytes,
// it only compares them
type Address [AddressByteLength]byte

var NilAddress Address

var errWrongAddressLength = fmt.Errorf("wrong address data length")

func AddressFromBytes(data []byte) (ret Address, err error) {
	if len(data) != AddressByteLength {
		err = errWrongAddressLength
		return
	}
	copy(ret[:], data)
	return
}

// AddressFromHexString parses an address from hex, with or without '0x' prefix
func AddressFromHexString(s string) (ret Address, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return
	}
	return AddressFromBytes(data)
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsNil() bool {
	return a == NilAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// StringShort first bytes of the address for log readability
func (a Address) StringShort() string {
	return fmt.Sprintf("0x%s..", hex.EncodeToString(a[:4]))
}

func LessAddress(a1, a2 Address) bool {
	return bytes.Compare(a1[:], a2[:]) < 0
}
