package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const VaultIDByteLength = 32

// VaultID is the opaque unique identifier of a vault, assigned sequentially
// by the ledger at creation. It is a 256 bit big-endian unsigned integer to
// match the host word width, but the allocator only ever increments it by 1
type VaultID [VaultIDByteLength]byte

var NilVaultID VaultID

func VaultIDFromUint64(v uint64) (ret VaultID) {
	binary.BigEndian.PutUint64(ret[VaultIDByteLength-8:], v)
	return
}

func VaultIDFromBytes(data []byte) (ret VaultID, err error) {
	if len(data) != VaultIDByteLength {
		err = fmt.Errorf("VaultIDFromBytes: wrong data length")
		return
	}
	copy(ret[:], data)
	return
}

func VaultIDFromHexString(s string) (ret VaultID, err error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return
	}
	return VaultIDFromBytes(data)
}

// VaultIDFromString accepts either the decimal counter value or the full hex form
func VaultIDFromString(s string) (VaultID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || len(s) == 2*VaultIDByteLength {
		return VaultIDFromHexString(s)
	}
	var v uint64
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return NilVaultID, fmt.Errorf("VaultIDFromString: '%s': %w", s, err)
	}
	return VaultIDFromUint64(v), nil
}

func (id VaultID) Bytes() []byte {
	return id[:]
}

func (id VaultID) IsNil() bool {
	return id == NilVaultID
}

// Inc the next sequential id. Ids are allocated by incrementing by exactly 1,
// never reused and never reset; at 256 bit width the counter cannot
// realistically wrap, the assertion is a consistency guard
func (id VaultID) Inc() VaultID {
	ret := id
	for i := VaultIDByteLength - 1; i >= 0; i-- {
		ret[i]++
		if ret[i] != 0 {
			return ret
		}
	}
	panic("VaultID.Inc: id counter wrapped")
}

// Uint64 counter value and flag if it fits into uint64 (it always does in practice)
func (id VaultID) Uint64() (uint64, bool) {
	for _, b := range id[:VaultIDByteLength-8] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(id[VaultIDByteLength-8:]), true
}

func (id VaultID) String() string {
	if v, ok := id.Uint64(); ok {
		return fmt.Sprintf("#%d", v)
	}
	return id.StringHex()
}

func (id VaultID) StringHex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func LessVaultID(id1, id2 VaultID) bool {
	return bytes.Compare(id1[:], id2[:]) < 0
}
