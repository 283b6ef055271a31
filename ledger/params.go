package ledger

import (
	"fmt"

	"github.com/hereditas-net/hereditas/util/lines"
)

// Params ledger-wide configuration record, written once at genesis init.
// The platform fee is informational in the core: it is served by the
// getFeeAmount view, charging it is a host concern
type Params struct {
	// Description arbitrary string up to 255 bytes
	Description string
	// FeeAmount platform fee, view-only
	FeeAmount Amount
	// FeeRecipient identity the host pays the fee to
	FeeRecipient Address
}

func DefaultParams() *Params {
	return &Params{
		Description:  "hereditas vault ledger",
		FeeAmount:    NewAmount(0),
		FeeRecipient: NilAddress,
	}
}

func (p *Params) Bytes() []byte {
	ret := make([]byte, 0, 1+len(p.Description)+AmountByteLength+AddressByteLength)
	ret = append(ret, byte(len(p.Description)))
	ret = append(ret, p.Description...)
	ret = append(ret, p.FeeAmount.Bytes()...)
	ret = append(ret, p.FeeRecipient.Bytes()...)
	return ret
}

func ParamsFromBytes(data []byte) (*Params, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("ParamsFromBytes: empty data")
	}
	descLen := int(data[0])
	if len(data) != 1+descLen+AmountByteLength+AddressByteLength {
		return nil, fmt.Errorf("ParamsFromBytes: wrong data length %d", len(data))
	}
	ret := &Params{
		Description: string(data[1 : 1+descLen]),
	}
	pos := 1 + descLen
	var err error
	ret.FeeAmount, err = AmountFromBytes(data[pos : pos+AmountByteLength])
	if err != nil {
		return nil, err
	}
	pos += AmountByteLength
	ret.FeeRecipient, err = AddressFromBytes(data[pos : pos+AddressByteLength])
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Params) Lines(prefix ...string) *lines.Lines {
	ret := lines.New(prefix...)
	ret.Add("description:   %s", p.Description).
		Add("fee amount:    %s", p.FeeAmount.String()).
		Add("fee recipient: %s", p.FeeRecipient.String()).
		Add("tier 1 threshold: %d blocks", Tier1Threshold).
		Add("tier 2 threshold: %d blocks", Tier2Threshold).
		Add("tier 1 split: %d/%d", TierSplitNumerator, TierSplitDenominator)
	return ret
}
