package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgClaimPrize{}

// MsgClaimPrize redeems a winning bet. The claimant presents the revealed
// plaintext of their evaluation result together with the enclave's
// attestation; the chain re-verifies the attestation before paying out the
// vault.
type MsgClaimPrize struct {
	Owner         string `json:"owner"`
	MarketAddress string `json:"market_address"`
	ResultHandle  string `json:"result_handle"`
	Plaintext     []byte `json:"plaintext"`
	Attestation   []byte `json:"attestation"`
}

func NewMsgClaimPrize(owner, marketAddress, resultHandle string, plaintext, attestation []byte) *MsgClaimPrize {
	return &MsgClaimPrize{
		Owner:         owner,
		MarketAddress: marketAddress,
		ResultHandle:  resultHandle,
		Plaintext:     plaintext,
		Attestation:   attestation,
	}
}

func (msg *MsgClaimPrize) Reset()         { *msg = MsgClaimPrize{} }
func (msg *MsgClaimPrize) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgClaimPrize) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgClaimPrize) XXX_MessageName() string { return "veil.market.MsgClaimPrize" }

func (msg *MsgClaimPrize) Route() string {
	return RouterKey
}

func (msg *MsgClaimPrize) Type() string {
	return TypeMsgClaimPrize
}

func (msg *MsgClaimPrize) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

func (msg *MsgClaimPrize) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgClaimPrize) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid owner address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.MarketAddress); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid market address (%s)", err)
	}
	if _, err := ParseResultHandle(msg.ResultHandle); err != nil {
		return err
	}
	if len(msg.Plaintext) == 0 {
		return ErrInvalidProof.Wrap("plaintext is required")
	}
	if len(msg.Attestation) == 0 {
		return ErrInvalidProof.Wrap("attestation is required")
	}
	return nil
}

// MsgClaimPrizeResponse is the response for MsgClaimPrize.
type MsgClaimPrizeResponse struct {
	Payout string `json:"payout"`
}
