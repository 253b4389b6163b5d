package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgEvaluateBet{}

// MsgEvaluateBet computes the sealed win predicate for the owner's bet on a
// settled market and grants the owner decryption of the result.
type MsgEvaluateBet struct {
	Owner         string `json:"owner"`
	MarketAddress string `json:"market_address"`
}

func NewMsgEvaluateBet(owner, marketAddress string) *MsgEvaluateBet {
	return &MsgEvaluateBet{
		Owner:         owner,
		MarketAddress: marketAddress,
	}
}

func (msg *MsgEvaluateBet) Reset()         { *msg = MsgEvaluateBet{} }
func (msg *MsgEvaluateBet) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgEvaluateBet) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgEvaluateBet) XXX_MessageName() string { return "veil.market.MsgEvaluateBet" }

func (msg *MsgEvaluateBet) Route() string {
	return RouterKey
}

func (msg *MsgEvaluateBet) Type() string {
	return TypeMsgEvaluateBet
}

func (msg *MsgEvaluateBet) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

func (msg *MsgEvaluateBet) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgEvaluateBet) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid owner address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.MarketAddress); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid market address (%s)", err)
	}
	return nil
}

// MsgEvaluateBetResponse is the response for MsgEvaluateBet.
type MsgEvaluateBetResponse struct {
	ResultHandle string `json:"result_handle"`
}
