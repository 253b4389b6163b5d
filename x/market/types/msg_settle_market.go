package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgSettleMarket{}

// MsgSettleMarket locks in the oracle price after the betting window closes.
// Only the market authority may settle.
type MsgSettleMarket struct {
	Authority     string `json:"authority"`
	MarketAddress string `json:"market_address"`
}

func NewMsgSettleMarket(authority, marketAddress string) *MsgSettleMarket {
	return &MsgSettleMarket{
		Authority:     authority,
		MarketAddress: marketAddress,
	}
}

func (msg *MsgSettleMarket) Reset()         { *msg = MsgSettleMarket{} }
func (msg *MsgSettleMarket) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSettleMarket) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgSettleMarket) XXX_MessageName() string { return "veil.market.MsgSettleMarket" }

func (msg *MsgSettleMarket) Route() string {
	return RouterKey
}

func (msg *MsgSettleMarket) Type() string {
	return TypeMsgSettleMarket
}

func (msg *MsgSettleMarket) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgSettleMarket) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgSettleMarket) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid authority address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.MarketAddress); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid market address (%s)", err)
	}
	return nil
}

// MsgSettleMarketResponse is the response for MsgSettleMarket.
type MsgSettleMarketResponse struct {
	SettlementPrice  string `json:"settlement_price"`
	FinalPriceHandle string `json:"final_price_handle"`
}
