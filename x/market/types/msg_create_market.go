package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgCreateMarket{}

// MsgCreateMarket opens a new range-prediction market on an asset. The
// betting window runs from StartTimestamp for the configured market duration.
type MsgCreateMarket struct {
	Authority      string `json:"authority"`
	AssetSymbol    string `json:"asset_symbol"`
	PriceFeed      string `json:"price_feed"`
	StartTimestamp int64  `json:"start_timestamp"`
}

func NewMsgCreateMarket(authority, assetSymbol, priceFeed string, startTimestamp int64) *MsgCreateMarket {
	return &MsgCreateMarket{
		Authority:      authority,
		AssetSymbol:    assetSymbol,
		PriceFeed:      priceFeed,
		StartTimestamp: startTimestamp,
	}
}

func (msg *MsgCreateMarket) Reset()         { *msg = MsgCreateMarket{} }
func (msg *MsgCreateMarket) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgCreateMarket) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgCreateMarket) XXX_MessageName() string { return "veil.market.MsgCreateMarket" }

func (msg *MsgCreateMarket) Route() string {
	return RouterKey
}

func (msg *MsgCreateMarket) Type() string {
	return TypeMsgCreateMarket
}

func (msg *MsgCreateMarket) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgCreateMarket) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgCreateMarket) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid authority address (%s)", err)
	}
	if err := ValidateAssetSymbol(msg.AssetSymbol, DefaultMaxAssetSymbolLength); err != nil {
		return ErrInvalidAssetSymbol.Wrap(err.Error())
	}
	if msg.PriceFeed == "" {
		return ErrInvalidAssetSymbol.Wrap("price feed cannot be empty")
	}
	if msg.StartTimestamp <= 0 {
		return ErrInvalidTiming.Wrap("start timestamp must be positive")
	}
	return nil
}

// MsgCreateMarketResponse is the response for MsgCreateMarket.
type MsgCreateMarketResponse struct {
	MarketAddress string `json:"market_address"`
	EndTimestamp  int64  `json:"end_timestamp"`
}
