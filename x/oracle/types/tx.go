package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgSubmitPrice = "submit_price"
)

var _ sdk.Msg = &MsgSubmitPrice{}

// MsgSubmitPrice posts a fresh price for an asset. The feeder must be on the
// authorized feeder allow-list when one is configured.
type MsgSubmitPrice struct {
	Feeder      string         `json:"feeder"`
	Asset       string         `json:"asset"`
	Price       math.LegacyDec `json:"price"`
	Conf        math.LegacyDec `json:"conf"`
	PublishTime int64          `json:"publish_time"`
}

func NewMsgSubmitPrice(feeder, asset string, price, conf math.LegacyDec, publishTime int64) *MsgSubmitPrice {
	return &MsgSubmitPrice{
		Feeder:      feeder,
		Asset:       asset,
		Price:       price,
		Conf:        conf,
		PublishTime: publishTime,
	}
}

func (msg *MsgSubmitPrice) Reset()         { *msg = MsgSubmitPrice{} }
func (msg *MsgSubmitPrice) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSubmitPrice) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgSubmitPrice) XXX_MessageName() string { return "veil.oracle.MsgSubmitPrice" }

func (msg *MsgSubmitPrice) Route() string {
	return RouterKey
}

func (msg *MsgSubmitPrice) Type() string {
	return TypeMsgSubmitPrice
}

func (msg *MsgSubmitPrice) GetSigners() []sdk.AccAddress {
	feeder, err := sdk.AccAddressFromBech32(msg.Feeder)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{feeder}
}

func (msg *MsgSubmitPrice) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgSubmitPrice) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Feeder); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid feeder address (%s)", err)
	}
	if msg.Asset == "" {
		return ErrInvalidAsset.Wrap("asset symbol cannot be empty")
	}
	if msg.Price.IsNil() || !msg.Price.IsPositive() {
		return ErrInvalidPrice.Wrap("price must be positive")
	}
	if msg.Conf.IsNil() || msg.Conf.IsNegative() {
		return ErrInvalidPrice.Wrap("confidence must be non-negative")
	}
	if msg.PublishTime <= 0 {
		return ErrInvalidPrice.Wrap("publish time must be positive")
	}
	return nil
}

// MsgSubmitPriceResponse is the response for MsgSubmitPrice.
type MsgSubmitPriceResponse struct{}

// MsgServer is the oracle module's transaction service.
type MsgServer interface {
	SubmitPrice(ctx context.Context, msg *MsgSubmitPrice) (*MsgSubmitPriceResponse, error)
}
