package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgSubmitBet{}

// MsgSubmitBet places an encrypted range position on a market. The three
// ciphertexts carry the bet's min bound, max bound and amount; the plaintext
// Amount is the stake escrowed into the market vault.
type MsgSubmitBet struct {
	Owner           string   `json:"owner"`
	MarketAddress   string   `json:"market_address"`
	EncryptedMin    []byte   `json:"encrypted_min"`
	EncryptedMax    []byte   `json:"encrypted_max"`
	EncryptedAmount []byte   `json:"encrypted_amount"`
	Amount          math.Int `json:"amount"`
}

func NewMsgSubmitBet(owner, marketAddress string, encryptedMin, encryptedMax, encryptedAmount []byte, amount math.Int) *MsgSubmitBet {
	return &MsgSubmitBet{
		Owner:           owner,
		MarketAddress:   marketAddress,
		EncryptedMin:    encryptedMin,
		EncryptedMax:    encryptedMax,
		EncryptedAmount: encryptedAmount,
		Amount:          amount,
	}
}

func (msg *MsgSubmitBet) Reset()         { *msg = MsgSubmitBet{} }
func (msg *MsgSubmitBet) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSubmitBet) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgSubmitBet) XXX_MessageName() string { return "veil.market.MsgSubmitBet" }

func (msg *MsgSubmitBet) Route() string {
	return RouterKey
}

func (msg *MsgSubmitBet) Type() string {
	return TypeMsgSubmitBet
}

func (msg *MsgSubmitBet) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

func (msg *MsgSubmitBet) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgSubmitBet) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid owner address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.MarketAddress); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid market address (%s)", err)
	}
	if len(msg.EncryptedMin) == 0 || len(msg.EncryptedMax) == 0 || len(msg.EncryptedAmount) == 0 {
		return ErrInvalidHandle.Wrap("encrypted min, max and amount are required")
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return ErrInvalidAmount.Wrap("stake amount must be positive")
	}
	return nil
}

// MsgSubmitBetResponse is the response for MsgSubmitBet.
type MsgSubmitBetResponse struct {
	BetAddress string `json:"bet_address"`
}
