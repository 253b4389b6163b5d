package types

import (
	"context"
	"crypto/ed25519"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgRegisterEnclaveKey = "register_enclave_key"
)

var _ sdk.Msg = &MsgRegisterEnclaveKey{}

// MsgRegisterEnclaveKey rotates the attestation public key the module accepts
// when verifying decryption proofs. Only the module authority may submit it.
type MsgRegisterEnclaveKey struct {
	Authority string `json:"authority"`
	PubKey    []byte `json:"pub_key"`
}

func NewMsgRegisterEnclaveKey(authority string, pubKey []byte) *MsgRegisterEnclaveKey {
	return &MsgRegisterEnclaveKey{
		Authority: authority,
		PubKey:    pubKey,
	}
}

func (msg *MsgRegisterEnclaveKey) Reset()         { *msg = MsgRegisterEnclaveKey{} }
func (msg *MsgRegisterEnclaveKey) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgRegisterEnclaveKey) ProtoMessage()  {}

// XXX_MessageName supplies the proto message name used to derive the
// interface-registry typeURL for this hand-written message type.
func (msg *MsgRegisterEnclaveKey) XXX_MessageName() string { return "veil.confidential.MsgRegisterEnclaveKey" }

func (msg *MsgRegisterEnclaveKey) Route() string {
	return RouterKey
}

func (msg *MsgRegisterEnclaveKey) Type() string {
	return TypeMsgRegisterEnclaveKey
}

func (msg *MsgRegisterEnclaveKey) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgRegisterEnclaveKey) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

func (msg *MsgRegisterEnclaveKey) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid authority address (%s)", err)
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return errorsmod.Wrapf(ErrInvalidPubKey, "expected %d bytes, got %d", ed25519.PublicKeySize, len(msg.PubKey))
	}
	return nil
}

// MsgRegisterEnclaveKeyResponse is the response for MsgRegisterEnclaveKey.
type MsgRegisterEnclaveKeyResponse struct{}

// MsgServer is the confidential module's transaction service.
type MsgServer interface {
	RegisterEnclaveKey(ctx context.Context, msg *MsgRegisterEnclaveKey) (*MsgRegisterEnclaveKeyResponse, error)
}
