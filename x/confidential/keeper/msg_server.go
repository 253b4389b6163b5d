package keeper

import (
	"context"
	"encoding/hex"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/confidential/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the confidential MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) RegisterEnclaveKey(goCtx context.Context, msg *types.MsgRegisterEnclaveKey) (*types.MsgRegisterEnclaveKeyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.authority {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", m.authority, msg.Authority)
	}

	if err := m.SetEnclaveKey(goCtx, msg.PubKey); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEnclaveKeySet,
			sdk.NewAttribute(types.AttributeKeyPubKey, hex.EncodeToString(msg.PubKey)),
		),
	)
	return &types.MsgRegisterEnclaveKeyResponse{}, nil
}
