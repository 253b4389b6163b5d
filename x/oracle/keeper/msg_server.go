package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/oracle/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the oracle MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) SubmitPrice(goCtx context.Context, msg *types.MsgSubmitPrice) (*types.MsgSubmitPriceResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	params, err := m.GetParams(goCtx)
	if err != nil {
		return nil, err
	}
	if !params.IsAuthorizedFeeder(msg.Feeder) {
		m.metrics.RejectedSubmissions.WithLabelValues("unauthorized").Inc()
		return nil, types.ErrFeederNotAuthorized.Wrapf("feeder %s", msg.Feeder)
	}

	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	price := types.NewPrice(
		msg.Asset,
		msg.Price,
		msg.Conf,
		msg.PublishTime,
		msg.Feeder,
		sdkCtx.BlockHeight(),
	)

	if err := m.SetPrice(goCtx, price); err != nil {
		m.metrics.RejectedSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	return &types.MsgSubmitPriceResponse{}, nil
}
