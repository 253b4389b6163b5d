package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/market/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the market MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) CreateMarket(goCtx context.Context, msg *types.MsgCreateMarket) (*types.MsgCreateMarketResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	market, err := m.Keeper.CreateMarket(goCtx, authority, msg.AssetSymbol, msg.PriceFeed, msg.StartTimestamp)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateMarketResponse{
		MarketAddress: market.Address,
		EndTimestamp:  market.EndTimestamp,
	}, nil
}

func (m msgServer) SubmitBet(goCtx context.Context, msg *types.MsgSubmitBet) (*types.MsgSubmitBetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}
	marketAddr, err := sdk.AccAddressFromBech32(msg.MarketAddress)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	bet, err := m.Keeper.SubmitBet(goCtx, owner, marketAddr, msg.EncryptedMin, msg.EncryptedMax, msg.EncryptedAmount, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgSubmitBetResponse{BetAddress: bet.Address}, nil
}

func (m msgServer) SettleMarket(goCtx context.Context, msg *types.MsgSettleMarket) (*types.MsgSettleMarketResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}
	marketAddr, err := sdk.AccAddressFromBech32(msg.MarketAddress)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	market, err := m.Keeper.SettleMarket(goCtx, authority, marketAddr)
	if err != nil {
		return nil, err
	}
	return &types.MsgSettleMarketResponse{
		SettlementPrice:  market.SettlementPrice.String(),
		FinalPriceHandle: market.FinalPriceHandle.String(),
	}, nil
}

func (m msgServer) EvaluateBet(goCtx context.Context, msg *types.MsgEvaluateBet) (*types.MsgEvaluateBetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}
	marketAddr, err := sdk.AccAddressFromBech32(msg.MarketAddress)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	bet, err := m.Keeper.EvaluateBet(goCtx, owner, marketAddr)
	if err != nil {
		return nil, err
	}
	return &types.MsgEvaluateBetResponse{ResultHandle: bet.ResultHandle.String()}, nil
}

func (m msgServer) ClaimPrize(goCtx context.Context, msg *types.MsgClaimPrize) (*types.MsgClaimPrizeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}
	marketAddr, err := sdk.AccAddressFromBech32(msg.MarketAddress)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	payout, err := m.Keeper.ClaimPrize(goCtx, owner, marketAddr, msg.ResultHandle, msg.Plaintext, msg.Attestation)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimPrizeResponse{Payout: payout.String()}, nil
}
