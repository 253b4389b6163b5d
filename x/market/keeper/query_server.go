package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/veil-protocol/veil/x/market/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the market QueryServer
// interface for the provided Keeper.
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (q queryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

func (q queryServer) Market(ctx context.Context, req *types.QueryMarketRequest) (*types.QueryMarketResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	addr, err := sdk.AccAddressFromBech32(req.MarketAddress)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	market, err := q.GetMarket(ctx, addr)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryMarketResponse{Market: market}, nil
}

func (q queryServer) Markets(ctx context.Context, req *types.QueryMarketsRequest) (*types.QueryMarketsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	markets, err := q.GetAllMarkets(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryMarketsResponse{Markets: markets}, nil
}

func (q queryServer) Bet(ctx context.Context, req *types.QueryBetRequest) (*types.QueryBetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	marketAddr, err := sdk.AccAddressFromBech32(req.MarketAddress)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	bet, err := q.GetBet(ctx, marketAddr, owner)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryBetResponse{Bet: bet}, nil
}

func (q queryServer) Bets(ctx context.Context, req *types.QueryBetsRequest) (*types.QueryBetsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	marketAddr, err := sdk.AccAddressFromBech32(req.MarketAddress)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	bets, err := q.GetBetsByMarket(ctx, marketAddr)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryBetsResponse{Bets: bets}, nil
}

func (q queryServer) Vault(ctx context.Context, req *types.QueryVaultRequest) (*types.QueryVaultResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	marketAddr, err := sdk.AccAddressFromBech32(req.MarketAddress)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if !q.HasMarket(ctx, marketAddr) {
		return nil, status.Error(codes.NotFound, "market not found")
	}
	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	vault := types.VaultAddress(marketAddr)
	balance := q.bankKeeper.GetBalance(ctx, vault, params.StakeDenom)
	return &types.QueryVaultResponse{
		VaultAddress: vault.String(),
		Balance:      balance.Amount,
		Denom:        params.StakeDenom,
	}, nil
}
