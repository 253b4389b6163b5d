package keeper

import (
	"context"
	"fmt"

	"github.com/veil-protocol/veil/x/market/types"
)

// InitGenesis initializes the market module state from genesis.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set market params: %v", err))
	}
	for _, market := range genState.Markets {
		if err := k.SetMarket(ctx, market); err != nil {
			panic(fmt.Sprintf("failed to import market %s: %v", market.Address, err))
		}
	}
	for _, bet := range genState.Bets {
		if err := k.SetBet(ctx, bet); err != nil {
			panic(fmt.Sprintf("failed to import bet %s: %v", bet.Address, err))
		}
	}
}

// ExportGenesis exports the market module state for genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to get market params: %v", err))
	}

	markets, err := k.GetAllMarkets(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to export markets: %v", err))
	}

	bets := make([]types.Bet, 0, 16)
	if err := k.IterateAllBets(ctx, func(bet types.Bet) bool {
		bets = append(bets, bet)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export bets: %v", err))
	}

	return &types.GenesisState{
		Params:  params,
		Markets: markets,
		Bets:    bets,
	}
}
