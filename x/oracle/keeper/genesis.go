package keeper

import (
	"context"
	"fmt"

	"github.com/veil-protocol/veil/x/oracle/types"
)

// InitGenesis initializes the oracle module state from genesis.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set oracle params: %v", err))
	}
	for _, price := range genState.Prices {
		if err := k.SetPrice(ctx, price); err != nil {
			panic(fmt.Sprintf("failed to import price for %s: %v", price.Asset, err))
		}
	}
}

// ExportGenesis exports the oracle module state for genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to get oracle params: %v", err))
	}
	prices, err := k.GetAllPrices(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to export prices: %v", err))
	}
	return &types.GenesisState{
		Params: params,
		Prices: prices,
	}
}
