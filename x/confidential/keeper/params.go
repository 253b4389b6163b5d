package keeper

import (
	"context"
	"fmt"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// GetParams returns the current confidential module parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.ParamsKey)

	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := k.cdc.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// SetParams stores the confidential module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	bz, err := k.cdc.Marshal(&params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}

	store := k.getStore(ctx)
	store.Set(types.ParamsKey, bz)
	return nil
}
