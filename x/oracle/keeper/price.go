package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/oracle/types"
)

// SetPrice sets the current posted price for an asset
func (k Keeper) SetPrice(ctx context.Context, price types.Price) error {
	if err := price.Validate(); err != nil {
		return types.ErrInvalidPrice.Wrap(err.Error())
	}

	store := k.getStore(ctx)
	bz, err := k.cdc.Marshal(&price)
	if err != nil {
		return err
	}
	store.Set(GetPriceKey(price.Asset), bz)

	k.metrics.PricesPosted.WithLabelValues(price.Asset).Inc()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePriceUpdate,
			sdk.NewAttribute(types.AttributeKeyAsset, price.Asset),
			sdk.NewAttribute(types.AttributeKeyPrice, price.Price.String()),
			sdk.NewAttribute(types.AttributeKeyConf, price.Conf.String()),
			sdk.NewAttribute(types.AttributeKeyPublisher, price.Publisher),
			sdk.NewAttribute(types.AttributeKeyBlockHeight, fmt.Sprintf("%d", price.BlockHeight)),
		),
	)

	return nil
}

// GetPrice retrieves the current posted price for an asset
func (k Keeper) GetPrice(ctx context.Context, asset string) (types.Price, error) {
	store := k.getStore(ctx)
	bz := store.Get(GetPriceKey(asset))
	if bz == nil {
		return types.Price{}, types.ErrPriceNotFound.Wrapf("asset %s", asset)
	}

	var price types.Price
	if err := k.cdc.Unmarshal(bz, &price); err != nil {
		return types.Price{}, err
	}
	return price, nil
}

// GetPriceNoOlderThan retrieves the posted price for an asset and rejects it
// if it is older than maxAge seconds relative to block time or if its
// confidence interval is too wide for use.
func (k Keeper) GetPriceNoOlderThan(ctx context.Context, asset string, maxAge uint64) (types.Price, error) {
	price, err := k.GetPrice(ctx, asset)
	if err != nil {
		return types.Price{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if price.IsStale(sdkCtx.BlockTime(), maxAge) {
		k.metrics.StaleReads.WithLabelValues(asset).Inc()
		return types.Price{}, types.ErrPriceExpired.Wrapf(
			"asset %s published at %d, block time %d, max age %ds",
			asset, price.PublishTime, sdkCtx.BlockTime().Unix(), maxAge,
		)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Price{}, err
	}
	if !price.Price.IsZero() {
		ratio := price.Conf.Quo(price.Price)
		if ratio.GT(params.MaxConfidenceRatio) {
			return types.Price{}, types.ErrLowConfidence.Wrapf(
				"asset %s conf/price %s exceeds %s",
				asset, ratio, params.MaxConfidenceRatio,
			)
		}
	}

	return price, nil
}

// DeletePrice removes a price from the store
func (k Keeper) DeletePrice(ctx context.Context, asset string) {
	store := k.getStore(ctx)
	store.Delete(GetPriceKey(asset))
}

// IteratePrices iterates over all prices in the store
func (k Keeper) IteratePrices(ctx context.Context, cb func(price types.Price) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PriceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var price types.Price
		if err := k.cdc.Unmarshal(iterator.Value(), &price); err != nil {
			return err
		}
		if cb(price) {
			break
		}
	}
	return nil
}

// GetAllPrices returns all current prices
func (k Keeper) GetAllPrices(ctx context.Context) ([]types.Price, error) {
	prices := make([]types.Price, 0, 16)
	err := k.IteratePrices(ctx, func(price types.Price) bool {
		prices = append(prices, price)
		return false
	})
	return prices, err
}
