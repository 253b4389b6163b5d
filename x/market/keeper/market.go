package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/market/types"
)

// SetMarket stores a market record.
func (k Keeper) SetMarket(ctx context.Context, market types.Market) error {
	addr, err := sdk.AccAddressFromBech32(market.Address)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("market address: %s", err)
	}

	bz, err := k.cdc.Marshal(&market)
	if err != nil {
		return fmt.Errorf("SetMarket: marshal: %w", err)
	}
	store := k.getStore(ctx)
	store.Set(types.MarketKey(addr), bz)
	return nil
}

// GetMarket retrieves a market by address.
func (k Keeper) GetMarket(ctx context.Context, market sdk.AccAddress) (types.Market, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.MarketKey(market))
	if bz == nil {
		return types.Market{}, types.ErrMarketNotFound.Wrapf("market %s", market)
	}

	var m types.Market
	if err := k.cdc.Unmarshal(bz, &m); err != nil {
		return types.Market{}, fmt.Errorf("GetMarket: unmarshal: %w", err)
	}
	return m, nil
}

// HasMarket reports whether a market exists at the address.
func (k Keeper) HasMarket(ctx context.Context, market sdk.AccAddress) bool {
	store := k.getStore(ctx)
	return store.Has(types.MarketKey(market))
}

// IterateMarkets walks every market record.
func (k Keeper) IterateMarkets(ctx context.Context, cb func(market types.Market) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.MarketKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var m types.Market
		if err := k.cdc.Unmarshal(iterator.Value(), &m); err != nil {
			return fmt.Errorf("IterateMarkets: unmarshal: %w", err)
		}
		if cb(m) {
			break
		}
	}
	return nil
}

// GetAllMarkets returns all market records.
func (k Keeper) GetAllMarkets(ctx context.Context) ([]types.Market, error) {
	markets := make([]types.Market, 0, 16)
	err := k.IterateMarkets(ctx, func(m types.Market) bool {
		markets = append(markets, m)
		return false
	})
	return markets, err
}

// CreateMarket opens a new range-prediction market. The betting window runs
// from startTimestamp for the configured market duration; the start may lie
// at most the configured tolerance in the past.
func (k Keeper) CreateMarket(ctx context.Context, authority sdk.AccAddress, assetSymbol, priceFeed string, startTimestamp int64) (types.Market, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Market{}, err
	}

	if err := types.ValidateAssetSymbol(assetSymbol, params.MaxAssetSymbolLength); err != nil {
		return types.Market{}, types.ErrInvalidAssetSymbol.Wrap(err.Error())
	}
	if priceFeed == "" {
		return types.Market{}, types.ErrInvalidAssetSymbol.Wrap("price feed cannot be empty")
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()
	if startTimestamp <= 0 {
		return types.Market{}, types.ErrInvalidTiming.Wrap("start timestamp must be positive")
	}
	if startTimestamp < now-int64(params.StartTimeTolerance) {
		return types.Market{}, types.ErrInvalidTiming.Wrapf(
			"start %d is more than %ds before block time %d",
			startTimestamp, params.StartTimeTolerance, now,
		)
	}

	marketAddr := types.MarketAddress(authority, assetSymbol)
	if k.HasMarket(ctx, marketAddr) {
		return types.Market{}, types.ErrMarketExists.Wrapf("authority %s symbol %s", authority, assetSymbol)
	}

	market := types.Market{
		Address:         marketAddr.String(),
		Authority:       authority.String(),
		AssetSymbol:     assetSymbol,
		PriceFeed:       priceFeed,
		StartTimestamp:  startTimestamp,
		EndTimestamp:    startTimestamp + int64(params.MarketDuration),
		SettlementPrice: math.LegacyZeroDec(),
		TotalPot:        math.ZeroInt(),
	}
	if err := k.SetMarket(ctx, market); err != nil {
		return types.Market{}, err
	}

	k.metrics.MarketsCreated.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMarketCreated,
			sdk.NewAttribute(types.AttributeKeyMarket, market.Address),
			sdk.NewAttribute(types.AttributeKeyAuthority, market.Authority),
			sdk.NewAttribute(types.AttributeKeyAssetSymbol, market.AssetSymbol),
			sdk.NewAttribute(types.AttributeKeyEndTime, fmt.Sprintf("%d", market.EndTimestamp)),
		),
	)
	return market, nil
}

// SettleMarket locks in the oracle price for a market whose betting window
// has closed. The price is sealed into the confidential store so bets can be
// evaluated against it without revealing their bounds.
func (k Keeper) SettleMarket(ctx context.Context, authority, marketAddr sdk.AccAddress) (types.Market, error) {
	market, err := k.GetMarket(ctx, marketAddr)
	if err != nil {
		return types.Market{}, err
	}

	if market.Authority != authority.String() {
		return types.Market{}, types.ErrUnauthorized.Wrapf("settlement requires authority %s", market.Authority)
	}
	if market.Settled {
		return types.Market{}, types.ErrAlreadySettled.Wrapf("market %s settled at %d", market.Address, market.SettledAt)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()
	if now < market.EndTimestamp {
		return types.Market{}, types.ErrMarketStillOpen.Wrapf(
			"betting closes at %d, block time %d", market.EndTimestamp, now,
		)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Market{}, err
	}

	price, err := k.oracleKeeper.GetPriceNoOlderThan(ctx, market.PriceFeed, params.PriceMaxAge)
	if err != nil {
		return types.Market{}, types.ErrOracleUnavailable.Wrapf("feed %s: %s", market.PriceFeed, err)
	}

	scaled, err := types.ScaleSettlementPrice(price.Price)
	if err != nil {
		return types.Market{}, err
	}

	priceHandle, err := k.confidentialKeeper.SealValue(ctx, marketAddr, scaled)
	if err != nil {
		return types.Market{}, types.ErrComputeUnavailable.Wrapf("seal settlement price: %s", err)
	}

	market.Settled = true
	market.SettledAt = now
	market.SettlementPrice = price.Price
	market.FinalPriceHandle = priceHandle
	if err := k.SetMarket(ctx, market); err != nil {
		return types.Market{}, err
	}

	k.metrics.MarketsSettled.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMarketSettled,
			sdk.NewAttribute(types.AttributeKeyMarket, market.Address),
			sdk.NewAttribute(types.AttributeKeyPrice, market.SettlementPrice.String()),
			sdk.NewAttribute(types.AttributeKeyPriceHandle, priceHandle.String()),
		),
	)
	return market, nil
}
