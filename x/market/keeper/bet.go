package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/market/types"
)

// SetBet stores a bet record.
func (k Keeper) SetBet(ctx context.Context, bet types.Bet) error {
	market, err := sdk.AccAddressFromBech32(bet.Market)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("bet market: %s", err)
	}
	owner, err := sdk.AccAddressFromBech32(bet.Owner)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("bet owner: %s", err)
	}

	bz, err := k.cdc.Marshal(&bet)
	if err != nil {
		return fmt.Errorf("SetBet: marshal: %w", err)
	}
	store := k.getStore(ctx)
	store.Set(types.BetKey(market, owner), bz)
	return nil
}

// GetBet retrieves a bet by market and owner.
func (k Keeper) GetBet(ctx context.Context, market, owner sdk.AccAddress) (types.Bet, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.BetKey(market, owner))
	if bz == nil {
		return types.Bet{}, types.ErrBetNotFound.Wrapf("market %s owner %s", market, owner)
	}

	var bet types.Bet
	if err := k.cdc.Unmarshal(bz, &bet); err != nil {
		return types.Bet{}, fmt.Errorf("GetBet: unmarshal: %w", err)
	}
	return bet, nil
}

// HasBet reports whether an owner holds a bet on a market.
func (k Keeper) HasBet(ctx context.Context, market, owner sdk.AccAddress) bool {
	store := k.getStore(ctx)
	return store.Has(types.BetKey(market, owner))
}

// IterateBets walks every bet on a market.
func (k Keeper) IterateBets(ctx context.Context, market sdk.AccAddress, cb func(bet types.Bet) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.BetsByMarketPrefix(market))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bet types.Bet
		if err := k.cdc.Unmarshal(iterator.Value(), &bet); err != nil {
			return fmt.Errorf("IterateBets: unmarshal: %w", err)
		}
		if cb(bet) {
			break
		}
	}
	return nil
}

// IterateAllBets walks every bet across all markets.
func (k Keeper) IterateAllBets(ctx context.Context, cb func(bet types.Bet) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.BetKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bet types.Bet
		if err := k.cdc.Unmarshal(iterator.Value(), &bet); err != nil {
			return fmt.Errorf("IterateAllBets: unmarshal: %w", err)
		}
		if cb(bet) {
			break
		}
	}
	return nil
}

// GetBetsByMarket returns all bets on a market.
func (k Keeper) GetBetsByMarket(ctx context.Context, market sdk.AccAddress) ([]types.Bet, error) {
	bets := make([]types.Bet, 0, 16)
	err := k.IterateBets(ctx, market, func(bet types.Bet) bool {
		bets = append(bets, bet)
		return false
	})
	return bets, err
}

// SubmitBet places an encrypted range position on an open market, escrowing
// the plaintext stake into the market vault. One bet per owner per market.
func (k Keeper) SubmitBet(ctx context.Context, owner, marketAddr sdk.AccAddress, encryptedMin, encryptedMax, encryptedAmount []byte, amount math.Int) (types.Bet, error) {
	market, err := k.GetMarket(ctx, marketAddr)
	if err != nil {
		return types.Bet{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()
	if market.Settled {
		return types.Bet{}, types.ErrAlreadySettled.Wrapf("market %s", market.Address)
	}
	if now < market.StartTimestamp {
		return types.Bet{}, types.ErrMarketClosed.Wrapf(
			"betting opens at %d, block time %d", market.StartTimestamp, now,
		)
	}
	if now >= market.EndTimestamp {
		return types.Bet{}, types.ErrMarketClosed.Wrapf(
			"betting closed at %d, block time %d", market.EndTimestamp, now,
		)
	}
	if k.HasBet(ctx, marketAddr, owner) {
		return types.Bet{}, types.ErrDuplicateBet.Wrapf("owner %s market %s", owner, market.Address)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.Bet{}, types.ErrInvalidAmount.Wrap("stake must be positive")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Bet{}, err
	}

	stake := sdk.NewCoin(params.StakeDenom, amount)
	spendable := k.bankKeeper.SpendableCoins(ctx, owner)
	if spendable.AmountOf(params.StakeDenom).LT(amount) {
		return types.Bet{}, types.ErrInsufficientFunds.Wrapf(
			"owner %s has %s%s, needs %s", owner, spendable.AmountOf(params.StakeDenom), params.StakeDenom, stake,
		)
	}

	minHandle, err := k.confidentialKeeper.ImportCiphertext(ctx, owner, encryptedMin)
	if err != nil {
		return types.Bet{}, types.ErrComputeUnavailable.Wrapf("import min: %s", err)
	}
	maxHandle, err := k.confidentialKeeper.ImportCiphertext(ctx, owner, encryptedMax)
	if err != nil {
		return types.Bet{}, types.ErrComputeUnavailable.Wrapf("import max: %s", err)
	}
	amountHandle, err := k.confidentialKeeper.ImportCiphertext(ctx, owner, encryptedAmount)
	if err != nil {
		return types.Bet{}, types.ErrComputeUnavailable.Wrapf("import amount: %s", err)
	}

	vault := types.VaultAddress(marketAddr)
	if err := k.bankKeeper.SendCoins(ctx, owner, vault, sdk.NewCoins(stake)); err != nil {
		return types.Bet{}, types.ErrInsufficientFunds.Wrapf("escrow stake: %s", err)
	}

	bet := types.Bet{
		Address:      types.BetAddress(marketAddr, owner).String(),
		Market:       market.Address,
		Owner:        owner.String(),
		MinHandle:    minHandle,
		MaxHandle:    maxHandle,
		AmountHandle: amountHandle,
		Amount:       amount,
		PlacedAt:     now,
	}
	if err := k.SetBet(ctx, bet); err != nil {
		return types.Bet{}, err
	}

	market.TotalPot = market.TotalPot.Add(amount)
	market.BetCount++
	if err := k.SetMarket(ctx, market); err != nil {
		return types.Bet{}, err
	}

	k.metrics.BetsSubmitted.Inc()
	k.metrics.StakeEscrowed.Add(float64(amount.Int64()))
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBetSubmitted,
			sdk.NewAttribute(types.AttributeKeyMarket, market.Address),
			sdk.NewAttribute(types.AttributeKeyBet, bet.Address),
			sdk.NewAttribute(types.AttributeKeyOwner, bet.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, stake.String()),
		),
	)
	return bet, nil
}

// EvaluateBet computes the sealed win predicate for an owner's bet on a
// settled market and grants the owner decryption of the result. Re-evaluating
// replaces the stored result with a fresh handle.
func (k Keeper) EvaluateBet(ctx context.Context, owner, marketAddr sdk.AccAddress) (types.Bet, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Bet{}, err
	}
	sdk.UnwrapSDKContext(ctx).GasMeter().ConsumeGas(params.EvaluateGasReserve, "bet evaluation")

	market, err := k.GetMarket(ctx, marketAddr)
	if err != nil {
		return types.Bet{}, err
	}
	if !market.Settled {
		return types.Bet{}, types.ErrMarketNotSettled.Wrapf("market %s", market.Address)
	}

	bet, err := k.GetBet(ctx, marketAddr, owner)
	if err != nil {
		return types.Bet{}, err
	}

	resultHandle, err := k.confidentialKeeper.EvalRange(ctx, bet.MinHandle, bet.MaxHandle, market.FinalPriceHandle)
	if err != nil {
		return types.Bet{}, types.ErrComputeUnavailable.Wrapf("evaluate range: %s", err)
	}
	if err := k.confidentialKeeper.GrantDecryption(ctx, resultHandle, owner); err != nil {
		return types.Bet{}, types.ErrComputeUnavailable.Wrapf("grant decryption: %s", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	bet.Evaluated = true
	bet.ResultHandle = resultHandle
	bet.EvaluatedAt = sdkCtx.BlockTime().Unix()
	if err := k.SetBet(ctx, bet); err != nil {
		return types.Bet{}, err
	}

	k.metrics.BetsEvaluated.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBetEvaluated,
			sdk.NewAttribute(types.AttributeKeyMarket, market.Address),
			sdk.NewAttribute(types.AttributeKeyOwner, bet.Owner),
			sdk.NewAttribute(types.AttributeKeyResultHandle, resultHandle.String()),
		),
	)
	return bet, nil
}
