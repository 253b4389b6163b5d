package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/market/types"
)

// ClaimPrize redeems a winning bet. The claimant presents the revealed
// plaintext of their evaluation result and the enclave's attestation; the
// chain re-verifies the attestation against the registered enclave key
// before paying the whole vault to the first valid claimant.
func (k Keeper) ClaimPrize(ctx context.Context, owner, marketAddr sdk.AccAddress, resultHandle string, plaintext, attestation []byte) (sdk.Coin, error) {
	market, err := k.GetMarket(ctx, marketAddr)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !market.Settled {
		return sdk.Coin{}, types.ErrMarketNotSettled.Wrapf("market %s", market.Address)
	}

	bet, err := k.GetBet(ctx, marketAddr, owner)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !bet.Evaluated {
		return sdk.Coin{}, types.ErrNotEvaluated.Wrapf("owner %s market %s", owner, market.Address)
	}
	if bet.Claimed {
		return sdk.Coin{}, types.ErrAlreadyClaimed.Wrapf("owner %s already claimed on market %s", owner, market.Address)
	}
	if market.PrizeClaimed {
		return sdk.Coin{}, types.ErrAlreadyClaimed.Wrapf("market %s won by %s", market.Address, market.Winner)
	}

	handle, err := types.ParseResultHandle(resultHandle)
	if err != nil {
		return sdk.Coin{}, err
	}
	if handle != bet.ResultHandle {
		return sdk.Coin{}, types.ErrInvalidProof.Wrapf(
			"proof handle %s does not match evaluated result %s", handle, bet.ResultHandle,
		)
	}

	if err := k.confidentialKeeper.VerifyRevealProof(ctx, handle, owner.String(), plaintext, attestation); err != nil {
		k.metrics.ClaimsRejected.Inc()
		return sdk.Coin{}, types.ErrInvalidProof.Wrap(err.Error())
	}
	if !types.IsWinningPlaintext(plaintext) {
		return sdk.Coin{}, types.ErrNotWinner.Wrapf("owner %s market %s", owner, market.Address)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return sdk.Coin{}, err
	}

	vault := types.VaultAddress(marketAddr)
	payout := k.bankKeeper.GetBalance(ctx, vault, params.StakeDenom)
	if payout.IsZero() {
		return sdk.Coin{}, types.ErrVaultEmpty.Wrapf("vault %s", vault)
	}

	bet.Claimed = true
	if err := k.SetBet(ctx, bet); err != nil {
		return sdk.Coin{}, err
	}
	market.PrizeClaimed = true
	market.Winner = owner.String()
	if err := k.SetMarket(ctx, market); err != nil {
		return sdk.Coin{}, err
	}

	if err := k.bankKeeper.SendCoins(ctx, vault, owner, sdk.NewCoins(payout)); err != nil {
		return sdk.Coin{}, types.ErrInsufficientFunds.Wrapf("vault payout: %s", err)
	}

	k.metrics.PrizesClaimed.Inc()
	k.metrics.StakePaidOut.Add(float64(payout.Amount.Int64()))
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePrizeClaimed,
			sdk.NewAttribute(types.AttributeKeyMarket, market.Address),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyPayout, payout.String()),
		),
	)
	return payout, nil
}
