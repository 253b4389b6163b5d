package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/market/types"
)

// RegisterInvariants registers all market invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pot-matches-bets", PotMatchesBetsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "vault-solvency", VaultSolvencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "settled-markets", SettledMarketsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "claimed-bets", ClaimedBetsInvariant(k))
}

// AllInvariants runs all invariants of the market module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PotMatchesBetsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = VaultSolvencyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = SettledMarketsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ClaimedBetsInvariant(k)(ctx)
	}
}

// PotMatchesBetsInvariant checks that each market's recorded pot equals the
// sum of its bet stakes.
func PotMatchesBetsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		markets, err := k.GetAllMarkets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pot-matches-bets", err.Error()), true
		}

		for _, market := range markets {
			addr, err := sdk.AccAddressFromBech32(market.Address)
			if err != nil {
				count++
				msg += fmt.Sprintf("\tmarket %s has invalid address: %v\n", market.Address, err)
				continue
			}

			total := math.ZeroInt()
			var betCount uint64
			if err := k.IterateBets(ctx, addr, func(bet types.Bet) bool {
				total = total.Add(bet.Amount)
				betCount++
				return false
			}); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "pot-matches-bets", err.Error()), true
			}

			if !market.TotalPot.Equal(total) {
				count++
				msg += fmt.Sprintf("\tmarket %s pot %s != sum of bets %s\n", market.Address, market.TotalPot, total)
			}
			if market.BetCount != betCount {
				count++
				msg += fmt.Sprintf("\tmarket %s bet count %d != stored bets %d\n", market.Address, market.BetCount, betCount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pot-matches-bets",
			fmt.Sprintf("found %d pot mismatches\n%s", count, msg),
		), broken
	}
}

// VaultSolvencyInvariant checks that each unclaimed market's vault holds at
// least the recorded pot.
func VaultSolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "vault-solvency", err.Error()), true
		}

		markets, err := k.GetAllMarkets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "vault-solvency", err.Error()), true
		}

		for _, market := range markets {
			if market.PrizeClaimed {
				continue
			}
			addr, err := sdk.AccAddressFromBech32(market.Address)
			if err != nil {
				continue
			}
			vault := types.VaultAddress(addr)
			balance := k.bankKeeper.GetBalance(ctx, vault, params.StakeDenom)
			if balance.Amount.LT(market.TotalPot) {
				count++
				msg += fmt.Sprintf("\tmarket %s vault holds %s, pot is %s\n", market.Address, balance.Amount, market.TotalPot)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "vault-solvency",
			fmt.Sprintf("found %d underfunded vaults\n%s", count, msg),
		), broken
	}
}

// SettledMarketsInvariant checks that settled markets carry a settlement
// price and sealed price handle, and unsettled markets carry neither a
// winner nor a claimed prize.
func SettledMarketsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		markets, err := k.GetAllMarkets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "settled-markets", err.Error()), true
		}

		for _, market := range markets {
			if market.Settled {
				if market.FinalPriceHandle.IsZero() {
					count++
					msg += fmt.Sprintf("\tsettled market %s has no price handle\n", market.Address)
				}
				if market.SettlementPrice.IsNil() || !market.SettlementPrice.IsPositive() {
					count++
					msg += fmt.Sprintf("\tsettled market %s has no settlement price\n", market.Address)
				}
			} else {
				if market.PrizeClaimed || market.Winner != "" {
					count++
					msg += fmt.Sprintf("\tunsettled market %s has claim state\n", market.Address)
				}
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "settled-markets",
			fmt.Sprintf("found %d inconsistent markets\n%s", count, msg),
		), broken
	}
}

// ClaimedBetsInvariant checks that every claimed bet was evaluated first and
// sits on a market whose prize is recorded as claimed by that owner.
func ClaimedBetsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		markets, err := k.GetAllMarkets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "claimed-bets", err.Error()), true
		}
		byAddress := make(map[string]types.Market, len(markets))
		for _, market := range markets {
			byAddress[market.Address] = market
		}

		if err := k.IterateAllBets(ctx, func(bet types.Bet) bool {
			if !bet.Claimed {
				return false
			}
			if !bet.Evaluated {
				count++
				msg += fmt.Sprintf("\tbet %s claimed without evaluation\n", bet.Address)
			}
			market, ok := byAddress[bet.Market]
			if !ok {
				count++
				msg += fmt.Sprintf("\tclaimed bet %s references unknown market %s\n", bet.Address, bet.Market)
				return false
			}
			if !market.PrizeClaimed || market.Winner != bet.Owner {
				count++
				msg += fmt.Sprintf("\tclaimed bet %s not reflected on market %s\n", bet.Address, bet.Market)
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "claimed-bets", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "claimed-bets",
			fmt.Sprintf("found %d inconsistent claimed bets\n%s", count, msg),
		), broken
	}
}
