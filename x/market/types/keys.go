package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "market"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KVStore key prefixes
var (
	ParamsKey       = []byte{0x01}
	MarketKeyPrefix = []byte{0x02}
	BetKeyPrefix    = []byte{0x03}
)

// MarketAddress derives the canonical account address of a market from its
// authority and asset symbol. One authority can run at most one market per
// symbol.
func MarketAddress(authority sdk.AccAddress, assetSymbol string) sdk.AccAddress {
	return address.Module(ModuleName, []byte("market"), authority.Bytes(), []byte(assetSymbol))
}

// VaultAddress derives the escrow account address holding a market's pot.
func VaultAddress(market sdk.AccAddress) sdk.AccAddress {
	return address.Module(ModuleName, []byte("vault"), market.Bytes())
}

// BetAddress derives the canonical address of a bet from its market and
// owner. One owner can hold at most one bet per market.
func BetAddress(market, owner sdk.AccAddress) sdk.AccAddress {
	return address.Module(ModuleName, []byte("bet"), market.Bytes(), owner.Bytes())
}

// MarketKey returns the store key for a market by address.
func MarketKey(market sdk.AccAddress) []byte {
	return append(MarketKeyPrefix, market.Bytes()...)
}

// BetKey returns the store key for a bet by market and owner.
func BetKey(market, owner sdk.AccAddress) []byte {
	key := append(BetKeyPrefix, market.Bytes()...)
	return append(key, owner.Bytes()...)
}

// BetsByMarketPrefix returns the iteration prefix covering all bets in a
// market.
func BetsByMarketPrefix(market sdk.AccAddress) []byte {
	return append(BetKeyPrefix, market.Bytes()...)
}
