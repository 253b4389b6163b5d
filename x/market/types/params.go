package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultMarketDuration is the betting window length in seconds.
	DefaultMarketDuration uint64 = 3600

	// DefaultMaxAssetSymbolLength bounds asset symbols.
	DefaultMaxAssetSymbolLength uint64 = 10

	// DefaultStartTimeTolerance is how far in the past a market's start
	// timestamp may lie, in seconds.
	DefaultStartTimeTolerance uint64 = 300

	// DefaultPriceMaxAge is the oldest oracle price accepted at settlement,
	// in seconds.
	DefaultPriceMaxAge uint64 = 60

	// DefaultStakeDenom is the denomination staked on bets.
	DefaultStakeDenom = "uveil"

	// DefaultEvaluateGasReserve is the gas consumed up front when evaluating
	// a bet, covering the enclave's comparison circuit work.
	DefaultEvaluateGasReserve uint64 = 50_000
)

// Params defines the parameters for the market module.
type Params struct {
	MarketDuration       uint64 `json:"market_duration"`
	MaxAssetSymbolLength uint64 `json:"max_asset_symbol_length"`
	StartTimeTolerance   uint64 `json:"start_time_tolerance"`
	PriceMaxAge          uint64 `json:"price_max_age"`
	StakeDenom           string `json:"stake_denom"`
	EvaluateGasReserve   uint64 `json:"evaluate_gas_reserve"`
}

// DefaultParams returns the default market module parameters.
func DefaultParams() Params {
	return Params{
		MarketDuration:       DefaultMarketDuration,
		MaxAssetSymbolLength: DefaultMaxAssetSymbolLength,
		StartTimeTolerance:   DefaultStartTimeTolerance,
		PriceMaxAge:          DefaultPriceMaxAge,
		StakeDenom:           DefaultStakeDenom,
		EvaluateGasReserve:   DefaultEvaluateGasReserve,
	}
}

// Validate performs basic validation of the parameters.
func (p Params) Validate() error {
	if p.MarketDuration == 0 {
		return fmt.Errorf("market duration must be positive")
	}
	if p.MaxAssetSymbolLength == 0 {
		return fmt.Errorf("max asset symbol length must be positive")
	}
	if p.PriceMaxAge == 0 {
		return fmt.Errorf("price max age must be positive")
	}
	if err := sdk.ValidateDenom(p.StakeDenom); err != nil {
		return fmt.Errorf("invalid stake denom: %w", err)
	}
	if p.EvaluateGasReserve == 0 {
		return fmt.Errorf("evaluate gas reserve must be positive")
	}
	return nil
}
