package types

import (
	"fmt"

	"cosmossdk.io/math"
)

const (
	// DefaultMaxPriceAge is how old a posted price may be, in seconds, before
	// consumers reject it.
	DefaultMaxPriceAge uint64 = 60
)

// DefaultMaxConfidenceRatio bounds conf/price for a usable price.
var DefaultMaxConfidenceRatio = math.LegacyMustNewDecFromStr("0.01")

// Params defines the parameters for the oracle module.
type Params struct {
	MaxPriceAge        uint64         `json:"max_price_age"`
	MaxConfidenceRatio math.LegacyDec `json:"max_confidence_ratio"`
	AuthorizedFeeders  []string       `json:"authorized_feeders"`
}

// DefaultParams returns the default oracle module parameters.
func DefaultParams() Params {
	return Params{
		MaxPriceAge:        DefaultMaxPriceAge,
		MaxConfidenceRatio: DefaultMaxConfidenceRatio,
		AuthorizedFeeders:  []string{},
	}
}

// Validate performs basic validation of the parameters.
func (p Params) Validate() error {
	if p.MaxPriceAge == 0 {
		return fmt.Errorf("max price age must be positive")
	}
	if p.MaxConfidenceRatio.IsNil() || p.MaxConfidenceRatio.IsNegative() || p.MaxConfidenceRatio.GT(math.LegacyOneDec()) {
		return fmt.Errorf("max confidence ratio must be in [0,1]")
	}
	seen := make(map[string]struct{}, len(p.AuthorizedFeeders))
	for _, feeder := range p.AuthorizedFeeders {
		if feeder == "" {
			return fmt.Errorf("authorized feeder cannot be empty")
		}
		if _, ok := seen[feeder]; ok {
			return fmt.Errorf("duplicate authorized feeder %s", feeder)
		}
		seen[feeder] = struct{}{}
	}
	return nil
}

// IsAuthorizedFeeder reports whether the address may submit prices. An empty
// allow-list means submissions are open.
func (p Params) IsAuthorizedFeeder(addr string) bool {
	if len(p.AuthorizedFeeders) == 0 {
		return true
	}
	for _, feeder := range p.AuthorizedFeeders {
		if feeder == addr {
			return true
		}
	}
	return false
}
