package types

import (
	"fmt"
	"time"
	"unicode"

	"cosmossdk.io/math"

	ctypes "github.com/veil-protocol/veil/x/confidential/types"
)

// Market is a confidential range-prediction market on a single asset's
// settlement price.
type Market struct {
	Address          string         `json:"address"`
	Authority        string         `json:"authority"`
	AssetSymbol      string         `json:"asset_symbol"`
	PriceFeed        string         `json:"price_feed"`
	StartTimestamp   int64          `json:"start_timestamp"`
	EndTimestamp     int64          `json:"end_timestamp"`
	Settled          bool           `json:"settled"`
	SettledAt        int64          `json:"settled_at"`
	SettlementPrice  math.LegacyDec `json:"settlement_price"`
	FinalPriceHandle ctypes.Handle  `json:"final_price_handle"`
	TotalPot         math.Int       `json:"total_pot"`
	BetCount         uint64         `json:"bet_count"`
	PrizeClaimed     bool           `json:"prize_claimed"`
	Winner           string         `json:"winner,omitempty"`
}

// BettingOpen reports whether bets may be submitted at blockTime.
func (m Market) BettingOpen(blockTime time.Time) bool {
	if m.Settled {
		return false
	}
	t := blockTime.Unix()
	return t >= m.StartTimestamp && t < m.EndTimestamp
}

// Validate validates the market record.
func (m Market) Validate() error {
	if m.Address == "" {
		return fmt.Errorf("market address cannot be empty")
	}
	if m.Authority == "" {
		return fmt.Errorf("market authority cannot be empty")
	}
	if err := ValidateAssetSymbol(m.AssetSymbol, DefaultMaxAssetSymbolLength); err != nil {
		return err
	}
	if m.PriceFeed == "" {
		return fmt.Errorf("price feed cannot be empty")
	}
	if m.EndTimestamp <= m.StartTimestamp {
		return fmt.Errorf("end timestamp must be after start timestamp")
	}
	if m.TotalPot.IsNil() || m.TotalPot.IsNegative() {
		return fmt.Errorf("total pot must be non-negative")
	}
	if m.Settled && m.SettlementPrice.IsNil() {
		return fmt.Errorf("settled market must carry a settlement price")
	}
	if m.Settled && m.FinalPriceHandle.IsZero() {
		return fmt.Errorf("settled market must carry a final price handle")
	}
	if !m.Settled && m.PrizeClaimed {
		return fmt.Errorf("unsettled market cannot have a claimed prize")
	}
	return nil
}

// ValidateAssetSymbol checks that a symbol is non-empty, within the length
// bound and printable ASCII without spaces.
func ValidateAssetSymbol(symbol string, maxLen uint64) error {
	if symbol == "" {
		return fmt.Errorf("asset symbol cannot be empty")
	}
	if uint64(len(symbol)) > maxLen {
		return fmt.Errorf("asset symbol %q exceeds %d characters", symbol, maxLen)
	}
	for _, r := range symbol {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || r == ' ' {
			return fmt.Errorf("asset symbol %q contains invalid characters", symbol)
		}
	}
	return nil
}
