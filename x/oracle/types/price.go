package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// Price is the current posted price for an asset.
type Price struct {
	Asset       string         `json:"asset"`
	Price       math.LegacyDec `json:"price"`
	Conf        math.LegacyDec `json:"conf"`
	PublishTime int64          `json:"publish_time"`
	Publisher   string         `json:"publisher"`
	BlockHeight int64          `json:"block_height"`
}

// NewPrice creates a new price record.
func NewPrice(asset string, price, conf math.LegacyDec, publishTime int64, publisher string, blockHeight int64) Price {
	return Price{
		Asset:       asset,
		Price:       price,
		Conf:        conf,
		PublishTime: publishTime,
		Publisher:   publisher,
		BlockHeight: blockHeight,
	}
}

// Validate validates the price record
func (p Price) Validate() error {
	if p.Asset == "" {
		return fmt.Errorf("asset symbol cannot be empty")
	}
	if p.Price.IsNil() || p.Price.IsNegative() || p.Price.IsZero() {
		return fmt.Errorf("price must be positive: %s", p.Price)
	}
	if p.Conf.IsNil() || p.Conf.IsNegative() {
		return fmt.Errorf("confidence must be non-negative: %s", p.Conf)
	}
	if p.PublishTime <= 0 {
		return fmt.Errorf("publish time must be positive")
	}
	if p.BlockHeight < 0 {
		return fmt.Errorf("block height cannot be negative")
	}
	return nil
}

// IsStale checks if the price is stale relative to the current block time
func (p Price) IsStale(currentTime time.Time, maxAge uint64) bool {
	publishTime := time.Unix(p.PublishTime, 0)
	return currentTime.Sub(publishTime) > time.Duration(maxAge)*time.Second
}
