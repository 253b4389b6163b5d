package types

import (
	"encoding/binary"

	"cosmossdk.io/math"
)

// PriceScale is the fixed-point factor applied to oracle prices before
// sealing them, giving micro-unit integer prices.
const PriceScale = 1_000_000

// ScaleSettlementPrice converts a decimal oracle price to the sealed integer
// representation bets are evaluated against.
func ScaleSettlementPrice(price math.LegacyDec) (uint64, error) {
	scaled := price.MulInt64(PriceScale).TruncateInt()
	if scaled.IsNegative() || !scaled.IsUint64() {
		return 0, ErrPriceOverflow.Wrapf("price %s", price)
	}
	return scaled.Uint64(), nil
}

// IsWinningPlaintext reports whether a revealed result plaintext encodes a
// winning evaluation.
func IsWinningPlaintext(plaintext []byte) bool {
	return len(plaintext) == 8 && binary.BigEndian.Uint64(plaintext) == 1
}
