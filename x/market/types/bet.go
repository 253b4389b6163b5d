package types

import (
	"fmt"

	"cosmossdk.io/math"

	ctypes "github.com/veil-protocol/veil/x/confidential/types"
)

// Bet is a single participant's encrypted range position on a market. The
// min, max and amount handles reference sealed values; the plaintext Amount
// mirrors the escrowed stake for custody accounting.
type Bet struct {
	Address      string        `json:"address"`
	Market       string        `json:"market"`
	Owner        string        `json:"owner"`
	MinHandle    ctypes.Handle `json:"min_handle"`
	MaxHandle    ctypes.Handle `json:"max_handle"`
	AmountHandle ctypes.Handle `json:"amount_handle"`
	Amount       math.Int      `json:"amount"`
	PlacedAt     int64         `json:"placed_at"`
	Evaluated    bool          `json:"evaluated"`
	ResultHandle ctypes.Handle `json:"result_handle"`
	EvaluatedAt  int64         `json:"evaluated_at"`
	Claimed      bool          `json:"claimed"`
}

// Validate validates the bet record.
func (b Bet) Validate() error {
	if b.Address == "" {
		return fmt.Errorf("bet address cannot be empty")
	}
	if b.Market == "" {
		return fmt.Errorf("bet market cannot be empty")
	}
	if b.Owner == "" {
		return fmt.Errorf("bet owner cannot be empty")
	}
	if b.MinHandle.IsZero() || b.MaxHandle.IsZero() || b.AmountHandle.IsZero() {
		return fmt.Errorf("bet handles must be set")
	}
	if b.Amount.IsNil() || !b.Amount.IsPositive() {
		return fmt.Errorf("bet amount must be positive")
	}
	if b.Evaluated && b.ResultHandle.IsZero() {
		return fmt.Errorf("evaluated bet must carry a result handle")
	}
	if b.Claimed && !b.Evaluated {
		return fmt.Errorf("claimed bet must be evaluated")
	}
	return nil
}
