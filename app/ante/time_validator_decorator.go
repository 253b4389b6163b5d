package ante

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const (
	// MaxFutureBlockTime is how far in the future a block time can be.
	// Betting windows and oracle staleness are measured in block time, so a
	// proposer shifting timestamps forward could close markets early.
	MaxFutureBlockTime = 30 * time.Second
)

// TimeValidatorDecorator bounds block time drift. Market settlement and the
// oracle freshness check both read ctx.BlockTime(), which makes timestamp
// manipulation by a proposer directly profitable.
type TimeValidatorDecorator struct{}

// NewTimeValidatorDecorator creates a new TimeValidatorDecorator
func NewTimeValidatorDecorator() TimeValidatorDecorator {
	return TimeValidatorDecorator{}
}

// AnteHandle validates the block time before processing transactions
func (tvd TimeValidatorDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (sdk.Context, error) {
	// Skip validation in simulation mode
	if simulate {
		return next(ctx, tx, simulate)
	}

	// Skip validation for genesis block
	if ctx.BlockHeight() <= 1 {
		return next(ctx, tx, simulate)
	}

	blockTime := ctx.BlockTime()
	now := time.Now()
	if blockTime.After(now.Add(MaxFutureBlockTime)) {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, now,
		)
	}

	// NOTE: Do not reject historical blocks based on wall-clock time.
	// Nodes performing catch-up (or deterministic unit tests that use fixed
	// past timestamps) must be able to process older block times.

	return next(ctx, tx, simulate)
}

// ValidateBlockTime validates a block timestamp against drift and
// monotonicity constraints. Used by consensus-adjacent tooling that has the
// previous block time available.
func ValidateBlockTime(blockTime time.Time, prevBlockTime time.Time, currentTime time.Time) error {
	if blockTime.After(currentTime.Add(MaxFutureBlockTime)) {
		return fmt.Errorf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, currentTime,
		)
	}

	if !prevBlockTime.IsZero() && blockTime.Before(prevBlockTime) {
		return fmt.Errorf(
			"block time %s is before previous block time %s",
			blockTime, prevBlockTime,
		)
	}

	return nil
}
