package ante

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	confidentialtypes "github.com/veil-protocol/veil/x/confidential/types"
	markettypes "github.com/veil-protocol/veil/x/market/types"
	oracletypes "github.com/veil-protocol/veil/x/oracle/types"
)

// Gas limits for different operation types to prevent exhaustion attacks
const (
	// Market operations
	MaxGasPerMarketCreate uint64 = 200_000
	MaxGasPerBet          uint64 = 300_000
	MaxGasPerSettlement   uint64 = 250_000
	MaxGasPerEvaluation   uint64 = 400_000
	MaxGasPerClaim        uint64 = 350_000

	// Oracle operations
	MaxGasPerPriceFeed uint64 = 100_000

	// Confidential operations
	MaxGasPerKeyRegistration uint64 = 150_000

	// General limits
	MaxGasPerTx      uint64 = 10_000_000 // Maximum gas per transaction
	MaxGasPerMessage uint64 = 500_000    // Maximum gas per message in tx
	MaxMessagesPerTx int    = 10         // Maximum messages per transaction
)

// GasLimitDecorator enforces per-operation gas limits to prevent exhaustion attacks
type GasLimitDecorator struct{}

// NewGasLimitDecorator creates a new GasLimitDecorator
func NewGasLimitDecorator() GasLimitDecorator {
	return GasLimitDecorator{}
}

// AnteHandle enforces gas limits on transactions and individual messages
func (gld GasLimitDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (sdk.Context, error) {
	msgs := tx.GetMsgs()

	// Enforce maximum messages per transaction
	if len(msgs) > MaxMessagesPerTx {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"transaction contains too many messages: %d > %d",
			len(msgs), MaxMessagesPerTx,
		)
	}

	gasBefore := ctx.GasMeter().GasConsumed()

	for i, msg := range msgs {
		requiredGas := requiredGasForMessage(msg)

		if requiredGas > MaxGasPerMessage {
			return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
				"message %d requires too much gas: %d > %d",
				i, requiredGas, MaxGasPerMessage,
			)
		}

		// This is a pre-check; actual consumption happens during execution
		if err := validateMessageGasUsage(msg); err != nil {
			return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
				"message %d failed gas validation: %v", i, err,
			)
		}
	}

	// Check total transaction gas limit
	totalGasRequired := ctx.GasMeter().Limit()
	if totalGasRequired > MaxGasPerTx && !simulate {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"transaction gas limit too high: %d > %d",
			totalGasRequired, MaxGasPerTx,
		)
	}

	newCtx, err := next(ctx, tx, simulate)
	if err != nil {
		return newCtx, err
	}

	gasAfter := newCtx.GasMeter().GasConsumed()
	gasUsed := gasAfter - gasBefore

	// Log excessive gas usage for monitoring
	if gasUsed > MaxGasPerTx/2 {
		ctx.Logger().Info("High gas consumption detected",
			"gas_used", gasUsed,
			"num_messages", len(msgs),
			"tx_hash", fmt.Sprintf("%X", ctx.TxBytes()),
		)
	}

	return newCtx, nil
}

// requiredGasForMessage returns the gas budget for a specific message type
func requiredGasForMessage(msg sdk.Msg) uint64 {
	switch msg.(type) {
	// Market messages
	case *markettypes.MsgCreateMarket:
		return MaxGasPerMarketCreate
	case *markettypes.MsgSubmitBet:
		return MaxGasPerBet
	case *markettypes.MsgSettleMarket:
		return MaxGasPerSettlement
	case *markettypes.MsgEvaluateBet:
		return MaxGasPerEvaluation
	case *markettypes.MsgClaimPrize:
		return MaxGasPerClaim

	// Oracle messages
	case *oracletypes.MsgSubmitPrice:
		return MaxGasPerPriceFeed

	// Confidential messages
	case *confidentialtypes.MsgRegisterEnclaveKey:
		return MaxGasPerKeyRegistration

	default:
		// For unknown message types, use a conservative default
		return MaxGasPerMessage
	}
}

// validateMessageGasUsage performs pre-validation of message gas requirements
func validateMessageGasUsage(msg sdk.Msg) error {
	// This is a static check; dynamic checks happen during execution
	type validateBasicMsg interface {
		ValidateBasic() error
	}

	if vb, ok := msg.(validateBasicMsg); ok {
		if err := vb.ValidateBasic(); err != nil {
			return fmt.Errorf("message validation failed: %w", err)
		}
	}

	return nil
}

// ConsumeGasForOperation consumes gas and checks it doesn't exceed per-operation limits
func ConsumeGasForOperation(ctx sdk.Context, gas uint64, operationType string, maxGas uint64) error {
	if gas > maxGas {
		return sdkerrors.ErrInvalidRequest.Wrapf(
			"operation '%s' requires too much gas: %d > %d",
			operationType, gas, maxGas,
		)
	}

	// Consume the gas (will panic if exceeds meter limit)
	ctx.GasMeter().ConsumeGas(gas, operationType)

	return nil
}

// IterateWithGasLimit executes a function in a loop with gas metering and iteration limits
func IterateWithGasLimit(
	ctx sdk.Context,
	maxIterations int,
	gasPerIteration uint64,
	iterFunc func(int) (bool, error),
) error {
	for i := 0; i < maxIterations; i++ {
		ctx.GasMeter().ConsumeGas(gasPerIteration, fmt.Sprintf("iteration_%d", i))

		shouldContinue, err := iterFunc(i)
		if err != nil {
			return err
		}

		if !shouldContinue {
			break
		}
	}

	return nil
}
