package ante

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	confidentialtypes "github.com/veil-protocol/veil/x/confidential/types"
	markettypes "github.com/veil-protocol/veil/x/market/types"
)

// MaxAttestationBytes bounds the attestation payload on a prize claim. The
// reference enclave emits a fixed-size ed25519 attestation; anything larger
// is rejected before signature verification runs.
const MaxAttestationBytes = 256

// MarketDecorator enforces stateless size bounds on market module messages.
// Oversized ciphertexts are rejected here, before fee deduction and signature
// verification, so they never reach the confidential store.
type MarketDecorator struct {
	maxCiphertextBytes int
}

// NewMarketDecorator creates a new MarketDecorator. A zero maxCiphertextBytes
// falls back to the confidential module default.
func NewMarketDecorator(maxCiphertextBytes int) MarketDecorator {
	if maxCiphertextBytes <= 0 {
		maxCiphertextBytes = int(confidentialtypes.DefaultMaxCiphertextSize)
	}
	return MarketDecorator{maxCiphertextBytes: maxCiphertextBytes}
}

// AnteHandle implements the AnteDecorator interface
func (md MarketDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (newCtx sdk.Context, err error) {
	// Skip validation during simulation
	if simulate {
		return next(ctx, tx, simulate)
	}

	for _, msg := range tx.GetMsgs() {
		switch msg := msg.(type) {
		case *markettypes.MsgSubmitBet:
			if err := md.validateSubmitBet(ctx, msg); err != nil {
				return ctx, err
			}
		case *markettypes.MsgClaimPrize:
			if err := md.validateClaimPrize(ctx, msg); err != nil {
				return ctx, err
			}
		}
	}

	return next(ctx, tx, simulate)
}

func (md MarketDecorator) validateSubmitBet(ctx sdk.Context, msg *markettypes.MsgSubmitBet) error {
	ctx.GasMeter().ConsumeGas(1000, "bet ciphertext validation")

	for _, ct := range [][]byte{msg.EncryptedMin, msg.EncryptedMax, msg.EncryptedAmount} {
		if len(ct) > md.maxCiphertextBytes {
			return sdkerrors.ErrInvalidRequest.Wrapf(
				"bet ciphertext too large: %d bytes (max %d)", len(ct), md.maxCiphertextBytes,
			)
		}
	}

	return nil
}

func (md MarketDecorator) validateClaimPrize(ctx sdk.Context, msg *markettypes.MsgClaimPrize) error {
	ctx.GasMeter().ConsumeGas(1000, "claim payload validation")

	if len(msg.Plaintext) > md.maxCiphertextBytes {
		return sdkerrors.ErrInvalidRequest.Wrapf(
			"claim plaintext too large: %d bytes (max %d)", len(msg.Plaintext), md.maxCiphertextBytes,
		)
	}

	if len(msg.Attestation) > MaxAttestationBytes {
		return sdkerrors.ErrInvalidRequest.Wrapf(
			"claim attestation too large: %d bytes (max %d)", len(msg.Attestation), MaxAttestationBytes,
		)
	}

	return nil
}
