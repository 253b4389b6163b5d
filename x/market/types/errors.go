package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Market module sentinel errors
var (
	// Market lifecycle errors
	ErrInvalidAssetSymbol = sdkerrors.Register(ModuleName, 2, "invalid asset symbol")
	ErrInvalidTiming      = sdkerrors.Register(ModuleName, 3, "invalid market timing")
	ErrMarketExists       = sdkerrors.Register(ModuleName, 4, "market already exists")
	ErrMarketNotFound     = sdkerrors.Register(ModuleName, 5, "market not found")
	ErrMarketClosed       = sdkerrors.Register(ModuleName, 6, "betting window closed")
	ErrMarketStillOpen    = sdkerrors.Register(ModuleName, 7, "betting window still open")
	ErrAlreadySettled     = sdkerrors.Register(ModuleName, 8, "market already settled")
	ErrMarketNotSettled   = sdkerrors.Register(ModuleName, 9, "market not settled")

	// Authorization errors
	ErrUnauthorized   = sdkerrors.Register(ModuleName, 10, "unauthorized")
	ErrInvalidAddress = sdkerrors.Register(ModuleName, 11, "invalid address")

	// Bet errors
	ErrDuplicateBet  = sdkerrors.Register(ModuleName, 12, "bet already exists for owner")
	ErrBetNotFound   = sdkerrors.Register(ModuleName, 13, "bet not found")
	ErrInvalidAmount = sdkerrors.Register(ModuleName, 14, "invalid stake amount")
	ErrInvalidHandle = sdkerrors.Register(ModuleName, 15, "invalid ciphertext handle")

	// Claim errors
	ErrNotEvaluated   = sdkerrors.Register(ModuleName, 16, "bet not evaluated")
	ErrAlreadyClaimed = sdkerrors.Register(ModuleName, 17, "prize already claimed")
	ErrNotWinner      = sdkerrors.Register(ModuleName, 18, "bet did not win")
	ErrInvalidProof   = sdkerrors.Register(ModuleName, 19, "invalid decryption proof")
	ErrVaultEmpty     = sdkerrors.Register(ModuleName, 20, "vault holds no funds")

	// Collaborator errors
	ErrOracleUnavailable  = sdkerrors.Register(ModuleName, 21, "oracle price unavailable")
	ErrComputeUnavailable = sdkerrors.Register(ModuleName, 22, "confidential compute unavailable")
	ErrInsufficientFunds  = sdkerrors.Register(ModuleName, 23, "insufficient funds")
	ErrPriceOverflow      = sdkerrors.Register(ModuleName, 24, "settlement price overflows fixed-point range")
)
