package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Oracle module sentinel errors
var (
	// Asset and price errors
	ErrInvalidAsset  = sdkerrors.Register(ModuleName, 2, "invalid asset")
	ErrInvalidPrice  = sdkerrors.Register(ModuleName, 3, "invalid price")
	ErrPriceNotFound = sdkerrors.Register(ModuleName, 4, "price not found")
	ErrPriceExpired  = sdkerrors.Register(ModuleName, 5, "price data expired")
	ErrLowConfidence = sdkerrors.Register(ModuleName, 6, "price confidence interval too wide")

	// Feeder errors
	ErrFeederNotAuthorized = sdkerrors.Register(ModuleName, 7, "feeder not authorized")
	ErrInvalidAddress      = sdkerrors.Register(ModuleName, 8, "invalid address")

	// Parameter errors
	ErrInvalidParams = sdkerrors.Register(ModuleName, 9, "invalid oracle parameters")
)
