package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ctypes "github.com/veil-protocol/veil/x/confidential/types"
	oracletypes "github.com/veil-protocol/veil/x/oracle/types"
)

// BankKeeper defines the bank operations the market module needs for stake
// custody.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// OracleKeeper defines the oracle operations the market module needs at
// settlement.
type OracleKeeper interface {
	GetPriceNoOlderThan(ctx context.Context, asset string, maxAge uint64) (oracletypes.Price, error)
}

// ConfidentialKeeper defines the confidential compute operations the market
// module builds on.
type ConfidentialKeeper interface {
	ImportCiphertext(ctx context.Context, owner sdk.AccAddress, blob []byte) (ctypes.Handle, error)
	SealValue(ctx context.Context, owner sdk.AccAddress, value uint64) (ctypes.Handle, error)
	EvalRange(ctx context.Context, minHandle, maxHandle, valueHandle ctypes.Handle) (ctypes.Handle, error)
	GrantDecryption(ctx context.Context, handle ctypes.Handle, grantee sdk.AccAddress) error
	VerifyRevealProof(ctx context.Context, handle ctypes.Handle, grantee string, plaintext, attestation []byte) error
}
