package ante_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/core/address"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authcodec "github.com/cosmos/cosmos-sdk/x/auth/codec"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	veilante "github.com/veil-protocol/veil/app/ante"
)

func TestNewAnteHandler_MissingAccountKeeper(t *testing.T) {
	handler, err := veilante.NewAnteHandler(veilante.HandlerOptions{})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "account keeper is required")
}

func TestNewAnteHandler_MissingBankKeeper(t *testing.T) {
	handler, err := veilante.NewAnteHandler(veilante.HandlerOptions{
		AccountKeeper: mockAccountKeeper{},
	})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "bank keeper is required")
}

func TestNewAnteHandler_MissingSignModeHandler(t *testing.T) {
	handler, err := veilante.NewAnteHandler(veilante.HandlerOptions{
		AccountKeeper: mockAccountKeeper{},
		BankKeeper:    mockAnteBankKeeper{},
	})
	require.Error(t, err)
	require.Nil(t, handler)
	require.Contains(t, err.Error(), "sign mode handler is required")
}

// Mock keepers for option validation. The full decorator chain is exercised
// through the application tests.
type mockAccountKeeper struct{}

func (mockAccountKeeper) GetParams(_ context.Context) authtypes.Params { return authtypes.Params{} }
func (mockAccountKeeper) GetAccount(_ context.Context, _ sdk.AccAddress) sdk.AccountI {
	return nil
}
func (mockAccountKeeper) SetAccount(_ context.Context, _ sdk.AccountI) {}
func (mockAccountKeeper) GetModuleAddress(_ string) sdk.AccAddress     { return nil }
func (mockAccountKeeper) AddressCodec() address.Codec {
	return authcodec.NewBech32Codec("veil")
}
func (mockAccountKeeper) UnorderedTransactionsEnabled() bool                 { return false }
func (mockAccountKeeper) RemoveExpiredUnorderedNonces(_ sdk.Context) error   { return nil }
func (mockAccountKeeper) TryAddUnorderedNonce(_ sdk.Context, _ []byte, _ time.Time) error {
	return nil
}

type mockAnteBankKeeper struct{}

func (mockAnteBankKeeper) IsSendEnabledCoins(_ context.Context, _ ...sdk.Coin) error { return nil }
func (mockAnteBankKeeper) SendCoins(_ context.Context, _, _ sdk.AccAddress, _ sdk.Coins) error {
	return nil
}
func (mockAnteBankKeeper) SendCoinsFromAccountToModule(_ context.Context, _ sdk.AccAddress, _ string, _ sdk.Coins) error {
	return nil
}
