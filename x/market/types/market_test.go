package types_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	ctypes "github.com/veil-protocol/veil/x/confidential/types"
	"github.com/veil-protocol/veil/x/market/types"
)

func TestValidateAssetSymbol(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		wantErr bool
	}{
		{name: "plain ticker", symbol: "BTC"},
		{name: "with separator", symbol: "BTC-USD", wantErr: false},
		{name: "max length", symbol: "ABCDEFGHIJ"},
		{name: "empty", symbol: "", wantErr: true},
		{name: "too long", symbol: "ABCDEFGHIJK", wantErr: true},
		{name: "embedded space", symbol: "BTC USD", wantErr: true},
		{name: "non ascii", symbol: "BTCé", wantErr: true},
		{name: "control char", symbol: "BTC\n", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := types.ValidateAssetSymbol(tc.symbol, types.DefaultMaxAssetSymbolLength)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMarketAddressDeterministic(t *testing.T) {
	authority := sdk.AccAddress([]byte("authority___________"))

	a := types.MarketAddress(authority, "BTC")
	b := types.MarketAddress(authority, "BTC")
	require.Equal(t, a, b)

	other := types.MarketAddress(authority, "ETH")
	require.NotEqual(t, a, other)

	vault := types.VaultAddress(a)
	require.NotEqual(t, a, vault)
	require.Equal(t, vault, types.VaultAddress(a))

	owner := sdk.AccAddress([]byte("owner_______________"))
	require.Equal(t, types.BetAddress(a, owner), types.BetAddress(a, owner))
	require.NotEqual(t, types.BetAddress(a, owner), types.BetAddress(other, owner))
}

func TestBettingOpen(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	m := types.Market{
		StartTimestamp: start.Unix(),
		EndTimestamp:   start.Add(time.Hour).Unix(),
	}

	require.True(t, m.BettingOpen(start))
	require.True(t, m.BettingOpen(start.Add(30*time.Minute)))
	require.False(t, m.BettingOpen(start.Add(-time.Second)))
	require.False(t, m.BettingOpen(start.Add(time.Hour)))

	m.Settled = true
	require.False(t, m.BettingOpen(start))
}

func TestScaleSettlementPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		want    uint64
		wantErr bool
	}{
		{name: "whole", price: "55000", want: 55_000_000_000},
		{name: "fractional", price: "0.000001", want: 1},
		{name: "truncates below scale", price: "0.0000019", want: 1},
		{name: "zero", price: "0", want: 0},
		{name: "overflow", price: "20000000000000", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := types.ScaleSettlementPrice(math.LegacyMustNewDecFromStr(tc.price))
			if tc.wantErr {
				require.ErrorIs(t, err, types.ErrPriceOverflow)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestIsWinningPlaintext(t *testing.T) {
	require.True(t, types.IsWinningPlaintext([]byte{0, 0, 0, 0, 0, 0, 0, 1}))
	require.False(t, types.IsWinningPlaintext([]byte{0, 0, 0, 0, 0, 0, 0, 0}))
	require.False(t, types.IsWinningPlaintext([]byte{0, 0, 0, 0, 0, 0, 0, 2}))
	require.False(t, types.IsWinningPlaintext([]byte{1}))
	require.False(t, types.IsWinningPlaintext(nil))
}

func TestBetValidateFlags(t *testing.T) {
	addr := sdk.AccAddress([]byte("owner_______________")).String()
	bet := types.Bet{
		Address:      addr,
		Market:       addr,
		Owner:        addr,
		MinHandle:    ctypes.Handle{Lo: 1},
		MaxHandle:    ctypes.Handle{Lo: 2},
		AmountHandle: ctypes.Handle{Lo: 3},
		Amount:       math.NewInt(100),
	}
	require.NoError(t, bet.Validate())

	evaluated := bet
	evaluated.Evaluated = true
	require.Error(t, evaluated.Validate())
	evaluated.ResultHandle = ctypes.Handle{Lo: 4}
	require.NoError(t, evaluated.Validate())

	claimed := evaluated
	claimed.Claimed = true
	require.NoError(t, claimed.Validate())

	claimed.Evaluated = false
	claimed.ResultHandle = ctypes.Handle{}
	require.Error(t, claimed.Validate())
}

func TestMsgValidateBasic(t *testing.T) {
	authority := sdk.AccAddress([]byte("authority___________")).String()
	owner := sdk.AccAddress([]byte("owner_______________")).String()
	market := sdk.AccAddress([]byte("market______________")).String()
	handle := "00000000000000000000000000000001"

	t.Run("create market", func(t *testing.T) {
		msg := types.NewMsgCreateMarket(authority, "BTC", "BTC-USD", 1_700_000_000)
		require.NoError(t, msg.ValidateBasic())

		bad := *msg
		bad.Authority = "junk"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAddress)

		bad = *msg
		bad.AssetSymbol = "TOO LONG SYMBOL"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAssetSymbol)

		bad = *msg
		bad.PriceFeed = ""
		require.Error(t, bad.ValidateBasic())

		bad = *msg
		bad.StartTimestamp = 0
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidTiming)
	})

	t.Run("submit bet", func(t *testing.T) {
		msg := types.NewMsgSubmitBet(owner, market, []byte{1}, []byte{2}, []byte{3}, math.NewInt(100_000))
		require.NoError(t, msg.ValidateBasic())

		bad := *msg
		bad.EncryptedMin = nil
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidHandle)

		bad = *msg
		bad.Amount = math.ZeroInt()
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAmount)

		bad = *msg
		bad.MarketAddress = "junk"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAddress)
	})

	t.Run("settle market", func(t *testing.T) {
		msg := types.NewMsgSettleMarket(authority, market)
		require.NoError(t, msg.ValidateBasic())

		bad := *msg
		bad.MarketAddress = "junk"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAddress)
	})

	t.Run("evaluate bet", func(t *testing.T) {
		msg := types.NewMsgEvaluateBet(owner, market)
		require.NoError(t, msg.ValidateBasic())

		bad := *msg
		bad.Owner = "junk"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidAddress)
	})

	t.Run("claim prize", func(t *testing.T) {
		msg := types.NewMsgClaimPrize(owner, market, handle, []byte{0, 0, 0, 0, 0, 0, 0, 1}, make([]byte, 64))
		require.NoError(t, msg.ValidateBasic())

		bad := *msg
		bad.ResultHandle = "zz"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidHandle)

		bad = *msg
		bad.ResultHandle = "00000000000000000000000000000000"
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidHandle)

		bad = *msg
		bad.Plaintext = nil
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidProof)

		bad = *msg
		bad.Attestation = nil
		require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidProof)
	})
}
