package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/veil-protocol/veil/testutil/keeper"
	"github.com/veil-protocol/veil/x/oracle/keeper"
	"github.com/veil-protocol/veil/x/oracle/types"
)

func feeder() sdk.AccAddress {
	return sdk.AccAddress([]byte("feeder______________"))
}

func TestSetAndGetPrice(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	price := types.NewPrice(
		"BTC-USD",
		math.LegacyMustNewDecFromStr("55000"),
		math.LegacyMustNewDecFromStr("10"),
		ctx.BlockTime().Unix(),
		feeder().String(),
		1,
	)
	require.NoError(t, k.SetPrice(ctx, price))

	got, err := k.GetPrice(ctx, "BTC-USD")
	require.NoError(t, err)
	require.Equal(t, price.Price, got.Price)

	_, err = k.GetPrice(ctx, "ETH-USD")
	require.ErrorIs(t, err, types.ErrPriceNotFound)
}

func TestSetPriceRejectsInvalid(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	bad := types.NewPrice("BTC-USD", math.LegacyZeroDec(), math.LegacyZeroDec(), ctx.BlockTime().Unix(), feeder().String(), 1)
	require.ErrorIs(t, k.SetPrice(ctx, bad), types.ErrInvalidPrice)
}

func TestGetPriceNoOlderThan(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	now := ctx.BlockTime()
	fresh := types.NewPrice("BTC-USD", math.LegacyMustNewDecFromStr("55000"), math.LegacyMustNewDecFromStr("10"), now.Unix(), feeder().String(), 1)
	require.NoError(t, k.SetPrice(ctx, fresh))

	got, err := k.GetPriceNoOlderThan(ctx, "BTC-USD", 60)
	require.NoError(t, err)
	require.Equal(t, fresh.Price, got.Price)

	// 61 seconds later the price is too old.
	later := ctx.WithBlockTime(now.Add(61 * time.Second))
	_, err = k.GetPriceNoOlderThan(later, "BTC-USD", 60)
	require.ErrorIs(t, err, types.ErrPriceExpired)

	// Exactly at the bound the price is still accepted.
	atBound := ctx.WithBlockTime(now.Add(60 * time.Second))
	_, err = k.GetPriceNoOlderThan(atBound, "BTC-USD", 60)
	require.NoError(t, err)
}

func TestGetPriceNoOlderThanRejectsWideConfidence(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	// conf/price = 2%, above the default 1% cap.
	wide := types.NewPrice("BTC-USD", math.LegacyMustNewDecFromStr("50000"), math.LegacyMustNewDecFromStr("1000"), ctx.BlockTime().Unix(), feeder().String(), 1)
	require.NoError(t, k.SetPrice(ctx, wide))

	_, err := k.GetPriceNoOlderThan(ctx, "BTC-USD", 60)
	require.ErrorIs(t, err, types.ErrLowConfidence)
}

func TestSubmitPriceFeederAllowList(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	authorized := feeder()
	params := types.DefaultParams()
	params.AuthorizedFeeders = []string{authorized.String()}
	require.NoError(t, k.SetParams(ctx, params))

	msg := types.NewMsgSubmitPrice(
		authorized.String(),
		"BTC-USD",
		math.LegacyMustNewDecFromStr("55000"),
		math.LegacyMustNewDecFromStr("10"),
		ctx.BlockTime().Unix(),
	)
	_, err := srv.SubmitPrice(ctx, msg)
	require.NoError(t, err)

	stranger := sdk.AccAddress([]byte("stranger____________"))
	msg.Feeder = stranger.String()
	_, err = srv.SubmitPrice(ctx, msg)
	require.ErrorIs(t, err, types.ErrFeederNotAuthorized)
}

func TestSubmitPriceOpenWhenNoAllowList(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	msg := types.NewMsgSubmitPrice(
		feeder().String(),
		"ETH-USD",
		math.LegacyMustNewDecFromStr("3200.50"),
		math.LegacyMustNewDecFromStr("1"),
		ctx.BlockTime().Unix(),
	)
	_, err := srv.SubmitPrice(ctx, msg)
	require.NoError(t, err)

	got, err := k.GetPrice(ctx, "ETH-USD")
	require.NoError(t, err)
	require.Equal(t, msg.Price, got.Price)
	require.Equal(t, ctx.BlockHeight(), got.BlockHeight)
}

func TestGenesisRoundTrip(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	require.NoError(t, k.SetPrice(ctx, types.NewPrice("BTC-USD", math.LegacyMustNewDecFromStr("55000"), math.LegacyMustNewDecFromStr("10"), ctx.BlockTime().Unix(), feeder().String(), 1)))
	require.NoError(t, k.SetPrice(ctx, types.NewPrice("ETH-USD", math.LegacyMustNewDecFromStr("3200"), math.LegacyMustNewDecFromStr("1"), ctx.BlockTime().Unix(), feeder().String(), 1)))

	exported := k.ExportGenesis(ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Prices, 2)

	fresh, freshCtx := keepertest.OracleKeeper(t)
	fresh.InitGenesis(freshCtx, *exported)

	prices, err := fresh.GetAllPrices(freshCtx)
	require.NoError(t, err)
	require.Len(t, prices, 2)
}
