package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/veil-protocol/veil/testutil/keeper"
	confidentialtypes "github.com/veil-protocol/veil/x/confidential/types"
	"github.com/veil-protocol/veil/x/market/keeper"
	"github.com/veil-protocol/veil/x/market/types"
	oracletypes "github.com/veil-protocol/veil/x/oracle/types"
)

// feedPrice builds a fresh feed price with a tight confidence band.
func feedPrice(price string, publishTime int64) oracletypes.Price {
	return oracletypes.NewPrice(
		priceFeed,
		math.LegacyMustNewDecFromStr(price),
		math.LegacyMustNewDecFromStr("1"),
		publishTime,
		keepertest.TestAuthority,
		1,
	)
}

const (
	betMin    = uint64(50_000) * types.PriceScale
	betMax    = uint64(60_000) * types.PriceScale
	betStake  = int64(100_000)
	priceFeed = "BTC-USD"
)

type MarketKeeperTestSuite struct {
	suite.Suite

	f         keepertest.MarketFixture
	authority sdk.AccAddress
	alice     sdk.AccAddress
	bob       sdk.AccAddress
	nonce     uint64
}

func TestMarketKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(MarketKeeperTestSuite))
}

func (s *MarketKeeperTestSuite) SetupTest() {
	s.f = keepertest.MarketKeeper(s.T())

	authority, err := sdk.AccAddressFromBech32(keepertest.TestAuthority)
	s.Require().NoError(err)
	s.authority = authority
	s.alice = sdk.AccAddress([]byte("alice_______________"))
	s.bob = sdk.AccAddress([]byte("bob_________________"))
	s.nonce = 0

	funds := sdk.NewCoins(sdk.NewCoin(types.DefaultStakeDenom, math.NewInt(1_000_000)))
	s.f.Bank.FundAccount(s.alice, funds)
	s.f.Bank.FundAccount(s.bob, funds)
}

// seal produces a client-side ciphertext with a fresh nonce.
func (s *MarketKeeperTestSuite) seal(value uint64) []byte {
	s.nonce++
	return s.f.SealClientValue(s.T(), value, s.nonce)
}

func (s *MarketKeeperTestSuite) createMarket(symbol string) types.Market {
	market, err := s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, symbol, priceFeed, s.f.Ctx.BlockTime().Unix())
	s.Require().NoError(err)
	return market
}

func (s *MarketKeeperTestSuite) placeBet(owner sdk.AccAddress, market types.Market, min, max uint64, stake int64) types.Bet {
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	bet, err := s.f.Keeper.SubmitBet(
		s.f.Ctx, owner, marketAddr,
		s.seal(min), s.seal(max), s.seal(uint64(stake)),
		math.NewInt(stake),
	)
	s.Require().NoError(err)
	return bet
}

// settle advances block time to the market close, posts a fresh oracle price
// and settles. It returns the settled market and the post-close context.
func (s *MarketKeeperTestSuite) settle(market types.Market, price string) (types.Market, sdk.Context) {
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	ctx := s.f.Ctx.WithBlockTime(time.Unix(market.EndTimestamp, 0))
	err = s.f.OracleKeeper.SetPrice(ctx, feedPrice(price, ctx.BlockTime().Unix()))
	s.Require().NoError(err)

	settled, err := s.f.Keeper.SettleMarket(ctx, s.authority, marketAddr)
	s.Require().NoError(err)
	return settled, ctx
}

// evaluateAndReveal evaluates the owner's bet and reveals the result through
// the confidential module the way a claimant would off-chain.
func (s *MarketKeeperTestSuite) evaluateAndReveal(ctx sdk.Context, owner sdk.AccAddress, market types.Market) (types.Bet, []byte, []byte) {
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	bet, err := s.f.Keeper.EvaluateBet(ctx, owner, marketAddr)
	s.Require().NoError(err)
	s.Require().True(bet.Evaluated)
	s.Require().False(bet.ResultHandle.IsZero())

	plaintext, attestation, err := s.f.ConfidentialKeeper.Reveal(ctx, bet.ResultHandle, owner)
	s.Require().NoError(err)
	return bet, plaintext, attestation
}

func (s *MarketKeeperTestSuite) TestFullLifecycle() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)
	vault := types.VaultAddress(marketAddr)

	s.placeBet(s.alice, market, betMin, betMax, betStake)
	s.placeBet(s.bob, market, uint64(70_000)*types.PriceScale, uint64(80_000)*types.PriceScale, 50_000)

	// Stakes are escrowed into the vault.
	s.Require().Equal(math.NewInt(900_000), s.f.Bank.GetBalance(s.f.Ctx, s.alice, types.DefaultStakeDenom).Amount)
	s.Require().Equal(math.NewInt(150_000), s.f.Bank.GetBalance(s.f.Ctx, vault, types.DefaultStakeDenom).Amount)

	market, err = s.f.Keeper.GetMarket(s.f.Ctx, marketAddr)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(150_000), market.TotalPot)
	s.Require().Equal(uint64(2), market.BetCount)

	settled, ctx := s.settle(market, "55000")
	s.Require().True(settled.Settled)
	s.Require().False(settled.FinalPriceHandle.IsZero())
	s.Require().Equal(math.LegacyMustNewDecFromStr("55000"), settled.SettlementPrice)

	// Alice's range covers the settlement price, Bob's does not.
	aliceBet, alicePlain, aliceProof := s.evaluateAndReveal(ctx, s.alice, settled)
	s.Require().True(types.IsWinningPlaintext(alicePlain))

	_, bobPlain, bobProof := s.evaluateAndReveal(ctx, s.bob, settled)
	s.Require().False(types.IsWinningPlaintext(bobPlain))

	// The losing bet cannot claim.
	bobBet, err := s.f.Keeper.GetBet(ctx, marketAddr, s.bob)
	s.Require().NoError(err)
	_, err = s.f.Keeper.ClaimPrize(ctx, s.bob, marketAddr, bobBet.ResultHandle.String(), bobPlain, bobProof)
	s.Require().ErrorIs(err, types.ErrNotWinner)

	payout, err := s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, aliceBet.ResultHandle.String(), alicePlain, aliceProof)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(150_000), payout.Amount)

	s.Require().Equal(math.NewInt(1_050_000), s.f.Bank.GetBalance(ctx, s.alice, types.DefaultStakeDenom).Amount)
	s.Require().True(s.f.Bank.GetBalance(ctx, vault, types.DefaultStakeDenom).Amount.IsZero())

	market, err = s.f.Keeper.GetMarket(ctx, marketAddr)
	s.Require().NoError(err)
	s.Require().True(market.PrizeClaimed)
	s.Require().Equal(s.alice.String(), market.Winner)

	// The claim is recorded on the bet itself.
	aliceBet, err = s.f.Keeper.GetBet(ctx, marketAddr, s.alice)
	s.Require().NoError(err)
	s.Require().True(aliceBet.Claimed)

	bobBet, err = s.f.Keeper.GetBet(ctx, marketAddr, s.bob)
	s.Require().NoError(err)
	s.Require().False(bobBet.Claimed)

	// A second claim is rejected even with a valid proof.
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, aliceBet.ResultHandle.String(), alicePlain, aliceProof)
	s.Require().ErrorIs(err, types.ErrAlreadyClaimed)
}

func (s *MarketKeeperTestSuite) TestBoundaryEvaluations() {
	tests := []struct {
		symbol string
		price  string
		win    bool
	}{
		{symbol: "ATMIN", price: "50000", win: true},
		{symbol: "ATMAX", price: "60000", win: true},
		{symbol: "BELOW", price: "49999.999999", win: false},
		{symbol: "ABOVE", price: "60000.000001", win: false},
	}

	for _, tc := range tests {
		s.Run(tc.symbol, func() {
			market := s.createMarket(tc.symbol)
			s.placeBet(s.alice, market, betMin, betMax, betStake)

			settled, ctx := s.settle(market, tc.price)
			_, plaintext, _ := s.evaluateAndReveal(ctx, s.alice, settled)
			s.Require().Equal(tc.win, types.IsWinningPlaintext(plaintext))
		})
	}
}

func (s *MarketKeeperTestSuite) TestCreateMarketValidation() {
	now := s.f.Ctx.BlockTime().Unix()

	s.createMarket("BTC")
	_, err := s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "BTC", priceFeed, now)
	s.Require().ErrorIs(err, types.ErrMarketExists)

	_, err = s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "BAD SYMBOL", priceFeed, now)
	s.Require().ErrorIs(err, types.ErrInvalidAssetSymbol)

	_, err = s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "ETH", "", now)
	s.Require().ErrorIs(err, types.ErrInvalidAssetSymbol)

	_, err = s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "ETH", priceFeed, 0)
	s.Require().ErrorIs(err, types.ErrInvalidTiming)

	// Outside the start time tolerance.
	stale := now - int64(types.DefaultStartTimeTolerance) - 1
	_, err = s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "ETH", priceFeed, stale)
	s.Require().ErrorIs(err, types.ErrInvalidTiming)

	// Within the tolerance is fine.
	_, err = s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "ETH", priceFeed, now-int64(types.DefaultStartTimeTolerance))
	s.Require().NoError(err)
}

func (s *MarketKeeperTestSuite) TestSubmitBetErrors() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	unknown := sdk.AccAddress([]byte("unknown_market______"))
	_, err = s.f.Keeper.SubmitBet(s.f.Ctx, s.alice, unknown, s.seal(1), s.seal(2), s.seal(3), math.NewInt(1))
	s.Require().ErrorIs(err, types.ErrMarketNotFound)

	// Garbage ciphertexts are rejected by the enclave on import.
	_, err = s.f.Keeper.SubmitBet(s.f.Ctx, s.alice, marketAddr, []byte("junk"), s.seal(2), s.seal(3), math.NewInt(betStake))
	s.Require().ErrorIs(err, types.ErrComputeUnavailable)

	// Stake above spendable balance.
	_, err = s.f.Keeper.SubmitBet(s.f.Ctx, s.alice, marketAddr, s.seal(betMin), s.seal(betMax), s.seal(1), math.NewInt(2_000_000))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)

	s.placeBet(s.alice, market, betMin, betMax, betStake)
	_, err = s.f.Keeper.SubmitBet(s.f.Ctx, s.alice, marketAddr, s.seal(betMin), s.seal(betMax), s.seal(uint64(betStake)), math.NewInt(betStake))
	s.Require().ErrorIs(err, types.ErrDuplicateBet)

	// The betting window has not opened yet for a future market.
	future, err := s.f.Keeper.CreateMarket(s.f.Ctx, s.authority, "ETH", priceFeed, s.f.Ctx.BlockTime().Unix()+600)
	s.Require().NoError(err)
	futureAddr, err := sdk.AccAddressFromBech32(future.Address)
	s.Require().NoError(err)
	_, err = s.f.Keeper.SubmitBet(s.f.Ctx, s.bob, futureAddr, s.seal(betMin), s.seal(betMax), s.seal(uint64(betStake)), math.NewInt(betStake))
	s.Require().ErrorIs(err, types.ErrMarketClosed)

	// The betting window has closed.
	closed := s.f.Ctx.WithBlockTime(time.Unix(market.EndTimestamp, 0))
	_, err = s.f.Keeper.SubmitBet(closed, s.bob, marketAddr, s.seal(betMin), s.seal(betMax), s.seal(uint64(betStake)), math.NewInt(betStake))
	s.Require().ErrorIs(err, types.ErrMarketClosed)

	// Settled markets reject bets outright.
	settled, ctx := s.settle(market, "55000")
	settledAddr, err := sdk.AccAddressFromBech32(settled.Address)
	s.Require().NoError(err)
	_, err = s.f.Keeper.SubmitBet(ctx, s.bob, settledAddr, s.seal(betMin), s.seal(betMax), s.seal(uint64(betStake)), math.NewInt(betStake))
	s.Require().ErrorIs(err, types.ErrAlreadySettled)
}

func (s *MarketKeeperTestSuite) TestSettleMarketErrors() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	_, err = s.f.Keeper.SettleMarket(s.f.Ctx, s.bob, marketAddr)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = s.f.Keeper.SettleMarket(s.f.Ctx, s.authority, marketAddr)
	s.Require().ErrorIs(err, types.ErrMarketStillOpen)

	// Window closed but no oracle price posted.
	ctx := s.f.Ctx.WithBlockTime(time.Unix(market.EndTimestamp, 0))
	_, err = s.f.Keeper.SettleMarket(ctx, s.authority, marketAddr)
	s.Require().ErrorIs(err, types.ErrOracleUnavailable)

	// A price older than the max age is also unusable.
	stale := feedPrice("55000", market.EndTimestamp-int64(types.DefaultPriceMaxAge)-1)
	s.Require().NoError(s.f.OracleKeeper.SetPrice(ctx, stale))
	_, err = s.f.Keeper.SettleMarket(ctx, s.authority, marketAddr)
	s.Require().ErrorIs(err, types.ErrOracleUnavailable)

	settled, ctx := s.settle(market, "55000")
	settledAddr, err := sdk.AccAddressFromBech32(settled.Address)
	s.Require().NoError(err)
	_, err = s.f.Keeper.SettleMarket(ctx, s.authority, settledAddr)
	s.Require().ErrorIs(err, types.ErrAlreadySettled)
}

func (s *MarketKeeperTestSuite) TestEvaluateBetErrors() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	s.placeBet(s.alice, market, betMin, betMax, betStake)

	_, err = s.f.Keeper.EvaluateBet(s.f.Ctx, s.alice, marketAddr)
	s.Require().ErrorIs(err, types.ErrMarketNotSettled)

	_, ctx := s.settle(market, "55000")
	_, err = s.f.Keeper.EvaluateBet(ctx, s.bob, marketAddr)
	s.Require().ErrorIs(err, types.ErrBetNotFound)

	// Re-evaluation mints a fresh result handle.
	first, err := s.f.Keeper.EvaluateBet(ctx, s.alice, marketAddr)
	s.Require().NoError(err)
	second, err := s.f.Keeper.EvaluateBet(ctx, s.alice, marketAddr)
	s.Require().NoError(err)
	s.Require().NotEqual(first.ResultHandle, second.ResultHandle)
}

func (s *MarketKeeperTestSuite) TestEvaluateBetConsumesGasReserve() {
	market := s.createMarket("BTC")
	s.placeBet(s.alice, market, betMin, betMax, betStake)
	settled, ctx := s.settle(market, "55000")

	marketAddr, err := sdk.AccAddressFromBech32(settled.Address)
	s.Require().NoError(err)

	before := ctx.GasMeter().GasConsumed()
	_, err = s.f.Keeper.EvaluateBet(ctx, s.alice, marketAddr)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(ctx.GasMeter().GasConsumed()-before, types.DefaultEvaluateGasReserve)
}

func (s *MarketKeeperTestSuite) TestClaimPrizeErrors() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	s.placeBet(s.alice, market, betMin, betMax, betStake)

	handle := confidentialtypes.Handle{Lo: 1}
	_, err = s.f.Keeper.ClaimPrize(s.f.Ctx, s.alice, marketAddr, handle.String(), []byte{1}, make([]byte, 64))
	s.Require().ErrorIs(err, types.ErrMarketNotSettled)

	settled, ctx := s.settle(market, "55000")
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, handle.String(), []byte{1}, make([]byte, 64))
	s.Require().ErrorIs(err, types.ErrNotEvaluated)

	bet, plaintext, attestation := s.evaluateAndReveal(ctx, s.alice, settled)

	// The submitted handle must match the evaluated result.
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, handle.String(), plaintext, attestation)
	s.Require().ErrorIs(err, types.ErrInvalidProof)

	// A forged plaintext fails attestation verification.
	forged := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	_, err = s.f.Keeper.ClaimPrize(ctx, s.bob, marketAddr, bet.ResultHandle.String(), forged, attestation)
	s.Require().ErrorIs(err, types.ErrBetNotFound)

	tampered := append([]byte{}, attestation...)
	tampered[0] ^= 0xff
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, bet.ResultHandle.String(), plaintext, tampered)
	s.Require().ErrorIs(err, types.ErrInvalidProof)

	// The untampered proof still works afterwards.
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, bet.ResultHandle.String(), plaintext, attestation)
	s.Require().NoError(err)
}

func (s *MarketKeeperTestSuite) TestInvariants() {
	market := s.createMarket("BTC")
	marketAddr, err := sdk.AccAddressFromBech32(market.Address)
	s.Require().NoError(err)

	s.placeBet(s.alice, market, betMin, betMax, betStake)
	settled, ctx := s.settle(market, "55000")

	msg, broken := keeper.AllInvariants(s.f.Keeper)(ctx)
	s.Require().False(broken, msg)

	bet, plaintext, attestation := s.evaluateAndReveal(ctx, s.alice, settled)
	_, err = s.f.Keeper.ClaimPrize(ctx, s.alice, marketAddr, bet.ResultHandle.String(), plaintext, attestation)
	s.Require().NoError(err)

	msg, broken = keeper.AllInvariants(s.f.Keeper)(ctx)
	s.Require().False(broken, msg)

	// Corrupting the pot trips the accounting invariant.
	settled, err = s.f.Keeper.GetMarket(ctx, marketAddr)
	s.Require().NoError(err)
	settled.TotalPot = settled.TotalPot.AddRaw(1)
	s.Require().NoError(s.f.Keeper.SetMarket(ctx, settled))

	msg, broken = keeper.PotMatchesBetsInvariant(s.f.Keeper)(ctx)
	s.Require().True(broken, msg)

	// A claimed flag without a prior evaluation trips the claim invariant.
	bet, err = s.f.Keeper.GetBet(ctx, marketAddr, s.alice)
	s.Require().NoError(err)
	bet.Evaluated = false
	s.Require().NoError(s.f.Keeper.SetBet(ctx, bet))

	msg, broken = keeper.ClaimedBetsInvariant(s.f.Keeper)(ctx)
	s.Require().True(broken, msg)
}

func (s *MarketKeeperTestSuite) TestGenesisRoundTrip() {
	market := s.createMarket("BTC")
	s.placeBet(s.alice, market, betMin, betMax, betStake)
	s.settle(market, "55000")

	exported := s.f.Keeper.ExportGenesis(s.f.Ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Markets, 1)
	s.Require().Len(exported.Bets, 1)

	fresh := keepertest.MarketKeeper(s.T())
	fresh.Keeper.InitGenesis(fresh.Ctx, *exported)

	markets, err := fresh.Keeper.GetAllMarkets(fresh.Ctx)
	s.Require().NoError(err)
	s.Require().Len(markets, 1)
	s.Require().True(markets[0].Settled)

	restored, err := fresh.Keeper.GetBet(fresh.Ctx, types.MarketAddress(s.authority, "BTC"), s.alice)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(betStake), restored.Amount)
}

func TestMsgServerLifecycle(t *testing.T) {
	f := keepertest.MarketKeeper(t)
	srv := keeper.NewMsgServerImpl(f.Keeper)

	owner := sdk.AccAddress([]byte("owner_______________"))
	f.Bank.FundAccount(owner, sdk.NewCoins(sdk.NewCoin(types.DefaultStakeDenom, math.NewInt(1_000_000))))

	createRes, err := srv.CreateMarket(f.Ctx, types.NewMsgCreateMarket(
		keepertest.TestAuthority, "BTC", priceFeed, f.Ctx.BlockTime().Unix(),
	))
	require.NoError(t, err)
	require.Equal(t, f.Ctx.BlockTime().Unix()+int64(types.DefaultMarketDuration), createRes.EndTimestamp)

	_, err = srv.SubmitBet(f.Ctx, types.NewMsgSubmitBet(
		owner.String(), createRes.MarketAddress,
		f.SealClientValue(t, betMin, 1), f.SealClientValue(t, betMax, 2), f.SealClientValue(t, uint64(betStake), 3),
		math.NewInt(betStake),
	))
	require.NoError(t, err)

	ctx := f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(time.Duration(types.DefaultMarketDuration) * time.Second))
	require.NoError(t, f.OracleKeeper.SetPrice(ctx, feedPrice("55000", ctx.BlockTime().Unix())))

	_, err = srv.SettleMarket(ctx, types.NewMsgSettleMarket(keepertest.TestAuthority, createRes.MarketAddress))
	require.NoError(t, err)

	evalRes, err := srv.EvaluateBet(ctx, types.NewMsgEvaluateBet(owner.String(), createRes.MarketAddress))
	require.NoError(t, err)

	resultHandle, err := types.ParseResultHandle(evalRes.ResultHandle)
	require.NoError(t, err)
	plaintext, attestation, err := f.ConfidentialKeeper.Reveal(ctx, resultHandle, owner)
	require.NoError(t, err)

	claimRes, err := srv.ClaimPrize(ctx, types.NewMsgClaimPrize(
		owner.String(), createRes.MarketAddress, evalRes.ResultHandle, plaintext, attestation,
	))
	require.NoError(t, err)
	require.Contains(t, claimRes.Payout, types.DefaultStakeDenom)
}
