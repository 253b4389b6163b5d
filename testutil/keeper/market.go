package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/veil-protocol/veil/x/confidential/enclave"
	confidentialkeeper "github.com/veil-protocol/veil/x/confidential/keeper"
	confidentialtypes "github.com/veil-protocol/veil/x/confidential/types"
	marketkeeper "github.com/veil-protocol/veil/x/market/keeper"
	markettypes "github.com/veil-protocol/veil/x/market/types"
	oraclekeeper "github.com/veil-protocol/veil/x/oracle/keeper"
	oracletypes "github.com/veil-protocol/veil/x/oracle/types"
)

// MarketFixture bundles the market keeper with its live collaborators.
type MarketFixture struct {
	Keeper             marketkeeper.Keeper
	OracleKeeper       oraclekeeper.Keeper
	ConfidentialKeeper confidentialkeeper.Keeper
	Bank               *MockBankKeeper
	Enclave            *enclave.Enclave
	Ctx                sdk.Context
}

// MarketKeeper creates a test keeper for the market module wired to real
// oracle and confidential keepers over one multistore and an in-memory bank.
func MarketKeeper(t testing.TB) MarketFixture {
	marketKey := storetypes.NewKVStoreKey(markettypes.StoreKey)
	oracleKey := storetypes.NewKVStoreKey(oracletypes.StoreKey)
	confidentialKey := storetypes.NewKVStoreKey(confidentialtypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(marketKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(oracleKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(confidentialKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	cdc := codec.NewLegacyAmino()
	enc := enclave.MustNew(TestEnclaveSeed)
	bank := NewMockBankKeeper()

	confidentialK := confidentialkeeper.NewKeeper(cdc, confidentialKey, enc, TestAuthority)
	oracleK := oraclekeeper.NewKeeper(cdc, oracleKey, TestAuthority)
	marketK := marketkeeper.NewKeeper(cdc, marketKey, bank, oracleK, confidentialK, TestAuthority)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: time.Unix(1_700_000_000, 0)}, false, log.NewNopLogger())

	confidentialGenesis := confidentialtypes.DefaultGenesis()
	confidentialGenesis.EnclaveKey = &confidentialtypes.EnclaveKey{PubKey: enc.AttestationKey()}
	confidentialK.InitGenesis(ctx, *confidentialGenesis)
	oracleK.InitGenesis(ctx, *oracletypes.DefaultGenesis())
	marketK.InitGenesis(ctx, *markettypes.DefaultGenesis())

	return MarketFixture{
		Keeper:             marketK,
		OracleKeeper:       oracleK,
		ConfidentialKeeper: confidentialK,
		Bank:               bank,
		Enclave:            enc,
		Ctx:                ctx,
	}
}

// SealClientValue produces a client-side ciphertext the test enclave will
// accept on import. The nonce only needs to be unique per sealed value in a
// test.
func (f MarketFixture) SealClientValue(t testing.TB, value uint64, nonce uint64) []byte {
	blob, err := f.Enclave.SealUint64(value, nonce)
	require.NoError(t, err)
	return blob
}
