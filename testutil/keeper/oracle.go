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

	"github.com/veil-protocol/veil/x/oracle/keeper"
	"github.com/veil-protocol/veil/x/oracle/types"
)

// OracleKeeper creates a test keeper for the oracle module.
func OracleKeeper(t testing.TB) (keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	cdc := codec.NewLegacyAmino()

	k := keeper.NewKeeper(cdc, storeKey, TestAuthority)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: time.Unix(1_700_000_000, 0)}, false, log.NewNopLogger())

	k.InitGenesis(ctx, *types.DefaultGenesis())

	return k, ctx
}
