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
	"github.com/veil-protocol/veil/x/confidential/keeper"
	"github.com/veil-protocol/veil/x/confidential/types"
)

// TestAuthority is the module authority used across keeper fixtures.
var TestAuthority = sdk.AccAddress([]byte("authority___________")).String()

// TestEnclaveSeed seeds the deterministic test enclave.
var TestEnclaveSeed = []byte("test-enclave-seed")

// ConfidentialKeeper creates a test keeper for the confidential module backed
// by a deterministic enclave. The enclave's attestation key is registered so
// reveal proofs verify out of the box.
func ConfidentialKeeper(t testing.TB) (keeper.Keeper, sdk.Context, *enclave.Enclave) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	cdc := codec.NewLegacyAmino()
	enc := enclave.MustNew(TestEnclaveSeed)

	k := keeper.NewKeeper(cdc, storeKey, enc, TestAuthority)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{ChainID: "veil-test-1", Height: 1, Time: time.Unix(1_700_000_000, 0)}, false, log.NewNopLogger())

	genesis := types.DefaultGenesis()
	genesis.EnclaveKey = &types.EnclaveKey{PubKey: enc.AttestationKey()}
	k.InitGenesis(ctx, *genesis)

	return k, ctx, enc
}
