package keeper

import (
	"context"
	"encoding/binary"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// Keeper of the confidential store
type Keeper struct {
	storeKey  storetypes.StoreKey
	cdc       *codec.LegacyAmino
	enclave   types.Enclave
	authority string

	metrics *ConfidentialMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new confidential Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	enclave types.Enclave,
	authority string,
) Keeper {
	return Keeper{
		storeKey:  key,
		cdc:       cdc,
		enclave:   enclave,
		authority: authority,
		metrics:   NewConfidentialMetrics(),
	}
}

// GetAuthority returns the module's authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Enclave returns the configured compute backend.
func (k Keeper) Enclave() types.Enclave {
	return k.enclave
}

// getStore returns the KVStore for the confidential module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// nextOpNonce increments and returns the enclave operation counter. Every
// sealing operation consumes a fresh nonce so replayed blocks derive the same
// ciphertexts in the same order.
func (k Keeper) nextOpNonce(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	var nonce uint64
	if bz := store.Get(types.OpNonceKey); bz != nil {
		nonce = binary.BigEndian.Uint64(bz)
	}
	nonce++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nonce)
	store.Set(types.OpNonceKey, buf)
	return nonce
}

// GetOpNonce returns the current enclave operation counter.
func (k Keeper) GetOpNonce(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.OpNonceKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setOpNonce(ctx context.Context, nonce uint64) {
	store := k.getStore(ctx)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nonce)
	store.Set(types.OpNonceKey, buf)
}
