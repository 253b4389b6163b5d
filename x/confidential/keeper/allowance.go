package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// GrantDecryption records that a grantee may obtain a revelation of the
// sealed value behind a handle. Granting twice is a no-op.
func (k Keeper) GrantDecryption(ctx context.Context, handle types.Handle, grantee sdk.AccAddress) error {
	if !k.HasCiphertext(ctx, handle) {
		return types.ErrHandleNotFound.Wrapf("handle %s", handle)
	}

	store := k.getStore(ctx)
	key := types.AllowanceKey(handle, grantee.String())
	if store.Has(key) {
		return nil
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allowance := types.Allowance{
		Handle:        handle,
		Grantee:       grantee.String(),
		GrantedHeight: sdkCtx.BlockHeight(),
	}
	bz, err := k.cdc.Marshal(&allowance)
	if err != nil {
		return fmt.Errorf("GrantDecryption: marshal: %w", err)
	}
	store.Set(key, bz)

	k.metrics.DecryptionGrants.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDecryptionGranted,
			sdk.NewAttribute(types.AttributeKeyHandle, handle.String()),
			sdk.NewAttribute(types.AttributeKeyGrantee, grantee.String()),
		),
	)
	return nil
}

// HasAllowance reports whether a grantee holds a decryption allowance for a
// handle.
func (k Keeper) HasAllowance(ctx context.Context, handle types.Handle, grantee string) bool {
	store := k.getStore(ctx)
	return store.Has(types.AllowanceKey(handle, grantee))
}

// setAllowance writes an allowance record directly, used by genesis import.
func (k Keeper) setAllowance(ctx context.Context, allowance types.Allowance) error {
	bz, err := k.cdc.Marshal(&allowance)
	if err != nil {
		return fmt.Errorf("setAllowance: marshal: %w", err)
	}
	store := k.getStore(ctx)
	store.Set(types.AllowanceKey(allowance.Handle, allowance.Grantee), bz)
	return nil
}

// IterateAllowances walks every decryption allowance.
func (k Keeper) IterateAllowances(ctx context.Context, cb func(allowance types.Allowance) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.AllowanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var allowance types.Allowance
		if err := k.cdc.Unmarshal(iterator.Value(), &allowance); err != nil {
			return fmt.Errorf("IterateAllowances: unmarshal: %w", err)
		}
		if cb(allowance) {
			break
		}
	}
	return nil
}
