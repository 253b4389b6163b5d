package keeper

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// mintHandle derives a fresh handle for a sealed blob. The operation nonce
// keeps handles unique even for identical blobs.
func mintHandle(blob []byte, nonce uint64) types.Handle {
	h := sha256.New()
	h.Write([]byte("veil/handle/v1"))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h.Write(n[:])
	h.Write(blob)
	sum := h.Sum(nil)

	handle, _ := types.HandleFromBytes(sum[:types.HandleSize])
	if handle.IsZero() {
		handle.Lo = 1
	}
	return handle
}

// SetCiphertext stores a sealed value under its handle.
func (k Keeper) SetCiphertext(ctx context.Context, ct types.Ciphertext) error {
	bz, err := k.cdc.Marshal(&ct)
	if err != nil {
		return fmt.Errorf("SetCiphertext: marshal: %w", err)
	}
	store := k.getStore(ctx)
	store.Set(types.CiphertextKey(ct.Handle), bz)
	return nil
}

// GetCiphertext retrieves a sealed value by handle.
func (k Keeper) GetCiphertext(ctx context.Context, handle types.Handle) (types.Ciphertext, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.CiphertextKey(handle))
	if bz == nil {
		return types.Ciphertext{}, types.ErrHandleNotFound.Wrapf("handle %s", handle)
	}

	var ct types.Ciphertext
	if err := k.cdc.Unmarshal(bz, &ct); err != nil {
		return types.Ciphertext{}, fmt.Errorf("GetCiphertext: unmarshal: %w", err)
	}
	return ct, nil
}

// HasCiphertext reports whether a handle refers to a stored sealed value.
func (k Keeper) HasCiphertext(ctx context.Context, handle types.Handle) bool {
	store := k.getStore(ctx)
	return store.Has(types.CiphertextKey(handle))
}

// IterateCiphertexts walks every stored sealed value.
func (k Keeper) IterateCiphertexts(ctx context.Context, cb func(ct types.Ciphertext) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.CiphertextKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var ct types.Ciphertext
		if err := k.cdc.Unmarshal(iterator.Value(), &ct); err != nil {
			return fmt.Errorf("IterateCiphertexts: unmarshal: %w", err)
		}
		if cb(ct) {
			break
		}
	}
	return nil
}

func (k Keeper) storeSealed(ctx context.Context, blob []byte, owner string, nonce uint64) (types.Handle, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	handle := mintHandle(blob, nonce)

	ct := types.Ciphertext{
		Handle:        handle,
		Blob:          blob,
		Owner:         owner,
		CreatedHeight: sdkCtx.BlockHeight(),
	}
	if err := k.SetCiphertext(ctx, ct); err != nil {
		return types.Handle{}, err
	}
	return handle, nil
}

// ImportCiphertext validates a caller-supplied sealed blob, re-seals it and
// returns a fresh handle owned by the submitter.
func (k Keeper) ImportCiphertext(ctx context.Context, owner sdk.AccAddress, blob []byte) (types.Handle, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Handle{}, err
	}
	if len(blob) == 0 {
		return types.Handle{}, types.ErrInvalidCiphertext.Wrap("empty blob")
	}
	if uint64(len(blob)) > params.MaxCiphertextSize {
		return types.Handle{}, types.ErrCiphertextTooLarge.Wrapf("%d > %d", len(blob), params.MaxCiphertextSize)
	}

	nonce := k.nextOpNonce(ctx)
	sealed, err := k.enclave.Import(blob, nonce)
	if err != nil {
		return types.Handle{}, types.ErrEnclaveFailure.Wrapf("import: %s", err)
	}

	handle, err := k.storeSealed(ctx, sealed, owner.String(), nonce)
	if err != nil {
		return types.Handle{}, err
	}

	k.metrics.CiphertextsImported.Inc()
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCiphertextImported,
			sdk.NewAttribute(types.AttributeKeyHandle, handle.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		),
	)
	return handle, nil
}

// SealValue encrypts a trusted plaintext value and returns its handle. The
// settlement path uses this to bring an oracle price into sealed form.
func (k Keeper) SealValue(ctx context.Context, owner sdk.AccAddress, value uint64) (types.Handle, error) {
	nonce := k.nextOpNonce(ctx)
	sealed, err := k.enclave.SealUint64(value, nonce)
	if err != nil {
		return types.Handle{}, types.ErrEnclaveFailure.Wrapf("seal: %s", err)
	}

	handle, err := k.storeSealed(ctx, sealed, owner.String(), nonce)
	if err != nil {
		return types.Handle{}, err
	}

	k.metrics.ValuesSealed.Inc()
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeValueSealed,
			sdk.NewAttribute(types.AttributeKeyHandle, handle.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		),
	)
	return handle, nil
}

// EvalRange computes min <= value AND value <= max over three sealed values
// and returns the handle of the sealed boolean result. The result is owned by
// the module itself.
func (k Keeper) EvalRange(ctx context.Context, minHandle, maxHandle, valueHandle types.Handle) (types.Handle, error) {
	minCt, err := k.GetCiphertext(ctx, minHandle)
	if err != nil {
		return types.Handle{}, err
	}
	maxCt, err := k.GetCiphertext(ctx, maxHandle)
	if err != nil {
		return types.Handle{}, err
	}
	valueCt, err := k.GetCiphertext(ctx, valueHandle)
	if err != nil {
		return types.Handle{}, err
	}

	aboveMin, err := k.enclave.Le(minCt.Blob, valueCt.Blob, k.nextOpNonce(ctx))
	if err != nil {
		return types.Handle{}, types.ErrEnclaveFailure.Wrapf("le(min, value): %s", err)
	}
	belowMax, err := k.enclave.Le(valueCt.Blob, maxCt.Blob, k.nextOpNonce(ctx))
	if err != nil {
		return types.Handle{}, types.ErrEnclaveFailure.Wrapf("le(value, max): %s", err)
	}

	nonce := k.nextOpNonce(ctx)
	inRange, err := k.enclave.And(aboveMin, belowMax, nonce)
	if err != nil {
		return types.Handle{}, types.ErrEnclaveFailure.Wrapf("and: %s", err)
	}

	handle, err := k.storeSealed(ctx, inRange, types.ModuleName, nonce)
	if err != nil {
		return types.Handle{}, err
	}

	k.metrics.RangesEvaluated.Inc()
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRangeEvaluated,
			sdk.NewAttribute(types.AttributeKeyResultHandle, handle.String()),
		),
	)
	return handle, nil
}
