package keeper

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// SetEnclaveKey registers the attestation public key accepted when verifying
// decryption proofs.
func (k Keeper) SetEnclaveKey(ctx context.Context, pubKey []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return types.ErrInvalidPubKey.Wrapf("expected %d bytes, got %d", ed25519.PublicKeySize, len(pubKey))
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record := types.EnclaveKey{
		PubKey:           pubKey,
		RegisteredHeight: sdkCtx.BlockHeight(),
	}
	bz, err := k.cdc.Marshal(&record)
	if err != nil {
		return fmt.Errorf("SetEnclaveKey: marshal: %w", err)
	}

	store := k.getStore(ctx)
	store.Set(types.EnclaveKeyKey, bz)
	return nil
}

// GetEnclaveKey returns the registered attestation public key.
func (k Keeper) GetEnclaveKey(ctx context.Context) (types.EnclaveKey, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.EnclaveKeyKey)
	if bz == nil {
		return types.EnclaveKey{}, types.ErrInvalidPubKey.Wrap("no enclave key registered")
	}

	var record types.EnclaveKey
	if err := k.cdc.Unmarshal(bz, &record); err != nil {
		return types.EnclaveKey{}, fmt.Errorf("GetEnclaveKey: unmarshal: %w", err)
	}
	return record, nil
}

// Reveal opens the sealed value behind a handle for a grantee. The grantee
// must hold a decryption allowance. Callers must authenticate the grantee
// first; the query server demands a signed reveal authorization before
// reaching here. The returned attestation binds the plaintext to the handle
// and grantee.
func (k Keeper) Reveal(ctx context.Context, handle types.Handle, grantee sdk.AccAddress) (plaintext []byte, attestation []byte, err error) {
	if !k.HasAllowance(ctx, handle, grantee.String()) {
		return nil, nil, types.ErrNoAllowance.Wrapf("handle %s grantee %s", handle, grantee)
	}

	ct, err := k.GetCiphertext(ctx, handle)
	if err != nil {
		return nil, nil, err
	}

	plaintext, attestation, err = k.enclave.Reveal(ct.Blob, types.RevealContext(handle, grantee.String()))
	if err != nil {
		return nil, nil, types.ErrEnclaveFailure.Wrapf("reveal: %s", err)
	}
	return plaintext, attestation, nil
}

// VerifyRevealProof checks an attested revelation of a handle's plaintext for
// a grantee and consumes it. Verification fails if the grantee holds no
// allowance, no enclave key is registered, the signature does not cover the
// canonical digest, or the same attestation was consumed before. Consumption
// only persists if the surrounding transaction succeeds.
func (k Keeper) VerifyRevealProof(ctx context.Context, handle types.Handle, grantee string, plaintext, attestation []byte) error {
	if handle.IsZero() {
		return types.ErrInvalidHandle.Wrap("zero handle")
	}
	if len(attestation) != ed25519.SignatureSize {
		k.metrics.InvalidProofs.Inc()
		return types.ErrInvalidAttestation.Wrapf("expected %d byte signature, got %d", ed25519.SignatureSize, len(attestation))
	}

	if !k.HasAllowance(ctx, handle, grantee) {
		return types.ErrNoAllowance.Wrapf("handle %s grantee %s", handle, grantee)
	}
	if !k.HasCiphertext(ctx, handle) {
		return types.ErrHandleNotFound.Wrapf("handle %s", handle)
	}

	record, err := k.GetEnclaveKey(ctx)
	if err != nil {
		return err
	}

	digest := types.AttestationDigest(types.RevealContext(handle, grantee), plaintext)
	if !ed25519.Verify(ed25519.PublicKey(record.PubKey), digest, attestation) {
		k.metrics.InvalidProofs.Inc()
		return types.ErrInvalidAttestation.Wrap("signature verification failed")
	}

	store := k.getStore(ctx)
	nonce := sha256.Sum256(attestation)
	nonceKey := types.UsedNonceKey(nonce[:])
	if store.Has(nonceKey) {
		return types.ErrNonceAlreadyUsed
	}
	store.Set(nonceKey, []byte{1})

	k.metrics.ProofsVerified.Inc()
	return nil
}
