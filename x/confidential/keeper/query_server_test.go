package keeper_test

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/veil-protocol/veil/testutil/keeper"
	"github.com/veil-protocol/veil/x/confidential/keeper"
	"github.com/veil-protocol/veil/x/confidential/types"
)

func TestRevealQueryAuthorization(t *testing.T) {
	k, ctx, _ := keepertest.ConfidentialKeeper(t)
	qs := keeper.NewQueryServerImpl(k)

	granteePriv := secp256k1.GenPrivKey()
	grantee := sdk.AccAddress(granteePriv.PubKey().Address())

	handle, err := k.SealValue(ctx, grantee, 1)
	require.NoError(t, err)
	require.NoError(t, k.GrantDecryption(ctx, handle, grantee))

	sign := func(priv *secp256k1.PrivKey, height int64) []byte {
		sig, err := priv.Sign(types.RevealAuthDigest(handle, ctx.ChainID(), height))
		require.NoError(t, err)
		return sig
	}

	// The grantee's own signed authorization opens the value.
	res, err := qs.Reveal(ctx, &types.QueryRevealRequest{
		Handle:        handle.String(),
		Grantee:       grantee.String(),
		GranteePubKey: granteePriv.PubKey().Bytes(),
		AuthSignature: sign(granteePriv, ctx.BlockHeight()),
		AuthHeight:    ctx.BlockHeight(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Plaintext)
	require.NotEmpty(t, res.Attestation)

	// An observer naming the grantee but signing with their own key gets
	// nothing.
	strangerPriv := secp256k1.GenPrivKey()
	_, err = qs.Reveal(ctx, &types.QueryRevealRequest{
		Handle:        handle.String(),
		Grantee:       grantee.String(),
		GranteePubKey: strangerPriv.PubKey().Bytes(),
		AuthSignature: sign(strangerPriv, ctx.BlockHeight()),
		AuthHeight:    ctx.BlockHeight(),
	})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	// No authorization at all.
	_, err = qs.Reveal(ctx, &types.QueryRevealRequest{
		Handle:  handle.String(),
		Grantee: grantee.String(),
	})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	// A flipped bit in an otherwise valid signature.
	sig := sign(granteePriv, ctx.BlockHeight())
	sig[0] ^= 0xff
	_, err = qs.Reveal(ctx, &types.QueryRevealRequest{
		Handle:        handle.String(),
		Grantee:       grantee.String(),
		GranteePubKey: granteePriv.PubKey().Bytes(),
		AuthSignature: sig,
		AuthHeight:    ctx.BlockHeight(),
	})
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRevealQueryAuthorizationExpiry(t *testing.T) {
	k, ctx, _ := keepertest.ConfidentialKeeper(t)
	qs := keeper.NewQueryServerImpl(k)

	granteePriv := secp256k1.GenPrivKey()
	grantee := sdk.AccAddress(granteePriv.PubKey().Address())

	handle, err := k.SealValue(ctx, grantee, 1)
	require.NoError(t, err)
	require.NoError(t, k.GrantDecryption(ctx, handle, grantee))

	reveal := func(ctx sdk.Context, authHeight int64) error {
		sig, err := granteePriv.Sign(types.RevealAuthDigest(handle, ctx.ChainID(), authHeight))
		require.NoError(t, err)
		_, err = qs.Reveal(ctx, &types.QueryRevealRequest{
			Handle:        handle.String(),
			Grantee:       grantee.String(),
			GranteePubKey: granteePriv.PubKey().Bytes(),
			AuthSignature: sig,
			AuthHeight:    authHeight,
		})
		return err
	}

	later := ctx.WithBlockHeight(types.RevealAuthWindow + 10)

	// Fresh authorization works, one older than the window does not.
	require.NoError(t, reveal(later, later.BlockHeight()))
	err = reveal(later, 1)
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	// Future-dated authorizations are rejected outright.
	err = reveal(ctx, ctx.BlockHeight()+1)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}
