package keeper_test

import (
	"encoding/binary"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/veil-protocol/veil/testutil/keeper"
	"github.com/veil-protocol/veil/x/confidential/enclave"
	"github.com/veil-protocol/veil/x/confidential/keeper"
	"github.com/veil-protocol/veil/x/confidential/types"
)

type KeeperTestSuite struct {
	suite.Suite
	keeper  keeper.Keeper
	ctx     sdk.Context
	enclave *enclave.Enclave
	owner   sdk.AccAddress
}

func (suite *KeeperTestSuite) SetupTest() {
	suite.keeper, suite.ctx, suite.enclave = keepertest.ConfidentialKeeper(suite.T())
	suite.owner = sdk.AccAddress([]byte("owner_______________"))
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) sealClient(value, nonce uint64) []byte {
	blob, err := suite.enclave.SealUint64(value, nonce)
	suite.Require().NoError(err)
	return blob
}

func (suite *KeeperTestSuite) TestImportCiphertext() {
	blob := suite.sealClient(42, 1000)

	handle, err := suite.keeper.ImportCiphertext(suite.ctx, suite.owner, blob)
	suite.Require().NoError(err)
	suite.Require().False(handle.IsZero())

	ct, err := suite.keeper.GetCiphertext(suite.ctx, handle)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.owner.String(), ct.Owner)
	suite.Require().Equal(handle, ct.Handle)

	// Importing the same blob mints a distinct handle.
	handle2, err := suite.keeper.ImportCiphertext(suite.ctx, suite.owner, blob)
	suite.Require().NoError(err)
	suite.Require().NotEqual(handle, handle2)
}

func (suite *KeeperTestSuite) TestImportRejectsInvalidBlobs() {
	_, err := suite.keeper.ImportCiphertext(suite.ctx, suite.owner, nil)
	suite.Require().ErrorIs(err, types.ErrInvalidCiphertext)

	_, err = suite.keeper.ImportCiphertext(suite.ctx, suite.owner, []byte("garbage"))
	suite.Require().ErrorIs(err, types.ErrEnclaveFailure)

	oversized := make([]byte, types.DefaultMaxCiphertextSize+1)
	_, err = suite.keeper.ImportCiphertext(suite.ctx, suite.owner, oversized)
	suite.Require().ErrorIs(err, types.ErrCiphertextTooLarge)
}

func (suite *KeeperTestSuite) TestEvalRange() {
	tests := []struct {
		name          string
		min, max, val uint64
		want          uint64
	}{
		{"inside", 100, 200, 150, 1},
		{"at min", 100, 200, 100, 1},
		{"at max", 100, 200, 200, 1},
		{"below min", 100, 200, 99, 0},
		{"above max", 100, 200, 201, 0},
	}

	for i, tc := range tests {
		suite.Run(tc.name, func() {
			base := uint64(2000 + i*10)
			minH, err := suite.keeper.ImportCiphertext(suite.ctx, suite.owner, suite.sealClient(tc.min, base))
			suite.Require().NoError(err)
			maxH, err := suite.keeper.ImportCiphertext(suite.ctx, suite.owner, suite.sealClient(tc.max, base+1))
			suite.Require().NoError(err)
			valH, err := suite.keeper.SealValue(suite.ctx, suite.owner, tc.val)
			suite.Require().NoError(err)

			resultH, err := suite.keeper.EvalRange(suite.ctx, minH, maxH, valH)
			suite.Require().NoError(err)

			suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, resultH, suite.owner))
			pt, _, err := suite.keeper.Reveal(suite.ctx, resultH, suite.owner)
			suite.Require().NoError(err)
			suite.Require().Equal(tc.want, binary.BigEndian.Uint64(pt))
		})
	}
}

func (suite *KeeperTestSuite) TestEvalRangeUnknownHandle() {
	valH, err := suite.keeper.SealValue(suite.ctx, suite.owner, 5)
	suite.Require().NoError(err)

	unknown := types.Handle{Hi: 1, Lo: 2}
	_, err = suite.keeper.EvalRange(suite.ctx, unknown, valH, valH)
	suite.Require().ErrorIs(err, types.ErrHandleNotFound)
}

func (suite *KeeperTestSuite) TestGrantDecryptionIdempotent() {
	handle, err := suite.keeper.SealValue(suite.ctx, suite.owner, 9)
	suite.Require().NoError(err)

	grantee := sdk.AccAddress([]byte("grantee_____________"))
	suite.Require().False(suite.keeper.HasAllowance(suite.ctx, handle, grantee.String()))

	suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, handle, grantee))
	suite.Require().True(suite.keeper.HasAllowance(suite.ctx, handle, grantee.String()))

	// Second grant is a no-op.
	suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, handle, grantee))

	err = suite.keeper.GrantDecryption(suite.ctx, types.Handle{Hi: 7}, grantee)
	suite.Require().ErrorIs(err, types.ErrHandleNotFound)
}

func (suite *KeeperTestSuite) TestRevealRequiresAllowance() {
	handle, err := suite.keeper.SealValue(suite.ctx, suite.owner, 9)
	suite.Require().NoError(err)

	_, _, err = suite.keeper.Reveal(suite.ctx, handle, suite.owner)
	suite.Require().ErrorIs(err, types.ErrNoAllowance)
}

func (suite *KeeperTestSuite) TestVerifyRevealProof() {
	handle, err := suite.keeper.SealValue(suite.ctx, suite.owner, 1)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, handle, suite.owner))

	plaintext, attestation, err := suite.keeper.Reveal(suite.ctx, handle, suite.owner)
	suite.Require().NoError(err)

	err = suite.keeper.VerifyRevealProof(suite.ctx, handle, suite.owner.String(), plaintext, attestation)
	suite.Require().NoError(err)

	// Replaying the same attestation is rejected.
	err = suite.keeper.VerifyRevealProof(suite.ctx, handle, suite.owner.String(), plaintext, attestation)
	suite.Require().ErrorIs(err, types.ErrNonceAlreadyUsed)
}

func (suite *KeeperTestSuite) TestVerifyRevealProofRejectsTampering() {
	handle, err := suite.keeper.SealValue(suite.ctx, suite.owner, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, handle, suite.owner))

	plaintext, attestation, err := suite.keeper.Reveal(suite.ctx, handle, suite.owner)
	suite.Require().NoError(err)

	// Flipping the plaintext from 0 to 1 invalidates the attestation.
	forged := make([]byte, len(plaintext))
	copy(forged, plaintext)
	forged[len(forged)-1] = 1
	err = suite.keeper.VerifyRevealProof(suite.ctx, handle, suite.owner.String(), forged, attestation)
	suite.Require().ErrorIs(err, types.ErrInvalidAttestation)

	// A different grantee cannot use the proof.
	other := sdk.AccAddress([]byte("other_______________"))
	err = suite.keeper.VerifyRevealProof(suite.ctx, handle, other.String(), plaintext, attestation)
	suite.Require().ErrorIs(err, types.ErrNoAllowance)

	// Malformed signature length.
	err = suite.keeper.VerifyRevealProof(suite.ctx, handle, suite.owner.String(), plaintext, []byte("short"))
	suite.Require().ErrorIs(err, types.ErrInvalidAttestation)
}

func (suite *KeeperTestSuite) TestGenesisRoundTrip() {
	handle, err := suite.keeper.SealValue(suite.ctx, suite.owner, 123)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.keeper.GrantDecryption(suite.ctx, handle, suite.owner))

	exported := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(exported.Validate())
	suite.Require().Len(exported.Ciphertexts, 1)
	suite.Require().Len(exported.Allowances, 1)
	suite.Require().NotNil(exported.EnclaveKey)
	suite.Require().Equal(suite.keeper.GetOpNonce(suite.ctx), exported.OpNonce)

	fresh, freshCtx, _ := keepertest.ConfidentialKeeper(suite.T())
	fresh.InitGenesis(freshCtx, *exported)

	ct, err := fresh.GetCiphertext(freshCtx, handle)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.owner.String(), ct.Owner)
	suite.Require().True(fresh.HasAllowance(freshCtx, handle, suite.owner.String()))
	suite.Require().Equal(exported.OpNonce, fresh.GetOpNonce(freshCtx))
}

func TestRegisterEnclaveKeyAuthority(t *testing.T) {
	k, ctx, enc := keepertest.ConfidentialKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	_, err := srv.RegisterEnclaveKey(ctx, types.NewMsgRegisterEnclaveKey(
		sdk.AccAddress([]byte("not_the_authority___")).String(),
		enc.AttestationKey(),
	))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = srv.RegisterEnclaveKey(ctx, types.NewMsgRegisterEnclaveKey(
		keepertest.TestAuthority,
		enc.AttestationKey(),
	))
	require.NoError(t, err)

	record, err := k.GetEnclaveKey(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(enc.AttestationKey()), record.PubKey)
}
