package enclave_test

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veil-protocol/veil/x/confidential/enclave"
	"github.com/veil-protocol/veil/x/confidential/types"
)

func TestNewRequiresSeed(t *testing.T) {
	_, err := enclave.New(nil)
	require.Error(t, err)

	e, err := enclave.New([]byte("seed"))
	require.NoError(t, err)
	require.Len(t, e.AttestationKey(), ed25519.PublicKeySize)
}

func TestDeterministicSealing(t *testing.T) {
	a := enclave.MustNew([]byte("seed"))
	b := enclave.MustNew([]byte("seed"))

	ctA, err := a.SealUint64(42, 7)
	require.NoError(t, err)
	ctB, err := b.SealUint64(42, 7)
	require.NoError(t, err)
	require.Equal(t, ctA, ctB)

	// Different nonce, different ciphertext for the same value.
	ctC, err := a.SealUint64(42, 8)
	require.NoError(t, err)
	require.NotEqual(t, ctA, ctC)
}

func TestImportRejectsGarbage(t *testing.T) {
	e := enclave.MustNew([]byte("seed"))

	_, err := e.Import([]byte("not a ciphertext"), 1)
	require.Error(t, err)

	// A ciphertext from a different enclave fails authentication.
	other := enclave.MustNew([]byte("other-seed"))
	foreign, err := other.SealUint64(5, 1)
	require.NoError(t, err)
	_, err = e.Import(foreign, 2)
	require.Error(t, err)

	// Own ciphertexts re-seal cleanly.
	own, err := e.SealUint64(5, 3)
	require.NoError(t, err)
	resealed, err := e.Import(own, 4)
	require.NoError(t, err)
	require.NotEqual(t, own, resealed)
}

func TestLe(t *testing.T) {
	e := enclave.MustNew([]byte("seed"))

	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"less", 5, 10, 1},
		{"equal", 10, 10, 1},
		{"greater", 11, 10, 0},
		{"zero bounds", 0, 0, 1},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nonce := uint64(100 + i*3)
			ctA, err := e.SealUint64(tc.a, nonce)
			require.NoError(t, err)
			ctB, err := e.SealUint64(tc.b, nonce+1)
			require.NoError(t, err)

			result, err := e.Le(ctA, ctB, nonce+2)
			require.NoError(t, err)

			pt, _, err := e.Reveal(result, []byte("ctx"))
			require.NoError(t, err)
			require.Equal(t, tc.want, binary.BigEndian.Uint64(pt))
		})
	}
}

func TestAnd(t *testing.T) {
	e := enclave.MustNew([]byte("seed"))

	seal := func(v, nonce uint64) []byte {
		ct, err := e.SealUint64(v, nonce)
		require.NoError(t, err)
		return ct
	}

	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"both true", 1, 1, 1},
		{"left false", 0, 1, 0},
		{"right false", 1, 0, 0},
		{"both false", 0, 0, 0},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nonce := uint64(200 + i*3)
			result, err := e.And(seal(tc.a, nonce), seal(tc.b, nonce+1), nonce+2)
			require.NoError(t, err)

			pt, _, err := e.Reveal(result, []byte("ctx"))
			require.NoError(t, err)
			require.Equal(t, tc.want, binary.BigEndian.Uint64(pt))
		})
	}
}

func TestRevealAttestation(t *testing.T) {
	e := enclave.MustNew([]byte("seed"))

	ct, err := e.SealUint64(77, 1)
	require.NoError(t, err)

	context := []byte("handle-and-grantee")
	pt, attestation, err := e.Reveal(ct, context)
	require.NoError(t, err)
	require.Equal(t, uint64(77), binary.BigEndian.Uint64(pt))

	digest := types.AttestationDigest(context, pt)
	require.True(t, ed25519.Verify(e.AttestationKey(), digest, attestation))

	// The attestation does not verify for a different context.
	otherDigest := types.AttestationDigest([]byte("other-context"), pt)
	require.False(t, ed25519.Verify(e.AttestationKey(), otherDigest, attestation))
}
