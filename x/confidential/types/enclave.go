package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// Enclave is the confidential compute collaborator. Implementations carry the
// cipher work; code above this interface never observes sealed plaintexts.
// Every operation takes a caller-supplied nonce so that independent validators
// replaying the same block produce byte-identical ciphertexts.
type Enclave interface {
	// SealUint64 encrypts a trusted plaintext value held by the chain itself,
	// such as a settlement price read from the oracle.
	SealUint64(value uint64, nonce uint64) ([]byte, error)

	// Import validates a caller-supplied ciphertext and re-seals it under the
	// enclave's working key. It fails if the blob is not a well-formed sealed
	// value produced for this enclave.
	Import(ciphertext []byte, nonce uint64) ([]byte, error)

	// Le evaluates a <= b over two sealed values and returns a sealed boolean.
	Le(a, b []byte, nonce uint64) ([]byte, error)

	// And combines two sealed booleans into a sealed boolean.
	And(a, b []byte, nonce uint64) ([]byte, error)

	// Reveal opens a sealed value and returns the plaintext together with an
	// ed25519 attestation over AttestationDigest(context, plaintext).
	Reveal(ciphertext []byte, context []byte) (plaintext []byte, attestation []byte, err error)

	// AttestationKey returns the enclave's ed25519 attestation public key.
	AttestationKey() []byte
}

// AttestationDigest computes the canonical digest an enclave signs when
// revealing a sealed value. The context binds the revelation to a specific
// handle and grantee so a proof cannot be replayed elsewhere.
func AttestationDigest(context []byte, plaintext []byte) []byte {
	h := sha256.New()
	h.Write([]byte("veil/confidential/reveal/v1"))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(context)))
	h.Write(n[:])
	h.Write(context)
	h.Write(plaintext)
	return h.Sum(nil)
}

// RevealAuthWindow is how many blocks a signed reveal authorization stays
// valid.
const RevealAuthWindow int64 = 100

// RevealAuthDigest computes the challenge a grantee signs to authorize
// revealing a handle to them. The chain id and a recent block height are
// bound into the digest so a captured authorization cannot be replayed on
// another chain or after RevealAuthWindow blocks.
func RevealAuthDigest(handle Handle, chainID string, height int64) []byte {
	h := sha256.New()
	h.Write([]byte("veil/confidential/reveal-auth/v1"))
	hb := handle.Bytes()
	h.Write(hb[:])
	h.Write([]byte(chainID))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(height))
	h.Write(n[:])
	return h.Sum(nil)
}

// RevealContext builds the attestation context for a handle revealed to a
// grantee address.
func RevealContext(handle Handle, grantee string) []byte {
	hb := handle.Bytes()
	ctx := make([]byte, 0, HandleSize+len(grantee))
	ctx = append(ctx, hb[:]...)
	ctx = append(ctx, []byte(grantee)...)
	return ctx
}
