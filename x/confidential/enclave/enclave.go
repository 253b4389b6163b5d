// Package enclave provides the reference confidential compute backend. It
// seals values with AES-GCM under a key derived from a seed and attests
// revelations with an ed25519 identity derived from the same seed. All
// operations are deterministic given the caller-supplied nonce so every
// validator replaying a block produces identical ciphertexts.
package enclave

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/veil-protocol/veil/x/confidential/types"
)

const (
	nonceSize = 12
	valueSize = 8
)

// Enclave is a deterministic AES-GCM sealing backend.
type Enclave struct {
	aead    cipher.AEAD
	salt    []byte
	signKey ed25519.PrivateKey
}

var _ types.Enclave = (*Enclave)(nil)

// New derives an enclave from a seed. The same seed always yields the same
// sealing key and attestation identity.
func New(seed []byte) (*Enclave, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("enclave seed must not be empty")
	}
	sealKey := sha256.Sum256(append([]byte("veil/enclave/seal/"), seed...))
	signSeed := sha256.Sum256(append([]byte("veil/enclave/attest/"), seed...))
	salt := sha256.Sum256(append([]byte("veil/enclave/salt/"), seed...))

	block, err := aes.NewCipher(sealKey[:])
	if err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initialize aead: %w", err)
	}
	return &Enclave{
		aead:    aead,
		salt:    salt[:],
		signKey: ed25519.NewKeyFromSeed(signSeed[:]),
	}, nil
}

// MustNew is New that panics on error, for tests and genesis wiring.
func MustNew(seed []byte) *Enclave {
	e, err := New(seed)
	if err != nil {
		panic(err)
	}
	return e
}

// AttestationKey returns the enclave's ed25519 attestation public key.
func (e *Enclave) AttestationKey() []byte {
	return e.signKey.Public().(ed25519.PublicKey)
}

func (e *Enclave) deriveNonce(nonce uint64) []byte {
	h := sha256.New()
	h.Write(e.salt)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h.Write(n[:])
	return h.Sum(nil)[:nonceSize]
}

func (e *Enclave) seal(plaintext []byte, nonce uint64) []byte {
	iv := e.deriveNonce(nonce)
	out := make([]byte, 0, nonceSize+len(plaintext)+e.aead.Overhead())
	out = append(out, iv...)
	return e.aead.Seal(out, iv, plaintext, nil)
}

func (e *Enclave) open(blob []byte) ([]byte, error) {
	if len(blob) < nonceSize+e.aead.Overhead() {
		return nil, types.ErrInvalidCiphertext
	}
	pt, err := e.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return nil, types.ErrInvalidCiphertext.Wrap("authentication failed")
	}
	return pt, nil
}

func (e *Enclave) openUint64(blob []byte) (uint64, error) {
	pt, err := e.open(blob)
	if err != nil {
		return 0, err
	}
	if len(pt) != valueSize {
		return 0, types.ErrInvalidCiphertext.Wrap("unexpected plaintext width")
	}
	return binary.BigEndian.Uint64(pt), nil
}

// SealUint64 encrypts a trusted plaintext value.
func (e *Enclave) SealUint64(value uint64, nonce uint64) ([]byte, error) {
	var pt [valueSize]byte
	binary.BigEndian.PutUint64(pt[:], value)
	return e.seal(pt[:], nonce), nil
}

// Import validates a caller-supplied sealed value and re-seals it.
func (e *Enclave) Import(ciphertext []byte, nonce uint64) ([]byte, error) {
	pt, err := e.open(ciphertext)
	if err != nil {
		return nil, err
	}
	if len(pt) != valueSize {
		return nil, types.ErrInvalidCiphertext.Wrap("unexpected plaintext width")
	}
	return e.seal(pt, nonce), nil
}

// Le evaluates a <= b over two sealed values, returning a sealed boolean.
func (e *Enclave) Le(a, b []byte, nonce uint64) ([]byte, error) {
	av, err := e.openUint64(a)
	if err != nil {
		return nil, err
	}
	bv, err := e.openUint64(b)
	if err != nil {
		return nil, err
	}
	var result uint64
	if av <= bv {
		result = 1
	}
	return e.SealUint64(result, nonce)
}

// And combines two sealed booleans.
func (e *Enclave) And(a, b []byte, nonce uint64) ([]byte, error) {
	av, err := e.openUint64(a)
	if err != nil {
		return nil, err
	}
	bv, err := e.openUint64(b)
	if err != nil {
		return nil, err
	}
	var result uint64
	if av != 0 && bv != 0 {
		result = 1
	}
	return e.SealUint64(result, nonce)
}

// Reveal opens a sealed value and attests the revelation. The returned
// plaintext is the big-endian encoding of the sealed value and the
// attestation is an ed25519 signature over the canonical reveal digest.
func (e *Enclave) Reveal(ciphertext []byte, context []byte) ([]byte, []byte, error) {
	pt, err := e.open(ciphertext)
	if err != nil {
		return nil, nil, err
	}
	digest := types.AttestationDigest(context, pt)
	return pt, ed25519.Sign(e.signKey, digest), nil
}
