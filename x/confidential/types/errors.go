package types

import (
	"cosmossdk.io/errors"
)

// x/confidential module sentinel errors
var (
	ErrInvalidCiphertext  = errors.Register(ModuleName, 2, "invalid ciphertext")
	ErrCiphertextTooLarge = errors.Register(ModuleName, 3, "ciphertext exceeds maximum size")
	ErrHandleNotFound     = errors.Register(ModuleName, 4, "handle not found")
	ErrNoAllowance        = errors.Register(ModuleName, 5, "no decryption allowance for grantee")
	ErrInvalidAttestation = errors.Register(ModuleName, 6, "invalid enclave attestation")
	ErrNonceAlreadyUsed   = errors.Register(ModuleName, 7, "attestation nonce already used")
	ErrEnclaveFailure     = errors.Register(ModuleName, 8, "enclave operation failed")
	ErrUnauthorized       = errors.Register(ModuleName, 9, "unauthorized")
	ErrInvalidPubKey      = errors.Register(ModuleName, 10, "invalid enclave public key")
	ErrInvalidHandle      = errors.Register(ModuleName, 11, "invalid handle")
	ErrInvalidAddress     = errors.Register(ModuleName, 12, "invalid address")
)
