package types

import (
	"fmt"
)

const (
	// DefaultMaxCiphertextSize bounds the sealed blobs the module will store.
	DefaultMaxCiphertextSize uint64 = 1024
)

// Params defines the parameters for the confidential module.
type Params struct {
	MaxCiphertextSize uint64 `json:"max_ciphertext_size"`
}

// DefaultParams returns the default confidential module parameters.
func DefaultParams() Params {
	return Params{
		MaxCiphertextSize: DefaultMaxCiphertextSize,
	}
}

// Validate performs basic validation of the parameters.
func (p Params) Validate() error {
	if p.MaxCiphertextSize == 0 {
		return fmt.Errorf("max ciphertext size must be positive")
	}
	return nil
}
