package types

import (
	"crypto/ed25519"
	"fmt"
)

// GenesisState defines the confidential module's genesis state.
type GenesisState struct {
	Params      Params       `json:"params"`
	EnclaveKey  *EnclaveKey  `json:"enclave_key,omitempty"`
	Ciphertexts []Ciphertext `json:"ciphertexts"`
	Allowances  []Allowance  `json:"allowances"`
	OpNonce     uint64       `json:"op_nonce"`
}

func (gs *GenesisState) Reset()         { *gs = GenesisState{} }
func (gs *GenesisState) String() string { return fmt.Sprintf("%+v", *gs) }
func (gs *GenesisState) ProtoMessage()  {}

// DefaultGenesis returns the default genesis state for the confidential module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Ciphertexts: []Ciphertext{},
		Allowances:  []Allowance{},
		OpNonce:     0,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.EnclaveKey != nil && len(gs.EnclaveKey.PubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("enclave key must be %d bytes", ed25519.PublicKeySize)
	}
	seen := make(map[Handle]struct{}, len(gs.Ciphertexts))
	for _, ct := range gs.Ciphertexts {
		if ct.Handle.IsZero() {
			return fmt.Errorf("ciphertext with zero handle")
		}
		if _, ok := seen[ct.Handle]; ok {
			return fmt.Errorf("duplicate ciphertext handle %s", ct.Handle)
		}
		seen[ct.Handle] = struct{}{}
		if len(ct.Blob) == 0 {
			return fmt.Errorf("empty ciphertext for handle %s", ct.Handle)
		}
		if uint64(len(ct.Blob)) > gs.Params.MaxCiphertextSize {
			return fmt.Errorf("ciphertext for handle %s exceeds max size", ct.Handle)
		}
	}
	for _, a := range gs.Allowances {
		if _, ok := seen[a.Handle]; !ok {
			return fmt.Errorf("allowance references unknown handle %s", a.Handle)
		}
		if a.Grantee == "" {
			return fmt.Errorf("allowance with empty grantee for handle %s", a.Handle)
		}
	}
	return nil
}
