package types

// Ciphertext is a sealed value stored on chain, addressed by its handle.
type Ciphertext struct {
	Handle        Handle `json:"handle"`
	Blob          []byte `json:"blob"`
	Owner         string `json:"owner"`
	CreatedHeight int64  `json:"created_height"`
}

// Allowance records that a grantee may request revelation of a handle.
type Allowance struct {
	Handle        Handle `json:"handle"`
	Grantee       string `json:"grantee"`
	GrantedHeight int64  `json:"granted_height"`
}

// EnclaveKey is the registered attestation identity of the enclave.
type EnclaveKey struct {
	PubKey           []byte `json:"pub_key"`
	RegisteredHeight int64  `json:"registered_height"`
}
