package types

import (
	"context"
)

// QueryParamsRequest is the request for the Params query.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response for the Params query.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryCiphertextRequest is the request for the Ciphertext query.
type QueryCiphertextRequest struct {
	Handle string `json:"handle"`
}

// QueryCiphertextResponse is the response for the Ciphertext query.
type QueryCiphertextResponse struct {
	Ciphertext Ciphertext `json:"ciphertext"`
}

// QueryAllowanceRequest is the request for the Allowance query.
type QueryAllowanceRequest struct {
	Handle  string `json:"handle"`
	Grantee string `json:"grantee"`
}

// QueryAllowanceResponse is the response for the Allowance query.
type QueryAllowanceResponse struct {
	Granted bool `json:"granted"`
}

// QueryEnclaveKeyRequest is the request for the EnclaveKey query.
type QueryEnclaveKeyRequest struct{}

// QueryEnclaveKeyResponse is the response for the EnclaveKey query.
type QueryEnclaveKeyResponse struct {
	EnclaveKey EnclaveKey `json:"enclave_key"`
}

// QueryRevealRequest is the request for the Reveal query. The grantee must
// hold a decryption allowance for the handle and must authorize the reveal
// by signing RevealAuthDigest(handle, chain-id, auth_height) with their
// account key. AuthHeight must be a recent block height; authorizations
// older than RevealAuthWindow blocks are rejected.
type QueryRevealRequest struct {
	Handle        string `json:"handle"`
	Grantee       string `json:"grantee"`
	GranteePubKey []byte `json:"grantee_pub_key"`
	AuthSignature []byte `json:"auth_signature"`
	AuthHeight    int64  `json:"auth_height"`
}

// QueryRevealResponse carries the revealed plaintext and the enclave's
// attestation over it.
type QueryRevealResponse struct {
	Plaintext   []byte `json:"plaintext"`
	Attestation []byte `json:"attestation"`
}

// QueryServer is the confidential module's query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Ciphertext(ctx context.Context, req *QueryCiphertextRequest) (*QueryCiphertextResponse, error)
	Allowance(ctx context.Context, req *QueryAllowanceRequest) (*QueryAllowanceResponse, error)
	EnclaveKey(ctx context.Context, req *QueryEnclaveKeyRequest) (*QueryEnclaveKeyResponse, error)
	Reveal(ctx context.Context, req *QueryRevealRequest) (*QueryRevealResponse, error)
}
