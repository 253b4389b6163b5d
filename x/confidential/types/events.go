package types

// Event types and attribute keys emitted by the confidential module
const (
	EventTypeCiphertextImported = "ciphertext_imported"
	EventTypeValueSealed        = "value_sealed"
	EventTypeRangeEvaluated     = "range_evaluated"
	EventTypeDecryptionGranted  = "decryption_granted"
	EventTypeEnclaveKeySet      = "enclave_key_set"

	AttributeKeyHandle       = "handle"
	AttributeKeyOwner        = "owner"
	AttributeKeyGrantee      = "grantee"
	AttributeKeyResultHandle = "result_handle"
	AttributeKeyPubKey       = "pub_key"
)
