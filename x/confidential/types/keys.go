package types

const (
	// ModuleName defines the module name
	ModuleName = "confidential"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KVStore key prefixes
var (
	ParamsKey           = []byte{0x01}
	CiphertextKeyPrefix = []byte{0x02}
	AllowanceKeyPrefix  = []byte{0x03}
	UsedNonceKeyPrefix  = []byte{0x04}
	EnclaveKeyKey       = []byte{0x05}
	OpNonceKey          = []byte{0x06}
)

// CiphertextKey returns the store key for a sealed value addressed by handle.
func CiphertextKey(handle Handle) []byte {
	h := handle.Bytes()
	return append(CiphertextKeyPrefix, h[:]...)
}

// AllowanceKey returns the store key for a decryption allowance.
func AllowanceKey(handle Handle, grantee string) []byte {
	h := handle.Bytes()
	key := append(AllowanceKeyPrefix, h[:]...)
	return append(key, []byte(grantee)...)
}

// UsedNonceKey returns the store key marking an attestation nonce as consumed.
func UsedNonceKey(nonce []byte) []byte {
	return append(UsedNonceKeyPrefix, nonce...)
}
