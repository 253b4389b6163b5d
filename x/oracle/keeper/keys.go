package keeper

var (
	// ModuleNamespace is the namespace byte for the oracle module (0x03)
	ModuleNamespace = byte(0x03)

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x03, 0x01}

	// PriceKeyPrefix is the prefix for price storage
	PriceKeyPrefix = []byte{0x03, 0x02}
)

// GetPriceKey returns the store key for a price by asset
func GetPriceKey(asset string) []byte {
	return append(PriceKeyPrefix, []byte(asset)...)
}
