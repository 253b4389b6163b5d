package types

// Event types and attribute keys emitted by the oracle module
const (
	EventTypePriceUpdate = "oracle_price_update"

	AttributeKeyAsset       = "asset"
	AttributeKeyPrice       = "price"
	AttributeKeyConf        = "conf"
	AttributeKeyPublisher   = "publisher"
	AttributeKeyBlockHeight = "block_height"
)
