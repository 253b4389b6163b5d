package types

// Event types and attribute keys emitted by the market module
const (
	EventTypeMarketCreated = "market_created"
	EventTypeBetSubmitted  = "bet_submitted"
	EventTypeMarketSettled = "market_settled"
	EventTypeBetEvaluated  = "bet_evaluated"
	EventTypePrizeClaimed  = "prize_claimed"

	AttributeKeyMarket       = "market"
	AttributeKeyAuthority    = "authority"
	AttributeKeyAssetSymbol  = "asset_symbol"
	AttributeKeyEndTime      = "end_time"
	AttributeKeyBet          = "bet"
	AttributeKeyOwner        = "owner"
	AttributeKeyAmount       = "amount"
	AttributeKeyPrice        = "price"
	AttributeKeyPriceHandle  = "price_handle"
	AttributeKeyResultHandle = "result_handle"
	AttributeKeyPayout       = "payout"
)
