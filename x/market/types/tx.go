package types

import (
	"context"
)

// Message type constants
const (
	TypeMsgCreateMarket = "create_market"
	TypeMsgSubmitBet    = "submit_bet"
	TypeMsgSettleMarket = "settle_market"
	TypeMsgEvaluateBet  = "evaluate_bet"
	TypeMsgClaimPrize   = "claim_prize"
)

// MsgServer is the market module's transaction service.
type MsgServer interface {
	CreateMarket(ctx context.Context, msg *MsgCreateMarket) (*MsgCreateMarketResponse, error)
	SubmitBet(ctx context.Context, msg *MsgSubmitBet) (*MsgSubmitBetResponse, error)
	SettleMarket(ctx context.Context, msg *MsgSettleMarket) (*MsgSettleMarketResponse, error)
	EvaluateBet(ctx context.Context, msg *MsgEvaluateBet) (*MsgEvaluateBetResponse, error)
	ClaimPrize(ctx context.Context, msg *MsgClaimPrize) (*MsgClaimPrizeResponse, error)
}
