package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryParamsRequest is the request for the Params query.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response for the Params query.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryMarketRequest is the request for the Market query.
type QueryMarketRequest struct {
	MarketAddress string `json:"market_address"`
}

// QueryMarketResponse is the response for the Market query.
type QueryMarketResponse struct {
	Market Market `json:"market"`
}

// QueryMarketsRequest is the request for the Markets query.
type QueryMarketsRequest struct{}

// QueryMarketsResponse is the response for the Markets query.
type QueryMarketsResponse struct {
	Markets []Market `json:"markets"`
}

// QueryBetRequest is the request for the Bet query.
type QueryBetRequest struct {
	MarketAddress string `json:"market_address"`
	Owner         string `json:"owner"`
}

// QueryBetResponse is the response for the Bet query.
type QueryBetResponse struct {
	Bet Bet `json:"bet"`
}

// QueryBetsRequest is the request for the Bets query.
type QueryBetsRequest struct {
	MarketAddress string `json:"market_address"`
}

// QueryBetsResponse is the response for the Bets query.
type QueryBetsResponse struct {
	Bets []Bet `json:"bets"`
}

// QueryVaultRequest is the request for the Vault query.
type QueryVaultRequest struct {
	MarketAddress string `json:"market_address"`
}

// QueryVaultResponse is the response for the Vault query.
type QueryVaultResponse struct {
	VaultAddress string   `json:"vault_address"`
	Balance      math.Int `json:"balance"`
	Denom        string   `json:"denom"`
}

// QueryServer is the market module's query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Market(ctx context.Context, req *QueryMarketRequest) (*QueryMarketResponse, error)
	Markets(ctx context.Context, req *QueryMarketsRequest) (*QueryMarketsResponse, error)
	Bet(ctx context.Context, req *QueryBetRequest) (*QueryBetResponse, error)
	Bets(ctx context.Context, req *QueryBetsRequest) (*QueryBetsResponse, error)
	Vault(ctx context.Context, req *QueryVaultRequest) (*QueryVaultResponse, error)
}
