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

// QueryPriceRequest is the request for the Price query.
type QueryPriceRequest struct {
	Asset string `json:"asset"`
}

// QueryPriceResponse is the response for the Price query.
type QueryPriceResponse struct {
	Price Price `json:"price"`
}

// QueryPricesRequest is the request for the Prices query.
type QueryPricesRequest struct{}

// QueryPricesResponse is the response for the Prices query.
type QueryPricesResponse struct {
	Prices []Price `json:"prices"`
}

// QueryServer is the oracle module's query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Price(ctx context.Context, req *QueryPriceRequest) (*QueryPriceResponse, error)
	Prices(ctx context.Context, req *QueryPricesRequest) (*QueryPricesResponse, error)
}
