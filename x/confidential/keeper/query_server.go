package keeper

import (
	"context"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/veil-protocol/veil/x/confidential/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the confidential
// QueryServer interface for the provided Keeper.
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (q queryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

func (q queryServer) Ciphertext(ctx context.Context, req *types.QueryCiphertextRequest) (*types.QueryCiphertextResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	handle, err := types.ParseHandle(req.Handle)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ct, err := q.GetCiphertext(ctx, handle)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryCiphertextResponse{Ciphertext: ct}, nil
}

func (q queryServer) Allowance(ctx context.Context, req *types.QueryAllowanceRequest) (*types.QueryAllowanceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	handle, err := types.ParseHandle(req.Handle)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &types.QueryAllowanceResponse{Granted: q.HasAllowance(ctx, handle, req.Grantee)}, nil
}

func (q queryServer) EnclaveKey(ctx context.Context, req *types.QueryEnclaveKeyRequest) (*types.QueryEnclaveKeyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	record, err := q.GetEnclaveKey(ctx)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryEnclaveKeyResponse{EnclaveKey: record}, nil
}

func (q queryServer) Reveal(ctx context.Context, req *types.QueryRevealRequest) (*types.QueryRevealResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	handle, err := types.ParseHandle(req.Handle)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	grantee, err := sdk.AccAddressFromBech32(req.Grantee)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()
	if req.AuthHeight <= 0 || req.AuthHeight > height || height-req.AuthHeight > types.RevealAuthWindow {
		return nil, status.Error(codes.PermissionDenied, "reveal authorization height out of window")
	}
	if len(req.GranteePubKey) != secp256k1.PubKeySize {
		return nil, status.Error(codes.PermissionDenied, "malformed grantee public key")
	}
	pubKey := &secp256k1.PubKey{Key: req.GranteePubKey}
	if !grantee.Equals(sdk.AccAddress(pubKey.Address())) {
		return nil, status.Error(codes.PermissionDenied, "public key does not match grantee")
	}
	challenge := types.RevealAuthDigest(handle, sdkCtx.ChainID(), req.AuthHeight)
	if !pubKey.VerifySignature(challenge, req.AuthSignature) {
		return nil, status.Error(codes.PermissionDenied, "invalid reveal authorization")
	}

	plaintext, attestation, err := q.Keeper.Reveal(ctx, handle, grantee)
	if err != nil {
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}
	return &types.QueryRevealResponse{Plaintext: plaintext, Attestation: attestation}, nil
}
