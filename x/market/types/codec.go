package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary interfaces and concrete types
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateMarket{}, "market/MsgCreateMarket", nil)
	cdc.RegisterConcrete(&MsgSubmitBet{}, "market/MsgSubmitBet", nil)
	cdc.RegisterConcrete(&MsgSettleMarket{}, "market/MsgSettleMarket", nil)
	cdc.RegisterConcrete(&MsgEvaluateBet{}, "market/MsgEvaluateBet", nil)
	cdc.RegisterConcrete(&MsgClaimPrize{}, "market/MsgClaimPrize", nil)
}

// RegisterInterfaces registers the module's interfaces with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateMarket{},
		&MsgSubmitBet{},
		&MsgSettleMarket{},
		&MsgEvaluateBet{},
		&MsgClaimPrize{},
	)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
