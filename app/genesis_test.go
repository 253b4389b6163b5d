package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	confidentialtypes "github.com/veil-protocol/veil/x/confidential/types"
	markettypes "github.com/veil-protocol/veil/x/market/types"
	oracletypes "github.com/veil-protocol/veil/x/oracle/types"
)

func TestNewDefaultGenesisStateIncludesVeilModules(t *testing.T) {
	encCfg := MakeEncodingConfig()
	genesis := NewDefaultGenesisState(encCfg.Codec)

	for _, mod := range []string{
		markettypes.ModuleName,
		oracletypes.ModuleName,
		confidentialtypes.ModuleName,
	} {
		raw, ok := genesis[mod]
		require.True(t, ok, "genesis missing module %s", mod)
		require.True(t, json.Valid(raw), "genesis for %s is not valid JSON", mod)
	}
}

func TestNewGenesisStateFromConfig(t *testing.T) {
	encCfg := MakeEncodingConfig()
	cfg := DefaultGenesisConfig()
	genesis := NewGenesisStateFromConfig(encCfg.Codec, cfg)

	var stakingGenesis stakingtypes.GenesisState
	require.NoError(t, json.Unmarshal(genesis[stakingtypes.ModuleName], &stakingGenesis))
	require.Equal(t, BondDenom, stakingGenesis.Params.BondDenom)
	require.Equal(t, cfg.MaxValidators, stakingGenesis.Params.MaxValidators)

	var bankGenesis banktypes.GenesisState
	require.NoError(t, json.Unmarshal(genesis[banktypes.ModuleName], &bankGenesis))
	require.Equal(t, cfg.TotalSupply, bankGenesis.Supply.AmountOf(BondDenom).Int64())
}

func TestBlockedModuleAccountAddrs(t *testing.T) {
	blocked := BlockedModuleAccountAddrs()
	require.NotEmpty(t, blocked)
	require.Len(t, blocked, len(GetMaccPerms()))

	// Market vaults are derived addresses, not module accounts. They must be
	// able to receive and pay out escrowed stakes, so the market module must
	// not appear in the module account permission set at all.
	_, ok := GetMaccPerms()[markettypes.ModuleName]
	require.False(t, ok)
}
