package app

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	crisistypes "github.com/cosmos/cosmos-sdk/x/crisis/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	slashingtypes "github.com/cosmos/cosmos-sdk/x/slashing/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// GenesisState represents the genesis state of the blockchain.
// It is a map from module name to module genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default state for the application.
func NewDefaultGenesisState(cdc codec.JSONCodec) GenesisState {
	return ModuleBasics.DefaultGenesis(cdc)
}

// NewGenesisStateFromConfig creates genesis state with network parameters
// applied on top of the module defaults.
func NewGenesisStateFromConfig(cdc codec.JSONCodec, config GenesisConfig) GenesisState {
	genesis := NewDefaultGenesisState(cdc)

	// Staking params
	stakingGenesis := stakingtypes.DefaultGenesisState()
	stakingGenesis.Params = stakingtypes.Params{
		UnbondingTime:     time.Duration(config.UnbondingPeriodSeconds) * time.Second,
		MaxValidators:     config.MaxValidators,
		MaxEntries:        7,
		HistoricalEntries: 10000,
		BondDenom:         BondDenom,
		MinCommissionRate: math.LegacyMustNewDecFromStr("0.05"),
	}
	genesis[stakingtypes.ModuleName] = mustMarshalJSON(stakingGenesis)

	// Slashing params
	slashingGenesis := slashingtypes.DefaultGenesisState()
	slashingGenesis.Params = slashingtypes.Params{
		SignedBlocksWindow:      int64(config.DowntimeWindowBlocks),
		MinSignedPerWindow:      math.LegacyMustNewDecFromStr("0.50"),
		DowntimeJailDuration:    time.Duration(config.DowntimeJailDurationSeconds) * time.Second,
		SlashFractionDoubleSign: math.LegacyMustNewDecFromStr(config.DoubleSignPenalty),
		SlashFractionDowntime:   math.LegacyMustNewDecFromStr(config.DowntimePenalty),
	}
	genesis[slashingtypes.ModuleName] = mustMarshalJSON(slashingGenesis)

	// Governance params
	govGenesis := govtypes.DefaultGenesisState()
	govGenesis.Params = &govtypes.Params{
		MinDeposit:                 sdk.NewCoins(sdk.NewInt64Coin(BondDenom, config.MinDepositAmount)),
		MaxDepositPeriod:           durationPtr(time.Duration(604800) * time.Second),
		VotingPeriod:               durationPtr(time.Duration(config.VotingPeriodSeconds) * time.Second),
		Quorum:                     config.Quorum,
		Threshold:                  config.Threshold,
		VetoThreshold:              config.VetoThreshold,
		MinInitialDepositRatio:     "0.100000000000000000",
		BurnVoteQuorum:             false,
		BurnProposalDepositPrevote: false,
		BurnVoteVeto:               false,
	}
	genesis["gov"] = mustMarshalJSON(govGenesis)

	// Distribution params
	distrGenesis := distrtypes.DefaultGenesisState()
	distrGenesis.Params = distrtypes.Params{
		CommunityTax:        math.LegacyMustNewDecFromStr("0.20"),
		BaseProposerReward:  math.LegacyZeroDec(),
		BonusProposerReward: math.LegacyZeroDec(),
		WithdrawAddrEnabled: true,
	}
	genesis[distrtypes.ModuleName] = mustMarshalJSON(distrGenesis)

	// Mint params. Veil uses a fixed supply, so emission is disabled.
	mintGenesis := minttypes.DefaultGenesisState()
	mintGenesis.Params = minttypes.Params{
		MintDenom:           BondDenom,
		InflationRateChange: math.LegacyMustNewDecFromStr("0.00"),
		InflationMax:        math.LegacyMustNewDecFromStr("0.00"),
		InflationMin:        math.LegacyMustNewDecFromStr("0.00"),
		GoalBonded:          math.LegacyMustNewDecFromStr("0.67"),
		BlocksPerYear:       uint64(7884000), // ~4 second blocks
	}
	mintGenesis.Minter = minttypes.Minter{
		Inflation:        math.LegacyZeroDec(),
		AnnualProvisions: math.LegacyZeroDec(),
	}
	genesis[minttypes.ModuleName] = mustMarshalJSON(mintGenesis)

	// Crisis constant fee
	crisisGenesis := crisistypes.DefaultGenesisState()
	crisisGenesis.ConstantFee = sdk.NewInt64Coin(BondDenom, 1000000000) // 1,000 VEIL
	genesis[crisistypes.ModuleName] = mustMarshalJSON(crisisGenesis)

	// Bank supply
	bankGenesis := banktypes.DefaultGenesisState()
	bankGenesis.Params = banktypes.Params{
		SendEnabled:        []*banktypes.SendEnabled{},
		DefaultSendEnabled: true,
	}
	bankGenesis.Supply = sdk.NewCoins(sdk.NewInt64Coin(BondDenom, config.TotalSupply))
	genesis[banktypes.ModuleName] = mustMarshalJSON(bankGenesis)

	return genesis
}

// GenesisConfig holds configuration parameters for genesis state
type GenesisConfig struct {
	ChainID                     string
	TotalSupply                 int64
	MaxValidators               uint32
	UnbondingPeriodSeconds      int64
	DoubleSignPenalty           string
	DowntimePenalty             string
	DowntimeWindowBlocks        uint64
	DowntimeJailDurationSeconds int64
	MinDepositAmount            int64
	VotingPeriodSeconds         int64
	Quorum                      string
	Threshold                   string
	VetoThreshold               string
}

// DefaultGenesisConfig returns the default network parameters.
func DefaultGenesisConfig() GenesisConfig {
	return GenesisConfig{
		ChainID:                     "veil-testnet",
		TotalSupply:                 50000000000000, // 50M VEIL
		MaxValidators:               125,
		UnbondingPeriodSeconds:      1814400, // 21 days
		DoubleSignPenalty:           "0.05",  // 5%
		DowntimePenalty:             "0.001", // 0.1%
		DowntimeWindowBlocks:        10000,
		DowntimeJailDurationSeconds: 86400,                  // 24 hours
		MinDepositAmount:            10000000000,            // 10,000 VEIL
		VotingPeriodSeconds:         1209600,                // 14 days
		Quorum:                      "0.400000000000000000", // 40%
		Threshold:                   "0.667000000000000000", // 66.7%
		VetoThreshold:               "0.333000000000000000", // 33.3%
	}
}

// Helper functions
func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
