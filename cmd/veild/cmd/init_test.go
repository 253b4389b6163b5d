package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	tmtypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/veil-protocol/veil/app"
)

func setFlag(tb testing.TB, flagSet *pflag.FlagSet, name, value string) {
	tb.Helper()
	require.NoError(tb, flagSet.Set(name, value))
}

// executeCommandWithContext executes a command with an initialized client
// context wired through the veil encoding config.
func executeCommandWithContext(t testing.TB, cmd *cobra.Command, clientCtx *client.Context) error {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(clientCtx.HomeDir, "config"), 0o755); err != nil {
		return err
	}

	encodingConfig := app.MakeEncodingConfig()
	*clientCtx = clientCtx.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig).
		WithLegacyAmino(encodingConfig.Amino).
		WithHomeDir(clientCtx.HomeDir)

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	_ = client.SetCmdClientContextHandler(*clientCtx, cmd)

	return cmd.Execute()
}

// runInit initializes a fresh home directory and returns the captured output.
func runInit(t *testing.T, homeDir, moniker, chainID string, extraFlags map[string]string) string {
	t.Helper()
	initSDKConfig()

	cmd := InitCmd(app.ModuleBasics, homeDir)
	require.NotNil(t, cmd)

	cmd.SetArgs([]string{moniker})
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
	if chainID != "" {
		setFlag(t, cmd.Flags(), flags.FlagChainID, chainID)
	}
	for name, value := range extraFlags {
		setFlag(t, cmd.Flags(), name, value)
	}

	outBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(outBuf)

	clientCtx := client.Context{}.
		WithCodec(app.MakeEncodingConfig().Codec).
		WithHomeDir(homeDir)

	ctx := server.NewDefaultContext()
	ctx.Config.SetRoot(homeDir)

	require.NoError(t, executeCommandWithContext(t, cmd, &clientCtx))
	return outBuf.String()
}

func readGenesis(t *testing.T, homeDir string) *tmtypes.GenesisDoc {
	t.Helper()
	genFile := filepath.Join(homeDir, "config", "genesis.json")
	require.FileExists(t, genFile)
	genDoc, err := tmtypes.GenesisDocFromFile(genFile)
	require.NoError(t, err)
	return genDoc
}

func TestInitCmd(t *testing.T) {
	tests := []struct {
		name    string
		moniker string
		chainID string
	}{
		{"mvp chain id", "veil-node", "veil-mvp-1"},
		{"testnet chain id", "veil-val-1", "veil-testnet-2"},
		{"auto-generated chain id", "veil-node-2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			homeDir := t.TempDir()
			runInit(t, homeDir, tt.moniker, tt.chainID, nil)

			genDoc := readGenesis(t, homeDir)
			if tt.chainID != "" {
				require.Equal(t, tt.chainID, genDoc.ChainID)
			} else {
				require.NotEmpty(t, genDoc.ChainID)
			}
			require.NotEmpty(t, genDoc.AppState)
		})
	}
}

func TestInitCmdGenesisExists(t *testing.T) {
	homeDir := t.TempDir()
	runInit(t, homeDir, "veil-node", "veil-mvp-1", nil)

	// Re-running without --overwrite fails on the existing genesis.
	initSDKConfig()
	cmd := InitCmd(app.ModuleBasics, homeDir)
	cmd.SetArgs([]string{"veil-node"})
	setFlag(t, cmd.Flags(), flags.FlagHome, homeDir)
	setFlag(t, cmd.Flags(), flags.FlagChainID, "veil-mvp-1")
	cmd.SetOut(new(bytes.Buffer))

	clientCtx := client.Context{}.
		WithCodec(app.MakeEncodingConfig().Codec).
		WithHomeDir(homeDir)
	err := executeCommandWithContext(t, cmd, &clientCtx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "genesis.json file already exists")

	// With --overwrite it succeeds and replaces the chain id.
	runInit(t, homeDir, "veil-node", "veil-mvp-2", map[string]string{flagOverwrite: "true"})
	require.Equal(t, "veil-mvp-2", readGenesis(t, homeDir).ChainID)
}

func TestInitCmdModuleGenesisState(t *testing.T) {
	homeDir := t.TempDir()
	runInit(t, homeDir, "veil-node", "veil-mvp-1", nil)

	var appState map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(readGenesis(t, homeDir).AppState, &appState))

	// The veil module set ships alongside the SDK modules.
	for _, module := range []string{
		"market", "oracle", "confidential",
		"auth", "bank", "staking", "mint", "gov", "distribution", "slashing",
	} {
		require.Contains(t, appState, module, "app_state missing %s genesis", module)
	}

	// Market genesis carries the uveil stake denom by default.
	var marketGenesis struct {
		Params struct {
			StakeDenom string `json:"stake_denom"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(appState["market"], &marketGenesis))
	require.Equal(t, "uveil", marketGenesis.Params.StakeDenom)
}

func TestInitCmdDefaultDenom(t *testing.T) {
	tests := []struct {
		name  string
		denom string
	}{
		{"default uveil", ""},
		{"explicit uveil", "uveil"},
		{"custom stake", "stake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			homeDir := t.TempDir()
			extra := map[string]string{}
			if tt.denom != "" {
				extra[flagDefaultDenom] = tt.denom
			}
			runInit(t, homeDir, "veil-node", "veil-testnet", extra)
			readGenesis(t, homeDir)
		})
	}
}

func TestInitCmdConsensusParams(t *testing.T) {
	homeDir := t.TempDir()
	runInit(t, homeDir, "veil-node", "veil-mvp-1", nil)

	genDoc := readGenesis(t, homeDir)
	require.NotNil(t, genDoc.ConsensusParams)

	// 2 MB blocks, 100M gas, ~23 day evidence window at 4s blocks.
	require.Equal(t, int64(2_097_152), genDoc.ConsensusParams.Block.MaxBytes)
	require.Equal(t, int64(100_000_000), genDoc.ConsensusParams.Block.MaxGas)
	require.Equal(t, int64(500_000), genDoc.ConsensusParams.Evidence.MaxAgeNumBlocks)
	require.Equal(t, 21*24*time.Hour, genDoc.ConsensusParams.Evidence.MaxAgeDuration)
	require.Equal(t, int64(1_048_576), genDoc.ConsensusParams.Evidence.MaxBytes)
}

func TestInitCmdNodeFiles(t *testing.T) {
	homeDir := t.TempDir()
	runInit(t, homeDir, "veil-node", "veil-mvp-1", nil)

	require.FileExists(t, filepath.Join(homeDir, "config", "node_key.json"))
	require.FileExists(t, filepath.Join(homeDir, "config", "priv_validator_key.json"))
	require.DirExists(t, filepath.Join(homeDir, "data"))

	var nodeKey map[string]interface{}
	raw, err := os.ReadFile(filepath.Join(homeDir, "config", "node_key.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &nodeKey))
	require.Contains(t, nodeKey, "priv_key")
}

func TestInitCmdGenesisTimeSet(t *testing.T) {
	homeDir := t.TempDir()
	before := time.Now().UTC().Add(-time.Minute)
	runInit(t, homeDir, "veil-node", "veil-mvp-1", nil)
	after := time.Now().UTC().Add(time.Minute)

	genDoc := readGenesis(t, homeDir)
	require.True(t, genDoc.GenesisTime.After(before))
	require.True(t, genDoc.GenesisTime.Before(after))
}

func TestInitCmdOutput(t *testing.T) {
	homeDir := t.TempDir()
	output := runInit(t, homeDir, "veil-validator", "veil-testnet", nil)

	require.Contains(t, output, "Successfully initialized chain configuration")
	require.Contains(t, output, "Chain ID: veil-testnet")
	require.Contains(t, output, "Moniker: veil-validator")
	require.Contains(t, output, "Node ID:")
	require.Contains(t, output, "Genesis file:")
}

func TestInitCmdCommandStructure(t *testing.T) {
	cmd := InitCmd(app.ModuleBasics, t.TempDir())

	require.Equal(t, "init [moniker]", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.Contains(t, cmd.Long, "veild init")
	require.NotNil(t, cmd.Flags().Lookup(flagOverwrite))
	require.NotNil(t, cmd.Flags().Lookup(flagRecover))
	require.NotNil(t, cmd.Flags().Lookup(flagDefaultDenom))
	require.Equal(t, app.BondDenom, cmd.Flags().Lookup(flagDefaultDenom).DefValue)
}

func TestFileExists(t *testing.T) {
	homeDir := t.TempDir()
	path := filepath.Join(homeDir, "marker.json")

	require.False(t, fileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	require.True(t, fileExists(path))
	require.False(t, fileExists(filepath.Join(homeDir, "missing")))
}

func BenchmarkInitCmd(b *testing.B) {
	initSDKConfig()
	for i := 0; i < b.N; i++ {
		homeDir := b.TempDir()
		cmd := InitCmd(app.ModuleBasics, homeDir)
		cmd.SetArgs([]string{"bench-node"})
		_ = cmd.Flags().Set(flags.FlagHome, homeDir)
		_ = cmd.Flags().Set(flags.FlagChainID, "veil-bench-1")
		cmd.SetOut(new(bytes.Buffer))

		clientCtx := client.Context{}.
			WithCodec(app.MakeEncodingConfig().Codec).
			WithHomeDir(homeDir)
		if err := executeCommandWithContext(b, cmd, &clientCtx); err != nil {
			b.Fatal(err)
		}
	}
}
