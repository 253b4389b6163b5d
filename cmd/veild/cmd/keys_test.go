package cmd

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
	"github.com/stretchr/testify/require"

	"github.com/veil-protocol/veil/app"
)

func newTestKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	initSDKConfig()

	encodingConfig := app.MakeEncodingConfig()
	kr, err := keyring.New("veil", keyring.BackendMemory, t.TempDir(), nil, encodingConfig.Codec)
	require.NoError(t, err)
	return kr
}

func newTestMnemonic(t *testing.T, entropyBytes int) string {
	t.Helper()
	entropy := make([]byte, entropyBytes)
	_, err := rand.Read(entropy)
	require.NoError(t, err)

	mnemonic, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)
	require.True(t, bip39.IsMnemonicValid(mnemonic))
	return mnemonic
}

func TestKeysCommandStructure(t *testing.T) {
	initSDKConfig()

	cmd := KeysCmd()
	require.NotNil(t, cmd)
	require.Equal(t, "keys", cmd.Use)
	require.Contains(t, cmd.Short, "BIP39")
	// Standalone form carries its own --home flag.
	require.NotNil(t, cmd.PersistentFlags().Lookup(flags.FlagHome))

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"add", "recover", "list", "show", "delete", "export", "import"} {
		require.True(t, subcommands[name], "keys %s should be registered", name)
	}
}

func TestKeysCommandUnderRoot(t *testing.T) {
	// Wired under the root command the home flag is inherited, not redefined.
	cmd := newKeysCmd(false)
	require.Nil(t, cmd.PersistentFlags().Lookup(flags.FlagHome))
	require.NotNil(t, cmd.PersistentFlags().Lookup(flags.FlagKeyringBackend))
}

func TestAddKeyCommandFlags(t *testing.T) {
	initSDKConfig()

	cmd := AddKeyCommand()
	require.Equal(t, "add [name]", cmd.Use)
	require.Equal(t, "24", cmd.Flags().Lookup(flagMnemonicLength).DefValue)
	require.Equal(t, "secp256k1", cmd.Flags().Lookup(flagKeyType).DefValue)
	require.NotNil(t, cmd.Flags().Lookup(flagNoBackup))
	require.NotNil(t, cmd.Flags().Lookup("recover"))
	require.NotNil(t, cmd.Flags().Lookup(flagCoinType))
	require.NotNil(t, cmd.Flags().Lookup(flagAccount))
	require.NotNil(t, cmd.Flags().Lookup(flagIndex))
}

func TestKeyAddressBech32Prefix(t *testing.T) {
	kr := newTestKeyring(t)
	mnemonic := newTestMnemonic(t, 32)

	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), 0, 0)
	key, err := kr.NewAccount("alice", mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
	require.NoError(t, err)

	addr, err := key.GetAddress()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr.String(), "veil1"), "account address should carry the veil prefix, got %s", addr)

	valAddr := sdk.ValAddress(addr)
	require.True(t, strings.HasPrefix(valAddr.String(), "veilvaloper1"), "validator address should carry the veilvaloper prefix, got %s", valAddr)
}

func TestKeyDerivationDeterministic(t *testing.T) {
	mnemonic := newTestMnemonic(t, 32)
	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), 0, 0)

	krA := newTestKeyring(t)
	keyA, err := krA.NewAccount("a", mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
	require.NoError(t, err)
	addrA, err := keyA.GetAddress()
	require.NoError(t, err)

	// Recovering the same mnemonic in a fresh keyring yields the same address.
	krB := newTestKeyring(t)
	keyB, err := krB.NewAccount("b", mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
	require.NoError(t, err)
	addrB, err := keyB.GetAddress()
	require.NoError(t, err)

	require.Equal(t, addrA.String(), addrB.String())
}

func TestKeyDerivationHDPathDifferentiation(t *testing.T) {
	kr := newTestKeyring(t)
	mnemonic := newTestMnemonic(t, 32)
	coinType := sdk.GetConfig().GetCoinType()

	addresses := make(map[string]bool)
	for i := uint32(0); i < 3; i++ {
		hdPath := hd.CreateHDPath(coinType, 0, i)
		key, err := kr.NewAccount("key-"+strings.Repeat("i", int(i)+1), mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
		require.NoError(t, err)

		addr, err := key.GetAddress()
		require.NoError(t, err)
		require.False(t, addresses[addr.String()], "index %d must derive a distinct address", i)
		addresses[addr.String()] = true
	}
}

func TestMnemonicLengthValidation(t *testing.T) {
	// 12 words from 128-bit entropy, 24 words from 256-bit.
	m12 := newTestMnemonic(t, 16)
	require.Len(t, strings.Fields(m12), 12)

	m24 := newTestMnemonic(t, 32)
	require.Len(t, strings.Fields(m24), 24)

	// A corrupted last word breaks the checksum.
	words := strings.Fields(m24)
	words[len(words)-1] = "abandon"
	if corrupted := strings.Join(words, " "); corrupted != m24 {
		require.False(t, bip39.IsMnemonicValid(corrupted))
	}

	require.False(t, bip39.IsMnemonicValid("not a mnemonic at all"))
}

func TestKeyringListAndDelete(t *testing.T) {
	kr := newTestKeyring(t)

	keys, err := kr.List()
	require.NoError(t, err)
	require.Empty(t, keys)

	mnemonic := newTestMnemonic(t, 32)
	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), 0, 0)
	_, err = kr.NewAccount("operator", mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
	require.NoError(t, err)

	keys, err = kr.List()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "operator", keys[0].Name)

	require.NoError(t, kr.Delete("operator"))
	_, err = kr.Key("operator")
	require.Error(t, err)
}

func TestKeyExportImportRoundTrip(t *testing.T) {
	krSrc := newTestKeyring(t)
	mnemonic := newTestMnemonic(t, 32)
	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), 0, 0)

	key, err := krSrc.NewAccount("hot", mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
	require.NoError(t, err)
	srcAddr, err := key.GetAddress()
	require.NoError(t, err)

	armor, err := krSrc.ExportPrivKeyArmor("hot", "passphrase123")
	require.NoError(t, err)
	require.Contains(t, armor, "BEGIN TENDERMINT PRIVATE KEY")

	krDst := newTestKeyring(t)
	require.NoError(t, krDst.ImportPrivKey("cold", armor, "passphrase123"))

	imported, err := krDst.Key("cold")
	require.NoError(t, err)
	dstAddr, err := imported.GetAddress()
	require.NoError(t, err)
	require.Equal(t, srcAddr.String(), dstAddr.String())
}

func TestRecoverKeyCommandFlags(t *testing.T) {
	initSDKConfig()

	cmd := RecoverKeyCommand()
	require.Equal(t, "recover [name]", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup(flagCoinType))
	require.NotNil(t, cmd.Flags().Lookup(flagAccount))
	require.NotNil(t, cmd.Flags().Lookup(flagIndex))
}

func TestDeleteKeyCommandFlags(t *testing.T) {
	cmd := DeleteKeyCommand()
	require.Equal(t, "delete [name]", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("yes"))
}
