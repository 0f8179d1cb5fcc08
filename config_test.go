package hashgraph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexdcox/hashgraph-go/key"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEd25519Seed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "client.yaml", `
network: local
nodes:
  - address: 127.0.0.1:50211
    accountId: 0.0.3
  - address: 127.0.0.1:50212
    accountId: 0.0.4
operator:
  accountId: 0.0.2
  privateKey: `+testEd25519Seed+`
  keyType: ed25519
maxAttempts: 4
receiptPollInterval: 250ms
databasePath: `+filepath.Join(t.TempDir(), "tx.db")+`
logLevel: debug
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, NetworkLocal, config.Network)
	require.Len(t, config.Nodes, 2)
	assert.Equal(t, AccountID{Num: 4}, config.Nodes[1].AccountID)
	assert.Equal(t, key.KeyTypeEd25519, config.Operator.KeyType)

	client, err := config.NewClient()
	require.NoError(t, err)
	defer client.Close()
	defer SetLogLevel(zerolog.InfoLevel)

	assert.Len(t, client.Nodes(), 2)
	assert.Equal(t, 4, client.executor.MaxAttempts())
	assert.Equal(t, 250*time.Millisecond, client.options.ReceiptPollInterval)
	assert.IsType(t, &SqlLiteDatabase{}, client.Database())

	operator, err := client.Operator()
	require.NoError(t, err)
	assert.Equal(t, AccountID{Num: 2}, operator.AccountID)
	assert.Equal(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a", operator.PrivateKey.PublicKey().String())
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "client.json", `{
		"network": "testnet",
		"operator": {"accountId": "0.0.2", "privateKey": "`+testEd25519Seed+`"}
	}`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	client, err := config.NewClient()
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, NetworkTestNet, client.Network())
	assert.Nil(t, client.Database())

	operator, err := client.Operator()
	require.NoError(t, err)
	assert.Equal(t, key.KeyTypeEd25519, operator.PrivateKey.Type())
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	for name, contents := range map[string]string{
		"network.json":  `{"network": "devnet"}`,
		"attempts.json": `{"maxAttempts": -1}`,
		"poll.json":     `{"receiptPollInterval": "soon"}`,
		"level.json":    `{"logLevel": "loud"}`,
		"operator.json": `{"operator": {"accountId": "0.0.2"}}`,
		"node.json":     `{"nodes": [{"accountId": "0.0.3"}]}`,
		"syntax.yaml":   "network: [",
	} {
		_, err := LoadConfig(writeConfig(t, name, contents))
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
