package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexdcox/hashgraph-go/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rfc8032Seed      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfc8032Public    = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	rfc8032Signature = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := newCmdMain()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// field returns the value printed after label.
func field(t *testing.T, output, label string) string {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, label+":") {
			return strings.TrimSpace(strings.TrimPrefix(line, label+":"))
		}
	}

	require.Failf(t, "missing field", "%q not in output:\n%s", label, output)
	return ""
}

func TestGenerate(t *testing.T) {
	out, err := run(t, "generate")
	require.NoError(t, err)
	assert.Equal(t, "ed25519", field(t, out, "key type"))
	assert.Len(t, field(t, out, "private"), 64)
	assert.NotContains(t, out, "evm address")

	out, err = run(t, "generate", "--type", "ecdsa")
	require.NoError(t, err)
	assert.Equal(t, "ecdsa_secp256k1", field(t, out, "key type"))
	assert.Len(t, field(t, out, "public"), 66)
	assert.Len(t, field(t, out, "evm address"), 40)

	_, err = run(t, "generate", "--type", "rsa")
	assert.ErrorIs(t, err, key.ErrUnsupportedKeyType)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", rfc8032Seed)
	require.NoError(t, err)
	assert.Equal(t, rfc8032Public, field(t, out, "public"))
	assert.Equal(t, "302e020100300506032b657004220420"+rfc8032Seed, field(t, out, "private (der)"))

	out, err = run(t, "inspect", "--public", rfc8032Public)
	require.NoError(t, err)
	assert.Equal(t, "ed25519", field(t, out, "key type"))
	assert.NotContains(t, out, "private")

	out, err = run(t, "inspect", "--type", "ecdsa", rfc8032Seed)
	require.NoError(t, err)
	assert.Equal(t, "ecdsa_secp256k1", field(t, out, "key type"))

	_, err = run(t, "inspect", "nothex")
	assert.ErrorIs(t, err, key.ErrEncoding)
}

func TestSignAndVerify(t *testing.T) {
	out, err := run(t, "sign", rfc8032Seed, "")
	require.NoError(t, err)
	assert.Equal(t, rfc8032Signature, strings.TrimSpace(out))

	out, err = run(t, "verify", rfc8032Public, "", rfc8032Signature)
	require.NoError(t, err)
	assert.Contains(t, out, "signature ok")

	_, err = run(t, "verify", rfc8032Public, "00", rfc8032Signature)
	assert.ErrorIs(t, err, key.ErrInvalidSignature)

	ecdsaKey, err := key.GenerateECDSAPrivateKey()
	require.NoError(t, err)
	der, err := ecdsaKey.DERString()
	require.NoError(t, err)

	out, err = run(t, "sign", der, "cafe")
	require.NoError(t, err)
	signature := strings.TrimSpace(out)
	assert.Len(t, signature, 128)

	_, err = run(t, "verify", ecdsaKey.PublicKey().String(), "cafe", signature)
	assert.NoError(t, err)

	_, err = run(t, "sign", rfc8032Seed, "zz")
	assert.Error(t, err)
}
