package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	. "github.com/alexdcox/hashgraph-go"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var log = ComponentLog("keytool")

type options struct {
	generateType string
	keyType      string
	public       bool
}

func newCmdMain() *cobra.Command {
	o := &options{}

	cmdMain := &cobra.Command{
		Use:           "keytool",
		Short:         "Generate, inspect and use hashgraph account keys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new private key",
		Args:  cobra.NoArgs,
		RunE:  o.generate,
	}
	cmdGenerate.Flags().StringVarP(&o.generateType, "type", "t", "ed25519", "Key type (ed25519|ecdsa)")

	cmdInspect := &cobra.Command{
		Use:   "inspect <key-hex>",
		Short: "Print every encoding of a private or public key",
		Args:  cobra.ExactArgs(1),
		RunE:  o.inspect,
	}
	cmdInspect.Flags().StringVarP(&o.keyType, "type", "t", "", "Force the key type when a raw key is ambiguous")
	cmdInspect.Flags().BoolVar(&o.public, "public", false, "Treat the key as a public key")

	cmdSign := &cobra.Command{
		Use:   "sign <private-key-hex> <message-hex>",
		Short: "Sign a message",
		Args:  cobra.ExactArgs(2),
		RunE:  o.sign,
	}
	cmdSign.Flags().StringVarP(&o.keyType, "type", "t", "", "Force the key type when a raw key is ambiguous")

	cmdVerify := &cobra.Command{
		Use:   "verify <public-key-hex> <message-hex> <signature-hex>",
		Short: "Verify a signature",
		Args:  cobra.ExactArgs(3),
		RunE:  o.verify,
	}

	cmdMain.AddCommand(cmdGenerate, cmdInspect, cmdSign, cmdVerify)

	return cmdMain
}

func main() {
	if err := newCmdMain().Execute(); err != nil {
		log.Fatal().Msgf("%+v", err)
	}
}

func (o *options) parsePrivateKey(s string) (*key.PrivateKey, error) {
	if o.keyType == "" {
		return key.ParsePrivateKeyString(s)
	}

	t, err := key.ParseKeyType(o.keyType)
	if err != nil {
		return nil, err
	}

	if t == key.KeyTypeECDSASecp256k1 {
		return key.ParseECDSAPrivateKeyString(s)
	}
	return key.ParseEd25519PrivateKeyString(s)
}

func decodeHexArg(name, s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "%s is not hex: %v", name, err)
	}
	return b, nil
}

func printPublicKey(w io.Writer, public *key.PublicKey) error {
	der, err := public.DERString()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "public:         %s\n", public)
	fmt.Fprintf(w, "public (der):   %s\n", der)

	if public.Type() == key.KeyTypeECDSASecp256k1 {
		address, err := public.EvmAddress()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "evm address:    %x\n", address.Bytes())
	}

	return nil
}

func printPrivateKey(w io.Writer, private *key.PrivateKey) error {
	der, err := private.DERString()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "key type:       %s\n", private.Type())
	fmt.Fprintf(w, "private:        %s\n", private)
	fmt.Fprintf(w, "private (der):  %s\n", der)

	return printPublicKey(w, private.PublicKey())
}

func (o *options) generate(cmd *cobra.Command, _ []string) error {
	t, err := key.ParseKeyType(o.generateType)
	if err != nil {
		return err
	}

	private, err := key.GeneratePrivateKey(t)
	if err != nil {
		return err
	}
	defer private.Zero()

	return printPrivateKey(cmd.OutOrStdout(), private)
}

func (o *options) inspect(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if !o.public {
		if private, err := o.parsePrivateKey(args[0]); err == nil {
			defer private.Zero()
			return printPrivateKey(w, private)
		}
	}

	publicKey, err := key.ParsePublicKeyString(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "key type:       %s\n", publicKey.Type())
	return printPublicKey(w, publicKey)
}

func (o *options) sign(cmd *cobra.Command, args []string) error {
	private, err := o.parsePrivateKey(args[0])
	if err != nil {
		return err
	}
	defer private.Zero()

	message, err := decodeHexArg("message", args[1])
	if err != nil {
		return err
	}

	signature, err := private.Sign(message)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%x\n", signature)
	return nil
}

func (o *options) verify(cmd *cobra.Command, args []string) error {
	public, err := key.ParsePublicKeyString(args[0])
	if err != nil {
		return err
	}

	message, err := decodeHexArg("message", args[1])
	if err != nil {
		return err
	}

	signature, err := decodeHexArg("signature", args[2])
	if err != nil {
		return err
	}

	if !public.Verify(message, signature) {
		return errors.Wrap(key.ErrInvalidSignature, "signature does not match")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "signature ok")
	return nil
}
