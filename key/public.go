package key

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// PublicKey holds a 32 byte Ed25519 key or a 33 byte compressed secp256k1
// point. Two keys are equal when their raw encodings are equal.
type PublicKey struct {
	keyType KeyType
	raw     []byte
}

// ParsePublicKey dispatches on length and prefix before falling back to
// SubjectPublicKeyInfo.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	switch {
	case len(b) == ed25519PublicKeySize:
		return newEd25519PublicKey(b)
	case len(b) == ecdsaCompressedSize && (b[0] == 0x02 || b[0] == 0x03):
		return newECDSAPublicKey(b)
	case len(b) == ecdsaRawPointSize:
		return newECDSAPublicKey(append([]byte{0x04}, b...))
	case len(b) == ecdsaUncompressedSize && b[0] == 0x04:
		return newECDSAPublicKey(b)
	}

	t, raw, err := parseSPKI(b)
	if err != nil {
		return nil, errors.Wrapf(ErrEncoding, "unrecognised public key (%d bytes): %v", len(b), err)
	}

	switch t {
	case KeyTypeEd25519:
		return newEd25519PublicKey(raw)
	case KeyTypeECDSASecp256k1:
		return newECDSAPublicKey(raw)
	}

	return nil, errors.Wrapf(ErrUnsupportedKeyType, "%s", t)
}

func ParseEd25519PublicKey(b []byte) (*PublicKey, error) {
	if len(b) == ed25519PublicKeySize {
		return newEd25519PublicKey(b)
	}

	t, raw, err := parseSPKI(b)
	if err != nil {
		return nil, err
	}
	if t != KeyTypeEd25519 {
		return nil, errors.Wrapf(ErrEncoding, "subject public key info holds a %s key", t)
	}

	return newEd25519PublicKey(raw)
}

func ParseECDSAPublicKey(b []byte) (*PublicKey, error) {
	switch len(b) {
	case ecdsaCompressedSize, ecdsaUncompressedSize:
		if k, err := newECDSAPublicKey(b); err == nil {
			return k, nil
		}
	case ecdsaRawPointSize:
		return newECDSAPublicKey(append([]byte{0x04}, b...))
	case ed25519PublicKeySize:
		return nil, errors.Wrap(ErrEncoding, "32 bytes is not a secp256k1 point")
	}

	t, raw, err := parseSPKI(b)
	if err != nil {
		return nil, err
	}
	if t != KeyTypeECDSASecp256k1 {
		return nil, errors.Wrapf(ErrEncoding, "subject public key info holds a %s key", t)
	}

	return newECDSAPublicKey(raw)
}

func ParsePublicKeyString(s string) (*PublicKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(b)
}

func ParseEd25519PublicKeyString(s string) (*PublicKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseEd25519PublicKey(b)
}

func ParseECDSAPublicKeyString(s string) (*PublicKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseECDSAPublicKey(b)
}

func newEd25519PublicKey(b []byte) (*PublicKey, error) {
	if len(b) != ed25519PublicKeySize {
		return nil, errors.Wrapf(ErrEncoding, "ed25519 public key must be %d bytes, got %d", ed25519PublicKeySize, len(b))
	}

	if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
		return nil, errors.Wrap(ErrEncoding, "ed25519 public key is not a valid point")
	}

	return &PublicKey{keyType: KeyTypeEd25519, raw: clone(b)}, nil
}

// newECDSAPublicKey accepts compressed or uncompressed SEC1 points and stores
// the compressed form.
func newECDSAPublicKey(b []byte) (*PublicKey, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrapf(ErrEncoding, "invalid secp256k1 point: %v", err)
	}

	return &PublicKey{keyType: KeyTypeECDSASecp256k1, raw: pub.SerializeCompressed()}, nil
}

func (k *PublicKey) Type() KeyType {
	return k.keyType
}

// Bytes returns a copy of the raw key; compressed for ECDSA.
func (k *PublicKey) Bytes() []byte {
	return clone(k.raw)
}

// UncompressedBytes returns the 65 byte SEC1 point of an ECDSA key.
func (k *PublicKey) UncompressedBytes() ([]byte, error) {
	if k.keyType != KeyTypeECDSASecp256k1 {
		return nil, errors.Wrapf(ErrUnsupportedKeyType, "%s has no uncompressed form", k.keyType)
	}

	pub, err := btcec.ParsePubKey(k.raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return pub.SerializeUncompressed(), nil
}

// DER returns the SubjectPublicKeyInfo encoding.
func (k *PublicKey) DER() ([]byte, error) {
	return marshalSPKI(k.keyType, k.raw)
}

func (k *PublicKey) String() string {
	return hex.EncodeToString(k.raw)
}

func (k *PublicKey) DERString() (string, error) {
	der, err := k.DER()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(der), nil
}

func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.keyType == other.keyType && bytes.Equal(k.raw, other.raw)
}

// Verify reports whether signature is valid for message. ECDSA signatures
// must be 64 byte r||s over the Keccak-256 digest with r and s in (0, N).
func (k *PublicKey) Verify(message, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}

	switch k.keyType {
	case KeyTypeEd25519:
		return ed25519.Verify(ed25519.PublicKey(k.raw), message, signature)

	case KeyTypeECDSASecp256k1:
		var r, s btcec.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow || s.IsZero() {
			return false
		}

		pub, err := btcec.ParsePubKey(k.raw)
		if err != nil {
			return false
		}

		return btcecdsa.NewSignature(&r, &s).Verify(keccak256(message), pub)
	}

	return false
}

// EvmAddress returns the 20 byte account address derived from an ECDSA key.
func (k *PublicKey) EvmAddress() (address common.Address, err error) {
	if k.keyType != KeyTypeECDSASecp256k1 {
		err = errors.Wrapf(ErrUnsupportedKeyType, "%s keys have no evm address", k.keyType)
		return
	}

	pub, err := ethcrypto.DecompressPubkey(k.raw)
	if err != nil {
		err = errors.Wrap(ErrEncoding, err.Error())
		return
	}

	address = ethcrypto.PubkeyToAddress(*pub)
	return
}

func (k *PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKeyString(string(text))
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}
