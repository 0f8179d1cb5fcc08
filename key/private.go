package key

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// PrivateKey holds a 32 byte Ed25519 seed or secp256k1 scalar. Values are
// immutable once constructed; Zero is the only mutation and is intended for
// the owner to call when the key is no longer needed.
type PrivateKey struct {
	keyType KeyType
	raw     []byte
	ed      ed25519.PrivateKey
	ec      *btcec.PrivateKey
	public  *PublicKey
}

func GeneratePrivateKey(t KeyType) (*PrivateKey, error) {
	switch t {
	case KeyTypeEd25519:
		return GenerateEd25519PrivateKey()
	case KeyTypeECDSASecp256k1:
		return GenerateECDSAPrivateKey()
	}
	return nil, errors.Wrapf(ErrUnsupportedKeyType, "%s", t)
}

func GenerateEd25519PrivateKey() (*PrivateKey, error) {
	seed := make([]byte, ed25519SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(err, "failed to read random seed")
	}
	return newEd25519PrivateKey(seed)
}

func GenerateECDSAPrivateKey() (*PrivateKey, error) {
	ec, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate secp256k1 key")
	}
	return newECDSAPrivateKey(ec.Serialize())
}

func newEd25519PrivateKey(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519SeedSize {
		return nil, errors.Wrapf(ErrEncoding, "ed25519 seed must be %d bytes, got %d", ed25519SeedSize, len(seed))
	}

	k := &PrivateKey{
		keyType: KeyTypeEd25519,
		raw:     clone(seed),
	}
	k.ed = ed25519.NewKeyFromSeed(k.raw)
	k.public = &PublicKey{
		keyType: KeyTypeEd25519,
		raw:     clone(k.ed.Public().(ed25519.PublicKey)),
	}

	return k, nil
}

func newECDSAPrivateKey(scalar []byte) (*PrivateKey, error) {
	if len(scalar) != ecdsaScalarSize {
		return nil, errors.Wrapf(ErrEncoding, "ecdsa scalar must be %d bytes, got %d", ecdsaScalarSize, len(scalar))
	}

	var d btcec.ModNScalar
	if overflow := d.SetByteSlice(scalar); overflow || d.IsZero() {
		return nil, errors.Wrap(ErrEncoding, "ecdsa scalar out of range")
	}
	d.Zero()

	ec, pub := btcec.PrivKeyFromBytes(scalar)

	return &PrivateKey{
		keyType: KeyTypeECDSASecp256k1,
		raw:     clone(scalar),
		ec:      ec,
		public: &PublicKey{
			keyType: KeyTypeECDSASecp256k1,
			raw:     pub.SerializeCompressed(),
		},
	}, nil
}

// ParsePrivateKey detects the key family from the encoding. A bare 32 byte
// value is valid for both families and is read as an Ed25519 seed; use
// ParseECDSAPrivateKey when the family is known.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) == ed25519SeedSize {
		return newEd25519PrivateKey(b)
	}

	if scalar, ok := parseLegacyECDSA(b); ok {
		return newECDSAPrivateKey(scalar)
	}

	if t, raw, err := parsePKCS8(b); err == nil {
		if k, err := newPrivateKey(t, raw); err == nil {
			return k, nil
		}
	}

	if scalar, err := parseSEC1(b); err == nil {
		if k, err := newECDSAPrivateKey(scalar); err == nil {
			return k, nil
		}
	}

	return nil, errors.Wrapf(ErrEncoding, "unrecognised private key (%d bytes)", len(b))
}

func ParseEd25519PrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) == ed25519SeedSize {
		return newEd25519PrivateKey(b)
	}

	t, seed, err := parsePKCS8(b)
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, "invalid ed25519 private key")
	}
	if t != KeyTypeEd25519 {
		return nil, errors.Wrapf(ErrEncoding, "pkcs#8 holds a %s key", t)
	}

	return newEd25519PrivateKey(seed)
}

func ParseECDSAPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) == ecdsaScalarSize {
		return newECDSAPrivateKey(b)
	}

	if scalar, ok := parseLegacyECDSA(b); ok {
		return newECDSAPrivateKey(scalar)
	}

	if t, scalar, err := parsePKCS8(b); err == nil {
		if t != KeyTypeECDSASecp256k1 {
			return nil, errors.Wrapf(ErrEncoding, "pkcs#8 holds a %s key", t)
		}
		return newECDSAPrivateKey(scalar)
	}

	scalar, err := parseSEC1(b)
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, "invalid ecdsa private key")
	}

	return newECDSAPrivateKey(scalar)
}

func ParsePrivateKeyString(s string) (*PrivateKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(b)
}

func ParseEd25519PrivateKeyString(s string) (*PrivateKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseEd25519PrivateKey(b)
}

func ParseECDSAPrivateKeyString(s string) (*PrivateKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseECDSAPrivateKey(b)
}

func newPrivateKey(t KeyType, raw []byte) (*PrivateKey, error) {
	switch t {
	case KeyTypeEd25519:
		return newEd25519PrivateKey(raw)
	case KeyTypeECDSASecp256k1:
		return newECDSAPrivateKey(raw)
	}
	return nil, errors.Wrapf(ErrUnsupportedKeyType, "%s", t)
}

func (k *PrivateKey) Type() KeyType {
	return k.keyType
}

// PublicKey returns a copy so callers cannot alter the key the signer reports.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{keyType: k.public.keyType, raw: clone(k.public.raw)}
}

// Bytes returns a copy of the raw seed or scalar.
func (k *PrivateKey) Bytes() []byte {
	return clone(k.raw)
}

// DER returns the PKCS#8 encoding.
func (k *PrivateKey) DER() ([]byte, error) {
	return marshalPKCS8(k.keyType, k.raw)
}

// SEC1 returns the RFC 5915 ECPrivateKey encoding of an ECDSA key.
func (k *PrivateKey) SEC1() ([]byte, error) {
	if k.keyType != KeyTypeECDSASecp256k1 {
		return nil, errors.Wrapf(ErrUnsupportedKeyType, "sec1 is only defined for ecdsa, not %s", k.keyType)
	}
	return marshalSEC1(k.raw)
}

func (k *PrivateKey) String() string {
	return hex.EncodeToString(k.raw)
}

func (k *PrivateKey) DERString() (string, error) {
	der, err := k.DER()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(der), nil
}

// Sign returns a 64 byte signature. Ed25519 signs the message directly;
// ECDSA signs its Keccak-256 digest with an RFC 6979 nonce and returns r||s.
func (k *PrivateKey) Sign(message []byte) ([]byte, error) {
	switch k.keyType {
	case KeyTypeEd25519:
		return ed25519.Sign(k.ed, message), nil

	case KeyTypeECDSASecp256k1:
		compact, err := btcecdsa.SignCompact(k.ec, keccak256(message), true)
		if err != nil {
			return nil, errors.Wrap(err, "failed to sign")
		}
		// compact is recovery byte || r || s
		return clone(compact[1:]), nil
	}

	return nil, errors.Wrapf(ErrUnsupportedKeyType, "%s", k.keyType)
}

// Zero overwrites the key material. The key must not be used afterwards.
func (k *PrivateKey) Zero() {
	for i := range k.raw {
		k.raw[i] = 0
	}
	for i := range k.ed {
		k.ed[i] = 0
	}
	if k.ec != nil {
		k.ec.Zero()
	}
}
