/*
Package key parses, serialises, signs and verifies with the two key families
accepted by the ledger: Ed25519 and ECDSA over secp256k1.

Private keys are accepted as raw 32-byte seeds/scalars, PKCS#8 DER, bare SEC1
DER and the legacy fixed-prefix ECDSA form. Public keys are accepted as raw
Ed25519 bytes, compressed/uncompressed/raw X||Y secp256k1 points and
SubjectPublicKeyInfo DER. Every binary form may also be supplied as hex, with
or without a 0x prefix.
*/
package key

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var (
	ErrEncoding           = fmt.Errorf("invalid key encoding")
	ErrUnsupportedKeyType = fmt.Errorf("unsupported key type")
	ErrInvalidSignature   = fmt.Errorf("invalid signature encoding")
)

type KeyType uint8

const (
	KeyTypeEd25519 KeyType = iota + 1
	KeyTypeECDSASecp256k1
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeEd25519:
		return "ed25519"
	case KeyTypeECDSASecp256k1:
		return "ecdsa_secp256k1"
	}
	return fmt.Sprintf("KeyType(%d)", uint8(t))
}

func (t KeyType) Valid() bool {
	return t == KeyTypeEd25519 || t == KeyTypeECDSASecp256k1
}

// ParseKeyType accepts the String() form plus the short aliases used on the
// command line ("ecdsa", "secp256k1").
func ParseKeyType(s string) (t KeyType, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ed25519":
		t = KeyTypeEd25519
	case "ecdsa", "secp256k1", "ecdsa_secp256k1":
		t = KeyTypeECDSASecp256k1
	default:
		err = errors.Wrapf(ErrUnsupportedKeyType, "'%s'", s)
	}
	return
}

func (t KeyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errors.WithStack(ErrUnsupportedKeyType)
	}
	return []byte(t.String()), nil
}

func (t *KeyType) UnmarshalText(text []byte) (err error) {
	*t, err = ParseKeyType(string(text))
	return
}

const (
	ed25519SeedSize       = 32
	ed25519PublicKeySize  = 32
	ecdsaScalarSize       = 32
	ecdsaCompressedSize   = 33
	ecdsaUncompressedSize = 65
	ecdsaRawPointSize     = 64
	SignatureSize         = 64
)

func decodeHex(s string) (b []byte, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	b, err = hex.DecodeString(s)
	if err != nil {
		err = errors.Wrapf(ErrEncoding, "invalid hex: %v", err)
	}
	return
}

func keccak256(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(message)
	return h.Sum(nil)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
