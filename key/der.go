package key

import (
	"bytes"
	encoding_asn1 "encoding/asn1"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidEd25519     = encoding_asn1.ObjectIdentifier{1, 3, 101, 112}
	oidEcPublicKey = encoding_asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = encoding_asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// legacyECDSAPrefix is a PKCS#8 header carrying only the curve OID, followed
// directly by a 32 byte scalar.
var legacyECDSAPrefix = []byte{
	0x30, 0x30, 0x02, 0x01, 0x00, 0x30, 0x07, 0x06, 0x05, 0x2b, 0x81, 0x04,
	0x00, 0x0a, 0x04, 0x22, 0x04, 0x20,
}

var tagECParameters = asn1.Tag(0).Constructed().ContextSpecific()

type algorithmIdentifier struct {
	algorithm  encoding_asn1.ObjectIdentifier
	parameters encoding_asn1.ObjectIdentifier
}

func (a algorithmIdentifier) keyType() (KeyType, error) {
	switch {
	case a.algorithm.Equal(oidEd25519):
		return KeyTypeEd25519, nil
	case a.algorithm.Equal(oidEcPublicKey):
		if a.parameters != nil && !a.parameters.Equal(oidSecp256k1) {
			return 0, errors.Wrapf(ErrUnsupportedKeyType, "curve %s", a.parameters)
		}
		return KeyTypeECDSASecp256k1, nil
	case a.algorithm.Equal(oidSecp256k1):
		return KeyTypeECDSASecp256k1, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedKeyType, "algorithm %s", a.algorithm)
}

func addAlgorithmIdentifier(b *cryptobyte.Builder, t KeyType) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		switch t {
		case KeyTypeEd25519:
			b.AddASN1ObjectIdentifier(oidEd25519)
		case KeyTypeECDSASecp256k1:
			b.AddASN1ObjectIdentifier(oidEcPublicKey)
			b.AddASN1ObjectIdentifier(oidSecp256k1)
		}
	})
}

func readAlgorithmIdentifier(s *cryptobyte.String) (a algorithmIdentifier, ok bool) {
	var inner cryptobyte.String
	if !s.ReadASN1(&inner, asn1.SEQUENCE) || !inner.ReadASN1ObjectIdentifier(&a.algorithm) {
		return
	}

	if inner.PeekASN1Tag(asn1.OBJECT_IDENTIFIER) {
		if !inner.ReadASN1ObjectIdentifier(&a.parameters) {
			return
		}
	} else if inner.PeekASN1Tag(asn1.NULL) {
		if !inner.SkipASN1(asn1.NULL) {
			return
		}
	}

	return a, inner.Empty()
}

// marshalPKCS8 encodes a PrivateKeyInfo. Ed25519 seeds are wrapped in an
// inner OCTET STRING (RFC 8410), ECDSA scalars in an ECPrivateKey without
// the optional parameters and public key.
func marshalPKCS8(t KeyType, raw []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		addAlgorithmIdentifier(b, t)
		b.AddASN1(asn1.OCTET_STRING, func(b *cryptobyte.Builder) {
			switch t {
			case KeyTypeEd25519:
				b.AddASN1OctetString(raw)
			case KeyTypeECDSASecp256k1:
				addSEC1(b, raw, false)
			}
		})
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pkcs#8")
	}
	return der, nil
}

func addSEC1(b *cryptobyte.Builder, scalar []byte, withParameters bool) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(1)
		b.AddASN1OctetString(scalar)
		if withParameters {
			b.AddASN1(tagECParameters, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(oidSecp256k1)
			})
		}
	})
}

func marshalSEC1(scalar []byte) ([]byte, error) {
	var b cryptobyte.Builder
	addSEC1(&b, scalar, true)
	der, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal sec1")
	}
	return der, nil
}

// parsePKCS8 returns the key family named by the algorithm identifier and the
// raw seed or scalar it carries.
func parsePKCS8(der []byte) (t KeyType, raw []byte, err error) {
	input := cryptobyte.String(der)

	var (
		inner      cryptobyte.String
		version    int64
		privateKey cryptobyte.String
	)

	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() {
		err = errors.Wrap(ErrEncoding, "pkcs#8: malformed sequence")
		return
	}

	if !inner.ReadASN1Integer(&version) || (version != 0 && version != 1) {
		err = errors.Wrap(ErrEncoding, "pkcs#8: unsupported version")
		return
	}

	algorithm, ok := readAlgorithmIdentifier(&inner)
	if !ok {
		err = errors.Wrap(ErrEncoding, "pkcs#8: malformed algorithm identifier")
		return
	}

	if t, err = algorithm.keyType(); err != nil {
		return
	}

	if !inner.ReadASN1(&privateKey, asn1.OCTET_STRING) {
		err = errors.Wrap(ErrEncoding, "pkcs#8: missing private key")
		return
	}

	switch t {
	case KeyTypeEd25519:
		var seed cryptobyte.String
		if !privateKey.ReadASN1(&seed, asn1.OCTET_STRING) || !privateKey.Empty() {
			err = errors.Wrap(ErrEncoding, "pkcs#8: malformed ed25519 seed")
			return
		}
		if len(seed) != ed25519SeedSize {
			err = errors.Wrapf(ErrEncoding, "pkcs#8: ed25519 seed is %d bytes", len(seed))
			return
		}
		raw = clone(seed)

	case KeyTypeECDSASecp256k1:
		if privateKey.PeekASN1Tag(asn1.OCTET_STRING) {
			var scalar cryptobyte.String
			if !privateKey.ReadASN1(&scalar, asn1.OCTET_STRING) || !privateKey.Empty() {
				err = errors.Wrap(ErrEncoding, "pkcs#8: malformed ecdsa scalar")
				return
			}
			raw = clone(scalar)
		} else {
			raw, err = parseSEC1(privateKey)
		}
	}

	return
}

// parseSEC1 reads an RFC 5915 ECPrivateKey. Curve parameters, when present,
// must name secp256k1.
func parseSEC1(der []byte) (scalar []byte, err error) {
	input := cryptobyte.String(der)

	var (
		inner      cryptobyte.String
		version    int64
		privateKey cryptobyte.String
		params     cryptobyte.String
		hasParams  bool
	)

	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() {
		err = errors.Wrap(ErrEncoding, "sec1: malformed sequence")
		return
	}

	if !inner.ReadASN1Integer(&version) || version != 1 {
		err = errors.Wrap(ErrEncoding, "sec1: unsupported version")
		return
	}

	if !inner.ReadASN1(&privateKey, asn1.OCTET_STRING) {
		err = errors.Wrap(ErrEncoding, "sec1: missing private key")
		return
	}

	if !inner.ReadOptionalASN1(&params, &hasParams, tagECParameters) {
		err = errors.Wrap(ErrEncoding, "sec1: malformed parameters")
		return
	}

	if hasParams {
		var curve encoding_asn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&curve) {
			err = errors.Wrap(ErrEncoding, "sec1: malformed curve identifier")
			return
		}
		if !curve.Equal(oidSecp256k1) {
			err = errors.Wrapf(ErrUnsupportedKeyType, "sec1: curve %s", curve)
			return
		}
	}

	if len(privateKey) > ecdsaScalarSize {
		err = errors.Wrapf(ErrEncoding, "sec1: scalar is %d bytes", len(privateKey))
		return
	}

	scalar = leftPad(clone(privateKey), ecdsaScalarSize)
	return
}

func parseLegacyECDSA(b []byte) (scalar []byte, ok bool) {
	if len(b) != len(legacyECDSAPrefix)+ecdsaScalarSize || !bytes.HasPrefix(b, legacyECDSAPrefix) {
		return nil, false
	}
	return clone(b[len(legacyECDSAPrefix):]), true
}

func marshalSPKI(t KeyType, raw []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addAlgorithmIdentifier(b, t)
		b.AddASN1BitString(raw)
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal subject public key info")
	}
	return der, nil
}

func parseSPKI(der []byte) (t KeyType, raw []byte, err error) {
	input := cryptobyte.String(der)

	var (
		inner cryptobyte.String
		bits  encoding_asn1.BitString
	)

	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() {
		err = errors.Wrap(ErrEncoding, "spki: malformed sequence")
		return
	}

	algorithm, ok := readAlgorithmIdentifier(&inner)
	if !ok {
		err = errors.Wrap(ErrEncoding, "spki: malformed algorithm identifier")
		return
	}

	if t, err = algorithm.keyType(); err != nil {
		return
	}

	if !inner.ReadASN1BitString(&bits) || !inner.Empty() || bits.BitLength%8 != 0 {
		err = errors.Wrap(ErrEncoding, "spki: malformed public key bit string")
		return
	}

	raw = clone(bits.Bytes)
	return
}
