package hashgraph

import (
	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
)

type SignaturePair struct {
	PublicKey *key.PublicKey
	Signature []byte
}

// SignatureMap collects at most one signature per public key, in the order
// the keys first signed.
type SignatureMap struct {
	pairs []SignaturePair
	index map[string]int
}

func NewSignatureMap() *SignatureMap {
	return &SignatureMap{index: map[string]int{}}
}

// Sign signs message with k unless k's public key already has a signature.
// It reports whether a new signature was added.
func (m *SignatureMap) Sign(k *key.PrivateKey, message []byte) (added bool, err error) {
	if k == nil {
		err = errors.Wrap(ErrValidation, "cannot sign with a nil key")
		return
	}

	public := k.PublicKey()
	if m.Has(public) {
		return
	}

	signature, err := k.Sign(message)
	if err != nil {
		return
	}

	m.add(public, signature)
	added = true
	return
}

// Add records an externally produced signature after checking it against
// message.
func (m *SignatureMap) Add(public *key.PublicKey, message, signature []byte) (added bool, err error) {
	if public == nil {
		err = errors.Wrap(ErrValidation, "cannot add a signature for a nil key")
		return
	}

	if m.Has(public) {
		return
	}

	if !public.Verify(message, signature) {
		err = errors.Wrapf(key.ErrInvalidSignature, "signature does not verify for %s", public)
		return
	}

	m.add(public, append([]byte(nil), signature...))
	added = true
	return
}

func (m *SignatureMap) add(public *key.PublicKey, signature []byte) {
	m.index[string(public.Bytes())] = len(m.pairs)
	m.pairs = append(m.pairs, SignaturePair{PublicKey: public, Signature: signature})
}

func (m *SignatureMap) Has(public *key.PublicKey) bool {
	_, ok := m.index[string(public.Bytes())]
	return ok
}

func (m *SignatureMap) Get(public *key.PublicKey) (signature []byte, ok bool) {
	i, ok := m.index[string(public.Bytes())]
	if !ok {
		return
	}
	return append([]byte(nil), m.pairs[i].Signature...), true
}

func (m *SignatureMap) Len() int {
	return len(m.pairs)
}

func (m *SignatureMap) Pairs() []SignaturePair {
	pairs := make([]SignaturePair, len(m.pairs))
	for i, p := range m.pairs {
		pairs[i] = SignaturePair{PublicKey: p.PublicKey, Signature: append([]byte(nil), p.Signature...)}
	}
	return pairs
}

// Verify checks every collected signature against message.
func (m *SignatureMap) Verify(message []byte) error {
	for _, p := range m.pairs {
		if !p.PublicKey.Verify(message, p.Signature) {
			return errors.Wrapf(key.ErrInvalidSignature, "signature for %s", p.PublicKey)
		}
	}
	return nil
}

// toProto uses the full public key as the prefix of each pair.
func (m *SignatureMap) toProto() *hapi.SignatureMap {
	sigMap := &hapi.SignatureMap{}
	for _, p := range m.pairs {
		pair := &hapi.SignaturePair{PubKeyPrefix: p.PublicKey.Bytes()}
		switch p.PublicKey.Type() {
		case key.KeyTypeEd25519:
			pair.Ed25519 = p.Signature
		case key.KeyTypeECDSASecp256k1:
			pair.ECDSASecp256k1 = p.Signature
		}
		sigMap.SigPair = append(sigMap.SigPair, pair)
	}
	return sigMap
}

// signatureMapFromProto rebuilds a collector from the wire form, used when
// verifying a received transaction. Pairs whose prefix is not a full public
// key are rejected.
func signatureMapFromProto(p *hapi.SignatureMap) (m *SignatureMap, err error) {
	m = NewSignatureMap()
	if p == nil {
		return
	}

	for _, pair := range p.SigPair {
		var public *key.PublicKey
		var signature []byte

		switch {
		case pair.Ed25519 != nil:
			public, err = key.ParseEd25519PublicKey(pair.PubKeyPrefix)
			signature = pair.Ed25519
		case pair.ECDSASecp256k1 != nil:
			public, err = key.ParseECDSAPublicKey(pair.PubKeyPrefix)
			signature = pair.ECDSASecp256k1
		default:
			err = errors.Wrap(ErrEncoding, "signature pair has no supported signature")
		}
		if err != nil {
			return nil, err
		}

		if !m.Has(public) {
			m.add(public, append([]byte(nil), signature...))
		}
	}

	return
}

func publicKeyToProto(k *key.PublicKey) *hapi.Key {
	switch k.Type() {
	case key.KeyTypeEd25519:
		return &hapi.Key{Ed25519: k.Bytes()}
	case key.KeyTypeECDSASecp256k1:
		return &hapi.Key{ECDSASecp256k1: k.Bytes()}
	}
	return nil
}

// publicKeyFromProto returns nil for key lists and other compound keys.
func publicKeyFromProto(p *hapi.Key) (*key.PublicKey, error) {
	switch {
	case p == nil:
		return nil, nil
	case p.Ed25519 != nil:
		return key.ParseEd25519PublicKey(p.Ed25519)
	case p.ECDSASecp256k1 != nil:
		return key.ParseECDSAPublicKey(p.ECDSASecp256k1)
	}
	return nil, nil
}
