package hapi

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type AccountID struct {
	ShardNum   int64
	RealmNum   int64
	AccountNum int64
	Alias      []byte
}

func (m *AccountID) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ShardNum)
	b = appendInt64(b, 2, m.RealmNum)
	if len(m.Alias) > 0 {
		return appendBytes(b, 4, m.Alias)
	}
	// oneof member, written even when zero
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(m.AccountNum))
}

func (m *AccountID) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.ShardNum = f.int64()
		case 2:
			m.RealmNum = f.int64()
		case 3:
			m.AccountNum = f.int64()
		case 4:
			m.Alias = f.copyBytes()
		}
		return nil
	})
}

type Timestamp struct {
	Seconds int64
	Nanos   int32
}

func (m *Timestamp) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.Seconds)
	return appendInt32(b, 2, m.Nanos)
}

func (m *Timestamp) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Seconds = f.int64()
		case 2:
			m.Nanos = f.int32()
		}
		return nil
	})
}

type TimestampSeconds struct {
	Seconds int64
}

func (m *TimestampSeconds) AppendTo(b []byte) []byte {
	return appendInt64(b, 1, m.Seconds)
}

func (m *TimestampSeconds) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Seconds = f.int64()
		}
		return nil
	})
}

type Duration struct {
	Seconds int64
}

func (m *Duration) AppendTo(b []byte) []byte {
	return appendInt64(b, 1, m.Seconds)
}

func (m *Duration) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Seconds = f.int64()
		}
		return nil
	})
}

type TransactionID struct {
	TransactionValidStart *Timestamp
	AccountID             *AccountID
	Scheduled             bool
	Nonce                 int32
}

func (m *TransactionID) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.TransactionValidStart)
	b = appendMessage(b, 2, m.AccountID)
	b = appendBool(b, 3, m.Scheduled)
	return appendInt32(b, 4, m.Nonce)
}

func (m *TransactionID) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.TransactionValidStart, err = unmarshalField[Timestamp](f)
		case 2:
			m.AccountID, err = unmarshalField[AccountID](f)
		case 3:
			m.Scheduled = f.bool()
		case 4:
			m.Nonce = f.int32()
		}
		return
	})
}

// Key carries one of the supported key encodings. Contract, RSA and
// threshold keys are not produced by the SDK and are skipped on decode.
type Key struct {
	Ed25519        []byte
	KeyList        *KeyList
	ECDSASecp256k1 []byte
}

func (m *Key) AppendTo(b []byte) []byte {
	switch {
	case m.Ed25519 != nil:
		return appendBytes(b, 2, m.Ed25519)
	case m.KeyList != nil:
		return appendMessage(b, 6, m.KeyList)
	case m.ECDSASecp256k1 != nil:
		return appendBytes(b, 7, m.ECDSASecp256k1)
	}
	return b
}

func (m *Key) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 2:
			m.Ed25519 = f.copyBytes()
		case 6:
			m.KeyList, err = unmarshalField[KeyList](f)
		case 7:
			m.ECDSASecp256k1 = f.copyBytes()
		}
		return
	})
}

type KeyList struct {
	Keys []*Key
}

func (m *KeyList) AppendTo(b []byte) []byte {
	for _, k := range m.Keys {
		b = appendMessage(b, 1, k)
	}
	return b
}

func (m *KeyList) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		k, err := unmarshalField[Key](f)
		if err != nil {
			return err
		}
		m.Keys = append(m.Keys, k)
		return nil
	})
}

type SignaturePair struct {
	PubKeyPrefix   []byte
	Ed25519        []byte
	ECDSASecp256k1 []byte
}

func (m *SignaturePair) AppendTo(b []byte) []byte {
	b = appendBytes(b, 1, m.PubKeyPrefix)
	b = appendBytes(b, 3, m.Ed25519)
	return appendBytes(b, 6, m.ECDSASecp256k1)
}

func (m *SignaturePair) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.PubKeyPrefix = f.copyBytes()
		case 3:
			m.Ed25519 = f.copyBytes()
		case 6:
			m.ECDSASecp256k1 = f.copyBytes()
		}
		return nil
	})
}

type SignatureMap struct {
	SigPair []*SignaturePair
}

func (m *SignatureMap) AppendTo(b []byte) []byte {
	for _, p := range m.SigPair {
		b = appendMessage(b, 1, p)
	}
	return b
}

func (m *SignatureMap) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		p, err := unmarshalField[SignaturePair](f)
		if err != nil {
			return err
		}
		m.SigPair = append(m.SigPair, p)
		return nil
	})
}

type AccountAmount struct {
	AccountID  *AccountID
	Amount     int64
	IsApproval bool
}

func (m *AccountAmount) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.AccountID)
	b = appendSint64(b, 2, m.Amount)
	return appendBool(b, 3, m.IsApproval)
}

func (m *AccountAmount) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.AccountID, err = unmarshalField[AccountID](f)
		case 2:
			m.Amount = f.sint64()
		case 3:
			m.IsApproval = f.bool()
		}
		return
	})
}

type TransferList struct {
	AccountAmounts []*AccountAmount
}

func (m *TransferList) AppendTo(b []byte) []byte {
	for _, a := range m.AccountAmounts {
		b = appendMessage(b, 1, a)
	}
	return b
}

func (m *TransferList) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		a, err := unmarshalField[AccountAmount](f)
		if err != nil {
			return err
		}
		m.AccountAmounts = append(m.AccountAmounts, a)
		return nil
	})
}

type ExchangeRate struct {
	HbarEquiv      int32
	CentEquiv      int32
	ExpirationTime *TimestampSeconds
}

func (m *ExchangeRate) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.HbarEquiv)
	b = appendInt32(b, 2, m.CentEquiv)
	return appendMessage(b, 3, m.ExpirationTime)
}

func (m *ExchangeRate) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.HbarEquiv = f.int32()
		case 2:
			m.CentEquiv = f.int32()
		case 3:
			m.ExpirationTime, err = unmarshalField[TimestampSeconds](f)
		}
		return
	})
}

type ExchangeRateSet struct {
	CurrentRate *ExchangeRate
	NextRate    *ExchangeRate
}

func (m *ExchangeRateSet) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.CurrentRate)
	return appendMessage(b, 2, m.NextRate)
}

func (m *ExchangeRateSet) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.CurrentRate, err = unmarshalField[ExchangeRate](f)
		case 2:
			m.NextRate, err = unmarshalField[ExchangeRate](f)
		}
		return
	})
}

// Well-known wrapper types, used for optional fields on updates.

type StringValue struct {
	Value string
}

func (m *StringValue) AppendTo(b []byte) []byte {
	return appendString(b, 1, m.Value)
}

func (m *StringValue) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Value = f.string()
		}
		return nil
	})
}

type BoolValue struct {
	Value bool
}

func (m *BoolValue) AppendTo(b []byte) []byte {
	return appendBool(b, 1, m.Value)
}

func (m *BoolValue) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Value = f.bool()
		}
		return nil
	})
}

type Int32Value struct {
	Value int32
}

func (m *Int32Value) AppendTo(b []byte) []byte {
	return appendInt32(b, 1, m.Value)
}

func (m *Int32Value) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Value = f.int32()
		}
		return nil
	})
}
