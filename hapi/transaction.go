package hapi

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// TransactionData is the operation-specific member of the TransactionBody
// oneof.
type TransactionData interface {
	Message
	transactionDataField() protowire.Number
}

type TransactionBody struct {
	TransactionID            *TransactionID
	NodeAccountID            *AccountID
	TransactionFee           uint64
	TransactionValidDuration *Duration
	Memo                     string
	Data                     TransactionData
}

func (m *TransactionBody) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.TransactionID)
	b = appendMessage(b, 2, m.NodeAccountID)
	b = appendVarint(b, 3, m.TransactionFee)
	b = appendMessage(b, 4, m.TransactionValidDuration)
	b = appendString(b, 6, m.Memo)
	if m.Data != nil {
		b = appendOneof(b, m.Data.transactionDataField(), m.Data)
	}
	return b
}

func (m *TransactionBody) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.TransactionID, err = unmarshalField[TransactionID](f)
		case 2:
			m.NodeAccountID, err = unmarshalField[AccountID](f)
		case 3:
			m.TransactionFee = f.varint
		case 4:
			m.TransactionValidDuration, err = unmarshalField[Duration](f)
		case 6:
			m.Memo = f.string()
		case 11:
			m.Data, err = unmarshalField[CryptoCreateTransactionBody](f)
		case 12:
			m.Data, err = unmarshalField[CryptoDeleteTransactionBody](f)
		case 14:
			m.Data, err = unmarshalField[CryptoTransferTransactionBody](f)
		case 15:
			m.Data, err = unmarshalField[CryptoUpdateTransactionBody](f)
		}
		return
	})
}

type CryptoCreateTransactionBody struct {
	Key                           *Key
	InitialBalance                uint64
	ReceiverSigRequired           bool
	AutoRenewPeriod               *Duration
	Memo                          string
	MaxAutomaticTokenAssociations int32
}

func (*CryptoCreateTransactionBody) transactionDataField() protowire.Number { return 11 }

func (m *CryptoCreateTransactionBody) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Key)
	b = appendVarint(b, 2, m.InitialBalance)
	b = appendBool(b, 8, m.ReceiverSigRequired)
	b = appendMessage(b, 9, m.AutoRenewPeriod)
	b = appendString(b, 13, m.Memo)
	return appendInt32(b, 14, m.MaxAutomaticTokenAssociations)
}

func (m *CryptoCreateTransactionBody) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Key, err = unmarshalField[Key](f)
		case 2:
			m.InitialBalance = f.varint
		case 8:
			m.ReceiverSigRequired = f.bool()
		case 9:
			m.AutoRenewPeriod, err = unmarshalField[Duration](f)
		case 13:
			m.Memo = f.string()
		case 14:
			m.MaxAutomaticTokenAssociations = f.int32()
		}
		return
	})
}

type CryptoDeleteTransactionBody struct {
	TransferAccountID *AccountID
	DeleteAccountID   *AccountID
}

func (*CryptoDeleteTransactionBody) transactionDataField() protowire.Number { return 12 }

func (m *CryptoDeleteTransactionBody) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.TransferAccountID)
	return appendMessage(b, 2, m.DeleteAccountID)
}

func (m *CryptoDeleteTransactionBody) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.TransferAccountID, err = unmarshalField[AccountID](f)
		case 2:
			m.DeleteAccountID, err = unmarshalField[AccountID](f)
		}
		return
	})
}

type CryptoTransferTransactionBody struct {
	Transfers *TransferList
}

func (*CryptoTransferTransactionBody) transactionDataField() protowire.Number { return 14 }

func (m *CryptoTransferTransactionBody) AppendTo(b []byte) []byte {
	return appendMessage(b, 1, m.Transfers)
}

func (m *CryptoTransferTransactionBody) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Transfers, err = unmarshalField[TransferList](f)
		}
		return
	})
}

type CryptoUpdateTransactionBody struct {
	AccountIDToUpdate             *AccountID
	Key                           *Key
	AutoRenewPeriod               *Duration
	ExpirationTime                *Timestamp
	ReceiverSigRequired           *BoolValue
	Memo                          *StringValue
	MaxAutomaticTokenAssociations *Int32Value
}

func (*CryptoUpdateTransactionBody) transactionDataField() protowire.Number { return 15 }

func (m *CryptoUpdateTransactionBody) AppendTo(b []byte) []byte {
	b = appendMessage(b, 2, m.AccountIDToUpdate)
	b = appendMessage(b, 3, m.Key)
	b = appendMessage(b, 8, m.AutoRenewPeriod)
	b = appendMessage(b, 9, m.ExpirationTime)
	b = appendMessage(b, 13, m.ReceiverSigRequired)
	b = appendMessage(b, 14, m.Memo)
	return appendMessage(b, 15, m.MaxAutomaticTokenAssociations)
}

func (m *CryptoUpdateTransactionBody) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 2:
			m.AccountIDToUpdate, err = unmarshalField[AccountID](f)
		case 3:
			m.Key, err = unmarshalField[Key](f)
		case 8:
			m.AutoRenewPeriod, err = unmarshalField[Duration](f)
		case 9:
			m.ExpirationTime, err = unmarshalField[Timestamp](f)
		case 13:
			m.ReceiverSigRequired, err = unmarshalField[BoolValue](f)
		case 14:
			m.Memo, err = unmarshalField[StringValue](f)
		case 15:
			m.MaxAutomaticTokenAssociations, err = unmarshalField[Int32Value](f)
		}
		return
	})
}

// Transaction is the signed envelope. Submitted transactions use BodyBytes
// and SigMap; query payments carry a SignedTransaction in
// SignedTransactionBytes.
type Transaction struct {
	SigMap                 *SignatureMap
	BodyBytes              []byte
	SignedTransactionBytes []byte
}

func (m *Transaction) AppendTo(b []byte) []byte {
	b = appendMessage(b, 3, m.SigMap)
	b = appendBytes(b, 4, m.BodyBytes)
	return appendBytes(b, 5, m.SignedTransactionBytes)
}

func (m *Transaction) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 3:
			m.SigMap, err = unmarshalField[SignatureMap](f)
		case 4:
			m.BodyBytes = f.copyBytes()
		case 5:
			m.SignedTransactionBytes = f.copyBytes()
		}
		return
	})
}

// Signed returns the body bytes and signatures whichever layout was used.
func (m *Transaction) Signed() (bodyBytes []byte, sigMap *SignatureMap, err error) {
	if len(m.SignedTransactionBytes) > 0 {
		signed := &SignedTransaction{}
		if err = signed.Unmarshal(m.SignedTransactionBytes); err != nil {
			return
		}
		return signed.BodyBytes, signed.SigMap, nil
	}

	if len(m.BodyBytes) == 0 {
		err = errors.New("transaction has no body bytes")
		return
	}

	return m.BodyBytes, m.SigMap, nil
}

type SignedTransaction struct {
	BodyBytes []byte
	SigMap    *SignatureMap
}

func (m *SignedTransaction) AppendTo(b []byte) []byte {
	b = appendBytes(b, 1, m.BodyBytes)
	return appendMessage(b, 2, m.SigMap)
}

func (m *SignedTransaction) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.BodyBytes = f.copyBytes()
		case 2:
			m.SigMap, err = unmarshalField[SignatureMap](f)
		}
		return
	})
}

type TransactionResponse struct {
	NodeTransactionPrecheckCode int32
	Cost                        uint64
}

func (m *TransactionResponse) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.NodeTransactionPrecheckCode)
	return appendVarint(b, 2, m.Cost)
}

func (m *TransactionResponse) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.NodeTransactionPrecheckCode = f.int32()
		case 2:
			m.Cost = f.varint
		}
		return nil
	})
}
