package hapi

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

type ResponseType int32

const (
	ResponseTypeAnswerOnly ResponseType = iota
	ResponseTypeAnswerStateProof
	ResponseTypeCostAnswer
	ResponseTypeCostAnswerStateProof
)

type QueryHeader struct {
	Payment      *Transaction
	ResponseType ResponseType
}

func (m *QueryHeader) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Payment)
	return appendInt32(b, 2, int32(m.ResponseType))
}

func (m *QueryHeader) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Payment, err = unmarshalField[Transaction](f)
		case 2:
			m.ResponseType = ResponseType(f.int32())
		}
		return
	})
}

// QueryData is the member of the Query oneof.
type QueryData interface {
	Message
	queryField() protowire.Number
	QueryHeader() *QueryHeader
}

type Query struct {
	Data QueryData
}

func (m *Query) AppendTo(b []byte) []byte {
	if m.Data == nil {
		return b
	}
	return appendOneof(b, m.Data.queryField(), m.Data)
}

func (m *Query) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 7:
			m.Data, err = unmarshalField[CryptoGetAccountBalanceQuery](f)
		case 9:
			m.Data, err = unmarshalField[CryptoGetInfoQuery](f)
		case 14:
			m.Data, err = unmarshalField[TransactionGetReceiptQuery](f)
		}
		return
	})
}

type CryptoGetAccountBalanceQuery struct {
	Header    *QueryHeader
	AccountID *AccountID
}

func (*CryptoGetAccountBalanceQuery) queryField() protowire.Number { return 7 }

func (m *CryptoGetAccountBalanceQuery) QueryHeader() *QueryHeader { return m.Header }

func (m *CryptoGetAccountBalanceQuery) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	return appendMessage(b, 2, m.AccountID)
}

func (m *CryptoGetAccountBalanceQuery) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[QueryHeader](f)
		case 2:
			m.AccountID, err = unmarshalField[AccountID](f)
		}
		return
	})
}

type CryptoGetInfoQuery struct {
	Header    *QueryHeader
	AccountID *AccountID
}

func (*CryptoGetInfoQuery) queryField() protowire.Number { return 9 }

func (m *CryptoGetInfoQuery) QueryHeader() *QueryHeader { return m.Header }

func (m *CryptoGetInfoQuery) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	return appendMessage(b, 2, m.AccountID)
}

func (m *CryptoGetInfoQuery) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[QueryHeader](f)
		case 2:
			m.AccountID, err = unmarshalField[AccountID](f)
		}
		return
	})
}

type TransactionGetReceiptQuery struct {
	Header               *QueryHeader
	TransactionID        *TransactionID
	IncludeDuplicates    bool
	IncludeChildReceipts bool
}

func (*TransactionGetReceiptQuery) queryField() protowire.Number { return 14 }

func (m *TransactionGetReceiptQuery) QueryHeader() *QueryHeader { return m.Header }

func (m *TransactionGetReceiptQuery) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	b = appendMessage(b, 2, m.TransactionID)
	b = appendBool(b, 3, m.IncludeDuplicates)
	return appendBool(b, 4, m.IncludeChildReceipts)
}

func (m *TransactionGetReceiptQuery) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[QueryHeader](f)
		case 2:
			m.TransactionID, err = unmarshalField[TransactionID](f)
		case 3:
			m.IncludeDuplicates = f.bool()
		case 4:
			m.IncludeChildReceipts = f.bool()
		}
		return
	})
}

type ResponseHeader struct {
	NodeTransactionPrecheckCode int32
	ResponseType                ResponseType
	Cost                        uint64
}

func (m *ResponseHeader) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.NodeTransactionPrecheckCode)
	b = appendInt32(b, 2, int32(m.ResponseType))
	return appendVarint(b, 3, m.Cost)
}

func (m *ResponseHeader) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.NodeTransactionPrecheckCode = f.int32()
		case 2:
			m.ResponseType = ResponseType(f.int32())
		case 3:
			m.Cost = f.varint
		}
		return nil
	})
}

// ResponseData is the member of the Response oneof.
type ResponseData interface {
	Message
	responseField() protowire.Number
	ResponseHeader() *ResponseHeader
}

type Response struct {
	Data ResponseData
}

// Header returns the header of whichever payload the response carries.
func (m *Response) Header() (*ResponseHeader, error) {
	if m.Data == nil {
		return nil, errors.New("response has no payload")
	}
	header := m.Data.ResponseHeader()
	if header == nil {
		return nil, errors.New("response payload has no header")
	}
	return header, nil
}

func (m *Response) AppendTo(b []byte) []byte {
	if m.Data == nil {
		return b
	}
	return appendOneof(b, m.Data.responseField(), m.Data)
}

func (m *Response) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 7:
			m.Data, err = unmarshalField[CryptoGetAccountBalanceResponse](f)
		case 9:
			m.Data, err = unmarshalField[CryptoGetInfoResponse](f)
		case 14:
			m.Data, err = unmarshalField[TransactionGetReceiptResponse](f)
		}
		return
	})
}

type CryptoGetAccountBalanceResponse struct {
	Header    *ResponseHeader
	AccountID *AccountID
	Balance   uint64
}

func (*CryptoGetAccountBalanceResponse) responseField() protowire.Number { return 7 }

func (m *CryptoGetAccountBalanceResponse) ResponseHeader() *ResponseHeader { return m.Header }

func (m *CryptoGetAccountBalanceResponse) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	b = appendMessage(b, 2, m.AccountID)
	return appendVarint(b, 3, m.Balance)
}

func (m *CryptoGetAccountBalanceResponse) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[ResponseHeader](f)
		case 2:
			m.AccountID, err = unmarshalField[AccountID](f)
		case 3:
			m.Balance = f.varint
		}
		return
	})
}

type AccountInfo struct {
	AccountID                     *AccountID
	ContractAccountID             string
	Deleted                       bool
	Key                           *Key
	Balance                       uint64
	ReceiverSigRequired           bool
	ExpirationTime                *Timestamp
	AutoRenewPeriod               *Duration
	Memo                          string
	OwnedNfts                     int64
	MaxAutomaticTokenAssociations int32
	Alias                         []byte
	LedgerID                      []byte
}

func (m *AccountInfo) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.AccountID)
	b = appendString(b, 2, m.ContractAccountID)
	b = appendBool(b, 3, m.Deleted)
	b = appendMessage(b, 7, m.Key)
	b = appendVarint(b, 8, m.Balance)
	b = appendBool(b, 11, m.ReceiverSigRequired)
	b = appendMessage(b, 12, m.ExpirationTime)
	b = appendMessage(b, 13, m.AutoRenewPeriod)
	b = appendString(b, 16, m.Memo)
	b = appendInt64(b, 17, m.OwnedNfts)
	b = appendInt32(b, 18, m.MaxAutomaticTokenAssociations)
	b = appendBytes(b, 19, m.Alias)
	return appendBytes(b, 20, m.LedgerID)
}

func (m *AccountInfo) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.AccountID, err = unmarshalField[AccountID](f)
		case 2:
			m.ContractAccountID = f.string()
		case 3:
			m.Deleted = f.bool()
		case 7:
			m.Key, err = unmarshalField[Key](f)
		case 8:
			m.Balance = f.varint
		case 11:
			m.ReceiverSigRequired = f.bool()
		case 12:
			m.ExpirationTime, err = unmarshalField[Timestamp](f)
		case 13:
			m.AutoRenewPeriod, err = unmarshalField[Duration](f)
		case 16:
			m.Memo = f.string()
		case 17:
			m.OwnedNfts = f.int64()
		case 18:
			m.MaxAutomaticTokenAssociations = f.int32()
		case 19:
			m.Alias = f.copyBytes()
		case 20:
			m.LedgerID = f.copyBytes()
		}
		return
	})
}

type CryptoGetInfoResponse struct {
	Header      *ResponseHeader
	AccountInfo *AccountInfo
}

func (*CryptoGetInfoResponse) responseField() protowire.Number { return 9 }

func (m *CryptoGetInfoResponse) ResponseHeader() *ResponseHeader { return m.Header }

func (m *CryptoGetInfoResponse) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	return appendMessage(b, 2, m.AccountInfo)
}

func (m *CryptoGetInfoResponse) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[ResponseHeader](f)
		case 2:
			m.AccountInfo, err = unmarshalField[AccountInfo](f)
		}
		return
	})
}

type TransactionReceipt struct {
	Status       int32
	AccountID    *AccountID
	ExchangeRate *ExchangeRateSet
}

func (m *TransactionReceipt) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.Status)
	b = appendMessage(b, 2, m.AccountID)
	return appendMessage(b, 5, m.ExchangeRate)
}

func (m *TransactionReceipt) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Status = f.int32()
		case 2:
			m.AccountID, err = unmarshalField[AccountID](f)
		case 5:
			m.ExchangeRate, err = unmarshalField[ExchangeRateSet](f)
		}
		return
	})
}

type TransactionGetReceiptResponse struct {
	Header                       *ResponseHeader
	Receipt                      *TransactionReceipt
	DuplicateTransactionReceipts []*TransactionReceipt
	ChildTransactionReceipts     []*TransactionReceipt
}

func (*TransactionGetReceiptResponse) responseField() protowire.Number { return 14 }

func (m *TransactionGetReceiptResponse) ResponseHeader() *ResponseHeader { return m.Header }

func (m *TransactionGetReceiptResponse) AppendTo(b []byte) []byte {
	b = appendMessage(b, 1, m.Header)
	b = appendMessage(b, 2, m.Receipt)
	for _, r := range m.DuplicateTransactionReceipts {
		b = appendMessage(b, 4, r)
	}
	for _, r := range m.ChildTransactionReceipts {
		b = appendMessage(b, 5, r)
	}
	return b
}

func (m *TransactionGetReceiptResponse) Unmarshal(b []byte) error {
	return consumeFields(b, func(f field) (err error) {
		var r *TransactionReceipt
		switch f.num {
		case 1:
			m.Header, err = unmarshalField[ResponseHeader](f)
		case 2:
			m.Receipt, err = unmarshalField[TransactionReceipt](f)
		case 4:
			if r, err = unmarshalField[TransactionReceipt](f); err == nil {
				m.DuplicateTransactionReceipts = append(m.DuplicateTransactionReceipts, r)
			}
		case 5:
			if r, err = unmarshalField[TransactionReceipt](f); err == nil {
				m.ChildTransactionReceipts = append(m.ChildTransactionReceipts, r)
			}
		}
		return
	})
}
