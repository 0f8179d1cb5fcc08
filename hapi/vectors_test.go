package hapi

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each vector is written out field by field from the published .proto
// numbering so a codec mistake made on both encode and decode still fails.
var wireVectors = []struct {
	name    string
	message Message
	decoded Message
	hex     []string
}{
	{
		name: "TransactionBody/CryptoDelete",
		message: &TransactionBody{
			TransactionID: &TransactionID{
				TransactionValidStart: &Timestamp{Seconds: 1, Nanos: 2},
				AccountID:             &AccountID{AccountNum: 2},
			},
			NodeAccountID:            &AccountID{AccountNum: 3},
			TransactionFee:           100,
			TransactionValidDuration: &Duration{Seconds: 120},
			Memo:                     "hi",
			Data: &CryptoDeleteTransactionBody{
				TransferAccountID: &AccountID{AccountNum: 2},
				DeleteAccountID:   &AccountID{AccountNum: 9},
			},
		},
		decoded: &TransactionBody{},
		hex: []string{
			"0a0a0a040801100212021802", // 1 transactionID
			"12021803",                 // 2 nodeAccountID
			"1864",                     // 3 transactionFee
			"22020878",                 // 4 transactionValidDuration
			"32026869",                 // 6 memo
			"62080a02180212021809",     // 12 cryptoDelete
		},
	},
	{
		name: "TransactionBody/CryptoCreateAccount",
		message: &TransactionBody{Data: &CryptoCreateTransactionBody{
			Key:                           &Key{Ed25519: []byte{1, 2, 3}},
			InitialBalance:                1000,
			ReceiverSigRequired:           true,
			AutoRenewPeriod:               &Duration{Seconds: 7_890_000},
			Memo:                          "m",
			MaxAutomaticTokenAssociations: 5,
		}},
		decoded: &TransactionBody{},
		hex: []string{
			"5a18",           // 11 cryptoCreateAccount
			"0a051203010203", // 1 key
			"10e807",         // 2 initialBalance
			"4001",           // 8 receiverSigRequired
			"4a0508d0c8e103", // 9 autoRenewPeriod
			"6a016d",         // 13 memo
			"7005",           // 14 max_automatic_token_associations
		},
	},
	{
		name: "TransactionBody/CryptoTransfer",
		message: &TransactionBody{Data: &CryptoTransferTransactionBody{
			Transfers: &TransferList{AccountAmounts: []*AccountAmount{
				{AccountID: &AccountID{AccountNum: 2}, Amount: -10},
				{AccountID: &AccountID{AccountNum: 3}, Amount: 10},
			}},
		}},
		decoded: &TransactionBody{},
		hex: []string{
			"7212",             // 14 cryptoTransfer
			"0a10",             // 1 transfers
			"0a060a0218021013", // 1 accountAmounts, amount -10 zigzag
			"0a060a0218031014", // 1 accountAmounts, amount 10 zigzag
		},
	},
	{
		name: "TransactionBody/CryptoUpdateAccount",
		message: &TransactionBody{Data: &CryptoUpdateTransactionBody{
			AccountIDToUpdate:             &AccountID{AccountNum: 1001},
			Key:                           &Key{Ed25519: []byte{1, 2, 3}},
			AutoRenewPeriod:               &Duration{Seconds: 7_890_000},
			ExpirationTime:                &Timestamp{Seconds: 1, Nanos: 2},
			ReceiverSigRequired:           &BoolValue{Value: true},
			Memo:                          &StringValue{Value: "m"},
			MaxAutomaticTokenAssociations: &Int32Value{Value: 10},
		}},
		decoded: &TransactionBody{},
		hex: []string{
			"7a26",           // 15 cryptoUpdateAccount
			"120318e907",     // 2 accountIDToUpdate
			"1a051203010203", // 3 key
			"420508d0c8e103", // 8 autoRenewPeriod
			"4a0408011002",   // 9 expirationTime
			"6a020801",       // 13 receiverSigRequiredWrapper
			"72030a016d",     // 14 memo
			"7a02080a",       // 15 max_automatic_token_associations
		},
	},
	{
		name: "Transaction/SignaturePairs",
		message: &Transaction{
			SigMap: &SignatureMap{SigPair: []*SignaturePair{
				{PubKeyPrefix: []byte{0xd7, 0x5a}, Ed25519: []byte{1, 2}},
				{PubKeyPrefix: []byte{0x02, 0x03}, ECDSASecp256k1: []byte{4, 5}},
			}},
			BodyBytes: []byte{0xaa},
		},
		decoded: &Transaction{},
		hex: []string{
			"1a14",                 // 3 sigMap
			"0a080a02d75a1a020102", // 1 sigPair: 1 pubKeyPrefix, 3 ed25519
			"0a080a02020332020405", // 1 sigPair: 1 pubKeyPrefix, 6 ECDSA_secp256k1
			"2201aa",               // 4 bodyBytes
		},
	},
	{
		name:    "SignedTransaction",
		message: &SignedTransaction{BodyBytes: []byte{0xbb}, SigMap: &SignatureMap{}},
		decoded: &SignedTransaction{},
		hex:     []string{"0a01bb", "1200"},
	},
	{
		name: "Query/CryptoGetAccountBalance",
		message: &Query{Data: &CryptoGetAccountBalanceQuery{
			Header:    &QueryHeader{},
			AccountID: &AccountID{AccountNum: 9},
		}},
		decoded: &Query{},
		hex: []string{
			"3a06",     // 7 cryptogetAccountBalance
			"0a00",     // 1 header
			"12021809", // 2 accountID
		},
	},
	{
		name: "Query/CryptoGetInfo",
		message: &Query{Data: &CryptoGetInfoQuery{
			Header: &QueryHeader{
				Payment:      &Transaction{SignedTransactionBytes: []byte{1}},
				ResponseType: ResponseTypeCostAnswer,
			},
			AccountID: &AccountID{AccountNum: 9},
		}},
		decoded: &Query{},
		hex: []string{
			"4a0d",               // 9 cryptoGetInfo
			"0a070a032a01011002", // 1 header: 1 payment, 2 responseType
			"12021809",           // 2 accountID
		},
	},
	{
		name: "Query/TransactionGetReceipt",
		message: &Query{Data: &TransactionGetReceiptQuery{
			Header: &QueryHeader{},
			TransactionID: &TransactionID{
				TransactionValidStart: &Timestamp{Seconds: 1},
				AccountID:             &AccountID{AccountNum: 2},
			},
			IncludeDuplicates:    true,
			IncludeChildReceipts: true,
		}},
		decoded: &Query{},
		hex: []string{
			"7210",                 // 14 transactionGetReceipt
			"0a00",                 // 1 header
			"12080a02080112021802", // 2 transactionID
			"1801",                 // 3 includeDuplicates
			"2001",                 // 4 include_child_receipts
		},
	},
	{
		name: "Response/CryptoGetAccountBalance",
		message: &Response{Data: &CryptoGetAccountBalanceResponse{
			Header:    &ResponseHeader{},
			AccountID: &AccountID{AccountNum: 9},
			Balance:   5000,
		}},
		decoded: &Response{},
		hex: []string{
			"3a09",     // 7 cryptogetAccountBalance
			"0a00",     // 1 header
			"12021809", // 2 accountID
			"188827",   // 3 balance
		},
	},
	{
		name: "Response/CryptoGetInfo",
		message: &Response{Data: &CryptoGetInfoResponse{
			Header: &ResponseHeader{},
			AccountInfo: &AccountInfo{
				AccountID:           &AccountID{AccountNum: 9},
				Key:                 &Key{Ed25519: []byte{1}},
				Balance:             500,
				ReceiverSigRequired: true,
				ExpirationTime:      &Timestamp{Seconds: 10},
				AutoRenewPeriod:     &Duration{Seconds: 7_890_000},
				Memo:                "m",
				LedgerID:            []byte{3},
			},
		}},
		decoded: &Response{},
		hex: []string{
			"4a25",           // 9 cryptoGetInfo
			"0a00",           // 1 header
			"1221",           // 2 accountInfo
			"0a021809",       // 1 accountID
			"3a03120101",     // 7 key
			"40f403",         // 8 balance
			"5801",           // 11 receiverSigRequired
			"6202080a",       // 12 expirationTime
			"6a0508d0c8e103", // 13 autoRenewPeriod
			"8201016d",       // 16 memo
			"a2010103",       // 20 ledger_id
		},
	},
	{
		name: "Response/TransactionGetReceipt",
		message: &Response{Data: &TransactionGetReceiptResponse{
			Header:                       &ResponseHeader{Cost: 5},
			Receipt:                      &TransactionReceipt{Status: 22, AccountID: &AccountID{AccountNum: 1234}},
			DuplicateTransactionReceipts: []*TransactionReceipt{{Status: 11}},
			ChildTransactionReceipts:     []*TransactionReceipt{{Status: 22}},
		}},
		decoded: &Response{},
		hex: []string{
			"7215",               // 14 transactionGetReceipt
			"0a021805",           // 1 header: 3 cost
			"12070816120318d209", // 2 receipt: 1 status, 2 accountID
			"2202080b",           // 4 duplicateTransactionReceipts
			"2a020816",           // 5 child_transaction_receipts
		},
	},
	{
		name:    "TransactionResponse",
		message: &TransactionResponse{NodeTransactionPrecheckCode: 7, Cost: 300},
		decoded: &TransactionResponse{},
		hex:     []string{"0807", "10ac02"},
	},
}

func TestWireVectors(t *testing.T) {
	for _, v := range wireVectors {
		t.Run(v.name, func(t *testing.T) {
			expected := strings.Join(v.hex, "")
			assert.Equal(t, expected, hex.EncodeToString(Marshal(v.message)))

			b, err := hex.DecodeString(expected)
			require.NoError(t, err)
			require.NoError(t, v.decoded.Unmarshal(b))
			assert.Equal(t, v.message, v.decoded)
		})
	}
}
