package hashgraph

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDatabase(t *testing.T) {
	testDatabase(t, NewInMemoryDatabase())
}

func TestSqlLiteDatabase(t *testing.T) {
	db, err := NewSqlLiteDatabase(filepath.Join(t.TempDir(), "hashgraph-test.db"))
	require.NoError(t, err)
	defer db.Close()

	testDatabase(t, db)
}

func testDatabase(t *testing.T, db Database) {
	payer := AccountID{Num: 2}
	other := AccountID{Num: 50}
	base := time.Unix(1_700_000_000, 0).UTC()

	record := func(account AccountID, offset int) *TransactionRecord {
		return &TransactionRecord{
			TransactionID: TransactionID{AccountID: account, ValidStart: base.Add(time.Duration(offset) * time.Second)},
			Method:        hapi.MethodCryptoTransfer,
			NodeID:        AccountID{Num: 3},
			Memo:          "memo",
			Status:        StatusOK,
			Cost:          Hbar(offset),
			SubmittedAt:   base.Add(time.Duration(offset) * time.Second),
		}
	}

	// Transactions

	first := record(payer, 1)
	_, err := db.GetTransaction(first.TransactionID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	require.NoError(t, db.AddTransaction(first))
	require.NoError(t, db.AddTransaction(record(other, 2)))
	require.NoError(t, db.AddTransaction(record(payer, 3)))
	require.NoError(t, db.AddTransaction(record(payer, 4)))

	got, err := db.GetTransaction(first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	records, err := db.ListTransactions(payer, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Hbar(4), records[0].Cost)
	assert.Equal(t, Hbar(1), records[2].Cost)

	records, err = db.ListTransactions(payer, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Hbar(3), records[1].Cost)

	records, err = db.ListTransactions(AccountID{Num: 999}, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Receipts

	_, err = db.GetReceipt(first.TransactionID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	created := AccountID{Num: 1234}
	receipt := &TransactionReceipt{
		TransactionID: first.TransactionID,
		Status:        StatusSuccess,
		AccountID:     &created,
	}
	require.NoError(t, db.SetReceipt(receipt))

	storedReceipt, err := db.GetReceipt(first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, receipt, storedReceipt)

	receipt.Status = StatusInvalidSignature
	require.NoError(t, db.SetReceipt(receipt))

	storedReceipt, err = db.GetReceipt(first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalidSignature, storedReceipt.Status)
}
