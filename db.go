package hashgraph

import (
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	_ "github.com/mattn/go-sqlite3"
)

// TransactionRecord is what the client knows about a transaction once a node
// has accepted it.
type TransactionRecord struct {
	TransactionID TransactionID `json:"transactionId"`
	Method        hapi.Method   `json:"method"`
	NodeID        AccountID     `json:"nodeId"`
	Memo          string        `json:"memo"`
	Status        Status        `json:"status"`
	Cost          Hbar          `json:"cost"`
	SubmittedAt   time.Time     `json:"submittedAt"`
}

// Database keeps submitted transactions and the receipts fetched for them.
// Lookups that find nothing return ErrTransactionNotFound or
// ErrReceiptNotFound.
type Database interface {
	AddTransaction(record *TransactionRecord) error
	GetTransaction(id TransactionID) (*TransactionRecord, error)
	// ListTransactions returns the most recent transactions paid for by
	// payer, newest first. A limit of zero or less means no limit.
	ListTransactions(payer AccountID, limit int) ([]*TransactionRecord, error)

	SetReceipt(receipt *TransactionReceipt) error
	GetReceipt(id TransactionID) (*TransactionReceipt, error)

	Close() error
}
