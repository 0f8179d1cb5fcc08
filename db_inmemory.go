package hashgraph

import (
	"sync"

	"github.com/pkg/errors"
)

type InMemoryDatabase struct {
	txs      map[string]*TransactionRecord
	order    []string
	receipts map[string]*TransactionReceipt
	mu       sync.RWMutex
}

var _ Database = &InMemoryDatabase{}

func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{
		txs:      make(map[string]*TransactionRecord),
		receipts: make(map[string]*TransactionReceipt),
	}
}

func (db *InMemoryDatabase) AddTransaction(record *TransactionRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := record.TransactionID.String()
	if _, exists := db.txs[id]; !exists {
		db.order = append(db.order, id)
	}

	r := *record
	db.txs[id] = &r
	return nil
}

func (db *InMemoryDatabase) GetTransaction(id TransactionID) (*TransactionRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	record, ok := db.txs[id.String()]
	if !ok {
		return nil, errors.Wrapf(ErrTransactionNotFound, "%s", id)
	}

	r := *record
	return &r, nil
}

func (db *InMemoryDatabase) ListTransactions(payer AccountID, limit int) (records []*TransactionRecord, err error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	records = make([]*TransactionRecord, 0)
	for i := len(db.order) - 1; i >= 0; i-- {
		record := db.txs[db.order[i]]
		if record.TransactionID.AccountID != payer {
			continue
		}

		r := *record
		records = append(records, &r)

		if limit > 0 && len(records) == limit {
			break
		}
	}

	return
}

func (db *InMemoryDatabase) SetReceipt(receipt *TransactionReceipt) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	r := *receipt
	db.receipts[receipt.TransactionID.String()] = &r
	return nil
}

func (db *InMemoryDatabase) GetReceipt(id TransactionID) (*TransactionReceipt, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	receipt, ok := db.receipts[id.String()]
	if !ok {
		return nil, errors.Wrapf(ErrReceiptNotFound, "%s", id)
	}

	r := *receipt
	return &r, nil
}

func (db *InMemoryDatabase) Close() error {
	return nil
}
