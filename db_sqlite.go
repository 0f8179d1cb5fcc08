package hashgraph

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type SqlLiteDatabase struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Database = &SqlLiteDatabase{}

func NewSqlLiteDatabase(path string) (db *SqlLiteDatabase, err error) {
	log.Info().Msgf("opening sqlite db at: '%s'", path)

	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		err = errors.Wrap(err, "failed to open database")
		return
	}

	if err = sqldb.Ping(); err != nil {
		_ = sqldb.Close()
		err = errors.Wrap(err, "failed to ping database")
		return
	}

	db = &SqlLiteDatabase{db: sqldb}
	if err = db.initTables(); err != nil {
		_ = sqldb.Close()
		err = errors.Wrap(err, "failed to init tables")
		return
	}

	return
}

func (s *SqlLiteDatabase) initTables() (err error) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tx (
			txid TEXT PRIMARY KEY,
			payer TEXT NOT NULL,
			method TEXT NOT NULL,
			node TEXT NOT NULL,
			memo TEXT NOT NULL DEFAULT '',
			status INTEGER NOT NULL,
			cost INTEGER NOT NULL DEFAULT 0,
			submitted_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS receipt (
			txid TEXT PRIMARY KEY,
			status INTEGER NOT NULL,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_payer ON tx(payer, submitted_at)`,
	}

	for i, query := range queries {
		_, err = s.db.Exec(query)
		if err != nil {
			err = errors.Wrapf(err, "failed to execute query: %d", i)
			return
		}
	}

	return
}

func (s *SqlLiteDatabase) AddTransaction(record *TransactionRecord) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO tx (txid, payer, method, node, memo, status, cost, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TransactionID.String(),
		record.TransactionID.AccountID.String(),
		string(record.Method),
		record.NodeID.String(),
		record.Memo,
		int32(record.Status),
		record.Cost.Tinybars(),
		record.SubmittedAt.UnixNano(),
	)

	return errors.WithStack(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRecord(row rowScanner) (record *TransactionRecord, err error) {
	var (
		txid, method, node string
		status             int32
		cost, submittedAt  int64
	)

	record = &TransactionRecord{}
	if err = row.Scan(&txid, &method, &node, &record.Memo, &status, &cost, &submittedAt); err != nil {
		return nil, err
	}

	if record.TransactionID, err = TransactionIDFromString(txid); err != nil {
		return nil, err
	}
	if record.NodeID, err = AccountIDFromString(node); err != nil {
		return nil, err
	}

	record.Method = hapi.Method(method)
	record.Status = Status(status)
	record.Cost = HbarFromTinybars(cost)
	record.SubmittedAt = time.Unix(0, submittedAt).UTC()
	return
}

func (s *SqlLiteDatabase) GetTransaction(id TransactionID) (record *TransactionRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err = scanTransactionRecord(s.db.QueryRow(
		"SELECT txid, method, node, memo, status, cost, submitted_at FROM tx WHERE txid = ?",
		id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.Wrapf(ErrTransactionNotFound, "tx not found by id %s", id)
		return
	}
	err = errors.WithStack(err)

	return
}

func (s *SqlLiteDatabase) ListTransactions(payer AccountID, limit int) (records []*TransactionRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT txid, method, node, memo, status, cost, submitted_at
		FROM tx
		WHERE payer = ?
		ORDER BY submitted_at DESC, rowid DESC
		LIMIT ?`,
		payer.String(), limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	records = make([]*TransactionRecord, 0)
	for rows.Next() {
		var record *TransactionRecord
		if record, err = scanTransactionRecord(rows); err != nil {
			return nil, errors.WithStack(err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return
}

func (s *SqlLiteDatabase) SetReceipt(receipt *TransactionReceipt) (err error) {
	body, err := json.Marshal(receipt)
	if err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO receipt (txid, status, body) VALUES (?, ?, ?)",
		receipt.TransactionID.String(),
		int32(receipt.Status),
		string(body),
	)

	return errors.WithStack(err)
}

func (s *SqlLiteDatabase) GetReceipt(id TransactionID) (receipt *TransactionReceipt, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	err = s.db.QueryRow("SELECT body FROM receipt WHERE txid = ?", id.String()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.Wrapf(ErrReceiptNotFound, "receipt not found by id %s", id)
		return
	} else if err != nil {
		err = errors.WithStack(err)
		return
	}

	receipt = &TransactionReceipt{}
	err = errors.WithStack(json.Unmarshal([]byte(body), receipt))
	return
}

func (s *SqlLiteDatabase) Close() error {
	return errors.WithStack(s.db.Close())
}
