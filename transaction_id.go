package hashgraph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
)

// TransactionID pairs the paying account with the instant the transaction
// becomes valid. The pair must be unique per submitted transaction.
type TransactionID struct {
	AccountID  AccountID
	ValidStart time.Time
	Scheduled  bool
	Nonce      int32
}

var now = time.Now

func NewTransactionID(payer AccountID) TransactionID {
	return TransactionID{
		AccountID:  payer,
		ValidStart: now().UTC(),
	}
}

// String renders shard.realm.num@seconds.nanos with optional ?scheduled and
// /nonce suffixes.
func (t TransactionID) String() string {
	s := fmt.Sprintf("%s@%d.%09d", t.AccountID, t.ValidStart.Unix(), t.ValidStart.Nanosecond())
	if t.Scheduled {
		s += "?scheduled"
	}
	if t.Nonce != 0 {
		s += fmt.Sprintf("/%d", t.Nonce)
	}
	return s
}

func TransactionIDFromString(s string) (id TransactionID, err error) {
	s = strings.TrimSpace(s)

	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		nonce, err2 := strconv.ParseInt(s[i+1:], 10, 32)
		if err2 != nil {
			err = errors.Wrapf(ErrValidation, "transaction id nonce: %v", err2)
			return
		}
		id.Nonce = int32(nonce)
		s = s[:i]
	}

	if strings.HasSuffix(s, "?scheduled") {
		id.Scheduled = true
		s = strings.TrimSuffix(s, "?scheduled")
	}

	account, validStart, ok := strings.Cut(s, "@")
	if !ok {
		err = errors.Wrapf(ErrValidation, "transaction id must be account@seconds.nanos: '%s'", s)
		return
	}

	if id.AccountID, err = AccountIDFromString(account); err != nil {
		return
	}

	secondsStr, nanosStr, ok := strings.Cut(validStart, ".")
	if !ok {
		err = errors.Wrapf(ErrValidation, "transaction id valid start must be seconds.nanos: '%s'", validStart)
		return
	}

	seconds, err2 := strconv.ParseInt(secondsStr, 10, 64)
	if err2 != nil {
		err = errors.Wrapf(ErrValidation, "transaction id seconds: %v", err2)
		return
	}

	nanos, err2 := strconv.ParseInt(nanosStr, 10, 32)
	if err2 != nil || nanos < 0 || nanos >= int64(time.Second) {
		err = errors.Wrapf(ErrValidation, "transaction id nanos: '%s'", nanosStr)
		return
	}

	id.ValidStart = time.Unix(seconds, nanos).UTC()
	return
}

func (t TransactionID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TransactionID) UnmarshalText(text []byte) (err error) {
	*t, err = TransactionIDFromString(string(text))
	return
}

func (t TransactionID) toProto() *hapi.TransactionID {
	return &hapi.TransactionID{
		TransactionValidStart: timestampToProto(t.ValidStart),
		AccountID:             t.AccountID.toProto(),
		Scheduled:             t.Scheduled,
		Nonce:                 t.Nonce,
	}
}

func transactionIDFromProto(p *hapi.TransactionID) (id TransactionID, err error) {
	if p == nil {
		err = errors.Wrap(ErrNotFoundInResponse, "transaction id")
		return
	}

	if id.AccountID, err = accountIDFromProto(p.AccountID); err != nil {
		return
	}

	id.ValidStart = timestampFromProto(p.TransactionValidStart)
	id.Scheduled = p.Scheduled
	id.Nonce = p.Nonce
	return
}
