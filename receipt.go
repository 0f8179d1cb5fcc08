package hashgraph

import (
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
)

type ExchangeRate struct {
	HbarEquiv      int32     `json:"hbarEquiv"`
	CentEquiv      int32     `json:"centEquiv"`
	ExpirationTime time.Time `json:"expirationTime"`
}

// CentsPerHbar is the rate expressed in US cents for one hbar.
func (r ExchangeRate) CentsPerHbar() float64 {
	if r.HbarEquiv == 0 {
		return 0
	}
	return float64(r.CentEquiv) / float64(r.HbarEquiv)
}

func exchangeRateFromProto(p *hapi.ExchangeRate) *ExchangeRate {
	if p == nil {
		return nil
	}
	rate := &ExchangeRate{HbarEquiv: p.HbarEquiv, CentEquiv: p.CentEquiv}
	if p.ExpirationTime != nil {
		rate.ExpirationTime = time.Unix(p.ExpirationTime.Seconds, 0).UTC()
	}
	return rate
}

// TransactionReceipt is the consensus outcome of a transaction. AccountID is
// set for successful account creations.
type TransactionReceipt struct {
	TransactionID    TransactionID        `json:"transactionId"`
	Status           Status               `json:"status"`
	AccountID        *AccountID           `json:"accountId,omitempty"`
	ExchangeRate     *ExchangeRate        `json:"exchangeRate,omitempty"`
	NextExchangeRate *ExchangeRate        `json:"nextExchangeRate,omitempty"`
	Duplicates       []TransactionReceipt `json:"duplicates,omitempty"`
	Children         []TransactionReceipt `json:"children,omitempty"`
}

func transactionReceiptFromProto(p *hapi.TransactionReceipt, id TransactionID) (receipt TransactionReceipt, err error) {
	if p == nil {
		return
	}

	receipt.TransactionID = id
	receipt.Status = Status(p.Status)

	if p.AccountID != nil {
		var account AccountID
		if account, err = accountIDFromProto(p.AccountID); err != nil {
			return
		}
		receipt.AccountID = &account
	}

	if p.ExchangeRate != nil {
		receipt.ExchangeRate = exchangeRateFromProto(p.ExchangeRate.CurrentRate)
		receipt.NextExchangeRate = exchangeRateFromProto(p.ExchangeRate.NextRate)
	}

	return
}

func transactionReceiptsFromProto(ps []*hapi.TransactionReceipt, id TransactionID) (receipts []TransactionReceipt, err error) {
	for _, p := range ps {
		var r TransactionReceipt
		if r, err = transactionReceiptFromProto(p, id); err != nil {
			return
		}
		receipts = append(receipts, r)
	}
	return
}
