package hashgraph

import (
	"context"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
)

const (
	// QueryPaymentAmount is sent to the node with every paid query.
	QueryPaymentAmount = Hbar(10)
	QueryPaymentFee    = Hbar(100_000_000)
)

// query runs one request through the executor. Paid queries get a fresh
// payment transaction for the node each attempt lands on.
func (c *Client) query(ctx context.Context, method hapi.Method, paid bool, build func(header *hapi.QueryHeader) hapi.QueryData) (response *hapi.Response, err error) {
	var operator *Operator
	if paid {
		if operator, err = c.Operator(); err != nil {
			return
		}
	}

	_, err = c.executor.Execute(ctx, &Call{
		Method: method,
		Request: func(node *Node) ([]byte, error) {
			header := &hapi.QueryHeader{ResponseType: hapi.ResponseTypeAnswerOnly}
			if paid {
				payment, err := queryPayment(operator, node.AccountID)
				if err != nil {
					return nil, err
				}
				header.Payment = payment
			}
			return hapi.Marshal(&hapi.Query{Data: build(header)}), nil
		},
		Status: func(b []byte) (Status, error) {
			response = &hapi.Response{}
			if err := response.Unmarshal(b); err != nil {
				return 0, errors.Wrapf(ErrEncoding, "query response: %v", err)
			}
			header, err := response.Header()
			if err != nil {
				return 0, errors.Wrap(ErrNotFoundInResponse, err.Error())
			}
			return Status(header.NodeTransactionPrecheckCode), nil
		},
	})

	return
}

// queryPayment builds a transfer of QueryPaymentAmount from the operator to
// node, signed by the operator and wrapped as a SignedTransaction.
func queryPayment(operator *Operator, node AccountID) (*hapi.Transaction, error) {
	id := NewTransactionID(operator.AccountID)

	bodyBytes := hapi.Marshal(&hapi.TransactionBody{
		TransactionID:            id.toProto(),
		NodeAccountID:            node.toProto(),
		TransactionFee:           uint64(QueryPaymentFee.Tinybars()),
		TransactionValidDuration: durationToProto(DefaultValidDuration),
		Data: transferData([]HbarTransfer{
			{AccountID: operator.AccountID, Amount: QueryPaymentAmount.Negated()},
			{AccountID: node, Amount: QueryPaymentAmount},
		}),
	})

	signatures := NewSignatureMap()
	if _, err := signatures.Sign(operator.PrivateKey, bodyBytes); err != nil {
		return nil, err
	}

	return &hapi.Transaction{
		SignedTransactionBytes: hapi.Marshal(&hapi.SignedTransaction{
			BodyBytes: bodyBytes,
			SigMap:    signatures.toProto(),
		}),
	}, nil
}

type AccountBalance struct {
	AccountID AccountID `json:"accountId"`
	Balance   Hbar      `json:"balance"`
}

// GetAccountBalance is free and does not need an operator.
func (c *Client) GetAccountBalance(ctx context.Context, account AccountID) (balance *AccountBalance, err error) {
	if err = account.Validate(); err != nil {
		return
	}

	response, err := c.query(ctx, hapi.MethodCryptoGetBalance, false, func(header *hapi.QueryHeader) hapi.QueryData {
		return &hapi.CryptoGetAccountBalanceQuery{Header: header, AccountID: account.toProto()}
	})
	if err != nil {
		return
	}

	data, ok := response.Data.(*hapi.CryptoGetAccountBalanceResponse)
	if !ok {
		err = errors.Wrapf(ErrNotFoundInResponse, "expected balance response, got %T", response.Data)
		return
	}

	balance = &AccountBalance{
		AccountID: account,
		Balance:   HbarFromTinybars(int64(data.Balance)),
	}
	if data.AccountID != nil {
		if balance.AccountID, err = accountIDFromProto(data.AccountID); err != nil {
			return nil, err
		}
	}

	return
}

type AccountInfo struct {
	AccountID                     AccountID      `json:"accountId"`
	ContractAccountID             string         `json:"contractAccountId"`
	Deleted                       bool           `json:"deleted"`
	Key                           *key.PublicKey `json:"key,omitempty"`
	Balance                       Hbar           `json:"balance"`
	ReceiverSigRequired           bool           `json:"receiverSigRequired"`
	ExpirationTime                time.Time      `json:"expirationTime"`
	AutoRenewPeriod               time.Duration  `json:"autoRenewPeriod"`
	Memo                          string         `json:"memo"`
	OwnedNfts                     int64          `json:"ownedNfts"`
	MaxAutomaticTokenAssociations int32          `json:"maxAutomaticTokenAssociations"`
	LedgerID                      []byte         `json:"ledgerId,omitempty"`
}

// GetAccountInfo is a paid query and needs an operator.
func (c *Client) GetAccountInfo(ctx context.Context, account AccountID) (info *AccountInfo, err error) {
	if err = account.Validate(); err != nil {
		return
	}

	response, err := c.query(ctx, hapi.MethodGetAccountInfo, true, func(header *hapi.QueryHeader) hapi.QueryData {
		return &hapi.CryptoGetInfoQuery{Header: header, AccountID: account.toProto()}
	})
	if err != nil {
		return
	}

	data, ok := response.Data.(*hapi.CryptoGetInfoResponse)
	if !ok || data.AccountInfo == nil {
		err = errors.Wrapf(ErrNotFoundInResponse, "expected account info, got %T", response.Data)
		return
	}

	p := data.AccountInfo
	info = &AccountInfo{
		ContractAccountID:             p.ContractAccountID,
		Deleted:                       p.Deleted,
		Balance:                       HbarFromTinybars(int64(p.Balance)),
		ReceiverSigRequired:           p.ReceiverSigRequired,
		ExpirationTime:                timestampFromProto(p.ExpirationTime),
		AutoRenewPeriod:               durationFromProto(p.AutoRenewPeriod),
		Memo:                          p.Memo,
		OwnedNfts:                     p.OwnedNfts,
		MaxAutomaticTokenAssociations: p.MaxAutomaticTokenAssociations,
		LedgerID:                      p.LedgerID,
	}

	if info.AccountID, err = accountIDFromProto(p.AccountID); err != nil {
		return nil, err
	}
	if info.Key, err = publicKeyFromProto(p.Key); err != nil {
		return nil, err
	}

	return
}

type TransactionReceiptQuery struct {
	TransactionID     TransactionID
	IncludeDuplicates bool
	IncludeChildren   bool
}

// GetTransactionReceipt polls until the receipt leaves a retryable status.
func (c *Client) GetTransactionReceipt(ctx context.Context, id TransactionID) (*TransactionReceipt, error) {
	return c.QueryTransactionReceipt(ctx, &TransactionReceiptQuery{TransactionID: id})
}

// QueryTransactionReceipt is free. While the receipt status is retryable it
// is requested again, up to the client attempt bound; if the bound is hit
// the last receipt is returned together with a *RetryExhaustedError.
func (c *Client) QueryTransactionReceipt(ctx context.Context, q *TransactionReceiptQuery) (receipt *TransactionReceipt, err error) {
	if err = q.TransactionID.AccountID.Validate(); err != nil {
		return
	}

	maxAttempts := c.executor.MaxAttempts()

	for attempt := 1; ; attempt++ {
		var response *hapi.Response
		response, err = c.query(ctx, hapi.MethodGetTransactionReceipts, false, func(header *hapi.QueryHeader) hapi.QueryData {
			return &hapi.TransactionGetReceiptQuery{
				Header:               header,
				TransactionID:        q.TransactionID.toProto(),
				IncludeDuplicates:    q.IncludeDuplicates,
				IncludeChildReceipts: q.IncludeChildren,
			}
		})
		if err != nil {
			return
		}

		if receipt, err = receiptFromResponse(response, q.TransactionID); err != nil {
			return
		}

		if !receipt.Status.Retryable() {
			c.log.Debug().Msgf("receipt for %s: %s", q.TransactionID, receipt.Status)
			c.recordReceipt(receipt)
			return
		}

		if attempt >= maxAttempts {
			err = &RetryExhaustedError{Attempts: attempt, Status: receipt.Status}
			return
		}

		c.log.Debug().Msgf("receipt for %s is %s, polling again", q.TransactionID, receipt.Status)

		if err = c.wait(ctx, c.options.ReceiptPollInterval); err != nil {
			return
		}
	}
}

func receiptFromResponse(response *hapi.Response, id TransactionID) (receipt *TransactionReceipt, err error) {
	data, ok := response.Data.(*hapi.TransactionGetReceiptResponse)
	if !ok || data.Receipt == nil {
		err = errors.Wrapf(ErrNotFoundInResponse, "expected transaction receipt, got %T", response.Data)
		return
	}

	r, err := transactionReceiptFromProto(data.Receipt, id)
	if err != nil {
		return
	}

	if r.Duplicates, err = transactionReceiptsFromProto(data.DuplicateTransactionReceipts, id); err != nil {
		return
	}
	if r.Children, err = transactionReceiptsFromProto(data.ChildTransactionReceipts, id); err != nil {
		return
	}

	receipt = &r
	return
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return errors.WithStack(ctx.Err())
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case <-timer.C:
		return nil
	}
}
