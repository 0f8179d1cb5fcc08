package hashgraph

import (
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
)

// DefaultAutoRenewPeriod is roughly three months.
const DefaultAutoRenewPeriod = 7_890_000 * time.Second

// Operation supplies the operation-specific part of a transaction body and
// the method it is submitted to.
type Operation interface {
	Method() hapi.Method
	Validate() error
	TransactionData() (hapi.TransactionData, error)
}

type AccountCreate struct {
	Key                           *key.PublicKey
	InitialBalance                Hbar
	ReceiverSigRequired           bool
	AutoRenewPeriod               time.Duration
	Memo                          string
	MaxAutomaticTokenAssociations int32
}

func (o *AccountCreate) Method() hapi.Method {
	return hapi.MethodCreateAccount
}

func (o *AccountCreate) Validate() error {
	if o.Key == nil {
		return errors.Wrap(ErrValidation, "account create requires a key")
	}
	if o.InitialBalance < 0 {
		return errors.Wrapf(ErrValidation, "initial balance cannot be negative: %s", o.InitialBalance)
	}
	if o.AutoRenewPeriod < 0 {
		return errors.Wrapf(ErrValidation, "auto renew period cannot be negative: %s", o.AutoRenewPeriod)
	}
	return nil
}

func (o *AccountCreate) TransactionData() (hapi.TransactionData, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	autoRenew := o.AutoRenewPeriod
	if autoRenew == 0 {
		autoRenew = DefaultAutoRenewPeriod
	}

	return &hapi.CryptoCreateTransactionBody{
		Key:                           publicKeyToProto(o.Key),
		InitialBalance:                uint64(o.InitialBalance.Tinybars()),
		ReceiverSigRequired:           o.ReceiverSigRequired,
		AutoRenewPeriod:               durationToProto(autoRenew),
		Memo:                          o.Memo,
		MaxAutomaticTokenAssociations: o.MaxAutomaticTokenAssociations,
	}, nil
}

// AccountUpdate changes only the fields that are set.
type AccountUpdate struct {
	AccountID                     AccountID
	Key                           *key.PublicKey
	AutoRenewPeriod               *time.Duration
	ExpirationTime                *time.Time
	ReceiverSigRequired           *bool
	Memo                          *string
	MaxAutomaticTokenAssociations *int32
}

func (o *AccountUpdate) Method() hapi.Method {
	return hapi.MethodUpdateAccount
}

func (o *AccountUpdate) Validate() error {
	if o.AccountID.IsZero() {
		return errors.Wrap(ErrValidation, "account update requires an account id")
	}
	if err := o.AccountID.Validate(); err != nil {
		return err
	}
	if o.AutoRenewPeriod != nil && *o.AutoRenewPeriod <= 0 {
		return errors.Wrapf(ErrValidation, "auto renew period must be positive: %s", *o.AutoRenewPeriod)
	}
	return nil
}

func (o *AccountUpdate) TransactionData() (hapi.TransactionData, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	body := &hapi.CryptoUpdateTransactionBody{
		AccountIDToUpdate: o.AccountID.toProto(),
	}
	if o.Key != nil {
		body.Key = publicKeyToProto(o.Key)
	}
	if o.AutoRenewPeriod != nil {
		body.AutoRenewPeriod = durationToProto(*o.AutoRenewPeriod)
	}
	if o.ExpirationTime != nil {
		body.ExpirationTime = timestampToProto(*o.ExpirationTime)
	}
	if o.ReceiverSigRequired != nil {
		body.ReceiverSigRequired = &hapi.BoolValue{Value: *o.ReceiverSigRequired}
	}
	if o.Memo != nil {
		body.Memo = &hapi.StringValue{Value: *o.Memo}
	}
	if o.MaxAutomaticTokenAssociations != nil {
		body.MaxAutomaticTokenAssociations = &hapi.Int32Value{Value: *o.MaxAutomaticTokenAssociations}
	}

	return body, nil
}

// AccountDelete removes AccountID and moves its remaining balance to
// TransferAccountID.
type AccountDelete struct {
	AccountID         AccountID
	TransferAccountID AccountID
}

func (o *AccountDelete) Method() hapi.Method {
	return hapi.MethodCryptoDelete
}

func (o *AccountDelete) Validate() error {
	if o.AccountID.IsZero() || o.TransferAccountID.IsZero() {
		return errors.Wrap(ErrValidation, "account delete requires both the deleted and the transfer account")
	}
	if o.AccountID == o.TransferAccountID {
		return errors.Wrapf(ErrValidation, "cannot transfer the balance of %s to itself", o.AccountID)
	}
	if err := o.AccountID.Validate(); err != nil {
		return err
	}
	return o.TransferAccountID.Validate()
}

func (o *AccountDelete) TransactionData() (hapi.TransactionData, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	return &hapi.CryptoDeleteTransactionBody{
		TransferAccountID: o.TransferAccountID.toProto(),
		DeleteAccountID:   o.AccountID.toProto(),
	}, nil
}

type HbarTransfer struct {
	AccountID AccountID `json:"accountId"`
	Amount    Hbar      `json:"amount"`
}

// Transfer moves hbar between accounts. Amounts must net to zero.
type Transfer struct {
	Transfers []HbarTransfer
}

// AddHbarTransfer merges amount into an existing entry for the same account.
func (o *Transfer) AddHbarTransfer(account AccountID, amount Hbar) *Transfer {
	for i := range o.Transfers {
		if o.Transfers[i].AccountID == account {
			o.Transfers[i].Amount += amount
			return o
		}
	}
	o.Transfers = append(o.Transfers, HbarTransfer{AccountID: account, Amount: amount})
	return o
}

func (o *Transfer) Method() hapi.Method {
	return hapi.MethodCryptoTransfer
}

func (o *Transfer) Validate() error {
	if len(o.Transfers) == 0 {
		return errors.Wrap(ErrValidation, "transfer has no entries")
	}

	var sum Hbar
	for _, t := range o.Transfers {
		if err := t.AccountID.Validate(); err != nil {
			return err
		}
		sum += t.Amount
	}

	if sum != 0 {
		return errors.Wrapf(ErrValidation, "transfer amounts must sum to zero, got %s", sum)
	}

	return nil
}

func (o *Transfer) TransactionData() (hapi.TransactionData, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return transferData(o.Transfers), nil
}

func transferData(transfers []HbarTransfer) *hapi.CryptoTransferTransactionBody {
	list := &hapi.TransferList{}
	for _, t := range transfers {
		list.AccountAmounts = append(list.AccountAmounts, &hapi.AccountAmount{
			AccountID: t.AccountID.toProto(),
			Amount:    t.Amount.Tinybars(),
		})
	}
	return &hapi.CryptoTransferTransactionBody{Transfers: list}
}
