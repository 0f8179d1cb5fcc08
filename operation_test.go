package hashgraph

import (
	"testing"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreateData(t *testing.T) {
	k := newAccountKey(t)

	data, err := (&AccountCreate{Key: k.PublicKey()}).TransactionData()
	require.NoError(t, err)

	create := data.(*hapi.CryptoCreateTransactionBody)
	assert.Equal(t, int64(7_890_000), create.AutoRenewPeriod.Seconds)
	assert.Equal(t, uint64(0), create.InitialBalance)

	data, err = (&AccountCreate{Key: k.PublicKey(), AutoRenewPeriod: time.Hour, ReceiverSigRequired: true}).TransactionData()
	require.NoError(t, err)

	create = data.(*hapi.CryptoCreateTransactionBody)
	assert.Equal(t, int64(3600), create.AutoRenewPeriod.Seconds)
	assert.True(t, create.ReceiverSigRequired)

	_, err = (&AccountCreate{Key: k.PublicKey(), InitialBalance: -1}).TransactionData()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountUpdateSetsOnlyGivenFields(t *testing.T) {
	memo := ""
	maxAssociations := int32(4)

	data, err := (&AccountUpdate{
		AccountID:                     AccountID{Num: 1001},
		Memo:                          &memo,
		MaxAutomaticTokenAssociations: &maxAssociations,
	}).TransactionData()
	require.NoError(t, err)

	update := data.(*hapi.CryptoUpdateTransactionBody)
	assert.Equal(t, &hapi.StringValue{}, update.Memo)
	assert.Equal(t, &hapi.Int32Value{Value: 4}, update.MaxAutomaticTokenAssociations)
	assert.Nil(t, update.Key)
	assert.Nil(t, update.ReceiverSigRequired)
	assert.Nil(t, update.AutoRenewPeriod)
	assert.Nil(t, update.ExpirationTime)

	_, err = (&AccountUpdate{}).TransactionData()
	assert.ErrorIs(t, err, ErrValidation)

	zero := time.Duration(0)
	_, err = (&AccountUpdate{AccountID: AccountID{Num: 1001}, AutoRenewPeriod: &zero}).TransactionData()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountDeleteValidation(t *testing.T) {
	assert.NoError(t, (&AccountDelete{AccountID: AccountID{Num: 1001}, TransferAccountID: AccountID{Num: 2}}).Validate())
	assert.ErrorIs(t, (&AccountDelete{AccountID: AccountID{Num: 1001}}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&AccountDelete{AccountID: AccountID{Num: 1001}, TransferAccountID: AccountID{Num: 1001}}).Validate(), ErrValidation)
}

func TestTransferMustBalance(t *testing.T) {
	transfer := &Transfer{}
	assert.ErrorIs(t, transfer.Validate(), ErrValidation)

	transfer.
		AddHbarTransfer(AccountID{Num: 2}, NewHbar(-3)).
		AddHbarTransfer(AccountID{Num: 1001}, NewHbar(1)).
		AddHbarTransfer(AccountID{Num: 1001}, NewHbar(1))
	assert.ErrorIs(t, transfer.Validate(), ErrValidation)
	require.Len(t, transfer.Transfers, 2)
	assert.Equal(t, NewHbar(2), transfer.Transfers[1].Amount)

	transfer.AddHbarTransfer(AccountID{Num: 1002}, NewHbar(1))
	require.NoError(t, transfer.Validate())

	data, err := transfer.TransactionData()
	require.NoError(t, err)

	amounts := data.(*hapi.CryptoTransferTransactionBody).Transfers.AccountAmounts
	require.Len(t, amounts, 3)
	assert.Equal(t, int64(-300_000_000), amounts[0].Amount)
	assert.Equal(t, int64(1002), amounts[2].AccountID.AccountNum)
}
