package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/alexdcox/hashgraph-go"
	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/alexdcox/hashgraph-go/rpcclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOperatorSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

var testOperator = AccountID{Num: 2}

// fakeNode answers transactions with precheck and every query with the
// matching canned response.
type fakeNode struct {
	mu       sync.Mutex
	precheck Status
	receipt  Status
	created  *AccountID
	methods  []hapi.Method
}

func (n *fakeNode) Invoke(_ context.Context, method hapi.Method, request []byte) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods = append(n.methods, method)

	switch method {
	case hapi.MethodCryptoGetBalance:
		query := &hapi.Query{}
		if err := query.Unmarshal(request); err != nil {
			return nil, err
		}
		return hapi.Marshal(&hapi.Response{Data: &hapi.CryptoGetAccountBalanceResponse{
			Header:    &hapi.ResponseHeader{},
			AccountID: query.Data.(*hapi.CryptoGetAccountBalanceQuery).AccountID,
			Balance:   5_000,
		}}), nil

	case hapi.MethodGetTransactionReceipts:
		receipt := &hapi.TransactionReceipt{Status: int32(n.receipt)}
		if n.created != nil {
			receipt.AccountID = &hapi.AccountID{AccountNum: n.created.Num}
		}
		return hapi.Marshal(&hapi.Response{Data: &hapi.TransactionGetReceiptResponse{
			Header:  &hapi.ResponseHeader{},
			Receipt: receipt,
		}}), nil
	}

	return hapi.Marshal(&hapi.TransactionResponse{NodeTransactionPrecheckCode: int32(n.precheck)}), nil
}

func (n *fakeNode) Close() error {
	return nil
}

func newTestServer(t *testing.T, node *fakeNode) *HttpRpcServer {
	t.Helper()

	client, err := NewClient(&ClientOptions{
		Network: NetworkLocal,
		Nodes:   []NodeAddress{{Address: "node0:50211", AccountID: AccountID{Num: 3}}},
		Dialer: func(context.Context, string) (Conn, error) {
			return node, nil
		},
		MaxAttempts: 3,
		Database:    NewInMemoryDatabase(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	operatorKey, err := key.ParseEd25519PrivateKeyString(testOperatorSeed)
	require.NoError(t, err)
	require.NoError(t, client.SetOperator(testOperator, operatorKey))

	server, err := NewHttpRpcServer(&_config{RpcHostPort: "127.0.0.1:0"}, client)
	require.NoError(t, err)

	return server
}

func doRequest(t *testing.T, server *HttpRpcServer, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	defer rsp.Body.Close()

	out, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)

	return rsp.StatusCode, out
}

func TestGetStatus(t *testing.T) {
	server := newTestServer(t, &fakeNode{})

	code, body := doRequest(t, server, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, code)

	out := &rpcclient.GetStatusOut{}
	require.NoError(t, json.Unmarshal(body, out))
	assert.Equal(t, NetworkLocal, out.Network)
	assert.Equal(t, 3, out.MaxAttempts)
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, "node0:50211", out.Nodes[0].Address)
	require.NotNil(t, out.Operator)
	assert.Equal(t, testOperator, *out.Operator)
}

func TestGetAccountBalanceAndMetrics(t *testing.T) {
	server := newTestServer(t, &fakeNode{})

	code, body := doRequest(t, server, http.MethodGet, "/account/0.0.77/balance", "")
	require.Equal(t, http.StatusOK, code, string(body))

	balance := &AccountBalance{}
	require.NoError(t, json.Unmarshal(body, balance))
	assert.Equal(t, AccountID{Num: 77}, balance.AccountID)
	assert.Equal(t, Hbar(5_000), balance.Balance)

	code, body = doRequest(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "hashgraph_rpc_attempts_total")

	code, body = doRequest(t, server, http.MethodGet, "/account/not-an-id/balance", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), ErrValidation.Error())
}

func TestPostAccountCreateWithReceipt(t *testing.T) {
	created := AccountID{Num: 1234}
	node := &fakeNode{precheck: StatusOK, receipt: StatusSuccess, created: &created}
	server := newTestServer(t, node)

	newKey, err := key.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	signer, err := key.GenerateECDSAPrivateKey()
	require.NoError(t, err)
	signerDER, err := signer.DERString()
	require.NoError(t, err)

	in, err := json.Marshal(&rpcclient.AccountCreateIn{
		SubmitOptions: rpcclient.SubmitOptions{
			TransactionMemo: "gateway",
			Signers:         []string{signerDER},
			WaitForReceipt:  true,
		},
		Key:            newKey.PublicKey().String(),
		InitialBalance: NewHbar(1),
	})
	require.NoError(t, err)

	code, body := doRequest(t, server, http.MethodPost, "/account/create", string(in))
	require.Equal(t, http.StatusOK, code, string(body))

	out := &rpcclient.SubmitOut{}
	require.NoError(t, json.Unmarshal(body, out))
	assert.Equal(t, testOperator, out.TransactionID.AccountID)
	assert.Equal(t, AccountID{Num: 3}, out.NodeID)
	require.NotNil(t, out.Receipt)
	assert.Equal(t, StatusSuccess, out.Receipt.Status)
	assert.Equal(t, &created, out.Receipt.AccountID)
	assert.Equal(t, []hapi.Method{hapi.MethodCreateAccount, hapi.MethodGetTransactionReceipts}, node.methods)

	txPath := "/tx/" + out.TransactionID.String()

	code, body = doRequest(t, server, http.MethodGet, txPath, "")
	require.Equal(t, http.StatusOK, code, string(body))
	record := &TransactionRecord{}
	require.NoError(t, json.Unmarshal(body, record))
	assert.Equal(t, "gateway", record.Memo)
	assert.Equal(t, hapi.MethodCreateAccount, record.Method)

	code, body = doRequest(t, server, http.MethodGet, "/receipt/"+out.TransactionID.String()+"?cached=true", "")
	require.Equal(t, http.StatusOK, code, string(body))
	receipt := &TransactionReceipt{}
	require.NoError(t, json.Unmarshal(body, receipt))
	assert.Equal(t, StatusSuccess, receipt.Status)

	code, body = doRequest(t, server, http.MethodGet, "/tx?payer=0.0.2&limit=5", "")
	require.Equal(t, http.StatusOK, code)
	var records []*TransactionRecord
	require.NoError(t, json.Unmarshal(body, &records))
	assert.Len(t, records, 1)
}

func TestPostTransferErrors(t *testing.T) {
	node := &fakeNode{precheck: StatusInvalidSignature}
	server := newTestServer(t, node)

	balanced := `{"transfers": [{"accountId": "0.0.2", "amount": -10}, {"accountId": "0.0.9", "amount": 10}]}`

	code, body := doRequest(t, server, http.MethodPost, "/transfer", balanced)
	assert.Equal(t, http.StatusBadGateway, code)

	rpcErr := &rpcclient.RpcError{}
	require.NoError(t, json.Unmarshal(body, rpcErr))
	assert.Equal(t, ErrPrecheckFailed.Error(), rpcErr.Err)
	assert.Equal(t, StatusInvalidSignature, rpcErr.Status)

	code, _ = doRequest(t, server, http.MethodPost, "/transfer", `{"transfers": [{"accountId": "0.0.2", "amount": -10}]}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doRequest(t, server, http.MethodPost, "/transfer", `{"signers": ["zz"], "transfers": []}`)
	assert.Equal(t, http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPost, "/transfer", strings.NewReader(balanced))
	rsp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rsp.StatusCode)

	code, body = doRequest(t, server, http.MethodGet, "/tx/0.0.2@1.000000000", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), ErrTransactionNotFound.Error())
}

func TestKeyTools(t *testing.T) {
	server := newTestServer(t, &fakeNode{})

	code, body := doRequest(t, server, http.MethodPost, "/tools/key/generate", `{"type": "ecdsa"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	generated := &rpcclient.KeyOut{}
	require.NoError(t, json.Unmarshal(body, generated))
	assert.Equal(t, key.KeyTypeECDSASecp256k1, generated.Type)
	assert.Len(t, generated.EvmAddress, 40)
	assert.Len(t, generated.PublicKey, 66)

	code, body = doRequest(t, server, http.MethodPost, "/tools/key/inspect", `{"key": "`+generated.PrivateKeyDER+`"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	inspected := &rpcclient.KeyOut{}
	require.NoError(t, json.Unmarshal(body, inspected))
	assert.Equal(t, generated, inspected)

	code, body = doRequest(t, server, http.MethodPost, "/tools/key/inspect", `{"key": "`+testOperatorSeed+`"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	inspected = &rpcclient.KeyOut{}
	require.NoError(t, json.Unmarshal(body, inspected))
	assert.Equal(t, "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a", inspected.PublicKey)
	assert.Empty(t, inspected.EvmAddress)

	code, body = doRequest(t, server, http.MethodPost, "/tools/key/inspect", `{"key": "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a", "public": true}`)
	require.Equal(t, http.StatusOK, code, string(body))
	inspected = &rpcclient.KeyOut{}
	require.NoError(t, json.Unmarshal(body, inspected))
	assert.Empty(t, inspected.PrivateKey)
	assert.Equal(t, key.KeyTypeEd25519, inspected.Type)

	code, _ = doRequest(t, server, http.MethodPost, "/tools/key/generate", `{"type": "rsa"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRpcClientAgainstServer(t *testing.T) {
	created := AccountID{Num: 99}
	server := newTestServer(t, &fakeNode{precheck: StatusOK, receipt: StatusSuccess, created: &created})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = server.app.Listener(listener)
	}()
	t.Cleanup(func() {
		_ = server.Stop()
	})

	client, err := rpcclient.NewRpcClient("http://" + listener.Addr().String())
	require.NoError(t, err)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, NetworkLocal, status.Network)

	balance, err := client.GetAccountBalance(AccountID{Num: 8})
	require.NoError(t, err)
	assert.Equal(t, Hbar(5_000), balance.Balance)

	out, err := client.Transfer(&rpcclient.TransferIn{
		SubmitOptions: rpcclient.SubmitOptions{WaitForReceipt: true},
		Transfers: []HbarTransfer{
			{AccountID: testOperator, Amount: -25},
			{AccountID: AccountID{Num: 9}, Amount: 25},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Receipt.Status)

	record, err := client.GetTransaction(out.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, hapi.MethodCryptoTransfer, record.Method)

	records, err := client.ListTransactions(testOperator, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	receipt, err := client.GetReceipt(out.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, &created, receipt.AccountID)

	_, err = client.GetTransaction(TransactionID{AccountID: testOperator, ValidStart: time.Unix(1, 0)})
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = client.DeleteAccount(&rpcclient.AccountDeleteIn{AccountID: AccountID{Num: 9}, TransferAccountID: AccountID{Num: 9}})
	assert.ErrorIs(t, err, ErrValidation)

	generated, err := client.GenerateKey(&rpcclient.KeyGenerateIn{Type: key.KeyTypeEd25519})
	require.NoError(t, err)
	inspected, err := client.InspectKey(&rpcclient.KeyInspectIn{Key: generated.PrivateKey})
	require.NoError(t, err)
	assert.Equal(t, generated.PublicKey, inspected.PublicKey)
}
