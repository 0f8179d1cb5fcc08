package hashgraph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockCall struct {
	Address string
	Method  hapi.Method
	Request []byte
}

type mockHandler func(address string, method hapi.Method, request []byte) ([]byte, error)

// mockNetwork stands in for the gRPC transport. Every connection it dials
// routes requests to the same handler and records them.
type mockNetwork struct {
	mu      sync.Mutex
	handler mockHandler
	calls   []mockCall
	dials   int
}

func newMockNetwork(handler mockHandler) *mockNetwork {
	return &mockNetwork{handler: handler}
}

func (n *mockNetwork) Dialer() Dialer {
	return func(ctx context.Context, address string) (Conn, error) {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.dials++
		return &mockConn{network: n, address: address}, nil
	}
}

func (n *mockNetwork) Calls() []mockCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mockCall(nil), n.calls...)
}

func (n *mockNetwork) CallsTo(method hapi.Method) (calls []mockCall) {
	for _, call := range n.Calls() {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return
}

type mockConn struct {
	network *mockNetwork
	address string
}

func (c *mockConn) Invoke(ctx context.Context, method hapi.Method, request []byte) ([]byte, error) {
	c.network.mu.Lock()
	c.network.calls = append(c.network.calls, mockCall{
		Address: c.address,
		Method:  method,
		Request: append([]byte(nil), request...),
	})
	handler := c.network.handler
	c.network.mu.Unlock()

	return handler(c.address, method, request)
}

func (c *mockConn) Close() error {
	return nil
}

func testNodes(count int) []NodeAddress {
	nodes := make([]NodeAddress, count)
	for i := range nodes {
		nodes[i] = NodeAddress{
			Address:   fmt.Sprintf("node%d:50211", i),
			AccountID: AccountID{Num: int64(3 + i)},
		}
	}
	return nodes
}

func transactionResponse(status Status, cost uint64) []byte {
	return hapi.Marshal(&hapi.TransactionResponse{NodeTransactionPrecheckCode: int32(status), Cost: cost})
}

func receiptResponse(status Status, account *AccountID) []byte {
	receipt := &hapi.TransactionReceipt{Status: int32(status)}
	if account != nil {
		receipt.AccountID = account.toProto()
	}
	return hapi.Marshal(&hapi.Response{Data: &hapi.TransactionGetReceiptResponse{
		Header:  &hapi.ResponseHeader{},
		Receipt: receipt,
	}})
}

// scripted answers each request with the next status in turn and repeats
// the last one when the script runs out.
func scripted(statuses ...Status) mockHandler {
	var mu sync.Mutex
	i := 0
	return func(string, hapi.Method, []byte) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		status := statuses[len(statuses)-1]
		if i < len(statuses) {
			status = statuses[i]
		}
		i++
		return transactionResponse(status, 0), nil
	}
}

func failing(address string, next mockHandler) mockHandler {
	return func(a string, method hapi.Method, request []byte) ([]byte, error) {
		if a == address {
			return nil, errors.New("connection refused")
		}
		return next(a, method, request)
	}
}

var operatorAccount = AccountID{Num: 2}

func newTestClient(t *testing.T, network *mockNetwork, options *ClientOptions) *Client {
	t.Helper()

	if options == nil {
		options = &ClientOptions{}
	}
	if options.Network == "" {
		options.Network = NetworkLocal
	}
	if len(options.Nodes) == 0 {
		options.Nodes = testNodes(3)
	}
	options.Dialer = network.Dialer()

	client, err := NewClient(options)
	require.NoError(t, err)

	operatorKey, err := key.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	require.NoError(t, client.SetOperator(operatorAccount, operatorKey))

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

// decodeSubmitted unpacks a submitted transaction, checks every signature
// over the body and returns the body and the signing keys.
func decodeSubmitted(t *testing.T, request []byte) (*hapi.TransactionBody, *SignatureMap) {
	t.Helper()

	tx := &hapi.Transaction{}
	require.NoError(t, tx.Unmarshal(request))

	bodyBytes, sigMap, err := tx.Signed()
	require.NoError(t, err)

	signatures, err := signatureMapFromProto(sigMap)
	require.NoError(t, err)
	require.NoError(t, signatures.Verify(bodyBytes))

	body := &hapi.TransactionBody{}
	require.NoError(t, body.Unmarshal(bodyBytes))

	return body, signatures
}
