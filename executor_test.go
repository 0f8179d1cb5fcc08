package hashgraph

import (
	"context"
	"testing"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, network *mockNetwork, nodeCount int) (*Executor, []*Node) {
	t.Helper()

	var nodes []*Node
	for _, address := range testNodes(nodeCount) {
		nodes = append(nodes, NewNode(address, network.Dialer()))
	}

	selector, err := NewNodeSelector(nodes)
	require.NoError(t, err)

	return NewExecutor(selector, MaxAttempts, nil), nodes
}

func transactionCall() *Call {
	return &Call{
		Method: hapi.MethodCryptoTransfer,
		Request: func(*Node) ([]byte, error) {
			return []byte{0x22, 0x01, 0x00}, nil
		},
		Status: func(b []byte) (Status, error) {
			r := &hapi.TransactionResponse{}
			if err := r.Unmarshal(b); err != nil {
				return 0, errors.Wrap(ErrEncoding, err.Error())
			}
			return Status(r.NodeTransactionPrecheckCode), nil
		},
	}
}

func addresses(calls []mockCall) (out []string) {
	for _, call := range calls {
		out = append(out, call.Address)
	}
	return
}

func TestExecutorRetriesBusyOnNextNode(t *testing.T) {
	network := newMockNetwork(scripted(StatusBusy, StatusBusy, StatusOK))
	executor, nodes := newTestExecutor(t, network, 3)

	result, err := executor.Execute(context.Background(), transactionCall())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, StatusOK, result.Status)
	assert.Same(t, nodes[2], result.Node)
	assert.Equal(t, []string{"node0:50211", "node1:50211", "node2:50211"}, addresses(network.Calls()))
	assert.Same(t, nodes[2], executor.Selector().Current())
}

func TestExecutorFatalStatusStopsImmediately(t *testing.T) {
	network := newMockNetwork(scripted(StatusInvalidSignature))
	executor, _ := newTestExecutor(t, network, 3)

	_, err := executor.Execute(context.Background(), transactionCall())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrecheckFailed)

	var precheck *PrecheckError
	require.True(t, errors.As(err, &precheck))
	assert.Equal(t, StatusInvalidSignature, precheck.Status)
	assert.Len(t, network.Calls(), 1)
}

func TestExecutorUnknownStatusIsFatal(t *testing.T) {
	network := newMockNetwork(scripted(Status(999)))
	executor, _ := newTestExecutor(t, network, 2)

	_, err := executor.Execute(context.Background(), transactionCall())
	var precheck *PrecheckError
	require.True(t, errors.As(err, &precheck))
	assert.Equal(t, Status(999), precheck.Status)
	assert.Len(t, network.Calls(), 1)
}

func TestExecutorExhaustsAttempts(t *testing.T) {
	network := newMockNetwork(scripted(StatusBusy))
	executor, _ := newTestExecutor(t, network, 3)

	_, err := executor.Execute(context.Background(), transactionCall())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)

	var exhausted *RetryExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, MaxAttempts, exhausted.Attempts)
	assert.Equal(t, StatusBusy, exhausted.Status)
	assert.Len(t, network.Calls(), MaxAttempts)
}

func TestExecutorRetriesTransportFailure(t *testing.T) {
	network := newMockNetwork(failing("node0:50211", scripted(StatusOK)))
	executor, nodes := newTestExecutor(t, network, 3)

	result, err := executor.Execute(context.Background(), transactionCall())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Same(t, nodes[1], result.Node)
}

func TestExecutorTransportFailureExhaustion(t *testing.T) {
	network := newMockNetwork(failing("node0:50211", scripted(StatusOK)))
	executor, _ := newTestExecutor(t, network, 1)

	_, err := executor.Execute(context.Background(), transactionCall())

	var exhausted *RetryExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.ErrorIs(t, exhausted.Err, ErrTransport)
	assert.Len(t, network.Calls(), MaxAttempts)
}

func TestExecutorDecodeFailureAborts(t *testing.T) {
	network := newMockNetwork(func(string, hapi.Method, []byte) ([]byte, error) {
		return []byte{0xff}, nil
	})
	executor, _ := newTestExecutor(t, network, 3)

	_, err := executor.Execute(context.Background(), transactionCall())
	assert.ErrorIs(t, err, ErrEncoding)
	assert.Len(t, network.Calls(), 1)
}

func TestExecutorRequestBuildFailureAborts(t *testing.T) {
	network := newMockNetwork(scripted(StatusOK))
	executor, _ := newTestExecutor(t, network, 3)

	call := transactionCall()
	call.Request = func(*Node) ([]byte, error) {
		return nil, ErrNoOperator
	}

	_, err := executor.Execute(context.Background(), call)
	assert.ErrorIs(t, err, ErrNoOperator)
	assert.Empty(t, network.Calls())
}

func TestExecutorHonoursCancelledContext(t *testing.T) {
	network := newMockNetwork(scripted(StatusOK))
	executor, _ := newTestExecutor(t, network, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Execute(ctx, transactionCall())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, network.Calls())
}

func TestExecutorDialsOncePerNode(t *testing.T) {
	network := newMockNetwork(scripted(StatusBusy, StatusBusy, StatusBusy, StatusOK))
	executor, _ := newTestExecutor(t, network, 2)

	_, err := executor.Execute(context.Background(), transactionCall())
	require.NoError(t, err)
	assert.Equal(t, 2, network.dials)
}
