package hashgraph

import (
	"context"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MaxAttempts bounds the node round trips made for a single request.
const MaxAttempts = 10

// Call describes one unary request. Request is invoked once per attempt with
// the node that will receive it; Status extracts the header status from the
// raw response.
type Call struct {
	Method  hapi.Method
	Request func(node *Node) ([]byte, error)
	Status  func(response []byte) (Status, error)
}

type CallResult struct {
	Response []byte
	Status   Status
	Node     *Node
	Attempts int
}

// Executor runs a Call against the current node and moves to the next node
// whenever the status is retryable or the transport fails. Retries are
// immediate.
type Executor struct {
	selector    *NodeSelector
	maxAttempts int
	log         *zerolog.Logger
}

func NewExecutor(selector *NodeSelector, maxAttempts int, logger *zerolog.Logger) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	if logger == nil {
		logger = ComponentLog("executor")
	}
	return &Executor{
		selector:    selector,
		maxAttempts: maxAttempts,
		log:         logger,
	}
}

func (e *Executor) Selector() *NodeSelector {
	return e.selector
}

func (e *Executor) MaxAttempts() int {
	return e.maxAttempts
}

// Execute returns a result only when the node answered OK. Fatal statuses
// produce a *PrecheckError, running out of attempts a *RetryExhaustedError.
func (e *Executor) Execute(ctx context.Context, call *Call) (result *CallResult, err error) {
	var (
		lastStatus = StatusUnknown
		lastErr    error
		method     = call.Method.Name()
	)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			err = errors.WithStack(err)
			return
		}

		node := e.selector.Current()

		e.log.Debug().Msgf("%s attempt %d/%d to node %s", method, attempt, e.maxAttempts, node)

		request, err2 := call.Request(node)
		if err2 != nil {
			err = errors.Wrapf(err2, "failed to build %s request", method)
			return
		}

		response, err2 := e.invoke(ctx, node, call.Method, request)
		if err2 != nil {
			if ctx.Err() != nil {
				err = errors.WithStack(ctx.Err())
				return
			}

			metricAttempts.WithLabelValues(method, "TRANSPORT_ERROR").Inc()
			e.log.Warn().Msgf("%s to node %s failed: %v", method, node, err2)

			lastErr = err2
			e.retry(method)
			continue
		}

		status, err2 := call.Status(response)
		if err2 != nil {
			err = errors.Wrapf(err2, "failed to decode %s response from node %s", method, node)
			return
		}

		metricAttempts.WithLabelValues(method, status.String()).Inc()

		result = &CallResult{
			Response: response,
			Status:   status,
			Node:     node,
			Attempts: attempt,
		}

		switch {
		case status == StatusOK:
			return

		case status.Retryable():
			e.log.Warn().Msgf("%s node %s returned %s, retrying", method, node, status)
			lastStatus, lastErr = status, nil
			e.retry(method)

		default:
			err = &PrecheckError{Status: status}
			return
		}
	}

	err = &RetryExhaustedError{
		Attempts: e.maxAttempts,
		Status:   lastStatus,
		Err:      lastErr,
	}

	return
}

func (e *Executor) invoke(ctx context.Context, node *Node, method hapi.Method, request []byte) (response []byte, err error) {
	conn, err := node.Conn(ctx)
	if err != nil {
		return
	}

	start := time.Now()
	response, err = conn.Invoke(ctx, method, request)
	metricDuration.WithLabelValues(method.Name()).Observe(time.Since(start).Seconds())

	if err != nil && !errors.Is(err, ErrTransport) {
		err = errors.Wrap(ErrTransport, err.Error())
	}

	return
}

func (e *Executor) retry(method string) {
	metricRetries.WithLabelValues(method).Inc()
	e.selector.Advance()
}
