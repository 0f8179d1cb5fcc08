package hashgraph

import (
	"fmt"

	"github.com/alexdcox/hashgraph-go/key"
)

var (
	ErrEncoding            = key.ErrEncoding
	ErrValidation          = fmt.Errorf("validation failed")
	ErrTransport           = fmt.Errorf("transport failure")
	ErrPrecheckFailed      = fmt.Errorf("precheck failed")
	ErrRetryExhausted      = fmt.Errorf("retry attempts exhausted")
	ErrNotFoundInResponse  = fmt.Errorf("expected field missing from response")
	ErrNoOperator          = fmt.Errorf("client has no operator")
	ErrNoNodes             = fmt.Errorf("network has no nodes")
	ErrTransactionNotFound = fmt.Errorf("transaction not found")
	ErrReceiptNotFound     = fmt.Errorf("receipt not found")
	ErrRpcFailed           = fmt.Errorf("rpc failed")
)

var AllErrors = []error{
	ErrEncoding,
	ErrValidation,
	ErrTransport,
	ErrPrecheckFailed,
	ErrRetryExhausted,
	ErrNotFoundInResponse,
	ErrNoOperator,
	ErrNoNodes,
	ErrTransactionNotFound,
	ErrReceiptNotFound,
	ErrRpcFailed,
}

// PrecheckError is returned when a node rejects a request with a status that
// is neither success nor retryable.
type PrecheckError struct {
	Status        Status
	TransactionID *TransactionID
}

func (e *PrecheckError) Error() string {
	if e.TransactionID != nil {
		return fmt.Sprintf("%s: %s (transaction %s)", ErrPrecheckFailed, e.Status, e.TransactionID)
	}
	return fmt.Sprintf("%s: %s", ErrPrecheckFailed, e.Status)
}

func (e *PrecheckError) Unwrap() error {
	return ErrPrecheckFailed
}

// RetryExhaustedError reports the last status (or transport error) seen
// before the attempt bound was reached.
type RetryExhaustedError struct {
	Attempts int
	Status   Status
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s after %d attempts: %v", ErrRetryExhausted, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s after %d attempts: last status %s", ErrRetryExhausted, e.Attempts, e.Status)
}

func (e *RetryExhaustedError) Unwrap() error {
	return ErrRetryExhausted
}
