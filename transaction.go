package hashgraph

import (
	"context"
	"sync"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
)

const (
	DefaultValidDuration     = 120 * time.Second
	DefaultMaxTransactionFee = Hbar(100_000_000)
	MaxMemoLength            = 100
)

type TransactionOptions struct {
	Memo          string
	ValidDuration time.Duration
	MaxFee        Hbar
}

func (o *TransactionOptions) setDefaults() {
	if o.ValidDuration == 0 {
		o.ValidDuration = DefaultValidDuration
	}
	if o.MaxFee == 0 {
		o.MaxFee = DefaultMaxTransactionFee
	}
}

func (o *TransactionOptions) validate() error {
	if len(o.Memo) > MaxMemoLength {
		return errors.Wrapf(ErrValidation, "memo exceeds %d bytes", MaxMemoLength)
	}
	if o.ValidDuration < time.Second {
		return errors.Wrapf(ErrValidation, "valid duration must be at least a second, got %s", o.ValidDuration)
	}
	if o.MaxFee < 0 {
		return errors.Wrapf(ErrValidation, "max fee cannot be negative: %s", o.MaxFee)
	}
	return nil
}

type TransactionState uint8

const (
	TransactionStateBuilt TransactionState = iota
	TransactionStateSigned
	TransactionStateSent
)

var TransactionStateStringMap = map[TransactionState]string{
	TransactionStateBuilt:  "built",
	TransactionStateSigned: "signed",
	TransactionStateSent:   "sent",
}

func (s TransactionState) String() string {
	if str, ok := TransactionStateStringMap[s]; ok {
		return str
	}
	return "unknown"
}

// Transaction is a body frozen at construction plus the signatures collected
// over it. The body names the node that was current when it was built and
// is not rebuilt if a retry moves to another node.
type Transaction struct {
	client     *Client
	id         TransactionID
	method     hapi.Method
	node       AccountID
	memo       string
	bodyBytes  []byte
	signatures *SignatureMap
	state      TransactionState
	mu         sync.Mutex
}

// NewTransaction builds and freezes the body for op, paid by the client
// operator. A nil options uses the defaults.
func (c *Client) NewTransaction(op Operation, options *TransactionOptions) (tx *Transaction, err error) {
	if op == nil {
		err = errors.Wrap(ErrValidation, "nil operation")
		return
	}

	opts := TransactionOptions{}
	if options != nil {
		opts = *options
	}
	opts.setDefaults()
	if err = opts.validate(); err != nil {
		return
	}

	operator, err := c.Operator()
	if err != nil {
		return
	}

	data, err := op.TransactionData()
	if err != nil {
		return
	}

	tx = &Transaction{
		client:     c,
		id:         NewTransactionID(operator.AccountID),
		method:     op.Method(),
		node:       c.selector.Current().AccountID,
		memo:       opts.Memo,
		signatures: NewSignatureMap(),
	}

	tx.bodyBytes = hapi.Marshal(&hapi.TransactionBody{
		TransactionID:            tx.id.toProto(),
		NodeAccountID:            tx.node.toProto(),
		TransactionFee:           uint64(opts.MaxFee.Tinybars()),
		TransactionValidDuration: durationToProto(opts.ValidDuration),
		Memo:                     opts.Memo,
		Data:                     data,
	})

	return
}

func (t *Transaction) ID() TransactionID {
	return t.id
}

func (t *Transaction) NodeAccountID() AccountID {
	return t.node
}

func (t *Transaction) Method() hapi.Method {
	return t.method
}

func (t *Transaction) BodyBytes() []byte {
	return append([]byte(nil), t.bodyBytes...)
}

func (t *Transaction) State() TransactionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transaction) Signatures() []SignaturePair {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.signatures.Pairs()
}

// Sign adds a signature from k. Signing twice with the same key is a no-op.
func (t *Transaction) Sign(k *key.PrivateKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TransactionStateSent {
		return errors.Wrapf(ErrValidation, "transaction %s was already submitted", t.id)
	}

	added, err := t.signatures.Sign(k, t.bodyBytes)
	if err != nil {
		return err
	}

	if added {
		t.client.log.Debug().Msgf("transaction %s signed by %s", t.id, k.PublicKey())
	}

	t.state = TransactionStateSigned
	return nil
}

// Bytes returns the wire envelope with the signatures collected so far.
func (t *Transaction) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.envelope()
}

func (t *Transaction) envelope() []byte {
	return hapi.Marshal(&hapi.Transaction{
		BodyBytes: t.bodyBytes,
		SigMap:    t.signatures.toProto(),
	})
}

// Execute signs with the operator key if it has not already signed and
// submits the transaction.
func (t *Transaction) Execute(ctx context.Context) (response *TransactionResponse, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TransactionStateSent {
		err = errors.Wrapf(ErrValidation, "transaction %s was already submitted", t.id)
		return
	}

	operator, err := t.client.Operator()
	if err != nil {
		return
	}

	if _, err = t.signatures.Sign(operator.PrivateKey, t.bodyBytes); err != nil {
		return
	}

	request := t.envelope()

	var cost uint64
	result, err := t.client.executor.Execute(ctx, &Call{
		Method: t.method,
		Request: func(*Node) ([]byte, error) {
			return request, nil
		},
		Status: func(b []byte) (Status, error) {
			r := &hapi.TransactionResponse{}
			if err := r.Unmarshal(b); err != nil {
				return 0, errors.Wrapf(ErrEncoding, "transaction response: %v", err)
			}
			cost = r.Cost
			return Status(r.NodeTransactionPrecheckCode), nil
		},
	})

	var precheck *PrecheckError
	if errors.As(err, &precheck) {
		precheck.TransactionID = &t.id
	}
	if err != nil {
		t.client.log.Error().Msgf("transaction %s failed: %v", t.id, err)
		return
	}

	t.state = TransactionStateSent

	response = &TransactionResponse{
		TransactionID: t.id,
		NodeID:        result.Node.AccountID,
		Status:        result.Status,
		Cost:          HbarFromTinybars(int64(cost)),
		client:        t.client,
	}

	t.client.log.Info().Msgf("transaction %s accepted by node %s", t.id, response.NodeID)

	t.client.record(&TransactionRecord{
		TransactionID: t.id,
		Method:        t.method,
		NodeID:        response.NodeID,
		Memo:          t.memo,
		Status:        response.Status,
		Cost:          response.Cost,
		SubmittedAt:   now().UTC(),
	})

	return
}

// TransactionResponse is the node's acknowledgement. Status is the precheck
// result; the consensus outcome is in the receipt.
type TransactionResponse struct {
	TransactionID TransactionID `json:"transactionId"`
	NodeID        AccountID     `json:"nodeId"`
	Status        Status        `json:"status"`
	Cost          Hbar          `json:"cost"`

	client *Client
}

func (r *TransactionResponse) GetReceipt(ctx context.Context) (*TransactionReceipt, error) {
	if r.client == nil {
		return nil, errors.Wrap(ErrValidation, "response is not bound to a client")
	}
	return r.client.GetTransactionReceipt(ctx, r.TransactionID)
}

// Submit builds, operator-signs and executes op in one step.
func (c *Client) Submit(ctx context.Context, op Operation, options *TransactionOptions) (*TransactionResponse, error) {
	tx, err := c.NewTransaction(op, options)
	if err != nil {
		return nil, err
	}
	return tx.Execute(ctx)
}
