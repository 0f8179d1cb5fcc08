package hashgraph

import (
	"sync"
	"time"

	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type ClientOptions struct {
	Network Network
	// Nodes overrides the network preset when set.
	Nodes               []NodeAddress
	Dialer              Dialer
	MaxAttempts         int
	ReceiptPollInterval time.Duration
	// Database records submitted transactions and their receipts. Nothing is
	// recorded when it is nil.
	Database Database
	Logger   *zerolog.Logger
}

func (o *ClientOptions) setDefaults() {
	if o.Network == "" {
		o.Network = defaultClientOptions.Network
	}

	if o.Dialer == nil {
		o.Dialer = GrpcDialer()
	}

	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultClientOptions.MaxAttempts
	}

	if o.Logger == nil {
		o.Logger = ComponentLog("client")
	}
}

var defaultClientOptions = &ClientOptions{
	Network:     NetworkTestNet,
	MaxAttempts: MaxAttempts,
}

type Operator struct {
	AccountID  AccountID
	PrivateKey *key.PrivateKey
}

// Client holds the node list, the retry executor and the operator that pays
// for and signs transactions. It is safe for concurrent use.
type Client struct {
	options  *ClientOptions
	params   *NetworkParams
	selector *NodeSelector
	executor *Executor
	log      *zerolog.Logger
	db       Database

	operator   *Operator
	operatorMu sync.RWMutex
}

func NewClient(options *ClientOptions) (client *Client, err error) {
	if options == nil {
		options = &ClientOptions{}
	}
	options.setDefaults()

	params, err := options.Network.Params()
	if err != nil {
		return
	}

	addresses := options.Nodes
	if len(addresses) == 0 {
		addresses = params.Nodes
	}

	nodes := make([]*Node, 0, len(addresses))
	for _, address := range addresses {
		if err = address.AccountID.Validate(); err != nil {
			return
		}
		nodes = append(nodes, NewNode(address, options.Dialer))
	}

	selector, err := NewNodeSelector(nodes)
	if err != nil {
		return
	}

	client = &Client{
		options:  options,
		params:   params,
		selector: selector,
		executor: NewExecutor(selector, options.MaxAttempts, options.Logger),
		log:      options.Logger,
		db:       options.Database,
	}

	return
}

// ForNetwork returns a client for one of the network presets with default
// options.
func ForNetwork(network Network) (*Client, error) {
	return NewClient(&ClientOptions{Network: network})
}

func (c *Client) SetOperator(account AccountID, privateKey *key.PrivateKey) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if privateKey == nil {
		return errors.Wrap(ErrValidation, "operator private key is required")
	}

	c.operatorMu.Lock()
	defer c.operatorMu.Unlock()

	c.operator = &Operator{AccountID: account, PrivateKey: privateKey}
	c.log.Info().Msgf("operator set to %s (%s key)", account, privateKey.Type())
	return nil
}

func (c *Client) Operator() (*Operator, error) {
	c.operatorMu.RLock()
	defer c.operatorMu.RUnlock()

	if c.operator == nil {
		return nil, errors.WithStack(ErrNoOperator)
	}

	operator := *c.operator
	return &operator, nil
}

func (c *Client) Network() Network {
	return c.params.Name
}

func (c *Client) LedgerID() []byte {
	return append([]byte(nil), c.params.LedgerID...)
}

func (c *Client) Nodes() []*Node {
	return c.selector.Nodes()
}

func (c *Client) Database() Database {
	return c.db
}

func (c *Client) MaxAttempts() int {
	return c.executor.MaxAttempts()
}

// Close closes node connections and the database and zeroes the operator
// key.
func (c *Client) Close() error {
	c.operatorMu.Lock()
	if c.operator != nil {
		c.operator.PrivateKey.Zero()
		c.operator = nil
	}
	c.operatorMu.Unlock()

	err := c.selector.Close()
	if c.db != nil {
		if err2 := c.db.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return err
}

func (c *Client) record(record *TransactionRecord) {
	if c.db == nil {
		return
	}
	if err := c.db.AddTransaction(record); err != nil {
		c.log.Warn().Msgf("failed to record transaction %s: %+v", record.TransactionID, err)
	}
}

func (c *Client) recordReceipt(receipt *TransactionReceipt) {
	if c.db == nil {
		return
	}
	if err := c.db.SetReceipt(receipt); err != nil {
		c.log.Warn().Msgf("failed to record receipt for %s: %+v", receipt.TransactionID, err)
	}
}
