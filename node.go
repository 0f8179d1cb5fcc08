package hashgraph

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Node is one network endpoint and the account that receives its fees. The
// connection is dialled on first use and reused until Close.
type Node struct {
	Address   string
	AccountID AccountID

	dialer Dialer
	mu     sync.Mutex
	conn   Conn
}

func NewNode(address NodeAddress, dialer Dialer) *Node {
	return &Node{
		Address:   address.Address,
		AccountID: address.AccountID,
		dialer:    dialer,
	}
}

func (n *Node) String() string {
	return n.AccountID.String() + "@" + n.Address
}

// Conn returns the node connection, dialling it if needed. A failed dial is
// not cached.
func (n *Node) Conn(ctx context.Context) (conn Conn, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn != nil {
		return n.conn, nil
	}

	if n.dialer == nil {
		err = errors.Wrapf(ErrTransport, "node %s has no dialer", n)
		return
	}

	conn, err = n.dialer(ctx, n.Address)
	if err != nil {
		err = errors.Wrapf(ErrTransport, "failed to dial %s: %v", n, err)
		return
	}

	n.conn = conn
	return
}

func (n *Node) Close() (err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return
	}

	err = n.conn.Close()
	n.conn = nil
	return errors.WithStack(err)
}
