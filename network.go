package hashgraph

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

func init() {
	MainNetParams.Name = NetworkMainNet
	MainNetParams.LedgerID = []byte{0x00}
	MainNetParams.Nodes = []NodeAddress{
		{Address: "35.237.200.180:50211", AccountID: AccountID{Num: 3}},
		{Address: "35.186.191.247:50211", AccountID: AccountID{Num: 4}},
		{Address: "35.192.2.25:50211", AccountID: AccountID{Num: 5}},
		{Address: "35.199.161.108:50211", AccountID: AccountID{Num: 6}},
		{Address: "35.203.82.240:50211", AccountID: AccountID{Num: 7}},
		{Address: "35.236.5.219:50211", AccountID: AccountID{Num: 8}},
	}

	TestNetParams.Name = NetworkTestNet
	TestNetParams.LedgerID = []byte{0x01}
	TestNetParams.Nodes = []NodeAddress{
		{Address: "0.testnet.hedera.com:50211", AccountID: AccountID{Num: 3}},
		{Address: "1.testnet.hedera.com:50211", AccountID: AccountID{Num: 4}},
		{Address: "2.testnet.hedera.com:50211", AccountID: AccountID{Num: 5}},
		{Address: "3.testnet.hedera.com:50211", AccountID: AccountID{Num: 6}},
	}

	PreviewNetParams.Name = NetworkPreviewNet
	PreviewNetParams.LedgerID = []byte{0x02}
	PreviewNetParams.Nodes = []NodeAddress{
		{Address: "0.previewnet.hedera.com:50211", AccountID: AccountID{Num: 3}},
		{Address: "1.previewnet.hedera.com:50211", AccountID: AccountID{Num: 4}},
		{Address: "2.previewnet.hedera.com:50211", AccountID: AccountID{Num: 5}},
		{Address: "3.previewnet.hedera.com:50211", AccountID: AccountID{Num: 6}},
	}

	LocalNetParams.Name = NetworkLocal
	LocalNetParams.LedgerID = []byte{0x03}
	LocalNetParams.Nodes = []NodeAddress{
		{Address: "127.0.0.1:50211", AccountID: AccountID{Num: 3}},
	}
}

type NodeAddress struct {
	Address   string    `json:"address" yaml:"address"`
	AccountID AccountID `json:"accountId" yaml:"accountId"`
}

type NetworkParams struct {
	Name     Network
	LedgerID []byte
	Nodes    []NodeAddress
}

var MainNetParams = NetworkParams{}
var TestNetParams = NetworkParams{}
var PreviewNetParams = NetworkParams{}
var LocalNetParams = NetworkParams{}

const (
	NetworkMainNet    Network = "mainnet"
	NetworkTestNet    Network = "testnet"
	NetworkPreviewNet Network = "previewnet"
	NetworkLocal      Network = "local"
)

type Network string

func (n Network) Valid() bool {
	return n == NetworkMainNet || n == NetworkTestNet || n == NetworkPreviewNet || n == NetworkLocal
}

func (n Network) Validate() (err error) {
	if !n.Valid() {
		err = errors.Errorf("invalid network: '%s'", n)
	}
	return
}

func (n Network) Params() (params *NetworkParams, err error) {
	if err = n.Validate(); err != nil {
		return
	}

	switch n {
	case NetworkMainNet:
		return &MainNetParams, nil
	case NetworkTestNet:
		return &TestNetParams, nil
	case NetworkPreviewNet:
		return &PreviewNetParams, nil
	case NetworkLocal:
		return &LocalNetParams, nil
	}

	return
}

// NodeSelector holds the ordered node list and the round robin cursor used
// when an attempt has to move to another node. The cursor is atomic so a
// Client may be shared between goroutines.
type NodeSelector struct {
	nodes  []*Node
	cursor atomic.Uint64
}

func NewNodeSelector(nodes []*Node) (selector *NodeSelector, err error) {
	if len(nodes) == 0 {
		err = errors.WithStack(ErrNoNodes)
		return
	}

	selector = &NodeSelector{nodes: nodes}
	return
}

func (s *NodeSelector) Current() *Node {
	return s.nodes[s.cursor.Load()%uint64(len(s.nodes))]
}

func (s *NodeSelector) Advance() *Node {
	next := s.cursor.Add(1)
	return s.nodes[next%uint64(len(s.nodes))]
}

func (s *NodeSelector) Nodes() []*Node {
	return append([]*Node(nil), s.nodes...)
}

func (s *NodeSelector) Close() (err error) {
	for _, node := range s.nodes {
		if err2 := node.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return
}
