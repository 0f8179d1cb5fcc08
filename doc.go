/*
Package hashgraph is a client for Hedera-style hashgraph ledger nodes. It
builds, signs and submits account transactions and runs the balance, info
and receipt queries over gRPC.

A Client holds the node list and the operator account that pays for and
signs transactions. Requests that a node answers with BUSY or a similar
transient status, or that fail in transport, are retried immediately on the
next node until MaxAttempts is reached.

Keys and signatures live in the key subpackage; the protobuf messages the
nodes speak live in hapi.
*/

package hashgraph
