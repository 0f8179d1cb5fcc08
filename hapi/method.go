package hapi

import (
	"strings"
)

// Method is a fully qualified gRPC method name.
type Method string

const (
	MethodCreateAccount          Method = "/proto.CryptoService/createAccount"
	MethodUpdateAccount          Method = "/proto.CryptoService/updateAccount"
	MethodCryptoDelete           Method = "/proto.CryptoService/cryptoDelete"
	MethodCryptoTransfer         Method = "/proto.CryptoService/cryptoTransfer"
	MethodGetAccountInfo         Method = "/proto.CryptoService/getAccountInfo"
	MethodCryptoGetBalance       Method = "/proto.CryptoService/cryptoGetBalance"
	MethodGetTransactionReceipts Method = "/proto.CryptoService/getTransactionReceipts"
)

type MethodKind uint8

const (
	MethodKindTransaction MethodKind = iota
	MethodKindQuery
)

// MethodKindMap tells a server which request envelope a method carries.
var MethodKindMap = map[Method]MethodKind{
	MethodCreateAccount:          MethodKindTransaction,
	MethodUpdateAccount:          MethodKindTransaction,
	MethodCryptoDelete:           MethodKindTransaction,
	MethodCryptoTransfer:         MethodKindTransaction,
	MethodGetAccountInfo:         MethodKindQuery,
	MethodCryptoGetBalance:       MethodKindQuery,
	MethodGetTransactionReceipts: MethodKindQuery,
}

func (m Method) Service() string {
	s := strings.TrimPrefix(string(m), "/")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return ""
}

func (m Method) Name() string {
	s := string(m)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (m Method) String() string {
	return string(m)
}
