package rpcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	. "github.com/alexdcox/hashgraph-go"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/pkg/errors"
)

func NewRpcClient(hostPort string) (client *RpcClient, err error) {
	if hostPort == "" {
		err = errors.Wrap(ErrValidation, "rpc host/port is required")
		return
	}

	client = &RpcClient{
		HostPort:   hostPort,
		HttpClient: http.DefaultClient,
	}
	return
}

type RpcClient struct {
	HostPort   string
	HttpClient *http.Client
}

func (c *RpcClient) req(method string, path string, body io.Reader) (rsp *http.Response, out []byte, err error) {
	req, err2 := http.NewRequest(method, c.HostPort+path, body)
	if err2 != nil {
		err = errors.WithStack(err2)
		return
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err = c.HttpClient.Do(req)
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	defer rsp.Body.Close()

	out, err = io.ReadAll(rsp.Body)
	if err != nil {
		err = errors.WithStack(err)
		return
	}

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		errRsp := &RpcError{}
		if decodeErr := json.Unmarshal(out, errRsp); decodeErr == nil && errRsp.Err != "" {
			err = errRsp

			if stdErr := errRsp.StdErr(); stdErr != nil {
				err = stdErr
			}

			return
		}

		err = errors.Wrapf(ErrRpcFailed, "rpc response code %d with body %s", rsp.StatusCode, string(out))
		return
	}

	return
}

func (c *RpcClient) reqUnmarshal(method string, path string, body io.Reader, target any) (err error) {
	_, rspBody, err := c.req(method, path, body)
	if err != nil {
		return
	}

	err = json.Unmarshal(rspBody, target)
	if err != nil {
		err = errors.Wrapf(err, "unable to unmarshal body: %s", string(rspBody))
		return
	}

	return
}

func (c *RpcClient) get(path string, target any) (err error) {
	return c.reqUnmarshal(http.MethodGet, path, nil, target)
}

func (c *RpcClient) post(path string, in any, target any) (err error) {
	jsn, err := json.Marshal(in)
	if err != nil {
		err = errors.WithStack(err)
		return
	}

	return c.reqUnmarshal(http.MethodPost, path, bytes.NewReader(jsn), target)
}

type GetStatusOut struct {
	Network     Network       `json:"network"`
	Nodes       []NodeAddress `json:"nodes"`
	Operator    *AccountID    `json:"operator,omitempty"`
	MaxAttempts int           `json:"maxAttempts"`
}

func (c *RpcClient) GetStatus() (out *GetStatusOut, err error) {
	out = &GetStatusOut{}
	err = c.get("/status", out)
	return
}

func (c *RpcClient) GetAccountBalance(account AccountID) (out *AccountBalance, err error) {
	out = &AccountBalance{}
	err = c.get(fmt.Sprintf("/account/%s/balance", account), out)
	return
}

func (c *RpcClient) GetAccountInfo(account AccountID) (out *AccountInfo, err error) {
	out = &AccountInfo{}
	err = c.get(fmt.Sprintf("/account/%s/info", account), out)
	return
}

func (c *RpcClient) GetReceipt(id TransactionID) (out *TransactionReceipt, err error) {
	out = &TransactionReceipt{}
	err = c.get("/receipt/"+url.PathEscape(id.String()), out)
	return
}

func (c *RpcClient) GetTransaction(id TransactionID) (out *TransactionRecord, err error) {
	out = &TransactionRecord{}
	err = c.get("/tx/"+url.PathEscape(id.String()), out)
	return
}

func (c *RpcClient) ListTransactions(payer AccountID, limit int) (out []*TransactionRecord, err error) {
	query := url.Values{}
	query.Set("payer", payer.String())
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	out = []*TransactionRecord{}
	err = c.get("/tx?"+query.Encode(), &out)
	return
}

// SubmitOptions are accepted by every transaction route. Signers are extra
// private keys, hex or DER, that must sign alongside the operator.
type SubmitOptions struct {
	TransactionMemo string   `json:"transactionMemo,omitempty"`
	MaxFee          Hbar     `json:"maxFee,omitempty"`
	Signers         []string `json:"signers,omitempty"`
	WaitForReceipt  bool     `json:"waitForReceipt,omitempty"`
}

type SubmitOut struct {
	TransactionID TransactionID       `json:"transactionId"`
	NodeID        AccountID           `json:"nodeId"`
	Status        Status              `json:"status"`
	Cost          Hbar                `json:"cost"`
	Receipt       *TransactionReceipt `json:"receipt,omitempty"`
}

type AccountCreateIn struct {
	SubmitOptions
	// Key is the new account's public key, hex or DER.
	Key                           string `json:"key"`
	InitialBalance                Hbar   `json:"initialBalance"`
	ReceiverSigRequired           bool   `json:"receiverSigRequired,omitempty"`
	AutoRenewPeriodSeconds        int64  `json:"autoRenewPeriod,omitempty"`
	Memo                          string `json:"memo,omitempty"`
	MaxAutomaticTokenAssociations int32  `json:"maxAutomaticTokenAssociations,omitempty"`
}

func (c *RpcClient) CreateAccount(in *AccountCreateIn) (out *SubmitOut, err error) {
	out = &SubmitOut{}
	err = c.post("/account/create", in, out)
	return
}

type AccountDeleteIn struct {
	SubmitOptions
	AccountID         AccountID `json:"accountId"`
	TransferAccountID AccountID `json:"transferAccountId"`
}

func (c *RpcClient) DeleteAccount(in *AccountDeleteIn) (out *SubmitOut, err error) {
	out = &SubmitOut{}
	err = c.post("/account/delete", in, out)
	return
}

type TransferIn struct {
	SubmitOptions
	Transfers []HbarTransfer `json:"transfers"`
}

func (c *RpcClient) Transfer(in *TransferIn) (out *SubmitOut, err error) {
	out = &SubmitOut{}
	err = c.post("/transfer", in, out)
	return
}

type KeyGenerateIn struct {
	Type key.KeyType `json:"type"`
}

// KeyInspectIn reads a bare 32 byte key as an Ed25519 private seed unless
// Public is set.
type KeyInspectIn struct {
	Key    string `json:"key"`
	Public bool   `json:"public,omitempty"`
}

type KeyOut struct {
	Type          key.KeyType `json:"type"`
	PrivateKey    string      `json:"privateKey,omitempty"`
	PrivateKeyDER string      `json:"privateKeyDer,omitempty"`
	PublicKey     string      `json:"publicKey"`
	PublicKeyDER  string      `json:"publicKeyDer"`
	EvmAddress    string      `json:"evmAddress,omitempty"`
}

func (c *RpcClient) GenerateKey(in *KeyGenerateIn) (out *KeyOut, err error) {
	out = &KeyOut{}
	err = c.post("/tools/key/generate", in, out)
	return
}

func (c *RpcClient) InspectKey(in *KeyInspectIn) (out *KeyOut, err error) {
	out = &KeyOut{}
	err = c.post("/tools/key/inspect", in, out)
	return
}

type RpcError struct {
	Err     string `json:"error"`
	Details string `json:"details"`
	Status  Status `json:"status,omitempty"`
}

func (r *RpcError) Error() string {
	return r.Err
}

// StdErr maps the error string back to one of the package sentinels.
func (r *RpcError) StdErr() error {
	for _, a := range AllErrors {
		if r.Err == a.Error() {
			return errors.Wrap(a, r.Details)
		}
	}
	return nil
}
