package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	. "github.com/alexdcox/hashgraph-go"
	"github.com/alexdcox/hashgraph-go/key"
	"github.com/alexdcox/hashgraph-go/rpcclient"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"
)

func NewHttpRpcServer(config *_config, client *Client) (server *HttpRpcServer, err error) {
	if client == nil {
		err = errors.Wrap(ErrValidation, "http/rpc server requires a client")
		return
	}

	server = &HttpRpcServer{
		config: config,
		client: client,
	}

	server.app = fiber.New(fiber.Config{
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	server.app.Use(recover.New())
	server.app.Use(func(c *fiber.Ctx) error {
		rsp := c.Next()
		log.Info().Msgf("http response: [%d] %s - %s %s", c.Response().StatusCode(), c.IP(), c.Method(), c.Path())
		return rsp
	})

	server.app.Get("/status", server.getStatus)
	server.app.Get("/account/:id/balance", server.getAccountBalance)
	server.app.Get("/account/:id/info", server.getAccountInfo)
	server.app.Post("/account/create", server.postAccountCreate)
	server.app.Post("/account/delete", server.postAccountDelete)
	server.app.Post("/transfer", server.postTransfer)
	server.app.Get("/receipt/:txid", server.getReceipt)
	server.app.Get("/tx", server.getTransactions)
	server.app.Get("/tx/:txid", server.getTransaction)
	server.app.Post("/tools/key/generate", server.postKeyGenerate)
	server.app.Post("/tools/key/inspect", server.postKeyInspect)
	server.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return
}

type HttpRpcServer struct {
	app    *fiber.App
	client *Client
	config *_config
}

func (s *HttpRpcServer) Start() (err error) {
	log.Info().Msgf("http/rpc server listening on %s", s.config.RpcHostPort)

	err = errors.WithStack(s.app.Listen(s.config.RpcHostPort))

	return
}

func (s *HttpRpcServer) Stop() (err error) {
	return errors.WithStack(s.app.Shutdown())
}

var errorStatusCodes = []struct {
	err        error
	statusCode int
}{
	{ErrTransactionNotFound, http.StatusNotFound},
	{ErrReceiptNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrEncoding, http.StatusBadRequest},
	{ErrNoOperator, http.StatusBadRequest},
	{ErrPrecheckFailed, http.StatusBadGateway},
	{ErrRetryExhausted, http.StatusBadGateway},
	{ErrTransport, http.StatusBadGateway},
	{ErrNotFoundInResponse, http.StatusBadGateway},
}

func (s *HttpRpcServer) errorResponse(c *fiber.Ctx, err error) error {
	statusCode := http.StatusInternalServerError

	reportedErr := err

	for _, match := range errorStatusCodes {
		if errors.Is(err, match.err) {
			reportedErr = match.err
			statusCode = match.statusCode
			break
		}
	}

	rsp := map[string]any{
		"error":   reportedErr.Error(),
		"details": fmt.Sprintf("%+v", err),
	}

	var precheck *PrecheckError
	var exhausted *RetryExhaustedError
	if errors.As(err, &precheck) {
		rsp["status"] = precheck.Status
	} else if errors.As(err, &exhausted) && exhausted.Err == nil {
		rsp["status"] = exhausted.Status
	}

	return c.Status(statusCode).JSON(rsp)
}

func (s *HttpRpcServer) unmarshalJson(c *fiber.Ctx, target any) (err error) {
	if c.Get("Content-Type") != "application/json" {
		return errors.Wrap(ErrValidation, "expected content type application/json")
	}

	if err = c.BodyParser(target); err != nil {
		err = errors.Wrapf(ErrValidation, "invalid request body: %v", err)
	}

	return
}

func (s *HttpRpcServer) getStatus(c *fiber.Ctx) error {
	out := &rpcclient.GetStatusOut{
		Network:     s.client.Network(),
		MaxAttempts: s.client.MaxAttempts(),
	}

	for _, node := range s.client.Nodes() {
		out.Nodes = append(out.Nodes, NodeAddress{Address: node.Address, AccountID: node.AccountID})
	}

	if operator, err := s.client.Operator(); err == nil {
		out.Operator = &operator.AccountID
	}

	return c.JSON(out)
}

func (s *HttpRpcServer) accountParam(c *fiber.Ctx) (AccountID, error) {
	id, err := AccountIDFromString(c.Params("id"))
	if err != nil {
		return id, errors.Wrap(ErrValidation, err.Error())
	}
	return id, nil
}

func (s *HttpRpcServer) transactionParam(c *fiber.Ctx) (TransactionID, error) {
	id, err := TransactionIDFromString(c.Params("txid"))
	if err != nil {
		return id, errors.Wrap(ErrValidation, err.Error())
	}
	return id, nil
}

func (s *HttpRpcServer) getAccountBalance(c *fiber.Ctx) error {
	account, err := s.accountParam(c)
	if err != nil {
		return s.errorResponse(c, err)
	}

	balance, err := s.client.GetAccountBalance(c.UserContext(), account)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(balance)
}

func (s *HttpRpcServer) getAccountInfo(c *fiber.Ctx) error {
	account, err := s.accountParam(c)
	if err != nil {
		return s.errorResponse(c, err)
	}

	info, err := s.client.GetAccountInfo(c.UserContext(), account)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(info)
}

// getReceipt asks the network unless ?cached=true, which only reads the
// database.
func (s *HttpRpcServer) getReceipt(c *fiber.Ctx) error {
	id, err := s.transactionParam(c)
	if err != nil {
		return s.errorResponse(c, err)
	}

	if c.QueryBool("cached") {
		db := s.client.Database()
		if db == nil {
			return s.errorResponse(c, errors.Wrap(ErrReceiptNotFound, "no database configured"))
		}

		receipt, err := db.GetReceipt(id)
		if err != nil {
			return s.errorResponse(c, err)
		}

		return c.JSON(receipt)
	}

	receipt, err := s.client.QueryTransactionReceipt(c.UserContext(), &TransactionReceiptQuery{
		TransactionID:     id,
		IncludeDuplicates: c.QueryBool("duplicates"),
		IncludeChildren:   c.QueryBool("children"),
	})
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(receipt)
}

func (s *HttpRpcServer) getTransaction(c *fiber.Ctx) error {
	id, err := s.transactionParam(c)
	if err != nil {
		return s.errorResponse(c, err)
	}

	db := s.client.Database()
	if db == nil {
		return s.errorResponse(c, errors.Wrap(ErrTransactionNotFound, "no database configured"))
	}

	record, err := db.GetTransaction(id)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(record)
}

func (s *HttpRpcServer) getTransactions(c *fiber.Ctx) error {
	payer, err := AccountIDFromString(c.Query("payer"))
	if err != nil {
		return s.errorResponse(c, errors.Wrap(ErrValidation, err.Error()))
	}

	records := []*TransactionRecord{}

	if db := s.client.Database(); db != nil {
		if records, err = db.ListTransactions(payer, c.QueryInt("limit", 0)); err != nil {
			return s.errorResponse(c, err)
		}
	}

	return c.JSON(records)
}

type submitRequest struct {
	options        *TransactionOptions
	signers        []*key.PrivateKey
	waitForReceipt bool
}

// parseSubmitRequest reads the fields shared by every transaction route.
func parseSubmitRequest(body []byte) (req *submitRequest, err error) {
	parsed := gjson.ParseBytes(body)

	req = &submitRequest{
		options: &TransactionOptions{
			Memo:   parsed.Get("transactionMemo").String(),
			MaxFee: HbarFromTinybars(parsed.Get("maxFee").Int()),
		},
		waitForReceipt: parsed.Get("waitForReceipt").Bool(),
	}

	for i, signer := range parsed.Get("signers").Array() {
		k, err2 := key.ParsePrivateKeyString(signer.String())
		if err2 != nil {
			req.zero()
			err = errors.Wrapf(err2, "signer %d", i)
			return nil, err
		}
		req.signers = append(req.signers, k)
	}

	return
}

func (r *submitRequest) zero() {
	for _, k := range r.signers {
		k.Zero()
	}
}

func (s *HttpRpcServer) submit(c *fiber.Ctx, op Operation) error {
	req, err := parseSubmitRequest(c.Body())
	if err != nil {
		return s.errorResponse(c, err)
	}
	defer req.zero()

	tx, err := s.client.NewTransaction(op, req.options)
	if err != nil {
		return s.errorResponse(c, err)
	}

	for _, signer := range req.signers {
		if err = tx.Sign(signer); err != nil {
			return s.errorResponse(c, err)
		}
	}

	rsp, err := tx.Execute(c.UserContext())
	if err != nil {
		return s.errorResponse(c, err)
	}

	out := &rpcclient.SubmitOut{
		TransactionID: rsp.TransactionID,
		NodeID:        rsp.NodeID,
		Status:        rsp.Status,
		Cost:          rsp.Cost,
	}

	if req.waitForReceipt {
		if out.Receipt, err = rsp.GetReceipt(c.UserContext()); err != nil {
			return s.errorResponse(c, err)
		}
	}

	return c.JSON(out)
}

func (s *HttpRpcServer) postAccountCreate(c *fiber.Ctx) error {
	in := &rpcclient.AccountCreateIn{}
	if err := s.unmarshalJson(c, in); err != nil {
		return s.errorResponse(c, err)
	}

	publicKey, err := key.ParsePublicKeyString(in.Key)
	if err != nil {
		return s.errorResponse(c, errors.Wrap(err, "account key"))
	}

	return s.submit(c, &AccountCreate{
		Key:                           publicKey,
		InitialBalance:                in.InitialBalance,
		ReceiverSigRequired:           in.ReceiverSigRequired,
		AutoRenewPeriod:               time.Duration(in.AutoRenewPeriodSeconds) * time.Second,
		Memo:                          in.Memo,
		MaxAutomaticTokenAssociations: in.MaxAutomaticTokenAssociations,
	})
}

func (s *HttpRpcServer) postAccountDelete(c *fiber.Ctx) error {
	in := &rpcclient.AccountDeleteIn{}
	if err := s.unmarshalJson(c, in); err != nil {
		return s.errorResponse(c, err)
	}

	return s.submit(c, &AccountDelete{
		AccountID:         in.AccountID,
		TransferAccountID: in.TransferAccountID,
	})
}

func (s *HttpRpcServer) postTransfer(c *fiber.Ctx) error {
	in := &rpcclient.TransferIn{}
	if err := s.unmarshalJson(c, in); err != nil {
		return s.errorResponse(c, err)
	}

	transfer := &Transfer{}
	for _, t := range in.Transfers {
		transfer.AddHbarTransfer(t.AccountID, t.Amount)
	}

	return s.submit(c, transfer)
}

func keyOut(private *key.PrivateKey, public *key.PublicKey) (out *rpcclient.KeyOut, err error) {
	out = &rpcclient.KeyOut{
		Type:      public.Type(),
		PublicKey: public.String(),
	}

	if out.PublicKeyDER, err = public.DERString(); err != nil {
		return
	}

	if private != nil {
		out.PrivateKey = private.String()
		if out.PrivateKeyDER, err = private.DERString(); err != nil {
			return
		}
	}

	if public.Type() == key.KeyTypeECDSASecp256k1 {
		address, err2 := public.EvmAddress()
		if err2 != nil {
			err = err2
			return
		}
		out.EvmAddress = hex.EncodeToString(address.Bytes())
	}

	return
}

func (s *HttpRpcServer) postKeyGenerate(c *fiber.Ctx) error {
	in := &rpcclient.KeyGenerateIn{}
	if err := s.unmarshalJson(c, in); err != nil {
		return s.errorResponse(c, err)
	}

	private, err := key.GeneratePrivateKey(in.Type)
	if err != nil {
		return s.errorResponse(c, errors.Wrap(ErrValidation, err.Error()))
	}
	defer private.Zero()

	out, err := keyOut(private, private.PublicKey())
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(out)
}

// postKeyInspect accepts a private or public key. Private keys are tried
// first unless the request says the key is public.
func (s *HttpRpcServer) postKeyInspect(c *fiber.Ctx) error {
	in := &rpcclient.KeyInspectIn{}
	if err := s.unmarshalJson(c, in); err != nil {
		return s.errorResponse(c, err)
	}

	var out *rpcclient.KeyOut

	if !in.Public {
		if private, err := key.ParsePrivateKeyString(in.Key); err == nil {
			defer private.Zero()
			if out, err = keyOut(private, private.PublicKey()); err != nil {
				return s.errorResponse(c, err)
			}
			return c.JSON(out)
		}
	}

	public, err := key.ParsePublicKeyString(in.Key)
	if err != nil {
		return s.errorResponse(c, err)
	}

	if out, err = keyOut(nil, public); err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(out)
}
