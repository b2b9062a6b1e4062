package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "tripwiser.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreateTransactionProcedure = "/tripwiser.v1.LedgerService/CreateTransaction"
	LedgerServiceUpdateTransactionProcedure = "/tripwiser.v1.LedgerService/UpdateTransaction"
	LedgerServiceDeleteTransactionProcedure = "/tripwiser.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/tripwiser.v1.LedgerService/ListTransactions"
	LedgerServiceGetBalancesProcedure       = "/tripwiser.v1.LedgerService/GetBalances"
	LedgerServiceWatchBalancesProcedure     = "/tripwiser.v1.LedgerService/WatchBalances"
)

// LedgerServiceHandler serves the tripwiser.v1.LedgerService: expenses, settlements and balances.
type LedgerServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	WatchBalances(context.Context, *connect.Request[api.WatchBalancesRequest], *connect.ServerStream[api.WatchBalancesResponse]) error
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", route(map[string]http.Handler{
		LedgerServiceCreateTransactionProcedure: connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...),
		LedgerServiceUpdateTransactionProcedure: connect.NewUnaryHandler(LedgerServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...),
		LedgerServiceDeleteTransactionProcedure: connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...),
		LedgerServiceListTransactionsProcedure:  connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...),
		LedgerServiceGetBalancesProcedure:       connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceWatchBalancesProcedure:     connect.NewServerStreamHandler(LedgerServiceWatchBalancesProcedure, svc.WatchBalances, opts...),
	})
}

// LedgerServiceClient is a client for the tripwiser.v1.LedgerService.
type LedgerServiceClient struct {
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	watchBalances     *connect.Client[api.WatchBalancesRequest, api.WatchBalancesResponse]
}

// NewLedgerServiceClient constructs a client for the tripwiser.v1.LedgerService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = clientOptions(opts)
	baseURL = trimSlash(baseURL)
	return &LedgerServiceClient{
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		updateTransaction: connect.NewClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL+LedgerServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		watchBalances:     connect.NewClient[api.WatchBalancesRequest, api.WatchBalancesResponse](httpClient, baseURL+LedgerServiceWatchBalancesProcedure, opts...),
	}
}

// CreateTransaction calls tripwiser.v1.LedgerService.CreateTransaction.
func (c *LedgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

// UpdateTransaction calls tripwiser.v1.LedgerService.UpdateTransaction.
func (c *LedgerServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

// DeleteTransaction calls tripwiser.v1.LedgerService.DeleteTransaction.
func (c *LedgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

// ListTransactions calls tripwiser.v1.LedgerService.ListTransactions.
func (c *LedgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

// GetBalances calls tripwiser.v1.LedgerService.GetBalances.
func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// WatchBalances calls tripwiser.v1.LedgerService.WatchBalances.
func (c *LedgerServiceClient) WatchBalances(ctx context.Context, req *connect.Request[api.WatchBalancesRequest]) (*connect.ServerStreamForClient[api.WatchBalancesResponse], error) {
	return c.watchBalances.CallServerStream(ctx, req)
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceCreateTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceUpdateTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return nil, unimplemented(LedgerServiceListTransactionsProcedure)
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, unimplemented(LedgerServiceGetBalancesProcedure)
}

func (UnimplementedLedgerServiceHandler) WatchBalances(context.Context, *connect.Request[api.WatchBalancesRequest], *connect.ServerStream[api.WatchBalancesResponse]) error {
	return unimplemented(LedgerServiceWatchBalancesProcedure)
}
