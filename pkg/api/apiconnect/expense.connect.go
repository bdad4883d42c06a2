package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "splitpocket.v1.ExpenseService"

// These constants are the fully-qualified names of the RPCs defined in this
// service. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	// ExpenseServiceAddExpenseProcedure is the fully-qualified name of the ExpenseService's AddExpense RPC.
	ExpenseServiceAddExpenseProcedure = "/splitpocket.v1.ExpenseService/AddExpense"
	// ExpenseServiceListGroupExpensesProcedure is the fully-qualified name of the ExpenseService's ListGroupExpenses RPC.
	ExpenseServiceListGroupExpensesProcedure = "/splitpocket.v1.ExpenseService/ListGroupExpenses"
	// ExpenseServiceListMyExpensesProcedure is the fully-qualified name of the ExpenseService's ListMyExpenses RPC.
	ExpenseServiceListMyExpensesProcedure = "/splitpocket.v1.ExpenseService/ListMyExpenses"
	// ExpenseServiceWatchGroupExpensesProcedure is the fully-qualified name of the ExpenseService's WatchGroupExpenses RPC.
	ExpenseServiceWatchGroupExpensesProcedure = "/splitpocket.v1.ExpenseService/WatchGroupExpenses"
)

// ExpenseServiceClient is a client for the splitpocket.v1.ExpenseService service.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error)
	ListMyExpenses(context.Context, *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error)
	WatchGroupExpenses(context.Context, *connect.Request[api.WatchGroupExpensesRequest]) (*connect.ServerStreamForClient[api.WatchGroupExpensesResponse], error)
}

// NewExpenseServiceClient constructs a client for the splitpocket.v1.ExpenseService service.
//
// The URL supplied here should be the base URL for the server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &expenseServiceClient{
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceAddExpenseProcedure,
			connect.WithClientOptions(opts...),
		),
		listGroupExpenses: connect.NewClient[api.ListGroupExpensesRequest, api.ListGroupExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListGroupExpensesProcedure,
			connect.WithClientOptions(opts...),
		),
		listMyExpenses: connect.NewClient[api.ListMyExpensesRequest, api.ListMyExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListMyExpensesProcedure,
			connect.WithClientOptions(opts...),
		),
		watchGroupExpenses: connect.NewClient[api.WatchGroupExpensesRequest, api.WatchGroupExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceWatchGroupExpensesProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

// expenseServiceClient implements ExpenseServiceClient.
type expenseServiceClient struct {
	addExpense         *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	listGroupExpenses  *connect.Client[api.ListGroupExpensesRequest, api.ListGroupExpensesResponse]
	listMyExpenses     *connect.Client[api.ListMyExpensesRequest, api.ListMyExpensesResponse]
	watchGroupExpenses *connect.Client[api.WatchGroupExpensesRequest, api.WatchGroupExpensesResponse]
}

// AddExpense calls splitpocket.v1.ExpenseService.AddExpense.
func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// ListGroupExpenses calls splitpocket.v1.ExpenseService.ListGroupExpenses.
func (c *expenseServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

// ListMyExpenses calls splitpocket.v1.ExpenseService.ListMyExpenses.
func (c *expenseServiceClient) ListMyExpenses(ctx context.Context, req *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error) {
	return c.listMyExpenses.CallUnary(ctx, req)
}

// WatchGroupExpenses calls splitpocket.v1.ExpenseService.WatchGroupExpenses.
func (c *expenseServiceClient) WatchGroupExpenses(ctx context.Context, req *connect.Request[api.WatchGroupExpensesRequest]) (*connect.ServerStreamForClient[api.WatchGroupExpensesResponse], error) {
	return c.watchGroupExpenses.CallServerStream(ctx, req)
}

// ExpenseServiceHandler is an implementation of the splitpocket.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error)
	ListMyExpenses(context.Context, *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error)
	WatchGroupExpenses(context.Context, *connect.Request[api.WatchGroupExpensesRequest], *connect.ServerStream[api.WatchGroupExpensesResponse]) error
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	expenseServiceAddExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceAddExpenseProcedure,
		svc.AddExpense,
		connect.WithHandlerOptions(opts...),
	)
	expenseServiceListGroupExpensesHandler := connect.NewUnaryHandler(
		ExpenseServiceListGroupExpensesProcedure,
		svc.ListGroupExpenses,
		connect.WithHandlerOptions(opts...),
	)
	expenseServiceListMyExpensesHandler := connect.NewUnaryHandler(
		ExpenseServiceListMyExpensesProcedure,
		svc.ListMyExpenses,
		connect.WithHandlerOptions(opts...),
	)
	expenseServiceWatchGroupExpensesHandler := connect.NewServerStreamHandler(
		ExpenseServiceWatchGroupExpensesProcedure,
		svc.WatchGroupExpenses,
		connect.WithHandlerOptions(opts...),
	)
	return "/splitpocket.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceAddExpenseProcedure:
			expenseServiceAddExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListGroupExpensesProcedure:
			expenseServiceListGroupExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceListMyExpensesProcedure:
			expenseServiceListMyExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceWatchGroupExpensesProcedure:
			expenseServiceWatchGroupExpensesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.ExpenseService.AddExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListGroupExpenses(context.Context, *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.ExpenseService.ListGroupExpenses is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListMyExpenses(context.Context, *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.ExpenseService.ListMyExpenses is not implemented"))
}

func (UnimplementedExpenseServiceHandler) WatchGroupExpenses(context.Context, *connect.Request[api.WatchGroupExpensesRequest], *connect.ServerStream[api.WatchGroupExpensesResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.ExpenseService.WatchGroupExpenses is not implemented"))
}
