package ledgerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "chopbill.ledger.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreateExpenseProcedure      = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceCreateSettlementProcedure   = "/" + LedgerServiceName + "/CreateSettlement"
	LedgerServiceListExpensesProcedure       = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceListSettlementsProcedure    = "/" + LedgerServiceName + "/ListSettlements"
	LedgerServiceGetNetBalanceProcedure      = "/" + LedgerServiceName + "/GetNetBalance"
	LedgerServiceGetPairwiseBalanceProcedure = "/" + LedgerServiceName + "/GetPairwiseBalance"
	LedgerServiceGetGroupViewProcedure       = "/" + LedgerServiceName + "/GetGroupView"
	LedgerServiceGetDashboardProcedure       = "/" + LedgerServiceName + "/GetDashboard"
)

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[ledgerv1.CreateSettlementRequest]) (*connect.Response[ledgerv1.CreateSettlementResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error)
	GetNetBalance(context.Context, *connect.Request[ledgerv1.GetNetBalanceRequest]) (*connect.Response[ledgerv1.GetNetBalanceResponse], error)
	GetPairwiseBalance(context.Context, *connect.Request[ledgerv1.GetPairwiseBalanceRequest]) (*connect.Response[ledgerv1.GetPairwiseBalanceResponse], error)
	GetGroupView(context.Context, *connect.Request[ledgerv1.GetGroupViewRequest]) (*connect.Response[ledgerv1.GetGroupViewResponse], error)
	GetDashboard(context.Context, *connect.Request[ledgerv1.GetDashboardRequest]) (*connect.Response[ledgerv1.GetDashboardResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService. baseURL is the server
// root, for example http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createExpense:      connect.NewClient[ledgerv1.CreateExpenseRequest, ledgerv1.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		createSettlement:   connect.NewClient[ledgerv1.CreateSettlementRequest, ledgerv1.CreateSettlementResponse](httpClient, baseURL+LedgerServiceCreateSettlementProcedure, opts...),
		listExpenses:       connect.NewClient[ledgerv1.ListExpensesRequest, ledgerv1.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		listSettlements:    connect.NewClient[ledgerv1.ListSettlementsRequest, ledgerv1.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getNetBalance:      connect.NewClient[ledgerv1.GetNetBalanceRequest, ledgerv1.GetNetBalanceResponse](httpClient, baseURL+LedgerServiceGetNetBalanceProcedure, opts...),
		getPairwiseBalance: connect.NewClient[ledgerv1.GetPairwiseBalanceRequest, ledgerv1.GetPairwiseBalanceResponse](httpClient, baseURL+LedgerServiceGetPairwiseBalanceProcedure, opts...),
		getGroupView:       connect.NewClient[ledgerv1.GetGroupViewRequest, ledgerv1.GetGroupViewResponse](httpClient, baseURL+LedgerServiceGetGroupViewProcedure, opts...),
		getDashboard:       connect.NewClient[ledgerv1.GetDashboardRequest, ledgerv1.GetDashboardResponse](httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createExpense      *connect.Client[ledgerv1.CreateExpenseRequest, ledgerv1.CreateExpenseResponse]
	createSettlement   *connect.Client[ledgerv1.CreateSettlementRequest, ledgerv1.CreateSettlementResponse]
	listExpenses       *connect.Client[ledgerv1.ListExpensesRequest, ledgerv1.ListExpensesResponse]
	listSettlements    *connect.Client[ledgerv1.ListSettlementsRequest, ledgerv1.ListSettlementsResponse]
	getNetBalance      *connect.Client[ledgerv1.GetNetBalanceRequest, ledgerv1.GetNetBalanceResponse]
	getPairwiseBalance *connect.Client[ledgerv1.GetPairwiseBalanceRequest, ledgerv1.GetPairwiseBalanceResponse]
	getGroupView       *connect.Client[ledgerv1.GetGroupViewRequest, ledgerv1.GetGroupViewResponse]
	getDashboard       *connect.Client[ledgerv1.GetDashboardRequest, ledgerv1.GetDashboardResponse]
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[ledgerv1.CreateSettlementRequest]) (*connect.Response[ledgerv1.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetNetBalance(ctx context.Context, req *connect.Request[ledgerv1.GetNetBalanceRequest]) (*connect.Response[ledgerv1.GetNetBalanceResponse], error) {
	return c.getNetBalance.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPairwiseBalance(ctx context.Context, req *connect.Request[ledgerv1.GetPairwiseBalanceRequest]) (*connect.Response[ledgerv1.GetPairwiseBalanceResponse], error) {
	return c.getPairwiseBalance.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupView(ctx context.Context, req *connect.Request[ledgerv1.GetGroupViewRequest]) (*connect.Response[ledgerv1.GetGroupViewResponse], error) {
	return c.getGroupView.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[ledgerv1.GetDashboardRequest]) (*connect.Response[ledgerv1.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[ledgerv1.CreateSettlementRequest]) (*connect.Response[ledgerv1.CreateSettlementResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error)
	GetNetBalance(context.Context, *connect.Request[ledgerv1.GetNetBalanceRequest]) (*connect.Response[ledgerv1.GetNetBalanceResponse], error)
	GetPairwiseBalance(context.Context, *connect.Request[ledgerv1.GetPairwiseBalanceRequest]) (*connect.Response[ledgerv1.GetPairwiseBalanceResponse], error)
	GetGroupView(context.Context, *connect.Request[ledgerv1.GetGroupViewRequest]) (*connect.Response[ledgerv1.GetGroupViewResponse], error)
	GetDashboard(context.Context, *connect.Request[ledgerv1.GetDashboardRequest]) (*connect.Response[ledgerv1.GetDashboardResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path to mount
// it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpenseHandler := connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	createSettlementHandler := connect.NewUnaryHandler(LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts...)
	listExpensesHandler := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	listSettlementsHandler := connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	getNetBalanceHandler := connect.NewUnaryHandler(LedgerServiceGetNetBalanceProcedure, svc.GetNetBalance, opts...)
	getPairwiseBalanceHandler := connect.NewUnaryHandler(LedgerServiceGetPairwiseBalanceProcedure, svc.GetPairwiseBalance, opts...)
	getGroupViewHandler := connect.NewUnaryHandler(LedgerServiceGetGroupViewProcedure, svc.GetGroupView, opts...)
	getDashboardHandler := connect.NewUnaryHandler(LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case LedgerServiceCreateSettlementProcedure:
			createSettlementHandler.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case LedgerServiceListSettlementsProcedure:
			listSettlementsHandler.ServeHTTP(w, r)
		case LedgerServiceGetNetBalanceProcedure:
			getNetBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceGetPairwiseBalanceProcedure:
			getPairwiseBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceGetGroupViewProcedure:
			getGroupViewHandler.ServeHTTP(w, r)
		case LedgerServiceGetDashboardProcedure:
			getDashboardHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
