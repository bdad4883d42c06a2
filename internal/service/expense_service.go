package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/auth"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/storage"
	"github.com/mmynk/splitpocket/internal/validation"
	"github.com/mmynk/splitpocket/internal/watch"
	"github.com/mmynk/splitpocket/pkg/api"
	"github.com/mmynk/splitpocket/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store   storage.Store
	watcher *watch.Watcher
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, watcher *watch.Watcher) *ExpenseService {
	return &ExpenseService{store: store, watcher: watcher}
}

// AddExpense validates and records an expense created by the caller.
// Group expenses may only be added by members of the group.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("AddExpense", err)
	}

	slog.Info("AddExpense request received",
		"description", req.Msg.Description,
		"group_id", req.Msg.GroupID,
		"splits_count", len(req.Msg.Splits),
		"user_id", sess.UserID,
	)

	in := validation.ExpenseInput{
		Description:     req.Msg.Description,
		Amount:          req.Msg.Amount,
		Currency:        req.Msg.Currency,
		Category:        req.Msg.Category,
		GroupID:         req.Msg.GroupID,
		Splits:          fromAPISplits(req.Msg.Splits),
		ReceiptImageURL: req.Msg.ReceiptImageURL,
	}
	if req.Msg.Date != nil {
		date := time.Unix(*req.Msg.Date, 0)
		in.Date = &date
	}

	expense, err := validation.ValidateExpense(in)
	if err != nil {
		slog.Warn("AddExpense rejected", "error", err, "user_id", sess.UserID)
		return nil, toConnectError("AddExpense", err)
	}

	if !expense.IsPersonal() {
		if _, err := memberGroup(ctx, s.store, expense.GroupID, sess.UserID); err != nil {
			return nil, toConnectError("AddExpense", err)
		}
	}

	expense.CreatorUserID = sess.UserID
	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		return nil, toConnectError("AddExpense", apperr.Persistence(err))
	}

	slog.Info("Expense created", "expense_id", expense.ID, "amount", expense.Amount, "currency", expense.Currency)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(&expense)}), nil
}

// ListGroupExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("ListGroupExpenses", err)
	}

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, sess.UserID); err != nil {
		return nil, toConnectError("ListGroupExpenses", err)
	}

	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{
		GroupID: req.Msg.GroupID,
		Limit:   req.Msg.Limit,
	})
	if err != nil {
		return nil, toConnectError("ListGroupExpenses", err)
	}

	return connect.NewResponse(&api.ListGroupExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// ListMyExpenses returns the expenses the caller recorded, newest first.
func (s *ExpenseService) ListMyExpenses(ctx context.Context, req *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("ListMyExpenses", err)
	}

	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{
		CreatorUserID: sess.UserID,
		Limit:         req.Msg.Limit,
	})
	if err != nil {
		return nil, toConnectError("ListMyExpenses", err)
	}

	return connect.NewResponse(&api.ListMyExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// WatchGroupExpenses streams a group's expenses, once immediately and again
// whenever one is added.
func (s *ExpenseService) WatchGroupExpenses(ctx context.Context, req *connect.Request[api.WatchGroupExpensesRequest], stream *connect.ServerStream[api.WatchGroupExpensesResponse]) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return toConnectError("WatchGroupExpenses", err)
	}

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, sess.UserID); err != nil {
		return toConnectError("WatchGroupExpenses", err)
	}

	sub, err := s.watcher.WatchGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return toConnectError("WatchGroupExpenses", err)
	}
	defer sub.Cancel()

	for snap := range sub.C() {
		err := stream.Send(&api.WatchGroupExpensesResponse{
			Expenses: toAPIExpenses(snap.Docs),
			Changes:  toAPIChanges(snap.Changes, func(e models.Expense) string { return e.ID }),
		})
		if err != nil {
			return err
		}
	}

	if err := sub.Err(); err != nil {
		return toConnectError("WatchGroupExpenses", err)
	}
	return nil
}
