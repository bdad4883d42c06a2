package service

import (
	"github.com/mmynk/splitpocket/internal/calculator"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/watch"
	"github.com/mmynk/splitpocket/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		AvatarURL:       u.AvatarURL,
		DefaultCurrency: u.DefaultCurrency,
		CreatedAt:       u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:              g.ID,
		Name:            g.Name,
		CreatedByUserID: g.CreatedByUserID,
		MemberIDs:       g.MemberIDs,
		Balance:         g.Balance,
		Settled:         g.Settled,
		CreatedAt:       g.CreatedAt,
	}
}

func toAPIGroups(groups []models.Group) []*api.Group {
	out := make([]*api.Group, len(groups))
	for i := range groups {
		out[i] = toAPIGroup(&groups[i])
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{UserID: s.UserID, AmountOwed: s.AmountOwed, PaidStatus: s.PaidStatus}
	}
	return &api.Expense{
		ID:              e.ID,
		Description:     e.Description,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Category:        e.Category,
		GroupID:         e.GroupID,
		Splits:          splits,
		CreatorUserID:   e.CreatorUserID,
		ReceiptImageURL: e.ReceiptImageURL,
		Date:            e.Date,
		CreatedAt:       e.CreatedAt,
	}
}

func toAPIExpenses(expenses []models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return out
}

func fromAPISplits(splits []api.Split) []models.Split {
	out := make([]models.Split, len(splits))
	for i, s := range splits {
		out[i] = models.Split{UserID: s.UserID, AmountOwed: s.AmountOwed, PaidStatus: s.PaidStatus}
	}
	return out
}

func toAPISummary(s calculator.Summary) *api.BalanceSummary {
	return &api.BalanceSummary{Net: s.Net, Owed: s.Owed, Owe: s.Owe}
}

func toAPIChanges[T any](changes []watch.Change[T], id func(T) string) []api.Change {
	out := make([]api.Change, len(changes))
	for i, c := range changes {
		out[i] = api.Change{Kind: c.Kind.String(), ID: id(c.Doc)}
	}
	return out
}
