package calculator

import "github.com/mmynk/splitpocket/internal/models"

// AggregateGroups is Aggregate over the balances carried by groups.
func AggregateGroups(groups []models.Group) Summary {
	balances := make([]*float64, len(groups))
	for i := range groups {
		balances[i] = groups[i].Balance
	}
	return Aggregate(balances)
}
