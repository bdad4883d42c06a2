package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitpocket/internal/models"
)

func f(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		balances []*float64
		want     Summary
	}{
		{
			name: "no groups",
			want: Summary{},
		},
		{
			name:     "owed in one group, owing in another",
			balances: []*float64{f(25), f(-50)},
			want:     Summary{Net: -25, Owed: 25, Owe: 50},
		},
		{
			name:     "zero and missing balances contribute nothing",
			balances: []*float64{f(0), nil},
			want:     Summary{},
		},
		{
			name:     "single zero balance",
			balances: []*float64{f(0)},
			want:     Summary{},
		},
		{
			name:     "cents add up exactly",
			balances: []*float64{f(0.1), f(0.2), f(-0.3)},
			want:     Summary{Net: 0, Owed: 0.3, Owe: 0.3},
		},
		{
			name:     "non-finite balances are ignored",
			balances: []*float64{f(math.NaN()), f(math.Inf(-1)), f(12.5)},
			want:     Summary{Net: 12.5, Owed: 12.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.balances)
			if got != tt.want {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	forward := Aggregate([]*float64{f(10.1), f(-3.3), f(7.77), f(-0.01), nil})
	backward := Aggregate([]*float64{nil, f(-0.01), f(7.77), f(-3.3), f(10.1)})
	if forward != backward {
		t.Errorf("Aggregate depends on order: %+v vs %+v", forward, backward)
	}
	if math.Abs(forward.Net-14.56) > 1e-9 {
		t.Errorf("Net = %v, want 14.56", forward.Net)
	}
}

func TestAggregateGroups(t *testing.T) {
	groups := []models.Group{
		{ID: "g1", Balance: f(25)},
		{ID: "g2", Balance: f(-50)},
		{ID: "g3"},
	}
	got := AggregateGroups(groups)
	want := Summary{Net: -25, Owed: 25, Owe: 50}
	if got != want {
		t.Errorf("AggregateGroups() = %+v, want %+v", got, want)
	}
}
