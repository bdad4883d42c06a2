package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summary is a user's position across all of their groups.
type Summary struct {
	Net  float64 // Σ balance over every group
	Owed float64 // Σ positive balances: what others owe the user
	Owe  float64 // |Σ negative balances|: what the user owes others
}

// Aggregate computes the net position, the total owed to the user and the
// total the user owes, from the per-group balances of one user.
// A nil or non-finite balance counts as zero. Sums are exact, so the result does not depend
// on the order of balances.
func Aggregate(balances []*float64) Summary {
	net, owed, owe := decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range balances {
		if b == nil || math.IsNaN(*b) || math.IsInf(*b, 0) {
			continue
		}
		d := decimal.NewFromFloat(*b)
		net = net.Add(d)
		switch d.Sign() {
		case 1:
			owed = owed.Add(d)
		case -1:
			owe = owe.Add(d)
		}
	}
	return Summary{
		Net:  net.InexactFloat64(),
		Owed: owed.InexactFloat64(),
		Owe:  owe.Abs().InexactFloat64(),
	}
}
