package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeDebt(t *testing.T) {
	for _, tt := range []struct {
		name     string
		a, b     string
		debtor   int
		creditor int
		amount   string
	}{
		{name: "second member owes", a: "1000.00", b: "400.00", debtor: 2, creditor: 1, amount: "300"},
		{name: "first member owes", a: "100.00", b: "350.50", debtor: 1, creditor: 2, amount: "125.25"},
		{name: "equal totals", a: "250.00", b: "250.00", debtor: 0, creditor: 0, amount: "0"},
		{name: "both zero", a: "0", b: "0", debtor: 0, creditor: 0, amount: "0"},
		{name: "one side empty", a: "0", b: "80.10", debtor: 1, creditor: 2, amount: "40.05"},
		{name: "odd cent difference", a: "0.03", b: "0", debtor: 2, creditor: 1, amount: "0.015"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a := MemberTotal{MemberID: 1, Total: dec(tt.a)}
			b := MemberTotal{MemberID: 2, Total: dec(tt.b)}

			debt := ComputeDebt(a, b)

			assert.Equal(t, tt.debtor, debt.DebtorID)
			assert.Equal(t, tt.creditor, debt.CreditorID)
			assert.True(t, debt.Amount.Equal(dec(tt.amount)),
				"amount %s, want %s", debt.Amount, tt.amount)
		})
	}
}

// The debt always equals |a-b|/2 and points from the lower total to the
// higher one, whichever side the imbalance is on.
func TestComputeDebtHalvesTheDifference(t *testing.T) {
	pairs := [][2]string{
		{"0", "0"}, {"1", "0"}, {"0", "1"}, {"10.55", "3.45"},
		{"9999.99", "0.01"}, {"123.45", "123.45"}, {"500", "1500"},
	}
	for _, p := range pairs {
		a := MemberTotal{MemberID: 1, Total: dec(p[0])}
		b := MemberTotal{MemberID: 2, Total: dec(p[1])}

		debt := ComputeDebt(a, b)

		expected := a.Total.Sub(b.Total).Abs().Div(decimal.NewFromInt(2))
		assert.True(t, debt.Amount.Equal(expected), "pair %v: got %s want %s", p, debt.Amount, expected)
		assert.True(t, debt.Amount.GreaterThanOrEqual(decimal.Zero))

		switch a.Total.Cmp(b.Total) {
		case -1:
			assert.Equal(t, 1, debt.DebtorID)
			assert.Equal(t, 2, debt.CreditorID)
		case 1:
			assert.Equal(t, 2, debt.DebtorID)
			assert.Equal(t, 1, debt.CreditorID)
		default:
			assert.Zero(t, debt.DebtorID)
			assert.Zero(t, debt.CreditorID)
		}
	}
}
