package settlement

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// ComputeDebt splits the combined total evenly between the two members and
// points the difference from the lower total toward the higher one. The
// amount always equals |a-b|/2. Equal totals are a valid zero-debt state
// with no debtor or creditor assigned.
func ComputeDebt(a, b MemberTotal) Debt {
	switch a.Total.Cmp(b.Total) {
	case 0:
		return Debt{Amount: decimal.Zero}
	case -1:
		return Debt{
			DebtorID:   a.MemberID,
			CreditorID: b.MemberID,
			Amount:     b.Total.Sub(a.Total).Div(two),
		}
	default:
		return Debt{
			DebtorID:   b.MemberID,
			CreditorID: a.MemberID,
			Amount:     a.Total.Sub(b.Total).Div(two),
		}
	}
}
