package settlement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TopCount is the fixed number of ranked category slots.
const TopCount = 5

// PlaceholderCategory fills empty ranking slots, matching the label shown
// in the monthly summary email since the first version of the product.
const PlaceholderCategory = "Nothing so Far"

// TopCategories groups the period's expenses by exact description, sums the
// amounts per label and returns the five largest. Ties keep the order in
// which the labels first appeared in the input. The result always has
// exactly TopCount entries; missing ranks are zero-amount placeholders.
func TopCategories(expenses []Expense) []CategoryTotal {
	index := make(map[string]int, len(expenses))
	totals := make([]CategoryTotal, 0, len(expenses))

	for _, exp := range expenses {
		if i, ok := index[exp.Description]; ok {
			totals[i].Amount = totals[i].Amount.Add(exp.Amount)
			continue
		}
		index[exp.Description] = len(totals)
		totals = append(totals, CategoryTotal{Label: exp.Description, Amount: exp.Amount})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})

	if len(totals) > TopCount {
		totals = totals[:TopCount]
	}
	for len(totals) < TopCount {
		totals = append(totals, CategoryTotal{Label: PlaceholderCategory, Amount: decimal.Zero})
	}
	return totals
}
