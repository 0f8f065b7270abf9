package finance

import "sort"

// MonthTotal is the sum of amounts within one YYYY-MM month.
type MonthTotal struct {
	Month  string
	Amount Cents
}

// Series is a named sequence of monthly totals, e.g. one spending category.
type Series struct {
	Name   string
	Points []MonthTotal
}

// VendorTotal is the total spent with a single vendor.
type VendorTotal struct {
	Vendor string
	Amount Cents
}

func byMonth(txs []Transaction, keep func(Transaction) bool) []MonthTotal {
	sums := make(map[string]Cents)
	for _, tx := range txs {
		if keep(tx) {
			sums[tx.Month()] += tx.Amount.Abs()
		}
	}
	out := make([]MonthTotal, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthTotal{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthlySpent sums expenses (as positive amounts) per month.
func MonthlySpent(txs []Transaction) []MonthTotal {
	return byMonth(txs, Transaction.IsExpense)
}

// MonthlyDeposits sums deposits per month.
func MonthlyDeposits(txs []Transaction) []MonthTotal {
	return byMonth(txs, Transaction.IsDeposit)
}

// Sum adds up the monthly totals.
func Sum(totals []MonthTotal) Cents {
	var total Cents
	for _, t := range totals {
		total += t.Amount
	}
	return total
}

// SpendingByCategory returns one series per category with the expenses of
// each month in which that category had any. Series are sorted by name;
// uncategorized expenses are grouped under "Uncategorized".
func SpendingByCategory(txs []Transaction) []Series {
	grouped := make(map[string][]Transaction)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		name := tx.Category
		if name == "" {
			name = "Uncategorized"
		}
		grouped[name] = append(grouped[name], tx)
	}
	out := make([]Series, 0, len(grouped))
	for name, group := range grouped {
		out = append(out, Series{Name: name, Points: MonthlySpent(group)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// VendorTotals sums expenses per vendor, largest first.
func VendorTotals(txs []Transaction) []VendorTotal {
	sums := make(map[string]Cents)
	for _, tx := range txs {
		if tx.IsExpense() && tx.Vendor != "" {
			sums[tx.Vendor] += tx.Amount.Abs()
		}
	}
	out := make([]VendorTotal, 0, len(sums))
	for vendor, amount := range sums {
		out = append(out, VendorTotal{Vendor: vendor, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Vendor < out[j].Vendor
	})
	return out
}
