package finance

// Report is everything the dashboard shows for one filter.
type Report struct {
	Filter             Filter
	Transactions       []Transaction
	Balances           []BalancePoint
	MonthlySpent       []MonthTotal
	MonthlyDeposits    []MonthTotal
	TotalSpent         Cents
	TotalDeposits      Cents
	ByCategory         []Series
	ByVendor           []VendorTotal
	ExcludedCategories []string
}

// BuildReport filters the transactions and computes every dashboard summary.
func BuildReport(txs []Transaction, savings []SavingsPoint, f Filter) (*Report, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	filtered := f.Apply(txs)
	spent := MonthlySpent(filtered)
	deposits := MonthlyDeposits(filtered)
	return &Report{
		Filter:             f,
		Transactions:       filtered,
		Balances:           BalancesBetween(MergeBalances(txs, savings), f),
		MonthlySpent:       spent,
		MonthlyDeposits:    deposits,
		TotalSpent:         Sum(spent),
		TotalDeposits:      Sum(deposits),
		ByCategory:         SpendingByCategory(filtered),
		ByVendor:           VendorTotals(filtered),
		ExcludedCategories: f.ExcludedCategories(Categories(txs)),
	}, nil
}
