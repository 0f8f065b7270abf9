package finance

import (
	"sort"
	"time"
)

// BalancePoint is the combined account position at the end of a day.
type BalancePoint struct {
	Date     time.Time
	Checking Cents
	Savings  Cents
	Total    Cents
}

// MergeBalances joins the checking balances carried on transactions with the
// savings history by date. Both sides are forward-filled across dates where
// only the other account moved. Days before the first known checking balance
// are omitted; savings counts as zero until its first entry.
//
// When several checking rows share a date, the last one in import order is
// taken as that day's closing balance.
func MergeBalances(txs []Transaction, savings []SavingsPoint) []BalancePoint {
	checkingByDay := make(map[time.Time]Cents)
	savingsByDay := make(map[time.Time]Cents)
	days := make(map[time.Time]struct{})

	for _, tx := range txs {
		if !tx.HasBalance {
			continue
		}
		d := Date(tx.PostDate)
		checkingByDay[d] = tx.Balance
		days[d] = struct{}{}
	}
	for _, sp := range savings {
		d := Date(sp.PostDate)
		savingsByDay[d] = sp.Balance
		days[d] = struct{}{}
	}

	ordered := make([]time.Time, 0, len(days))
	for d := range days {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	var (
		out          []BalancePoint
		checking     Cents
		saving       Cents
		haveChecking bool
	)
	for _, d := range ordered {
		if c, ok := checkingByDay[d]; ok {
			checking, haveChecking = c, true
		}
		if s, ok := savingsByDay[d]; ok {
			saving = s
		}
		if !haveChecking {
			continue
		}
		out = append(out, BalancePoint{
			Date:     d,
			Checking: checking,
			Savings:  saving,
			Total:    checking + saving,
		})
	}
	return out
}

// BalancesBetween keeps the points within the filter's date range.
func BalancesBetween(points []BalancePoint, f Filter) []BalancePoint {
	var out []BalancePoint
	for _, p := range points {
		if f.inRange(p.Date) {
			out = append(out, p)
		}
	}
	return out
}
