package frontend

import (
	"fmt"
	"sort"

	"github.com/jo-hoe/hoasite/internal/backend/chart"
	"github.com/jo-hoe/hoasite/internal/backend/finance"
)

// Dashboard charts, in page order.
var chartNames = []string{"balances", "spent", "deposits", "categories", "vendors"}

var chartOptions = chart.Options{ValuePrefix: "$"}

func buildChart(name string, r *finance.Report) (*chart.Chart, bool) {
	label := r.Filter.Label()
	switch name {
	case "balances":
		return balanceChart(r.Balances), true
	case "spent":
		return chart.NewBarChart(fmt.Sprintf("Total Spent per Month (%s)", label), monthBars(r.MonthlySpent), chartOptions), true
	case "deposits":
		return chart.NewBarChart(fmt.Sprintf("Total Deposits per Month (%s)", label), monthBars(r.MonthlyDeposits), chartOptions), true
	case "categories":
		return categoryChart(fmt.Sprintf("Monthly Spending by Category (%s)", label), r.ByCategory), true
	case "vendors":
		vendors := r.ByVendor
		bars := make([]chart.Bar, len(vendors))
		for i, v := range vendors {
			bars[i] = chart.Bar{Label: v.Vendor, Value: v.Amount.Dollars()}
		}
		return chart.NewBarChart(fmt.Sprintf("Total Spending by Vendor (%s)", label), bars, chartOptions), true
	}
	return nil, false
}

func balanceChart(points []finance.BalancePoint) *chart.Chart {
	labels := make([]string, len(points))
	checking := make([]float64, len(points))
	savings := make([]float64, len(points))
	total := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Date.Format(finance.DateLayout)
		checking[i] = p.Checking.Dollars()
		savings[i] = p.Savings.Dollars()
		total[i] = p.Total.Dollars()
	}
	return chart.NewLineChart("Combined Account Balances", labels, []chart.Series{
		{Name: "Checking", Values: checking, Color: "#4169e1"},
		{Name: "Savings", Values: savings, Color: "#008000"},
		{Name: "Total", Values: total, Color: "#ffa500"},
	}, chartOptions)
}

func monthBars(totals []finance.MonthTotal) []chart.Bar {
	bars := make([]chart.Bar, len(totals))
	for i, t := range totals {
		bars[i] = chart.Bar{Label: t.Month, Value: t.Amount.Dollars()}
	}
	return bars
}

// categoryChart draws one line per category over every month in which any
// category had spending. A month without spending in a category is zero.
func categoryChart(title string, series []finance.Series) *chart.Chart {
	seen := make(map[string]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Month] = struct{}{}
		}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}

	lines := make([]chart.Series, len(series))
	for i, s := range series {
		values := make([]float64, len(months))
		for _, p := range s.Points {
			values[index[p.Month]] = p.Amount.Dollars()
		}
		lines[i] = chart.Series{Name: s.Name, Values: values}
	}
	return chart.NewLineChart(title, months, lines, chartOptions)
}
