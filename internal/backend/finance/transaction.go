// Package finance holds the HOA bank data: importing checking and savings exports,
// filtering them for the dashboard and computing the monthly summaries.
package finance

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Cents is an amount of US dollars expressed in cents.
type Cents int64

// Dollars returns the amount as a float, for charting only.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// Abs returns the absolute amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// CentsFromDollars rounds a dollar amount to the nearest cent.
func CentsFromDollars(f float64) Cents {
	return Cents(math.Round(f * 100))
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// String formats the amount like $1,234.56 (or -$1,234.56).
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
	}
	return sign + moneyPrinter.Sprintf("$%.2f", c.Abs().Dollars())
}

// Transaction is one row of the categorized checking export.
type Transaction struct {
	ID          string
	PostDate    time.Time
	Description string

	// Amount is negative for expenses and positive for deposits.
	Amount      Cents
	AmountValid bool
	Balance     Cents
	HasBalance  bool

	Vendor       string
	AutoVendor   string
	Category     string
	AutoCategory string
}

// Month returns the YYYY-MM bucket of the transaction.
func (t Transaction) Month() string {
	return t.PostDate.Format(MonthLayout)
}

// IsExpense reports whether money left the account.
func (t Transaction) IsExpense() bool {
	return t.AmountValid && t.Amount < 0
}

// IsDeposit reports whether money entered the account.
func (t Transaction) IsDeposit() bool {
	return t.AmountValid && t.Amount > 0
}

// SavingsPoint is one row of the savings history export.
type SavingsPoint struct {
	PostDate time.Time
	Balance  Cents
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
