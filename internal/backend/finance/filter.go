package finance

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"
)

const transferKeyword = "transfer"

var ErrInvalidRange = errors.New("start date must be before end date")

// Filter narrows the transactions shown on the dashboard. Empty category or
// vendor selections mean "all".
type Filter struct {
	Start            time.Time
	End              time.Time
	Categories       []string
	Vendors          []string
	ExcludeTransfers bool
}

// IsTransfer reports whether a category names a transfer between accounts.
func IsTransfer(category string) bool {
	return strings.Contains(strings.ToLower(category), transferKeyword)
}

// Validate checks the date range. Zero bounds are open.
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return ErrInvalidRange
	}
	return nil
}

func (f Filter) inRange(t time.Time) bool {
	if !f.Start.IsZero() && t.Before(Date(f.Start)) {
		return false
	}
	if !f.End.IsZero() && t.After(Date(f.End)) {
		return false
	}
	return true
}

// Apply returns the transactions matching the filter, preserving order.
// An empty category or vendor selection means no restriction, so rows with a
// blank category or vendor are kept. An explicit selection only keeps rows
// whose value is in it, blanks included only when "" is selected.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !f.inRange(tx.PostDate) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, tx.Category) {
			continue
		}
		if len(f.Vendors) > 0 && !slices.Contains(f.Vendors, tx.Vendor) {
			continue
		}
		if f.ExcludeTransfers && IsTransfer(tx.Category) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ExcludedCategories lists the categories that ExcludeTransfers drops out of
// the current selection. all is the full category list used when no
// categories are selected.
func (f Filter) ExcludedCategories(all []string) []string {
	if !f.ExcludeTransfers {
		return nil
	}
	selected := f.Categories
	if len(selected) == 0 {
		selected = all
	}
	var out []string
	for _, c := range selected {
		if c != "" && IsTransfer(c) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}

// Label describes the date range, e.g. "Jan 2024 – Jun 2024".
func (f Filter) Label() string {
	const layout = "Jan 2006"
	switch {
	case f.Start.IsZero() && f.End.IsZero():
		return "all dates"
	case f.Start.IsZero():
		return "through " + f.End.Format(layout)
	case f.End.IsZero():
		return "since " + f.Start.Format(layout)
	}
	return f.Start.Format(layout) + " – " + f.End.Format(layout)
}

func distinct(txs []Transaction, field func(Transaction) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range txs {
		v := field(tx)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Categories returns the sorted distinct non-empty categories.
func Categories(txs []Transaction) []string {
	return distinct(txs, func(t Transaction) string { return t.Category })
}

// Vendors returns the sorted distinct non-empty vendors.
func Vendors(txs []Transaction) []string {
	return distinct(txs, func(t Transaction) string { return t.Vendor })
}

// DateBounds returns the first and last post dates. ok is false for no data.
func DateBounds(txs []Transaction) (first, last time.Time, ok bool) {
	for i, tx := range txs {
		if i == 0 || tx.PostDate.Before(first) {
			first = tx.PostDate
		}
		if i == 0 || tx.PostDate.After(last) {
			last = tx.PostDate
		}
	}
	return first, last, len(txs) > 0
}
