package finance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Column names of the bank exports. The checking export is produced by the
// categorization spreadsheet, the savings export comes straight from the bank.
const (
	ColPostDate     = "Post Date"
	ColDescription  = "Description"
	ColAmount       = "Amount"
	ColBalance      = "Balance"
	ColVendor       = "Vendor"
	ColAutoVendor   = "Auto Vendor"
	ColCategory     = "Category"
	ColAutoCategory = "Auto Category"
)

// ExportColumns is the column order of the filtered transactions download.
var ExportColumns = []string{
	ColPostDate, ColDescription, ColAmount, ColBalance,
	ColVendor, ColAutoVendor, ColCategory, ColAutoCategory,
}

var dateLayouts = []string{DateLayout, "01/02/2006", "1/2/2006", "2006-01-02 15:04:05", "2006/01/02"}

var ErrMissingColumn = errors.New("missing required column")

// maxAmount bounds parsed dollar amounts so their cents fit an int64.
const maxAmount = 1e15

// ParseDate accepts the date formats seen in the bank exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses amounts like -12.50, $1,234.00 or (45.10).
func ParseAmount(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxAmount {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	if negative {
		f = -f
	}
	return CentsFromDollars(f), nil
}

type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	names, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	h := make(header, len(names))
	for i, name := range names {
		name = strings.TrimPrefix(name, "\ufeff")
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, nil
}

func (h header) require(cols ...string) error {
	for _, col := range cols {
		if _, ok := h[strings.ToLower(col)]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}

func (h header) get(record []string, col string) string {
	i, ok := h[strings.ToLower(col)]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ReadChecking parses the categorized checking export. Rows with an unreadable
// date are skipped; rows with an unreadable amount are kept but flagged.
func ReadChecking(r io.Reader) ([]Transaction, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(ColPostDate, ColAmount); err != nil {
		return nil, err
	}

	var out []Transaction
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		date, err := ParseDate(h.get(record, ColPostDate))
		if err != nil {
			slog.Warn("skipping checking row", "line", line, "error", err)
			continue
		}
		tx := Transaction{
			PostDate:     date,
			Description:  h.get(record, ColDescription),
			Vendor:       h.get(record, ColVendor),
			AutoVendor:   h.get(record, ColAutoVendor),
			Category:     h.get(record, ColCategory),
			AutoCategory: h.get(record, ColAutoCategory),
		}
		if amount, err := ParseAmount(h.get(record, ColAmount)); err == nil {
			tx.Amount, tx.AmountValid = amount, true
		} else {
			slog.Warn("checking row has no usable amount", "line", line, "error", err)
		}
		if balance, err := ParseAmount(h.get(record, ColBalance)); err == nil {
			tx.Balance, tx.HasBalance = balance, true
		}
		out = append(out, tx)
	}
	return out, nil
}

// ReadSavings parses the savings history export, dropping rows that lack a
// date or a balance.
func ReadSavings(r io.Reader) ([]SavingsPoint, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(ColPostDate, ColBalance); err != nil {
		return nil, err
	}

	var out []SavingsPoint
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read savings csv: %w", err)
		}
		date, err := ParseDate(h.get(record, ColPostDate))
		if err != nil {
			continue
		}
		balance, err := ParseAmount(h.get(record, ColBalance))
		if err != nil {
			continue
		}
		out = append(out, SavingsPoint{PostDate: date, Balance: balance})
	}
	return out, nil
}

func formatPlain(c Cents) string {
	return strconv.FormatFloat(c.Dollars(), 'f', 2, 64)
}

// WriteCSV writes the transactions sorted by post date in ExportColumns order.
func WriteCSV(w io.Writer, txs []Transaction) error {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostDate.Before(sorted[j].PostDate)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, tx := range sorted {
		amount, balance := "", ""
		if tx.AmountValid {
			amount = formatPlain(tx.Amount)
		}
		if tx.HasBalance {
			balance = formatPlain(tx.Balance)
		}
		record := []string{
			tx.PostDate.Format(DateLayout), tx.Description, amount, balance,
			tx.Vendor, tx.AutoVendor, tx.Category, tx.AutoCategory,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
