package finance

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleTransactions(t *testing.T) []Transaction {
	t.Helper()
	txs, err := ReadChecking(strings.NewReader(checkingCSV))
	if err != nil {
		t.Fatalf("ReadChecking error: %v", err)
	}
	return txs
}

func TestFilter_Validate(t *testing.T) {
	f := Filter{Start: day("2024-03-01"), End: day("2024-02-01")}
	if !errors.Is(f.Validate(), ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range")
	}
	if err := (Filter{Start: day("2024-02-01"), End: day("2024-02-01")}).Validate(); err != nil {
		t.Fatalf("single-day range should be valid, got %v", err)
	}
}

func TestFilter_ApplyDateRangeInclusive(t *testing.T) {
	txs := sampleTransactions(t)
	got := Filter{Start: day("2024-01-15"), End: day("2024-02-01")}.Apply(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions in range, got %d", len(got))
	}
}

func TestFilter_ExcludeTransfers(t *testing.T) {
	txs := sampleTransactions(t)
	got := Filter{ExcludeTransfers: true}.Apply(txs)
	for _, tx := range got {
		if IsTransfer(tx.Category) {
			t.Fatalf("transfer %q not excluded", tx.Category)
		}
	}
	if len(got) != len(txs)-1 {
		t.Fatalf("expected exactly one transfer removed, got %d of %d", len(got), len(txs))
	}
}

func TestFilter_CategoriesAndVendors(t *testing.T) {
	txs := sampleTransactions(t)
	got := Filter{Categories: []string{"Pool", "Landscaping"}, Vendors: []string{"Blue Pool"}}.Apply(txs)
	if len(got) != 1 || got[0].Vendor != "Blue Pool" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestFilter_ExcludedCategories(t *testing.T) {
	all := []string{"Dues", "Transfer Out", "Pool", "transfer in"}
	f := Filter{ExcludeTransfers: true}
	want := []string{"Transfer Out", "transfer in"}
	if got := f.ExcludedCategories(all); !reflect.DeepEqual(got, want) {
		t.Fatalf("ExcludedCategories = %v, want %v", got, want)
	}
	f.ExcludeTransfers = false
	if got := f.ExcludedCategories(all); got != nil {
		t.Fatalf("expected nil when not excluding transfers, got %v", got)
	}
}

func TestCategoriesVendorsAndBounds(t *testing.T) {
	txs := sampleTransactions(t)
	if got := Categories(txs); !reflect.DeepEqual(got, []string{"Dues", "Landscaping", "Misc", "Pool", "Transfer Out"}) {
		t.Errorf("Categories = %v", got)
	}
	if got := Vendors(txs); !reflect.DeepEqual(got, []string{"Blue Pool", "Green Lawns", "Unknown"}) {
		t.Errorf("Vendors = %v", got)
	}
	first, last, ok := DateBounds(txs)
	if !ok || !first.Equal(day("2024-01-05")) || !last.Equal(day("2024-02-11")) {
		t.Errorf("DateBounds = %v %v %v", first, last, ok)
	}
	if _, _, ok := DateBounds(nil); ok {
		t.Errorf("expected ok=false for no transactions")
	}
}

func TestFilter_Label(t *testing.T) {
	f := Filter{Start: day("2024-01-05"), End: day("2024-06-30")}
	if got := f.Label(); got != "Jan 2024 – Jun 2024" {
		t.Fatalf("Label = %q", got)
	}
}

func TestFilter_ApplyBlankVendorSelection(t *testing.T) {
	txs := []Transaction{
		{PostDate: day("2024-01-05"), Vendor: "Green Lawns", Category: "Landscaping"},
		{PostDate: day("2024-01-06"), Vendor: "", Category: "Dues"},
	}
	if got := (Filter{}).Apply(txs); len(got) != 2 {
		t.Errorf("empty selection kept %d rows, want 2 including the blank vendor", len(got))
	}
	got := Filter{Vendors: []string{"Green Lawns"}}.Apply(txs)
	if len(got) != 1 || got[0].Vendor != "Green Lawns" {
		t.Errorf("explicit vendor selection = %+v, want only Green Lawns", got)
	}
	if got := (Filter{Vendors: []string{""}}).Apply(txs); len(got) != 1 || got[0].Vendor != "" {
		t.Errorf("selecting the blank vendor = %+v, want only the blank row", got)
	}
}
