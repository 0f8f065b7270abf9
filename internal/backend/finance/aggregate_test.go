package finance

import (
	"reflect"
	"testing"
)

func TestMonthlySpentAndDeposits(t *testing.T) {
	txs := sampleTransactions(t)

	spent := MonthlySpent(txs)
	want := []MonthTotal{{"2024-01", 25000}, {"2024-02", 112050}}
	if !reflect.DeepEqual(spent, want) {
		t.Fatalf("MonthlySpent = %+v, want %+v", spent, want)
	}
	if got := Sum(spent); got != 137050 {
		t.Errorf("total spent = %d, want 137050", got)
	}

	deposits := MonthlyDeposits(txs)
	if !reflect.DeepEqual(deposits, []MonthTotal{{"2024-01", 150000}}) {
		t.Fatalf("MonthlyDeposits = %+v", deposits)
	}
}

func TestMonthlySpent_IgnoresInvalidAmounts(t *testing.T) {
	txs := []Transaction{
		{PostDate: day("2024-05-01"), Amount: -500, AmountValid: false},
		{PostDate: day("2024-05-02"), Amount: -100, AmountValid: true},
	}
	if got := Sum(MonthlySpent(txs)); got != 100 {
		t.Fatalf("expected only valid expense to count, got %d", got)
	}
}

func TestSpendingByCategory(t *testing.T) {
	txs := []Transaction{
		{PostDate: day("2024-01-03"), Amount: -100, AmountValid: true, Category: "Pool"},
		{PostDate: day("2024-01-20"), Amount: -50, AmountValid: true, Category: "Pool"},
		{PostDate: day("2024-02-03"), Amount: -70, AmountValid: true, Category: "Pool"},
		{PostDate: day("2024-02-04"), Amount: -10, AmountValid: true},
		{PostDate: day("2024-02-05"), Amount: 999, AmountValid: true, Category: "Dues"},
	}
	got := SpendingByCategory(txs)
	want := []Series{
		{Name: "Pool", Points: []MonthTotal{{"2024-01", 150}, {"2024-02", 70}}},
		{Name: "Uncategorized", Points: []MonthTotal{{"2024-02", 10}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SpendingByCategory = %+v, want %+v", got, want)
	}
}

func TestVendorTotals_SortedDescending(t *testing.T) {
	txs := []Transaction{
		{Amount: -100, AmountValid: true, Vendor: "B"},
		{Amount: -300, AmountValid: true, Vendor: "A"},
		{Amount: -100, AmountValid: true, Vendor: "C"},
		{Amount: -100, AmountValid: true, Vendor: "B"},
		{Amount: 500, AmountValid: true, Vendor: "D"},
	}
	got := VendorTotals(txs)
	want := []VendorTotal{{"A", 300}, {"B", 200}, {"C", 100}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("VendorTotals = %+v, want %+v", got, want)
	}
}
