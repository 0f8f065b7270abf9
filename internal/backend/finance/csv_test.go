package finance

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const checkingCSV = `Post Date,Description,Amount,Balance,Vendor,Auto Vendor,Category,Auto Category
2024-01-05,LANDSCAPING CO,-250.00,4750.00,Green Lawns,Green Lawns,Landscaping,Landscaping
01/15/2024,DUES DEPOSIT,"1,500.00",6250.00,,,Dues,Dues
2024-02-01,TRANSFER TO SAVINGS,-1000.00,5250.00,,,Transfer Out,Transfer
2024-02-10,POOL SERVICE,($120.50),5129.50,Blue Pool,Blue Pool,Pool,Pool
not-a-date,BROKEN,-1.00,0,,,,
2024-02-11,MYSTERY,n/a,,Unknown,,Misc,
`

func TestReadChecking(t *testing.T) {
	txs, err := ReadChecking(strings.NewReader(checkingCSV))
	if err != nil {
		t.Fatalf("ReadChecking error: %v", err)
	}
	if len(txs) != 5 {
		t.Fatalf("expected 5 transactions (bad date skipped), got %d", len(txs))
	}

	if got := txs[0].Amount; got != -25000 {
		t.Errorf("first amount = %d, want -25000", got)
	}
	if got := txs[1].PostDate.Format(DateLayout); got != "2024-01-15" {
		t.Errorf("second date = %s, want 2024-01-15", got)
	}
	if got := txs[1].Amount; got != 150000 {
		t.Errorf("grouped amount = %d, want 150000", got)
	}
	if got := txs[3].Amount; got != -12050 {
		t.Errorf("parenthesized amount = %d, want -12050", got)
	}
	last := txs[4]
	if last.AmountValid {
		t.Errorf("expected unparsable amount to be flagged invalid")
	}
	if last.HasBalance {
		t.Errorf("expected empty balance to be absent")
	}
}

func TestParseAmount_RejectsNonFinite(t *testing.T) {
	for _, in := range []string{"NaN", "Inf", "-Inf", "1e300", "(1e300)", "92233720368547758"} {
		if got, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) = %d, want error", in, got)
		}
	}
	if got, err := ParseAmount("999999999.99"); err != nil || got != 99999999999 {
		t.Errorf("ParseAmount large amount = %d, %v", got, err)
	}
}

func TestReadChecking_NonFiniteAmountIsUnknown(t *testing.T) {
	input := `Post Date,Description,Amount,Balance,Vendor,Auto Vendor,Category,Auto Category
2024-01-05,GLITCH,NaN,,Acme,,Repairs,
2024-01-06,OVERFLOW,-1e300,,Acme,,Repairs,
2024-01-07,ROOF,-200.00,,Acme,,Repairs,
`
	txs, err := ReadChecking(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadChecking error: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	if txs[0].AmountValid || txs[1].AmountValid {
		t.Errorf("expected non-finite amounts to be flagged invalid")
	}
	spent := MonthlySpent(txs)
	if len(spent) != 1 || spent[0].Amount != 20000 {
		t.Errorf("MonthlySpent = %+v, want only the valid 200.00 expense", spent)
	}
}

func TestReadChecking_MissingColumn(t *testing.T) {
	_, err := ReadChecking(strings.NewReader("Description,Amount\nfoo,1\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadChecking_HeaderWithBOM(t *testing.T) {
	txs, err := ReadChecking(strings.NewReader("\ufeffPost Date,Amount\n2024-03-01,10\n"))
	if err != nil {
		t.Fatalf("ReadChecking error: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 1000 {
		t.Fatalf("unexpected result: %+v", txs)
	}
}

func TestReadSavings_DropsIncompleteRows(t *testing.T) {
	in := `Post Date,Description,Balance
2024-01-01,Interest,10000.00
2024-01-31,,
,Interest,10010.00
2024-02-29,Interest,10020.00
`
	points, err := ReadSavings(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSavings error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 savings points, got %d", len(points))
	}
	if points[1].Balance != 1002000 {
		t.Errorf("balance = %d, want 1002000", points[1].Balance)
	}
}

func TestWriteCSV_SortedWithExportColumns(t *testing.T) {
	txs, err := ReadChecking(strings.NewReader(checkingCSV))
	if err != nil {
		t.Fatalf("ReadChecking error: %v", err)
	}
	// reverse input order to check sorting
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Post Date,Description,Amount,Balance,Vendor,Auto Vendor,Category,Auto Category" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-01-05,LANDSCAPING CO,-250.00,4750.00") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "2024-02-11,MYSTERY,,,") {
		t.Errorf("unexpected last row: %q", lines[len(lines)-1])
	}
}

func TestCentsString(t *testing.T) {
	cases := map[Cents]string{
		0:         "$0.00",
		123456:    "$1,234.56",
		-99:       "-$0.99",
		100000000: "$1,000,000.00",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("Cents(%d).String() = %q, want %q", in, got, want)
		}
	}
}
