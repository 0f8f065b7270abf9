package frontend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jo-hoe/hoasite/internal/backend/finance"
)

func TestBuildChart_VendorsPlotsEveryVendor(t *testing.T) {
	report := &finance.Report{}
	for i := 0; i < 22; i++ {
		report.ByVendor = append(report.ByVendor, finance.VendorTotal{
			Vendor: fmt.Sprintf("Vendor %02d", i),
			Amount: finance.Cents(100 * (i + 1)),
		})
	}
	c, ok := buildChart("vendors", report)
	if !ok {
		t.Fatalf("vendors chart not built")
	}
	// one background rect plus one rect per bar
	if got := strings.Count(string(c.SVG()), "<rect"); got != 1+len(report.ByVendor) {
		t.Errorf("vendor chart has %d rects, want %d", got, 1+len(report.ByVendor))
	}

	if _, ok := buildChart("pie", report); ok {
		t.Errorf("unknown chart name should not build")
	}
}
