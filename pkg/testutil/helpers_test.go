package testutil

import (
	"testing"

	"github.com/iwvelando/site-payouts/internal/allocation"
)

func TestSampleDataAllocates(t *testing.T) {
	report, err := allocation.New().Calculate(SampleData())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if report.TotalPaid != 100000 {
		t.Errorf("TotalPaid = %v, expected 100000", report.TotalPaid)
	}
	if got := SiteTotal(report, "Haven"); got != 100000 {
		t.Errorf("SiteTotal(Haven) = %v, expected 100000", got)
	}
	if got := SiteTotal(report, "Nowhere"); got != 0 {
		t.Errorf("SiteTotal(Nowhere) = %v, expected 0", got)
	}
}

func TestFindPayment(t *testing.T) {
	report, err := allocation.New().Calculate(SampleData())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	tests := []struct {
		name          string
		memberID      string
		expectFound   bool
		expectedTotal float64
	}{
		{"Regular member", "a", true, 45000},
		{"Salvager", "b", true, 55000},
		{"Unknown member", "z", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := FindPayment(report, tt.memberID)
			if !tt.expectFound {
				if payment != nil {
					t.Errorf("FindPayment(%q) expected nil, got %+v", tt.memberID, payment)
				}
				return
			}
			if payment == nil {
				t.Fatalf("FindPayment(%q) returned nil", tt.memberID)
			}
			if payment.Total != tt.expectedTotal {
				t.Errorf("FindPayment(%q).Total = %v, expected %v", tt.memberID, payment.Total, tt.expectedTotal)
			}
		})
	}
}

func TestSampleDataIsFresh(t *testing.T) {
	first := SampleData()
	first.Members[0].Name = "changed"
	*first.Config.SalvagerPercent = 50

	second := SampleData()
	if second.Members[0].Name != "Alpha" || second.Config.Percent() != 10 {
		t.Error("SampleData returned shared state")
	}
}
