// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/site-payouts/internal/allocation"
)

// SampleData returns a two-member roster with one salvager and a single
// level-1 site worth 100000, with salvagers enabled at 10 percent.
func SampleData() allocation.Data {
	percent := 10.0
	auto := true
	return allocation.Data{
		Config: allocation.Config{
			LevelValues:     allocation.LevelValues{"1": 100000.0, "2": 200000.0},
			HasSalvager:     true,
			SalvagerPercent: &percent,
			Currency:        "ISK",
			AutoCalculate:   &auto,
		},
		Members: []allocation.Member{
			{ID: "a", Name: "Alpha"},
			{ID: "b", Name: "Bravo", IsSalvager: true},
		},
		Sites: []allocation.Site{
			{Name: "Haven", Level: 1, Participants: []string{"a", "b"}},
		},
	}
}

// SiteTotal sums every member's share of the named site.
func SiteTotal(report allocation.Report, siteName string) float64 {
	sum := 0.0
	for _, p := range report.Payments {
		for _, s := range p.Sites {
			if s.SiteName == siteName {
				sum += s.Amount
			}
		}
	}
	return sum
}

// FindPayment finds a payment by member id in the report.
// Returns a pointer to the payment if found, nil otherwise.
func FindPayment(report allocation.Report, memberID string) *allocation.Payment {
	for i := range report.Payments {
		if report.Payments[i].MemberID == memberID {
			return &report.Payments[i]
		}
	}
	return nil
}
