package integration

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/pkg/constants"
)

// largeData builds a roster and site list at the default limits.
func largeData() allocation.Data {
	data := allocation.DefaultData()
	data.Config.HasSalvager = true

	for i := 0; i < constants.DefaultMaxMembers; i++ {
		data.Members = append(data.Members, allocation.Member{
			ID:         fmt.Sprintf("m%d", i),
			Name:       fmt.Sprintf("Member %d", i),
			IsSalvager: i%7 == 0,
		})
	}
	for i := 0; i < constants.DefaultMaxSites; i++ {
		participants := make([]string, 0, 12)
		for j := 0; j < 12; j++ {
			participants = append(participants, fmt.Sprintf("m%d", (i*13+j*31)%constants.DefaultMaxMembers))
		}
		data.Sites = append(data.Sites, allocation.Site{
			Name:         fmt.Sprintf("Site %d", i),
			Level:        i%constants.DefaultLevelCount + 1,
			Participants: participants,
		})
	}
	return data
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	data := largeData()
	engine := allocation.New()

	start := time.Now()
	report, err := engine.Calculate(data)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	t.Logf("Performance metrics:")
	t.Logf("  Members: %d", len(data.Members))
	t.Logf("  Sites: %d", len(data.Sites))
	t.Logf("  Calculate: %v", elapsed)

	if elapsed > 2*time.Second {
		t.Errorf("calculation time %v exceeds 2 second threshold", elapsed)
	}

	// Every participant resolves, so the full value of every site is paid.
	expected := 0.0
	for _, site := range data.Sites {
		expected += data.Config.LevelValues.Value(site.Level, engine.MaxLevelValue())
	}
	if math.Abs(report.TotalPaid-expected) > expected*constants.ConservationTolerance {
		t.Errorf("totalPaid = %v, expected %v", report.TotalPaid, expected)
	}
}

// TestDataConsistency runs the same large input repeatedly and expects
// bit-identical totals.
func TestDataConsistency(t *testing.T) {
	if !testing.Verbose() {
		t.Skip("Skipping consistency test. Run with -v to enable.")
	}

	data := largeData()
	first, err := allocation.New().Calculate(data)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := allocation.New().Calculate(data)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		for i := range first.Payments {
			if math.Float64bits(first.Payments[i].Total) != math.Float64bits(again.Payments[i].Total) {
				t.Fatalf("run %d: payment %d differs: %v vs %v", run, i, first.Payments[i].Total, again.Payments[i].Total)
			}
		}
	}
}
