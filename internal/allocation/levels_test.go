package allocation

import (
	"encoding/json"
	"testing"

	"github.com/iwvelando/site-payouts/pkg/constants"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.LevelValues) != constants.DefaultLevelCount {
		t.Fatalf("expected %d levels, got %d", constants.DefaultLevelCount, len(cfg.LevelValues))
	}
	for level := 1; level <= constants.DefaultLevelCount; level++ {
		want := float64(level) * constants.DefaultLevelStep
		if got := cfg.LevelValues.Value(level, constants.DefaultMaxLevelValue); got != want {
			t.Errorf("level %d = %v, expected %v", level, got, want)
		}
	}
	if cfg.HasSalvager {
		t.Error("expected salvagers disabled by default")
	}
	if cfg.Percent() != constants.DefaultSalvagerPercent {
		t.Errorf("Percent() = %v, expected %v", cfg.Percent(), constants.DefaultSalvagerPercent)
	}
	if !cfg.AutoCalculateEnabled() {
		t.Error("expected autoCalculate enabled by default")
	}
}

func TestLevelValuesFromJSON(t *testing.T) {
	var cfg Config
	payload := `{"levelValues": {"1": 100000, "2": "250000", "3": "n/a", "4": null, "5": -3}}`
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}

	tests := map[int]float64{1: 100000, 2: 250000, 3: 0, 4: 0, 5: 0, 6: 0}
	for level, want := range tests {
		if got := cfg.LevelValues.Value(level, constants.DefaultMaxLevelValue); got != want {
			t.Errorf("level %d = %v, expected %v", level, got, want)
		}
	}
}

func TestAutoCalculateEnabled(t *testing.T) {
	off := false
	if (Config{AutoCalculate: &off}).AutoCalculateEnabled() {
		t.Error("explicit false should disable autoCalculate")
	}
	if !(Config{}).AutoCalculateEnabled() {
		t.Error("unset autoCalculate should default to enabled")
	}
}

func TestDataCloneKeepsEmptySlices(t *testing.T) {
	d := Data{
		Members: []Member{},
		Sites:   []Site{{Name: "s", Level: 1, Participants: []string{}}},
	}
	c := d.Clone()
	if c.Members == nil {
		t.Error("empty members became nil")
	}
	if c.Sites[0].Participants == nil {
		t.Error("empty participants became nil")
	}
}

func TestConfigCloneCopiesNestedLevelValues(t *testing.T) {
	cfg := Config{LevelValues: LevelValues{
		"1": map[string]any{"amount": 5.0, "tags": []any{"x"}},
		"2": []any{1.0, map[string]any{"y": 2.0}},
		"3": 300.0,
	}}

	report, err := Allocate(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	nested := cfg.LevelValues["1"].(map[string]any)
	nested["amount"] = 99.0
	nested["tags"].([]any)[0] = "changed"
	list := cfg.LevelValues["2"].([]any)
	list[0] = 42.0
	list[1].(map[string]any)["y"] = 42.0

	echoed := report.Config.LevelValues
	if got := echoed["1"].(map[string]any)["amount"]; got != 5.0 {
		t.Errorf("echoed nested map changed with the input: %v", got)
	}
	if got := echoed["1"].(map[string]any)["tags"].([]any)[0]; got != "x" {
		t.Errorf("echoed nested slice changed with the input: %v", got)
	}
	if got := echoed["2"].([]any)[0]; got != 1.0 {
		t.Errorf("echoed slice changed with the input: %v", got)
	}
	if got := echoed["2"].([]any)[1].(map[string]any)["y"]; got != 2.0 {
		t.Errorf("echoed map inside slice changed with the input: %v", got)
	}
	if echoed.Value(3, 0) != 300 {
		t.Errorf("scalar level value lost: %v", echoed["3"])
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validate([]Member{{ID: "a"}}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "member[0].name: is required"; got != want {
		t.Errorf("Error() = %q, expected %q", got, want)
	}

	err = Validate(nil, []Site{{Name: "s", Level: 0, Participants: []string{}}})
	if got, want := err.Error(), "site[0].level: must be at least 1"; got != want {
		t.Errorf("Error() = %q, expected %q", got, want)
	}
}
