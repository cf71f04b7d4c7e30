package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"gopkg.in/yaml.v3"
)

// LoadData reads a tenant data file. Files ending in .json are decoded as
// JSON, everything else as YAML. Unset config fields are completed with
// MergeDefaults.
func LoadData(path string, defaults allocation.Config) (allocation.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return allocation.Data{}, fmt.Errorf("error reading data file, %w", err)
	}

	isJSON := strings.EqualFold(filepath.Ext(path), ".json")
	data, err := DecodeData(raw, isJSON)
	if err != nil {
		return allocation.Data{}, fmt.Errorf("error decoding data file %s, %w", path, err)
	}
	return MergeDefaults(data, defaults), nil
}

// DecodeData decodes a tenant data document.
func DecodeData(raw []byte, isJSON bool) (allocation.Data, error) {
	var data allocation.Data
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return data, nil
	}
	if isJSON {
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return allocation.Data{}, err
		}
		return data, nil
	}
	if err := yaml.Unmarshal(trimmed, &data); err != nil {
		return allocation.Data{}, err
	}
	return data, nil
}

// MergeDefaults fills the unset salvager percent, currency and autoCalculate
// flag from defaults. Level values are never filled in: a document without
// them prices every site at zero. Nil maps and lists become empty ones.
func MergeDefaults(data allocation.Data, defaults allocation.Config) allocation.Data {
	out := data.Clone()
	def := defaults.Clone()
	if out.Config.LevelValues == nil {
		out.Config.LevelValues = allocation.LevelValues{}
	}
	if out.Config.SalvagerPercent == nil {
		out.Config.SalvagerPercent = def.SalvagerPercent
	}
	if out.Config.Currency == "" {
		out.Config.Currency = def.Currency
	}
	if out.Config.AutoCalculate == nil {
		out.Config.AutoCalculate = def.AutoCalculate
	}
	if out.Members == nil {
		out.Members = []allocation.Member{}
	}
	if out.Sites == nil {
		out.Sites = []allocation.Site{}
	}
	return out
}

// EncodeDataYAML renders tenant data as YAML.
func EncodeDataYAML(data allocation.Data) ([]byte, error) {
	return yaml.Marshal(data)
}
