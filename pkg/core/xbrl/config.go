package xbrl

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	hjson "github.com/hjson/hjson-go/v4"
)

// MetricDef is one metric definition in ticker configuration. It accepts
// two JSON shapes: a bare tag string, shorthand for a single consolidated
// pick-one component, or an explicit list of component objects.
type MetricDef struct {
	Components []Component
}

func (m *MetricDef) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		m.Components = []Component{{Tag: tag, Aggregate: AggregatePickOne}}
		return nil
	}
	var comps []Component
	if err := json.Unmarshal(data, &comps); err != nil {
		return fmt.Errorf("metric definition must be a tag string or a component list: %w", err)
	}
	for i := range comps {
		if comps[i].Aggregate == "" {
			comps[i].Aggregate = AggregatePickOne
		}
	}
	m.Components = comps
	return nil
}

func (m MetricDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Components)
}

// TickerConfig is the per-ticker extraction configuration: which tags feed
// which output metrics, how balance-sheet metrics bucket into categories,
// and the rollup corrections for that filer.
type TickerConfig struct {
	ProfitDescMetrics      map[string]MetricDef `json:"profit_desc_metrics"`
	BalanceSheetMetrics    map[string]MetricDef `json:"balance_sheet_metrics"`
	SegmentationMapping    map[string]MetricDef `json:"segmentation_mapping"`
	BalanceSheetCategories map[string][]string  `json:"balance_sheet_categories"`
	ProfitRollups          []RollupRule         `json:"profit_rollups"`
	BalanceSheetRollups    []RollupRule         `json:"balance_sheet_rollups"`
	SuppressProfitKeys     []string             `json:"suppress_profit_keys"`

	// Filer-specific dimension sets treated as effectively consolidated,
	// e.g. an insurance-and-other segment that is itself the whole company.
	ConsolidatedOverrides [][]DimensionPair `json:"consolidated_overrides"`
}

// ParseTickerConfig parses configuration text. Files are Hjson, so comments
// and trailing commas are fine; plain JSON is a subset and parses the same
// way. Missing required sections are a configuration error surfaced
// immediately, extraction cannot run without them.
func ParseTickerConfig(data []byte) (*TickerConfig, error) {
	var raw interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid ticker config: %w", err)
	}
	canonical, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize ticker config: %w", err)
	}
	var cfg TickerConfig
	if err := json.Unmarshal(canonical, &cfg); err != nil {
		return nil, fmt.Errorf("invalid ticker config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTickerConfig reads and parses a per-ticker config file.
func LoadTickerConfig(path string) (*TickerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker config %s: %w", path, err)
	}
	cfg, err := ParseTickerConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *TickerConfig) validate() error {
	if len(c.ProfitDescMetrics) == 0 {
		return fmt.Errorf("configuration error: profit_desc_metrics section is missing")
	}
	if len(c.BalanceSheetMetrics) == 0 {
		return fmt.Errorf("configuration error: balance_sheet_metrics section is missing")
	}
	if c.BalanceSheetCategories == nil {
		return fmt.Errorf("configuration error: balance_sheet_categories section is missing")
	}
	return nil
}

// ProfitSpecs returns the profit metrics as specs in stable name order.
func (c *TickerConfig) ProfitSpecs() []MetricSpec {
	return toSpecs(c.ProfitDescMetrics)
}

// BalanceSpecs returns the balance-sheet metrics as specs in stable name order.
func (c *TickerConfig) BalanceSpecs() []MetricSpec {
	return toSpecs(c.BalanceSheetMetrics)
}

// SegmentationSpecs returns the segmentation mapping as specs in stable name order.
func (c *TickerConfig) SegmentationSpecs() []MetricSpec {
	return toSpecs(c.SegmentationMapping)
}

func toSpecs(defs map[string]MetricDef) []MetricSpec {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	specs := make([]MetricSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, MetricSpec{Name: name, Components: defs[name].Components})
	}
	return specs
}
