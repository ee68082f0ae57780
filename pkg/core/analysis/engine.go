// Package analysis computes year-over-year characteristics from assembled
// extraction results: per-metric growth rates and balance-sheet category
// totals. All functions are pure over their inputs.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"yoy_analysis/pkg/core/xbrl"
)

// YearValue pairs a calendar year with an observed value.
type YearValue struct {
	Year  int
	Value float64
}

// MetricGrowth summarizes one metric's trajectory across the run.
type MetricGrowth struct {
	Metric    string   `json:"metric"`
	FirstYear int      `json:"first_year"`
	LastYear  int      `json:"last_year"`
	CAGR      *float64 `json:"cagr,omitempty"`
}

// Characteristics is the per-company growth profile attached to a run.
type Characteristics struct {
	ProfitGrowth  []MetricGrowth     `json:"profit_growth"`
	SegmentGrowth []MetricGrowth     `json:"segment_growth"`
	CategoryCAGR  map[string]float64 `json:"category_cagr,omitempty"`
}

// CalculateCAGR computes the compound annual growth rate over (year, value)
// observations sorted ascending by year. When the first value is
// non-positive the start walks forward to the first positive observation,
// since a negative or zero base has no meaningful growth rate. Returns
// (0, false) when no valid endpoints exist.
func CalculateCAGR(values []YearValue) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}

	idx := 0
	for idx < len(values) && values[idx].Value <= 0 {
		idx++
	}
	if idx >= len(values)-1 {
		return 0, false
	}
	if idx > 0 {
		fmt.Printf("CAGR start adjusted from %d to %d due to non-positive start value\n",
			values[0].Year, values[idx].Year)
	}

	begin := values[idx]
	end := values[len(values)-1]
	periods := end.Year - begin.Year
	if periods <= 0 || begin.Value <= 0 || end.Value <= 0 {
		return 0, false
	}

	cagr := math.Pow(end.Value/begin.Value, 1/float64(periods)) - 1
	return math.Round(cagr*10000) / 10000, true
}

// seriesOf collects one metric's (year, value) observations ascending.
func seriesOf(records map[int]*xbrl.YearRecord, pick func(*xbrl.YearRecord) (float64, bool)) []YearValue {
	years := make([]int, 0, len(records))
	for y := range records {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []YearValue
	for _, y := range years {
		if v, ok := pick(records[y]); ok {
			out = append(out, YearValue{Year: y, Value: v})
		}
	}
	return out
}

// Characterize builds the growth profile for an assembled year-record set.
func Characterize(records map[int]*xbrl.YearRecord) *Characteristics {
	chars := &Characteristics{CategoryCAGR: make(map[string]float64)}

	for _, metric := range collectKeys(records, func(r *xbrl.YearRecord) map[string]float64 { return r.ProfitDesc }) {
		series := seriesOf(records, func(r *xbrl.YearRecord) (float64, bool) {
			v, ok := r.ProfitDesc[metric]
			return v, ok
		})
		chars.ProfitGrowth = append(chars.ProfitGrowth, growthOf(metric, series))
	}

	for _, segment := range collectKeys(records, func(r *xbrl.YearRecord) map[string]float64 { return r.Segmentation }) {
		series := seriesOf(records, func(r *xbrl.YearRecord) (float64, bool) {
			v, ok := r.Segmentation[segment]
			return v, ok
		})
		chars.SegmentGrowth = append(chars.SegmentGrowth, growthOf(segment, series))
	}

	categoryTotals := map[string]func(*xbrl.YearRecord) map[string]float64{
		xbrl.CategoryAssets:             func(r *xbrl.YearRecord) map[string]float64 { return r.BalanceSheet.Assets },
		xbrl.CategoryLiabilities:        func(r *xbrl.YearRecord) map[string]float64 { return r.BalanceSheet.Liabilities },
		xbrl.CategoryShareholdersEquity: func(r *xbrl.YearRecord) map[string]float64 { return r.BalanceSheet.ShareholdersEquity },
	}
	for category, bucket := range categoryTotals {
		series := seriesOf(records, func(r *xbrl.YearRecord) (float64, bool) {
			m := bucket(r)
			if len(m) == 0 {
				return 0, false
			}
			total := 0.0
			for _, v := range m {
				total += v
			}
			return total, true
		})
		if cagr, ok := CalculateCAGR(series); ok {
			chars.CategoryCAGR[category] = cagr
		}
	}

	return chars
}

func growthOf(metric string, series []YearValue) MetricGrowth {
	g := MetricGrowth{Metric: metric}
	if len(series) > 0 {
		g.FirstYear = series[0].Year
		g.LastYear = series[len(series)-1].Year
	}
	if cagr, ok := CalculateCAGR(series); ok {
		g.CAGR = &cagr
	}
	return g
}

// collectKeys returns the sorted union of map keys across all records.
func collectKeys(records map[int]*xbrl.YearRecord, section func(*xbrl.YearRecord) map[string]float64) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range section(r) {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
