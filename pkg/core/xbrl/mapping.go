package xbrl

import (
	"fmt"
	"math"
	"sort"
)

// Component is one underlying XBRL source feeding a metric: a tag, optional
// required dimensions, an optional year filter and an aggregation mode.
type Component struct {
	Tag             string            `json:"tag"`
	ExplicitMembers map[string]string `json:"explicitMembers,omitempty"`
	Aggregate       string            `json:"aggregate,omitempty"`
	YearGTE         int               `json:"year_gte,omitempty"`
	YearLTE         int               `json:"year_lte,omitempty"`
	Years           []int             `json:"years,omitempty"`
	ExcludeYears    []int             `json:"exclude_years,omitempty"`
}

// Aggregation modes. pick_one selects the best-scoring candidate per year;
// sum adds every matching fact per year.
const (
	AggregatePickOne = "pick_one"
	AggregateSum     = "sum"
)

// MetricSpec maps an output metric name to its components. Component values
// are always summed into the metric's per-year total, regardless of each
// component's own internal aggregation mode.
type MetricSpec struct {
	Name       string
	Components []Component
}

// RollupRule is a post-extraction adjustment correcting filer
// inconsistencies: target[year] += sum(add metrics) - sum(subtract metrics),
// gated by the same year filter shape components use.
type RollupRule struct {
	Target       string   `json:"target"`
	Add          []string `json:"add,omitempty"`
	Subtract     []string `json:"subtract,omitempty"`
	YearGTE      int      `json:"year_gte,omitempty"`
	YearLTE      int      `json:"year_lte,omitempty"`
	Years        []int    `json:"years,omitempty"`
	ExcludeYears []int    `json:"exclude_years,omitempty"`
}

func (r RollupRule) acceptsYear(year int) bool {
	return yearAccepted(year, r.YearGTE, r.YearLTE, r.Years, r.ExcludeYears)
}

func (c Component) acceptsYear(year int) bool {
	return yearAccepted(year, c.YearGTE, c.YearLTE, c.Years, c.ExcludeYears)
}

func yearAccepted(year, gte, lte int, allow, deny []int) bool {
	if gte != 0 && year < gte {
		return false
	}
	if lte != 0 && year > lte {
		return false
	}
	if len(allow) > 0 {
		found := false
		for _, y := range allow {
			if y == year {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, y := range deny {
		if y == year {
			return false
		}
	}
	return true
}

// Candidate scoring weights for pick_one mode. Kept as named constants so
// the selection heuristic is documented in one place.
const (
	scoreConsolidatedPairBonus = 10
	scoreExtraDimensionBudget  = 5
	scoreBusinessAxisPenalty   = 2
	scoreFullYearBonus         = 3
)

// scoreCandidate ranks one candidate for a (component, year) cell:
//
//	+10 when its dimensions include a consolidated-entities pair
//	+max(0, 5 - extras) where extras counts unrequested dimension pairs
//	-2 when a business-segments axis is present
//
// Ties are broken outside the score by larger absolute value.
func scoreCandidate(c Candidate) int {
	score := 0
	for _, p := range c.Dimensions {
		if isConsolidatedEntitiesPair(p) {
			score += scoreConsolidatedPairBonus
			break
		}
	}
	extras := countExtraDimensions(c.Dimensions, c.Required)
	if extras < scoreExtraDimensionBudget {
		score += scoreExtraDimensionBudget - extras
	}
	if hasAxis(c.Dimensions, axisStatementBusinessSegments) {
		score -= scoreBusinessAxisPenalty
	}
	return score
}

func countExtraDimensions(pairs []DimensionPair, required map[string]string) int {
	extras := 0
	for _, p := range pairs {
		requested := false
		for axis := range required {
			if sameQName(p.Axis, axis) {
				requested = true
				break
			}
		}
		if !requested {
			extras++
		}
	}
	return extras
}

// bestCandidate picks the highest-scoring candidate; score ties go to the
// larger absolute value so the choice is reproducible across runs.
func bestCandidate(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	bestScore := scoreCandidate(best)
	for _, c := range candidates[1:] {
		s := scoreCandidate(c)
		if s > bestScore || (s == bestScore && math.Abs(c.Value) > math.Abs(best.Value)) {
			best = c
			bestScore = s
		}
	}
	return best, true
}

// matchesRequiredDimensions checks that actual is a superset of the required
// axis->member pairs under alias expansion.
func matchesRequiredDimensions(actual []DimensionPair, required map[string]string) bool {
	for axis, member := range required {
		if !hasDimension(actual, axis, member) {
			return false
		}
	}
	return true
}

// ExtractMetrics resolves every metric spec against one filing document and
// returns values keyed metric name then calendar year.
//
// Per component, each fact with a matching tag has its context resolved and
// classified. Facts outside the consolidated view are discarded unless the
// component's required dimensions explicitly request a slice. Components in
// sum mode accumulate; pick_one components collect candidates and keep the
// best scorer per year. Per-fact failures are logged and skipped, never
// fatal.
//
// Rollup rules are NOT applied here; callers run ApplyRollups exactly once
// on the returned map as a separate post-pass.
func ExtractMetrics(doc *Document, specs []MetricSpec, allowList [][]DimensionPair) MetricValues {
	results := make(MetricValues)
	for _, spec := range specs {
		for _, comp := range spec.Components {
			extractComponent(doc, spec.Name, comp, allowList, results)
		}
	}
	return results
}

func extractComponent(doc *Document, metric string, comp Component, allowList [][]DimensionPair, results MetricValues) {
	sums := make(map[int]float64)
	candidates := make(map[int][]Candidate)

	for _, elem := range doc.FactElements(comp.Tag) {
		contextRef, ok := attrAnyCase(elem, "contextRef")
		if !ok || contextRef == "" {
			continue
		}
		rc := ResolveContext(doc, contextRef)
		if !rc.Resolved() {
			continue
		}
		year, ok := YearOfPeriod(rc.Period)
		if !ok || !comp.acceptsYear(year) {
			continue
		}

		if len(comp.ExplicitMembers) > 0 {
			if !matchesRequiredDimensions(rc.Dimensions, comp.ExplicitMembers) {
				continue
			}
		} else if !IsConsolidated(rc.Dimensions, allowList) {
			continue
		}

		value, ok := ParseFactValue(elem)
		if !ok {
			fmt.Printf("Warning: skipping unparseable %s fact in context %s\n", comp.Tag, contextRef)
			continue
		}

		if comp.Aggregate == AggregateSum {
			sums[year] += value
		} else {
			candidates[year] = append(candidates[year], Candidate{
				Value:      value,
				Dimensions: rc.Dimensions,
				Required:   comp.ExplicitMembers,
				ContextID:  rc.ID,
				Period:     rc.Period,
			})
		}
	}

	if comp.Aggregate == AggregateSum {
		for year, total := range sums {
			results.Add(metric, year, total)
		}
		return
	}
	for year, cands := range candidates {
		if best, ok := bestCandidate(cands); ok {
			results.Add(metric, year, best.Value)
		}
	}
}

// ApplyRollups mutates metrics in place, applying each rule in configured
// order: for every year accepted by the rule's filter,
// target[year] += sum(adds) - sum(subtracts), with missing sources counting
// as zero. The delta touches only filtered years.
//
// This is a one-time post-pass. Applying the same rule set twice
// double-counts every delta, so callers must run it exactly once per
// extraction; the pipeline enforces that by rolling up inside the single
// per-filing extraction call.
func ApplyRollups(metrics MetricValues, rules []RollupRule) {
	for _, rule := range rules {
		for _, year := range rollupYears(metrics, rule) {
			if !rule.acceptsYear(year) {
				continue
			}
			delta := 0.0
			for _, m := range rule.Add {
				if v, ok := metrics.Value(m, year); ok {
					delta += v
				}
			}
			for _, m := range rule.Subtract {
				if v, ok := metrics.Value(m, year); ok {
					delta -= v
				}
			}
			metrics.Add(rule.Target, year, delta)
		}
	}
}

// rollupYears collects, sorted, every year present in the rule's target or
// any of its source metrics.
func rollupYears(metrics MetricValues, rule RollupRule) []int {
	seen := make(map[int]bool)
	collect := func(name string) {
		for year := range metrics[name] {
			seen[year] = true
		}
	}
	collect(rule.Target)
	for _, m := range rule.Add {
		collect(m)
	}
	for _, m := range rule.Subtract {
		collect(m)
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
