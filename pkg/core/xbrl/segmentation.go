package xbrl

import (
	"fmt"
	"math"
)

// SegmentValues holds the chosen segment breakdown keyed year then segment
// name.
type SegmentValues map[int]map[string]float64

// segmentCandidate carries the extra state segmentation scoring needs on
// top of the generic candidate: the period duration and dimension count.
type segmentCandidate struct {
	value float64
	days  int
	dims  int
}

// scoreSegmentCandidate prefers full-year facts over quarterly ones that
// happen to satisfy the same dimensions, then simpler dimension sets:
//
//	+3 when the underlying duration is 360-370 days
//	-1 per dimension pair carried
//
// Ties are broken by larger absolute value.
func scoreSegmentCandidate(c segmentCandidate) int {
	score := 0
	if c.days >= 360 && c.days <= 370 {
		score += scoreFullYearBonus
	}
	return score - c.dims
}

// acceptSegmentContext is the strict gate segmentation uses instead of
// scored acceptance. Every required (axis, member) pair must be present
// under alias expansion, intersegment-elimination members are rejected
// outright, and any unrequested axis from the business, consolidation or
// related-party families disqualifies the candidate. There is no partial
// credit.
func acceptSegmentContext(pairs []DimensionPair, required map[string]string) bool {
	for axis, member := range required {
		if !hasDimension(pairs, axis, member) {
			return false
		}
	}
	for _, p := range pairs {
		if sameQName(p.Member, memberIntersegmentElim) {
			return false
		}
		switch classOf(p.Axis) {
		case axisBusiness, axisConsolidation, axisRelatedParty:
			requested := false
			for axis := range required {
				if sameQName(p.Axis, axis) {
					requested = true
					break
				}
			}
			if !requested {
				return false
			}
		}
	}
	return true
}

// ExtractSegments resolves a segmentation mapping (segment name -> component
// list) against one filing document.
//
// It differs from ExtractMetrics in three ways: acceptance is strict rather
// than scored, facts are deduplicated by (contextID, tag, raw text) signature
// so markup that repeats an element is counted once, and the output per
// (segment, year) is the single best-scoring value, never a sum. Summing
// would double-count the overlapping disclosure tables filers repeat the
// same segment total in.
func ExtractSegments(doc *Document, mapping []MetricSpec) SegmentValues {
	results := make(SegmentValues)
	for _, spec := range mapping {
		best := make(map[int]segmentCandidate)
		for _, comp := range spec.Components {
			extractSegmentComponent(doc, comp, best)
		}
		for year, c := range best {
			if results[year] == nil {
				results[year] = make(map[string]float64)
			}
			results[year][spec.Name] = c.value
		}
	}
	return results
}

func extractSegmentComponent(doc *Document, comp Component, best map[int]segmentCandidate) {
	seen := make(map[string]bool)

	for _, elem := range doc.FactElements(comp.Tag) {
		contextRef, ok := attrAnyCase(elem, "contextRef")
		if !ok || contextRef == "" {
			continue
		}

		signature := contextRef + "|" + comp.Tag + "|" + elem.Text()
		if seen[signature] {
			continue
		}
		seen[signature] = true

		rc := ResolveContext(doc, contextRef)
		if !rc.Resolved() {
			continue
		}
		if !acceptSegmentContext(rc.Dimensions, comp.ExplicitMembers) {
			continue
		}
		year, ok := YearOfPeriod(rc.Period)
		if !ok || !comp.acceptsYear(year) {
			continue
		}
		value, ok := ParseFactValue(elem)
		if !ok {
			fmt.Printf("Warning: skipping unparseable segment fact %s in context %s\n", comp.Tag, contextRef)
			continue
		}

		cand := segmentCandidate{
			value: value,
			days:  PeriodDays(rc.Period),
			dims:  len(rc.Dimensions),
		}
		cur, exists := best[year]
		if !exists {
			best[year] = cand
			continue
		}
		cs, bs := scoreSegmentCandidate(cand), scoreSegmentCandidate(cur)
		if cs > bs || (cs == bs && math.Abs(cand.value) > math.Abs(cur.value)) {
			best[year] = cand
		}
	}
}
