package xbrl

import "strings"

// DimensionPair is one (axis, member) qualifier on a context, e.g.
// axis us-gaap:StatementBusinessSegmentsAxis, member pgr:PersonalLinesSegmentMember.
type DimensionPair struct {
	Axis   string `json:"axis"`
	Member string `json:"member"`
}

// ResolvedContext is the outcome of resolving a contextRef: the period the
// attached facts cover and the dimensional slice they describe. An empty
// Dimensions set means the consolidated, unqualified view. The zero value
// signals an unresolvable context; callers skip the fact.
type ResolvedContext struct {
	ID         string
	Period     string
	Dimensions []DimensionPair
}

// Resolved reports whether the context lookup produced anything usable.
func (rc ResolvedContext) Resolved() bool {
	return rc.Period != "" || len(rc.Dimensions) > 0
}

// Candidate is one fact competing to represent a (component, year) cell.
// Several candidates survive filtering when a filer reports the same value
// under multiple dimensional combinations; scoring picks one.
type Candidate struct {
	Value      float64
	Dimensions []DimensionPair
	Required   map[string]string
	ContextID  string
	Period     string
}

// MetricValues holds extracted values keyed metric name then calendar year.
// A missing (metric, year) cell means "unknown", never zero.
type MetricValues map[string]map[int]float64

// Value returns the cell and whether it is present.
func (m MetricValues) Value(metric string, year int) (float64, bool) {
	years, ok := m[metric]
	if !ok {
		return 0, false
	}
	v, ok := years[year]
	return v, ok
}

// Add folds v into the (metric, year) cell, creating it if absent.
func (m MetricValues) Add(metric string, year int, v float64) {
	if m[metric] == nil {
		m[metric] = make(map[int]float64)
	}
	m[metric][year] += v
}

// localName strips any namespace prefix: "us-gaap:Assets" -> "Assets".
func localName(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

// sameQName compares two qualified names by local part, case-insensitively.
// SEC filers mix us-gaap: and srt: prefixes for the same dimension axis year
// to year, so prefix differences never break a match.
func sameQName(a, b string) bool {
	return strings.EqualFold(localName(a), localName(b))
}

// hasDimension reports whether pairs contains the required (axis, member)
// pair under alias expansion.
func hasDimension(pairs []DimensionPair, axis, member string) bool {
	for _, p := range pairs {
		if sameQName(p.Axis, axis) && sameQName(p.Member, member) {
			return true
		}
	}
	return false
}

// hasAxis reports whether pairs carries the given axis at all.
func hasAxis(pairs []DimensionPair, axis string) bool {
	for _, p := range pairs {
		if sameQName(p.Axis, axis) {
			return true
		}
	}
	return false
}
