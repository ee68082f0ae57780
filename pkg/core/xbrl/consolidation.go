package xbrl

// Dimension axes fall into a small closed set of semantic families. The
// classifier keys on the canonical (prefix-stripped) axis name so that
// us-gaap: and srt: spellings of the same axis classify identically.
type axisClass int

const (
	axisOther axisClass = iota
	axisBusiness
	axisConsolidation
	axisLegalEntity
	axisRelatedParty
)

// Canonical axis names. Filers attach any of these with either a us-gaap:
// or srt: prefix depending on taxonomy year.
const (
	axisStatementBusinessSegments = "StatementBusinessSegmentsAxis"
	axisSubsegments               = "SubsegmentsAxis"
	axisProductOrService          = "ProductOrServiceAxis"
	axisGeographicalAreas         = "GeographicalAreasAxis"
	axisMajorCustomers            = "MajorCustomersAxis"
	axisConsolidationItems        = "ConsolidationItemsAxis"
	axisLegalEntityName           = "LegalEntityAxis"
	axisRelatedPartyName          = "RelatedPartyTransactionsByRelatedPartyAxis"

	memberNonrelatedParty      = "NonrelatedPartyMember"
	memberConsolidatedEntities = "ConsolidatedEntitiesMember"
	memberIntersegmentElim     = "IntersegmentEliminationMember"
	memberOperatingSegments    = "OperatingSegmentsMember"
)

var axisClasses = map[string]axisClass{
	axisStatementBusinessSegments: axisBusiness,
	axisSubsegments:               axisBusiness,
	axisProductOrService:          axisBusiness,
	axisGeographicalAreas:         axisBusiness,
	axisMajorCustomers:            axisBusiness,
	axisConsolidationItems:        axisConsolidation,
	axisLegalEntityName:           axisLegalEntity,
	axisRelatedPartyName:          axisRelatedParty,
}

// Members of ConsolidationItemsAxis that still describe the whole company.
var consolidatedEntityMembers = map[string]bool{
	memberConsolidatedEntities: true,
	memberOperatingSegments:    true,
}

func classOf(axis string) axisClass {
	return axisClasses[localName(axis)]
}

// isNeutralPair reports pairs stripped before classification: a pair that
// carries no segmentation meaning. LegalEntityAxis with any member, and the
// related-party axis explicitly marked non-related.
func isNeutralPair(p DimensionPair) bool {
	switch classOf(p.Axis) {
	case axisLegalEntity:
		return true
	case axisRelatedParty:
		return sameQName(p.Member, memberNonrelatedParty)
	}
	return false
}

func stripNeutral(pairs []DimensionPair) []DimensionPair {
	var out []DimensionPair
	for _, p := range pairs {
		if !isNeutralPair(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsConsolidated decides whether a context's dimension pairs describe the
// consolidated (whole-company) view rather than a segment, subsidiary or
// related-party slice. allowList contains filer-specific dimension sets
// known to be effectively consolidated (for example a segment that is
// itself the whole company).
//
// The rules are evaluated strictly in order; a later rule is reached only
// when every earlier one declined to decide.
func IsConsolidated(pairs []DimensionPair, allowList [][]DimensionPair) bool {
	remaining := stripNeutral(pairs)

	// 1. No qualifiers at all after neutral stripping.
	if len(remaining) == 0 {
		return true
	}

	// 2. Exact match against a configured effectively-consolidated set.
	for _, allowed := range allowList {
		if dimensionSetsEqual(remaining, allowed) {
			return true
		}
	}

	// 3. Any business-family axis marks a segment slice.
	for _, p := range remaining {
		if classOf(p.Axis) == axisBusiness {
			return false
		}
	}

	// 4. A consolidation axis whose member names the consolidated entity.
	for _, p := range remaining {
		if classOf(p.Axis) == axisConsolidation && consolidatedEntityMembers[localName(p.Member)] {
			return true
		}
	}

	// 5. Legal-entity-only qualifiers never disqualify consolidation.
	allLegal := true
	for _, p := range remaining {
		if classOf(p.Axis) != axisLegalEntity {
			allLegal = false
			break
		}
	}
	if allLegal {
		return true
	}

	return false
}

// dimensionSetsEqual compares two pair sets order-insensitively under alias
// expansion. Duplicate pairs are not meaningful in XBRL contexts.
func dimensionSetsEqual(a, b []DimensionPair) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		if !hasDimension(b, p.Axis, p.Member) {
			return false
		}
	}
	return true
}

// isConsolidatedEntitiesPair reports the (axis, member) combination that
// earns the pick-one consolidation bonus.
func isConsolidatedEntitiesPair(p DimensionPair) bool {
	return classOf(p.Axis) == axisConsolidation && consolidatedEntityMembers[localName(p.Member)]
}
