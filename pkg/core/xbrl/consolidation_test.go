package xbrl

import "testing"

func TestIsConsolidated(t *testing.T) {
	allowList := [][]DimensionPair{
		{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "brka:InsuranceAndOtherMember"}},
	}

	cases := []struct {
		name  string
		pairs []DimensionPair
		want  bool
	}{
		{"no dimensions", nil, true},
		{
			"legal entity only",
			[]DimensionPair{{Axis: "dei:LegalEntityAxis", Member: "pgr:SubsidiaryMember"}},
			true,
		},
		{
			"nonrelated party stripped",
			[]DimensionPair{{Axis: "us-gaap:RelatedPartyTransactionsByRelatedPartyAxis", Member: "us-gaap:NonrelatedPartyMember"}},
			true,
		},
		{
			"related party slice",
			[]DimensionPair{{Axis: "us-gaap:RelatedPartyTransactionsByRelatedPartyAxis", Member: "pgr:AffiliateMember"}},
			false,
		},
		{
			"business segment slice",
			[]DimensionPair{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "pgr:PersonalLinesSegmentMember"}},
			false,
		},
		{
			"srt prefixed business axis",
			[]DimensionPair{{Axis: "srt:ProductOrServiceAxis", Member: "pgr:UnderwritingOperationsMember"}},
			false,
		},
		{
			"geography slice",
			[]DimensionPair{{Axis: "srt:GeographicalAreasAxis", Member: "country:US"}},
			false,
		},
		{
			"allow listed segment",
			[]DimensionPair{{Axis: "srt:StatementBusinessSegmentsAxis", Member: "brka:InsuranceAndOtherMember"}},
			true,
		},
		{
			"consolidated entities member",
			[]DimensionPair{{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:ConsolidatedEntitiesMember"}},
			true,
		},
		{
			"operating segments member",
			[]DimensionPair{{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:OperatingSegmentsMember"}},
			true,
		},
		{
			"business axis beats consolidation member",
			[]DimensionPair{
				{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:OperatingSegmentsMember"},
				{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "pgr:PersonalLinesSegmentMember"},
			},
			false,
		},
		{
			"consolidation axis with elimination member",
			[]DimensionPair{{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:IntersegmentEliminationMember"}},
			false,
		},
		{
			"unknown axis",
			[]DimensionPair{{Axis: "custom:SomethingAxis", Member: "custom:SomethingMember"}},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConsolidated(tc.pairs, allowList); got != tc.want {
				t.Errorf("IsConsolidated(%v) = %v, want %v", tc.pairs, got, tc.want)
			}
		})
	}
}

// The classifier is a pure function of its input: repeated calls on the same
// pairs always agree.
func TestIsConsolidatedDeterministic(t *testing.T) {
	pairs := []DimensionPair{
		{Axis: "dei:LegalEntityAxis", Member: "pgr:SubsidiaryMember"},
		{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:OperatingSegmentsMember"},
	}
	first := IsConsolidated(pairs, nil)
	for i := 0; i < 100; i++ {
		if IsConsolidated(pairs, nil) != first {
			t.Fatalf("classification changed between calls")
		}
	}
}
