package xbrl

import (
	"math"
	"testing"
)

// revenueFixture carries one consolidated revenue context and one business
// segment slice for the same year.
const revenueFixture = `
<xbrl>
  <xbrli:context id="C_Consolidated">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000080661</xbrli:identifier>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2023-01-01</xbrli:startDate>
      <xbrli:endDate>2023-12-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <xbrli:context id="C_Segment1">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000080661</xbrli:identifier>
      <xbrli:segment>
        <xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">pgr:Segment1Member</xbrldi:explicitMember>
      </xbrli:segment>
    </xbrli:entity>
    <xbrli:period>
      <xbrli:startDate>2023-01-01</xbrli:startDate>
      <xbrli:endDate>2023-12-31</xbrli:endDate>
    </xbrli:period>
  </xbrli:context>
  <us-gaap:Revenues contextRef="C_Consolidated">1,000</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="C_Segment1">400</us-gaap:Revenues>
</xbrl>`

func TestPickOnePrefersConsolidatedContext(t *testing.T) {
	doc := mustParse(t, revenueFixture)
	specs := []MetricSpec{{
		Name:       "gross_revenues",
		Components: []Component{{Tag: "us-gaap:Revenues", Aggregate: AggregatePickOne}},
	}}

	got := ExtractMetrics(doc, specs, nil)
	v, ok := got.Value("gross_revenues", 2023)
	if !ok {
		t.Fatalf("no value extracted: %v", got)
	}
	if v != 1000 {
		t.Errorf("gross_revenues 2023 = %f, want 1000", v)
	}
}

const segmentSumFixture = `
<xbrl>
  <xbrli:context id="C_Total">
    <xbrli:entity><xbrli:identifier scheme="cik">1</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:startDate>2023-01-01</xbrli:startDate><xbrli:endDate>2023-12-31</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="C_SegA">
    <xbrli:entity><xbrli:identifier scheme="cik">1</xbrli:identifier>
      <xbrli:segment><xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">x:AMember</xbrldi:explicitMember></xbrli:segment>
    </xbrli:entity>
    <xbrli:period><xbrli:startDate>2023-01-01</xbrli:startDate><xbrli:endDate>2023-12-31</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="C_SegB">
    <xbrli:entity><xbrli:identifier scheme="cik">1</xbrli:identifier>
      <xbrli:segment><xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">x:BMember</xbrldi:explicitMember></xbrli:segment>
    </xbrli:entity>
    <xbrli:period><xbrli:startDate>2023-01-01</xbrli:startDate><xbrli:endDate>2023-12-31</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="C_SegC">
    <xbrli:entity><xbrli:identifier scheme="cik">1</xbrli:identifier>
      <xbrli:segment><xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">x:CMember</xbrldi:explicitMember></xbrli:segment>
    </xbrli:entity>
    <xbrli:period><xbrli:startDate>2023-01-01</xbrli:startDate><xbrli:endDate>2023-12-31</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <us-gaap:Revenues contextRef="C_Total">600</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="C_SegA">100</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="C_SegB">200</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="C_SegC">300</us-gaap:Revenues>
</xbrl>`

// Sum mode over explicitly requested segment slices adds every match and
// ignores the consolidated total.
func TestSumModeAddsSegmentFacts(t *testing.T) {
	doc := mustParse(t, segmentSumFixture)
	specs := []MetricSpec{{
		Name: "segment_revenues",
		Components: []Component{
			{Tag: "us-gaap:Revenues", Aggregate: AggregateSum, ExplicitMembers: map[string]string{"us-gaap:StatementBusinessSegmentsAxis": "x:AMember"}},
			{Tag: "us-gaap:Revenues", Aggregate: AggregateSum, ExplicitMembers: map[string]string{"us-gaap:StatementBusinessSegmentsAxis": "x:BMember"}},
			{Tag: "us-gaap:Revenues", Aggregate: AggregateSum, ExplicitMembers: map[string]string{"us-gaap:StatementBusinessSegmentsAxis": "x:CMember"}},
		},
	}}

	got := ExtractMetrics(doc, specs, nil)
	v, ok := got.Value("segment_revenues", 2023)
	if !ok {
		t.Fatalf("no value extracted")
	}
	if v != 600 {
		t.Errorf("segment_revenues 2023 = %f, want 600", v)
	}
}

func TestComponentYearFilters(t *testing.T) {
	comp := Component{YearGTE: 2020, YearLTE: 2023, ExcludeYears: []int{2022}}
	for year, want := range map[int]bool{2019: false, 2020: true, 2021: true, 2022: false, 2023: true, 2024: false} {
		if got := comp.acceptsYear(year); got != want {
			t.Errorf("acceptsYear(%d) = %v, want %v", year, got, want)
		}
	}

	allow := Component{Years: []int{2020, 2021}}
	if allow.acceptsYear(2019) || !allow.acceptsYear(2020) {
		t.Errorf("explicit year allow-list not honored")
	}
}

func TestScoreCandidate(t *testing.T) {
	cases := []struct {
		name string
		c    Candidate
		want int
	}{
		{
			"bare consolidated",
			Candidate{},
			scoreExtraDimensionBudget,
		},
		{
			"consolidated entities pair",
			Candidate{Dimensions: []DimensionPair{{Axis: "srt:ConsolidationItemsAxis", Member: "us-gaap:ConsolidatedEntitiesMember"}}},
			scoreConsolidatedPairBonus + scoreExtraDimensionBudget - 1,
		},
		{
			"business axis penalty",
			Candidate{Dimensions: []DimensionPair{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "x:AMember"}}},
			scoreExtraDimensionBudget - 1 - scoreBusinessAxisPenalty,
		},
		{
			"requested dimensions are not extras",
			Candidate{
				Dimensions: []DimensionPair{{Axis: "srt:ProductOrServiceAxis", Member: "x:PMember"}},
				Required:   map[string]string{"us-gaap:ProductOrServiceAxis": "x:PMember"},
			},
			scoreExtraDimensionBudget,
		},
		{
			"extras beyond budget floor at zero",
			Candidate{Dimensions: []DimensionPair{
				{Axis: "a:OneAxis", Member: "m"}, {Axis: "a:TwoAxis", Member: "m"},
				{Axis: "a:ThreeAxis", Member: "m"}, {Axis: "a:FourAxis", Member: "m"},
				{Axis: "a:FiveAxis", Member: "m"}, {Axis: "a:SixAxis", Member: "m"},
			}},
			0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scoreCandidate(tc.c); got != tc.want {
				t.Errorf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

// Score ties must resolve to the larger absolute value, reproducibly.
func TestBestCandidateTieBreak(t *testing.T) {
	a := Candidate{Value: -500}
	b := Candidate{Value: 300}
	for i := 0; i < 50; i++ {
		best, ok := bestCandidate([]Candidate{a, b})
		if !ok || math.Abs(best.Value) != 500 {
			t.Fatalf("tie break chose %+v", best)
		}
		best, _ = bestCandidate([]Candidate{b, a})
		if math.Abs(best.Value) != 500 {
			t.Fatalf("tie break order-dependent: chose %+v", best)
		}
	}
}

func TestApplyRollups(t *testing.T) {
	metrics := MetricValues{
		"ebit":         {2019: 50, 2020: 50},
		"depreciation": {2019: 5, 2020: 5},
		"ebitda":       {2019: 0, 2020: 0},
	}
	rules := []RollupRule{{Target: "ebitda", Add: []string{"ebit", "depreciation"}, YearGTE: 2020}}

	ApplyRollups(metrics, rules)

	if v, _ := metrics.Value("ebitda", 2019); v != 0 {
		t.Errorf("ebitda 2019 = %f, want 0 (outside year filter)", v)
	}
	if v, _ := metrics.Value("ebitda", 2020); v != 55 {
		t.Errorf("ebitda 2020 = %f, want 55", v)
	}

	// Source metrics stay untouched.
	if v, _ := metrics.Value("ebit", 2020); v != 50 {
		t.Errorf("ebit mutated to %f", v)
	}
}

func TestApplyRollupsSubtractAndMissingSources(t *testing.T) {
	metrics := MetricValues{
		"total_expenses": {2021: 100},
		"one_time_items": {2021: 30},
	}
	rules := []RollupRule{{
		Target:   "total_expenses",
		Subtract: []string{"one_time_items", "not_extracted"},
	}}

	ApplyRollups(metrics, rules)

	if v, _ := metrics.Value("total_expenses", 2021); v != 70 {
		t.Errorf("total_expenses 2021 = %f, want 70", v)
	}
}

// Applying the same rule set twice double-counts; the single-application
// delta must equal sum(adds) - sum(subtracts) for filtered years only.
func TestRollupDeltaIsSingleApplication(t *testing.T) {
	build := func() MetricValues {
		return MetricValues{
			"ebit":         {2020: 50},
			"depreciation": {2020: 5},
			"ebitda":       {2020: 0},
		}
	}
	rules := []RollupRule{{Target: "ebitda", Add: []string{"ebit", "depreciation"}}}

	once := build()
	ApplyRollups(once, rules)
	twice := build()
	ApplyRollups(twice, rules)
	ApplyRollups(twice, rules)

	v1, _ := once.Value("ebitda", 2020)
	v2, _ := twice.Value("ebitda", 2020)
	if v1 != 55 {
		t.Errorf("single application = %f, want 55", v1)
	}
	if v2 != 110 {
		t.Errorf("double application = %f, want 110 (proves the pass must run once)", v2)
	}
}
