package analysis

import (
	"math"
	"testing"

	"yoy_analysis/pkg/core/xbrl"
)

func TestCalculateCAGR(t *testing.T) {
	// 100 -> 121 over 2 years is 10% compounded.
	cagr, ok := CalculateCAGR([]YearValue{{2020, 100}, {2021, 110}, {2022, 121}})
	if !ok {
		t.Fatal("expected CAGR")
	}
	if math.Abs(cagr-0.1) > 0.0001 {
		t.Errorf("cagr = %f, want 0.1", cagr)
	}
}

func TestCalculateCAGRWalksForwardPastNonPositiveStart(t *testing.T) {
	// 2019 loss is skipped; base becomes 2020 at 50, so 50 -> 200 over
	// 2 years is 100% compounded.
	cagr, ok := CalculateCAGR([]YearValue{{2019, -10}, {2020, 50}, {2021, 100}, {2022, 200}})
	if !ok {
		t.Fatal("expected CAGR after start adjustment")
	}
	if math.Abs(cagr-1.0) > 0.0001 {
		t.Errorf("cagr = %f, want 1.0", cagr)
	}
}

func TestCalculateCAGRDegenerateInputs(t *testing.T) {
	cases := [][]YearValue{
		nil,
		{{2020, 100}},
		{{2020, -5}, {2021, -3}},      // no positive start
		{{2020, -5}, {2021, 100}},     // positive start is the last point
		{{2020, 100}, {2021, -50}},    // negative end
	}
	for i, series := range cases {
		if _, ok := CalculateCAGR(series); ok {
			t.Errorf("case %d: expected no CAGR for %v", i, series)
		}
	}
}

func TestCharacterize(t *testing.T) {
	records := map[int]*xbrl.YearRecord{}
	for year, rev := range map[int]float64{2020: 1000, 2021: 1100, 2022: 1210} {
		r := &xbrl.YearRecord{
			ProfitDesc:   map[string]float64{"gross_revenues": rev},
			Segmentation: map[string]float64{"personal_lines": rev * 0.6},
			BalanceSheet: xbrl.BalanceSheet{
				Assets:             map[string]float64{"assets": rev * 5},
				Liabilities:        map[string]float64{},
				ShareholdersEquity: map[string]float64{},
			},
		}
		records[year] = r
	}

	chars := Characterize(records)

	if len(chars.ProfitGrowth) != 1 {
		t.Fatalf("profit growth entries = %d", len(chars.ProfitGrowth))
	}
	g := chars.ProfitGrowth[0]
	if g.Metric != "gross_revenues" || g.FirstYear != 2020 || g.LastYear != 2022 {
		t.Errorf("growth header wrong: %+v", g)
	}
	if g.CAGR == nil || math.Abs(*g.CAGR-0.1) > 0.001 {
		t.Errorf("revenue CAGR wrong: %+v", g.CAGR)
	}

	if len(chars.SegmentGrowth) != 1 || chars.SegmentGrowth[0].Metric != "personal_lines" {
		t.Errorf("segment growth wrong: %+v", chars.SegmentGrowth)
	}

	if cagr, ok := chars.CategoryCAGR[xbrl.CategoryAssets]; !ok || math.Abs(cagr-0.1) > 0.001 {
		t.Errorf("assets category CAGR wrong: %v", chars.CategoryCAGR)
	}
	// Empty buckets produce no category entry rather than a zero.
	if _, ok := chars.CategoryCAGR[xbrl.CategoryLiabilities]; ok {
		t.Errorf("empty liabilities bucket should have no CAGR")
	}
}
