package xbrl

import "testing"

func TestAssembleYears(t *testing.T) {
	profit := MetricValues{
		"gross_revenues": {2022: 900, 2023: 1000},
	}
	balance := MetricValues{
		"assets":              {2023: 5000},
		"loss_reserves":       {2023: 1200},
		"shareholders_equity": {2023: 1800},
		"unmapped_metric":     {2023: 7},
	}
	segments := SegmentValues{
		2023: {"personal_lines": 600},
	}
	categories := map[string][]string{
		"assets":              {"assets"},
		"liabilities":         {"loss_reserves"},
		"shareholders_equity": {"shareholders_equity"},
	}

	records := AssembleYears(profit, balance, segments, categories)

	if len(records) != 2 {
		t.Fatalf("expected union of years 2022+2023, got %d records", len(records))
	}
	r := records[2023]
	if r.ProfitDesc["gross_revenues"] != 1000 {
		t.Errorf("profit_desc wrong: %v", r.ProfitDesc)
	}
	if r.BalanceSheet.Assets["assets"] != 5000 {
		t.Errorf("assets bucket wrong: %v", r.BalanceSheet.Assets)
	}
	if r.BalanceSheet.Liabilities["loss_reserves"] != 1200 {
		t.Errorf("liabilities bucket wrong: %v", r.BalanceSheet.Liabilities)
	}
	if r.BalanceSheet.ShareholdersEquity["shareholders_equity"] != 1800 {
		t.Errorf("equity bucket wrong: %v", r.BalanceSheet.ShareholdersEquity)
	}
	if r.Segmentation["personal_lines"] != 600 {
		t.Errorf("segmentation wrong: %v", r.Segmentation)
	}
	// Unclassified metrics default into assets.
	if r.BalanceSheet.Assets["unmapped_metric"] != 7 {
		t.Errorf("unmapped metric not defaulted to assets: %v", r.BalanceSheet.Assets)
	}

	// 2022 has profit data only; the other sections exist but are empty.
	r22 := records[2022]
	if r22.ProfitDesc["gross_revenues"] != 900 {
		t.Errorf("2022 profit wrong: %v", r22.ProfitDesc)
	}
	if len(r22.BalanceSheet.Assets) != 0 || len(r22.Segmentation) != 0 {
		t.Errorf("2022 should have no balance/segmentation data")
	}
}

// Every balance-sheet metric lands in exactly one category, first match wins.
func TestCategoryPartition(t *testing.T) {
	categories := map[string][]string{
		"assets":      {"dual_listed"},
		"liabilities": {"dual_listed", "debt"},
	}
	balance := MetricValues{
		"dual_listed": {2023: 1},
		"debt":        {2023: 2},
	}

	records := AssembleYears(nil, balance, nil, categories)
	r := records[2023]

	appearances := 0
	for _, bucket := range []map[string]float64{r.BalanceSheet.Assets, r.BalanceSheet.Liabilities, r.BalanceSheet.ShareholdersEquity} {
		if _, ok := bucket["dual_listed"]; ok {
			appearances++
		}
	}
	if appearances != 1 {
		t.Errorf("dual_listed appears in %d categories, want exactly 1", appearances)
	}
	if _, ok := r.BalanceSheet.Assets["dual_listed"]; !ok {
		t.Errorf("first-match-wins should place dual_listed in assets")
	}
	if _, ok := r.BalanceSheet.Liabilities["debt"]; !ok {
		t.Errorf("debt should be a liability")
	}
}

func TestMergeYearRecords(t *testing.T) {
	accumulated := map[int]*YearRecord{}

	first := AssembleYears(
		MetricValues{"gross_revenues": {2021: 800, 2022: 900}},
		MetricValues{"assets": {2022: 4000}},
		nil,
		map[string][]string{"assets": {"assets"}},
	)
	MergeYearRecords(accumulated, first)

	// A later filing restates 2022 and adds 2023; updates merge key-wise.
	second := AssembleYears(
		MetricValues{"gross_revenues": {2022: 950, 2023: 1000}, "investment_income": {2023: 50}},
		nil,
		nil,
		map[string][]string{"assets": {"assets"}},
	)
	MergeYearRecords(accumulated, second)

	if len(accumulated) != 3 {
		t.Fatalf("expected years 2021-2023, got %d", len(accumulated))
	}
	if v := accumulated[2022].ProfitDesc["gross_revenues"]; v != 950 {
		t.Errorf("2022 revenue should be updated to 950, got %f", v)
	}
	if v := accumulated[2022].BalanceSheet.Assets["assets"]; v != 4000 {
		t.Errorf("2022 assets from the earlier filing must survive the merge, got %f", v)
	}
	if v := accumulated[2023].ProfitDesc["investment_income"]; v != 50 {
		t.Errorf("2023 investment income missing: %v", accumulated[2023].ProfitDesc)
	}
}
