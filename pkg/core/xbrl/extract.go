package xbrl

// ExtractFiling runs the full extraction for one filing document under one
// ticker configuration: profit and balance-sheet metrics, rollup post-pass,
// profit-key suppression, segmentation, and year assembly.
//
// Rollups run exactly once inside this call; the returned records are final
// for this filing and safe to merge with other filings via MergeYearRecords.
func ExtractFiling(doc *Document, cfg *TickerConfig) map[int]*YearRecord {
	allowList := cfg.ConsolidatedOverrides

	profit := ExtractMetrics(doc, cfg.ProfitSpecs(), allowList)
	balance := ExtractMetrics(doc, cfg.BalanceSpecs(), allowList)

	ApplyRollups(profit, cfg.ProfitRollups)
	ApplyRollups(balance, cfg.BalanceSheetRollups)

	for _, key := range cfg.SuppressProfitKeys {
		delete(profit, key)
	}

	segments := ExtractSegments(doc, cfg.SegmentationSpecs())

	return AssembleYears(profit, balance, segments, cfg.BalanceSheetCategories)
}
