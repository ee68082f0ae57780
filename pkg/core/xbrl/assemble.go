package xbrl

// BalanceSheet buckets balance-sheet metrics into the three categories
// downstream consumers render. Each extracted metric lands in exactly one.
type BalanceSheet struct {
	Assets             map[string]float64 `json:"assets"`
	Liabilities        map[string]float64 `json:"liabilities"`
	ShareholdersEquity map[string]float64 `json:"shareholders_equity"`
}

// YearRecord is the final per-calendar-year aggregate consumed by YOY
// assembly and the rendering layer.
type YearRecord struct {
	ProfitDesc   map[string]float64 `json:"profit_desc"`
	BalanceSheet BalanceSheet       `json:"balance_sheet"`
	Segmentation map[string]float64 `json:"segmentation"`
}

func newYearRecord() *YearRecord {
	return &YearRecord{
		ProfitDesc: make(map[string]float64),
		BalanceSheet: BalanceSheet{
			Assets:             make(map[string]float64),
			Liabilities:        make(map[string]float64),
			ShareholdersEquity: make(map[string]float64),
		},
		Segmentation: make(map[string]float64),
	}
}

// Balance-sheet category names as they appear in configuration and output.
const (
	CategoryAssets             = "assets"
	CategoryLiabilities        = "liabilities"
	CategoryShareholdersEquity = "shareholders_equity"
)

// categoryOrder fixes the lookup order so first-match-wins is deterministic
// even when a metric name is (mis)listed under two categories.
var categoryOrder = []string{CategoryAssets, CategoryLiabilities, CategoryShareholdersEquity}

// AssembleYears merges profit, balance-sheet and segmentation results into
// one record per calendar year, covering the union of years present in any
// input. Balance-sheet metrics are bucketed via the category map; the first
// matching category wins and unmatched metrics default into assets. This is
// a pure merge, no numeric computation happens here.
func AssembleYears(profit, balance MetricValues, segments SegmentValues, categories map[string][]string) map[int]*YearRecord {
	records := make(map[int]*YearRecord)
	record := func(year int) *YearRecord {
		if records[year] == nil {
			records[year] = newYearRecord()
		}
		return records[year]
	}

	for metric, years := range profit {
		for year, value := range years {
			record(year).ProfitDesc[metric] = value
		}
	}
	for metric, years := range balance {
		bucket := categorize(metric, categories)
		for year, value := range years {
			r := record(year)
			switch bucket {
			case CategoryLiabilities:
				r.BalanceSheet.Liabilities[metric] = value
			case CategoryShareholdersEquity:
				r.BalanceSheet.ShareholdersEquity[metric] = value
			default:
				r.BalanceSheet.Assets[metric] = value
			}
		}
	}
	for year, byName := range segments {
		r := record(year)
		for name, value := range byName {
			r.Segmentation[name] = value
		}
	}
	return records
}

func categorize(metric string, categories map[string][]string) string {
	for _, cat := range categoryOrder {
		for _, name := range categories[cat] {
			if name == metric {
				return cat
			}
		}
	}
	return CategoryAssets
}

// MergeYearRecords folds later-processed filing results into an accumulated
// set key-wise: values update existing records rather than replacing them
// wholesale, so a company's successive 10-Ks each contribute the years they
// cover.
func MergeYearRecords(accumulated, latest map[int]*YearRecord) {
	for year, rec := range latest {
		existing, ok := accumulated[year]
		if !ok {
			accumulated[year] = rec
			continue
		}
		for k, v := range rec.ProfitDesc {
			existing.ProfitDesc[k] = v
		}
		for k, v := range rec.BalanceSheet.Assets {
			existing.BalanceSheet.Assets[k] = v
		}
		for k, v := range rec.BalanceSheet.Liabilities {
			existing.BalanceSheet.Liabilities[k] = v
		}
		for k, v := range rec.BalanceSheet.ShareholdersEquity {
			existing.BalanceSheet.ShareholdersEquity[k] = v
		}
		for k, v := range rec.Segmentation {
			existing.Segmentation[k] = v
		}
	}
}
