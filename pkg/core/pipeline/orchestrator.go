package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"yoy_analysis/pkg/core/analysis"
	"yoy_analysis/pkg/core/edgar"
	"yoy_analysis/pkg/core/store"
	"yoy_analysis/pkg/core/summary"
	"yoy_analysis/pkg/core/xbrl"
)

// FilingSource lists a company's annual filings and retrieves the iXBRL
// instance document behind each one. Implementations may hit live SEC
// EDGAR or replay recorded responses.
type FilingSource interface {
	LookupCIK(ticker string) (string, error)
	GetAnnualFilings(cik string, startYear int) ([]edgar.FilingMetadata, error)
	LocateInstanceDocument(meta *edgar.FilingMetadata) (string, error)
	GetFilingContents(url string) (string, *edgar.FilingMetadata, error)
}

// FilingURLResolver resolves a filing URL for a (ticker, fiscal year) pair.
// Used as a fallback when EDGAR's filing index does not expose an
// instance document for a filing.
type FilingURLResolver interface {
	FindFilingURL(symbol string, year int) (string, error)
}

// RunRepository persists completed runs.
type RunRepository interface {
	Save(ctx context.Context, ticker, cik string, payload *store.RunPayload) (string, error)
}

// SummaryReviewer runs a second pass over a generated summary
// (e.g. summary.Reviewer).
type SummaryReviewer interface {
	Review(ctx context.Context, summaryText string) (string, error)
}

// Orchestrator manages the end-to-end data flow:
// filing list -> instance documents -> extraction -> merge -> analysis -> storage.
type Orchestrator struct {
	source     FilingSource
	resolver   FilingURLResolver
	cache      *edgar.FilingCache
	repo       RunRepository
	summarizer *summary.Summarizer
	reviewer   SummaryReviewer
	configDir  string
}

// NewOrchestrator creates an orchestrator with the default repository.
// source: filing source (e.g. edgar.NewClient())
// cache: instance-document cache; nil disables caching
// configDir: directory holding per-ticker extraction configs (<ticker>.hjson)
func NewOrchestrator(source FilingSource, cache *edgar.FilingCache, configDir string) *Orchestrator {
	return &Orchestrator{
		source:    source,
		cache:     cache,
		repo:      store.NewRunRepo(),
		configDir: configDir,
	}
}

// SetRepository allows injecting a custom repository (e.g., for testing).
// A nil repository disables persistence.
func (o *Orchestrator) SetRepository(repo RunRepository) {
	o.repo = repo
}

// SetSummarizer enables summarization of the run's processing notes.
func (o *Orchestrator) SetSummarizer(s *summary.Summarizer) {
	o.summarizer = s
}

// SetReviewer enables a review pass over the summary. It only runs when a
// summarizer is also configured.
func (o *Orchestrator) SetReviewer(r SummaryReviewer) {
	o.reviewer = r
}

// SetFilingURLResolver enables the fundamentals-API fallback for filings
// whose instance document cannot be located on EDGAR.
func (o *Orchestrator) SetFilingURLResolver(r FilingURLResolver) {
	o.resolver = r
}

// Result holds the outcome of one pipeline run.
type Result struct {
	Ticker  string
	CIK     string
	RunID   string
	Payload *store.RunPayload
}

// RunForTicker executes the full pipeline for a single company.
// Per-filing failures are logged and skipped; the run proceeds with
// whatever data the remaining filings yield. Configuration errors and
// company-level lookup failures abort the run.
func (o *Orchestrator) RunForTicker(ctx context.Context, ticker string, startYear int) (*Result, error) {
	fmt.Printf("Starting pipeline for %s (from fiscal year %d)...\n", ticker, startYear)
	begin := time.Now()

	cfg, err := xbrl.LoadTickerConfig(o.configPath(ticker))
	if err != nil {
		return nil, fmt.Errorf("configuration for %s: %w", ticker, err)
	}

	cik, err := o.source.LookupCIK(ticker)
	if err != nil {
		return nil, fmt.Errorf("CIK lookup for %s: %w", ticker, err)
	}

	filings, err := o.source.GetAnnualFilings(cik, startYear)
	if err != nil {
		return nil, fmt.Errorf("listing filings for %s: %w", ticker, err)
	}
	if len(filings) == 0 {
		return nil, fmt.Errorf("no annual filings found for %s (CIK %s) from %d", ticker, cik, startYear)
	}

	// Process oldest first so values restated in a later filing win the merge.
	sort.Slice(filings, func(i, j int) bool {
		return filings[i].FiscalYear < filings[j].FiscalYear
	})

	years := make(map[int]*xbrl.YearRecord)
	var notes []summary.TimedMessage
	processed := 0

	for i := range filings {
		filing := &filings[i]
		fmt.Printf("Processing %s filing %s (fiscal year %d)...\n", ticker, filing.AccessionNumber, filing.FiscalYear)

		content, err := o.fetchInstance(ticker, cik, filing)
		if err != nil {
			fmt.Printf("Warning: failed to fetch instance document for %s: %v. Skipping.\n", filing.AccessionNumber, err)
			notes = append(notes, note("fetch of %s (fiscal %d) failed: %v", filing.AccessionNumber, filing.FiscalYear, err))
			continue
		}

		doc, err := xbrl.ParseDocument(content)
		if err != nil {
			fmt.Printf("Warning: failed to parse %s: %v. Skipping.\n", filing.AccessionNumber, err)
			notes = append(notes, note("parse of %s failed: %v", filing.AccessionNumber, err))
			continue
		}

		records := xbrl.ExtractFiling(doc, cfg)
		if len(records) == 0 {
			fmt.Printf("Warning: no metric values extracted from %s.\n", filing.AccessionNumber)
			notes = append(notes, note("filing %s (fiscal %d) yielded no metric values", filing.AccessionNumber, filing.FiscalYear))
			continue
		}

		xbrl.MergeYearRecords(years, records)
		processed++
		notes = append(notes, note("filing %s (fiscal %d) contributed %d reporting years", filing.AccessionNumber, filing.FiscalYear, len(records)))
	}

	if len(years) == 0 {
		return nil, fmt.Errorf("no usable data extracted for %s across %d filings", ticker, len(filings))
	}
	fmt.Printf("Extraction complete: %d/%d filings processed, %d reporting years.\n", processed, len(filings), len(years))

	payload := &store.RunPayload{
		Years:           years,
		Characteristics: analysis.Characterize(years),
	}

	if o.summarizer != nil {
		text, err := o.summarizer.Summarize(ctx, notes)
		if err != nil {
			fmt.Printf("Warning: summarization failed for %s: %v. Continuing without summary.\n", ticker, err)
		} else {
			if o.reviewer != nil && text != "" {
				revised, err := o.reviewer.Review(ctx, text)
				if err != nil {
					fmt.Printf("Warning: summary review failed for %s: %v. Keeping unreviewed summary.\n", ticker, err)
				} else {
					text = revised
				}
			}
			payload.Summary = text
		}
	}

	result := &Result{Ticker: ticker, CIK: cik, Payload: payload}
	if o.repo != nil {
		id, err := o.repo.Save(ctx, ticker, cik, payload)
		if err != nil {
			return nil, fmt.Errorf("persisting run for %s: %w", ticker, err)
		}
		result.RunID = id
		fmt.Printf("Saved run %s for %s.\n", id, ticker)
	}

	fmt.Printf("Pipeline completed for %s in %v\n", ticker, time.Since(begin))
	return result, nil
}

// fetchInstance returns the iXBRL instance document for a filing,
// consulting the cache before going to the network.
func (o *Orchestrator) fetchInstance(ticker, cik string, filing *edgar.FilingMetadata) (string, error) {
	if o.cache != nil {
		if content := o.cache.Get(cik, filing.AccessionNumber); content != "" {
			fmt.Printf("Cache hit for %s.\n", filing.AccessionNumber)
			return content, nil
		}
	}

	url, err := o.source.LocateInstanceDocument(filing)
	if err != nil && o.resolver != nil {
		fmt.Printf("Instance document not found on the filing index for %s, trying fundamentals API...\n", filing.AccessionNumber)
		url, err = o.resolver.FindFilingURL(ticker, filing.FiscalYear)
	}
	if err != nil {
		return "", err
	}

	content, _, err := o.source.GetFilingContents(url)
	if err != nil {
		return "", err
	}

	if o.cache != nil {
		if err := o.cache.Set(cik, filing.AccessionNumber, content); err != nil {
			fmt.Printf("Warning: failed to cache %s: %v\n", filing.AccessionNumber, err)
		}
	}
	return content, nil
}

func (o *Orchestrator) configPath(ticker string) string {
	return filepath.Join(o.configDir, strings.ToLower(ticker)+".hjson")
}

func note(format string, args ...interface{}) summary.TimedMessage {
	return summary.TimedMessage{Timestamp: time.Now(), Text: fmt.Sprintf(format, args...)}
}
