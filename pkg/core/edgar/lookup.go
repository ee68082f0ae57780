package edgar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LookupCIK resolves a ticker symbol to a zero-padded CIK using SEC's
// company_tickers.json, loaded lazily and cached for the client's lifetime.
func (c *Client) LookupCIK(ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))

	c.tickerMutex.Lock()
	defer c.tickerMutex.Unlock()

	if c.tickerCache == nil {
		c.tickerCache = make(map[string]string)
	}
	if cik, ok := c.tickerCache[normalized]; ok {
		return cik, nil
	}
	if len(c.tickerCache) == 0 {
		if err := c.loadTickerCache(); err != nil {
			return "", err
		}
		if cik, ok := c.tickerCache[normalized]; ok {
			return cik, nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// loadTickerCache fetches the full ticker list from SEC.
// Format: {"0": {"cik_str": 123, "ticker": "AAPL", "title": "Apple"}, ...}
func (c *Client) loadTickerCache() error {
	fmt.Println("Loading Ticker->CIK map from SEC...")
	body, err := c.fetchURL(companyTickersURL)
	if err != nil {
		return fmt.Errorf("failed to fetch company tickers: %w", err)
	}

	type tickerEntry struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	var resp map[string]tickerEntry
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse ticker JSON: %w", err)
	}

	for _, entry := range resp {
		c.tickerCache[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
	}
	fmt.Printf("Loaded %d tickers from SEC.\n", len(c.tickerCache))
	return nil
}

// GetAnnualFilings lists 10-K filings for a CIK whose fiscal year is at or
// after startYear, newest first. Fiscal year is approximated as filing year
// minus one, the convention for calendar-year 10-K filers.
func (c *Client) GetAnnualFilings(cik string, startYear int) ([]FilingMetadata, error) {
	padded := padCIK(cik)
	body, err := c.fetchURL(fmt.Sprintf(submissionsAPIURL, padded))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for CIK %s: %w", cik, err)
	}

	var subs SubmissionsResponse
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions JSON: %w", err)
	}

	var filings []FilingMetadata
	recent := subs.Filings.Recent
	for i := range recent.Form {
		if recent.Form[i] != "10-K" {
			continue
		}
		filingYear := 0
		if len(recent.FilingDate[i]) >= 4 {
			filingYear, _ = strconv.Atoi(recent.FilingDate[i][:4])
		}
		fiscalYear := filingYear - 1
		if startYear > 0 && fiscalYear < startYear {
			continue
		}
		filings = append(filings, FilingMetadata{
			CIK:             padded,
			CompanyName:     subs.Name,
			Tickers:         subs.Tickers,
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      recent.FilingDate[i],
			Form:            recent.Form[i],
			FiscalYear:      fiscalYear,
			PrimaryDocument: recent.PrimaryDocument[i],
		})
	}
	return filings, nil
}

// LocateInstanceDocument scrapes a filing's archive index for the extracted
// XBRL instance document (the *_htm.xml companion the SEC generates next to
// the primary iXBRL document). Falls back to the primary document itself
// when no separate instance exists, since modern filings embed the facts
// inline.
func (c *Client) LocateInstanceDocument(meta *FilingMetadata) (string, error) {
	accession := strings.ReplaceAll(meta.AccessionNumber, "-", "")
	indexURL := fmt.Sprintf(archivesBaseURL, strings.TrimLeft(meta.CIK, "0"), accession)

	body, err := c.fetchURL(indexURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch filing index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse filing index: %w", err)
	}

	instance := ""
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if strings.HasSuffix(href, "_htm.xml") && instance == "" {
			instance = href
		}
	})

	if instance != "" {
		if strings.HasPrefix(instance, "/") {
			return "https://www.sec.gov" + instance, nil
		}
		return indexURL + instance, nil
	}
	if meta.PrimaryDocument != "" {
		return indexURL + meta.PrimaryDocument, nil
	}
	return "", fmt.Errorf("no instance document found for accession %s", meta.AccessionNumber)
}
