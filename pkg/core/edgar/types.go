package edgar

import "time"

// ============================================================================
// Filing Metadata
// ============================================================================

// FilingMetadata describes one SEC filing located via the submissions API.
type FilingMetadata struct {
	CIK             string    `json:"cik"`
	CompanyName     string    `json:"company_name"`
	Tickers         []string  `json:"tickers,omitempty"`
	AccessionNumber string    `json:"accession_number"`
	FilingDate      string    `json:"filing_date"`
	Form            string    `json:"form"`
	FiscalYear      int       `json:"fiscal_year"`
	PrimaryDocument string    `json:"primary_document"`
	FilingURL       string    `json:"filing_url"`
	InstanceURL     string    `json:"instance_url,omitempty"`
	FetchedAt       time.Time `json:"fetched_at,omitempty"`
}

// SubmissionsResponse from the SEC submissions API.
type SubmissionsResponse struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings Filings  `json:"filings"`
}

// Filings contains filing information
type Filings struct {
	Recent RecentFilings `json:"recent"`
}

// RecentFilings contains recent filing arrays, parallel-indexed the way the
// SEC API returns them.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}
