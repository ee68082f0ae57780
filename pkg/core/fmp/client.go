// Package fmp is a thin client for Financial Modeling Prep style fundamental
// data: annual statements, company profiles, and the finalLink field used to
// discover which SEC filing covers a given fiscal year.
package fmp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client queries the FMP REST API. The API key comes from FMP_API_KEY unless
// set explicitly.
type Client struct {
	APIKey  string
	BaseURL string
	http    *http.Client
}

// NewClient reads FMP_API_KEY from the environment.
func NewClient() *Client {
	return &Client{
		APIKey:  os.Getenv("FMP_API_KEY"),
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BalanceSheetStatement is one annual statement row. Only the fields the
// pipeline consumes are mapped.
type BalanceSheetStatement struct {
	Date         string `json:"date"`
	Symbol       string `json:"symbol"`
	CalendarYear string `json:"calendarYear"`
	Period       string `json:"period"`
	FinalLink    string `json:"finalLink"`
	Link         string `json:"link"`
}

// CompanyProfile holds the company header fields the report carries.
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	CIK         string  `json:"cik"`
	Exchange    string  `json:"exchangeShortName"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	Price       float64 `json:"price"`
	MktCap      float64 `json:"mktCap"`
	Description string  `json:"description"`
}

func (c *Client) get(path string, params url.Values, out interface{}) error {
	if c.APIKey == "" {
		return fmt.Errorf("FMP_API_KEY is not set")
	}
	params.Set("apikey", c.APIKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())

	resp, err := c.http.Get(fullURL)
	if err != nil {
		return fmt.Errorf("FMP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FMP returned status %d for %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read FMP response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse FMP response: %w", err)
	}
	return nil
}

// GetBalanceSheetStatements fetches all annual balance-sheet statements for
// a symbol, newest first.
func (c *Client) GetBalanceSheetStatements(symbol string) ([]BalanceSheetStatement, error) {
	var statements []BalanceSheetStatement
	params := url.Values{"period": {"annual"}}
	if err := c.get("/balance-sheet-statement/"+url.PathEscape(symbol), params, &statements); err != nil {
		return nil, err
	}
	return statements, nil
}

// GetProfile fetches the company profile for a symbol.
func (c *Client) GetProfile(symbol string) (*CompanyProfile, error) {
	var profiles []CompanyProfile
	if err := c.get("/profile/"+url.PathEscape(symbol), url.Values{}, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile found for %s", symbol)
	}
	return &profiles[0], nil
}

// FindFilingURL returns the SEC filing URL (finalLink) for the statement
// covering the given calendar year.
func (c *Client) FindFilingURL(symbol string, year int) (string, error) {
	statements, err := c.GetBalanceSheetStatements(symbol)
	if err != nil {
		return "", err
	}
	for _, stmt := range statements {
		y, err := strconv.Atoi(stmt.CalendarYear)
		if err != nil || y != year {
			continue
		}
		if stmt.FinalLink == "" {
			return "", fmt.Errorf("statement for %s %d has no filing link", symbol, year)
		}
		return stmt.FinalLink, nil
	}
	return "", fmt.Errorf("no financial statement found for %s in %d", symbol, year)
}
