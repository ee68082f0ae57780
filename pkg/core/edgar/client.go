// Package edgar fetches and locates SEC EDGAR filings: ticker-to-CIK
// resolution, 10-K discovery via the submissions API, XBRL instance document
// location, and rate-limited content retrieval with a file cache.
//
// This package uses github.com/PuerkitoBio/goquery for filing-index HTML
// traversal and golang.org/x/time/rate to stay inside the SEC's request
// ceiling.
package edgar

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent         = "YOY Analysis research@yoyanalysis.dev"
	submissionsAPIURL = "https://data.sec.gov/submissions/CIK%s.json"
	archivesBaseURL   = "https://www.sec.gov/Archives/edgar/data/%s/%s/"
	companyTickersURL = "https://www.sec.gov/files/company_tickers.json"

	fetchMaxAttempts = 3
	fetchRetryDelay  = 5 * time.Second
)

// rateLimitedTransport throttles every outbound SEC request and stamps the
// compliant User-Agent. SEC fair-access policy caps clients at 10 req/s.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// Client is the SEC EDGAR HTTP collaborator. All methods are safe for
// concurrent use.
type Client struct {
	http        *http.Client
	tickerCache map[string]string // ticker -> zero-padded CIK
	tickerMutex sync.RWMutex
	sleep       func(time.Duration) // test seam for retry backoff
}

// NewClient builds a client limited to 10 requests per second.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &rateLimitedTransport{
				base:    http.DefaultTransport,
				limiter: rate.NewLimiter(rate.Limit(10), 10),
			},
		},
		sleep: time.Sleep,
	}
}

// fetchURL performs one GET and returns the body.
func (c *Client) fetchURL(url string) ([]byte, error) {
	resp, err := c.http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// GetFilingContents retrieves a filing document with retry on transient
// failure: up to 3 attempts with a 5 second pause between them. On success
// it returns the raw text plus metadata parsed from the archive URL. A fetch
// that exhausts its retries returns an error; callers degrade to partial
// data rather than aborting the run.
func (c *Client) GetFilingContents(url string) (string, *FilingMetadata, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		body, err := c.fetchURL(url)
		if err == nil {
			meta := metadataFromURL(url)
			meta.FetchedAt = time.Now()
			return string(body), meta, nil
		}
		lastErr = err
		fmt.Printf("Warning: filing fetch attempt %d/%d failed: %v\n", attempt, fetchMaxAttempts, err)
		if attempt < fetchMaxAttempts {
			c.sleep(fetchRetryDelay)
		}
	}
	return "", nil, fmt.Errorf("filing fetch failed after %d attempts: %w", fetchMaxAttempts, lastErr)
}

// metadataFromURL extracts CIK and accession number from an archive URL of
// the form .../Archives/edgar/data/<cik>/<accession>/<file>.
func metadataFromURL(url string) *FilingMetadata {
	meta := &FilingMetadata{FilingURL: url}
	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part == "data" && i+2 < len(parts) {
			meta.CIK = parts[i+1]
			meta.AccessionNumber = parts[i+2]
			if i+3 < len(parts) {
				meta.PrimaryDocument = parts[i+3]
			}
			break
		}
	}
	return meta
}

// padCIK left-pads a CIK to the 10 digits the submissions API expects.
func padCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}
