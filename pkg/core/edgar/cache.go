package edgar

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilingCache is a file-based cache of fetched instance documents keyed by
// (cik, accession). Filings are immutable once published, so entries never
// expire.
type FilingCache struct {
	cacheDir string
}

// NewFilingCache creates a cache under .cache/edgar/filings in the working
// directory.
func NewFilingCache() *FilingCache {
	return NewFilingCacheWithDir(filepath.Join(".cache", "edgar", "filings"))
}

// NewFilingCacheWithDir creates a cache with a custom directory.
func NewFilingCacheWithDir(dir string) *FilingCache {
	os.MkdirAll(dir, 0755)
	return &FilingCache{cacheDir: dir}
}

func (c *FilingCache) cacheKey(cik, accession string) string {
	accession = strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s_%s", strings.TrimLeft(cik, "0"), accession)
}

func (c *FilingCache) filePath(key string) string {
	return filepath.Join(c.cacheDir, key+".xml")
}

// Get retrieves cached filing text, or "" when absent.
func (c *FilingCache) Get(cik, accession string) string {
	data, err := os.ReadFile(c.filePath(c.cacheKey(cik, accession)))
	if err != nil {
		return ""
	}
	return string(data)
}

// Set stores filing text in the cache. An existing entry whose content
// hashes identical is left untouched; filings are immutable once published,
// so re-runs would otherwise rewrite every entry they revisit.
func (c *FilingCache) Set(cik, accession, content string) error {
	path := c.filePath(c.cacheKey(cik, accession))
	if existing, err := os.ReadFile(path); err == nil && ContentHash(string(existing)) == ContentHash(content) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Has checks whether a filing is cached.
func (c *FilingCache) Has(cik, accession string) bool {
	_, err := os.Stat(c.filePath(c.cacheKey(cik, accession)))
	return err == nil
}

// Dir returns the cache directory path.
func (c *FilingCache) Dir() string {
	return c.cacheDir
}

// Clear removes all cached filings.
func (c *FilingCache) Clear() error {
	return os.RemoveAll(c.cacheDir)
}

// ContentHash returns the MD5 hash of content. Set uses it to detect
// unchanged entries before rewriting them.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}
