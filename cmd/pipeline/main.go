package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"yoy_analysis/pkg/core/edgar"
	"yoy_analysis/pkg/core/fmp"
	"yoy_analysis/pkg/core/llm"
	"yoy_analysis/pkg/core/pipeline"
	"yoy_analysis/pkg/core/store"
	"yoy_analysis/pkg/core/summary"
)

// RunConfig is the YAML run file consumed with -run. Every field can also
// be supplied via flags for single-ticker invocations.
type RunConfig struct {
	Tickers   []string `yaml:"tickers"`
	StartYear int      `yaml:"start_year"`
	ConfigDir string   `yaml:"config_dir"`
	CacheDir  string   `yaml:"cache_dir"`
	Summarize bool     `yaml:"summarize"`
}

func loadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config %s: %w", path, err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return &cfg, nil
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	runFile := flag.String("run", "", "path to a YAML run config (overrides the other flags)")
	tickers := flag.String("tickers", "", "comma-separated tickers, e.g. PGR,ALL")
	startYear := flag.Int("start-year", 2019, "first fiscal year to pull filings for")
	configDir := flag.String("config-dir", "configs", "directory with per-ticker extraction configs")
	cacheDir := flag.String("cache-dir", "filing_cache", "directory for cached instance documents")
	summarize := flag.Bool("summarize", false, "attach an LLM summary of the run's processing notes")
	flag.Parse()

	var cfg *RunConfig
	if *runFile != "" {
		loaded, err := loadRunConfig(*runFile)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		cfg = loaded
	} else {
		cfg = &RunConfig{
			StartYear: *startYear,
			ConfigDir: *configDir,
			CacheDir:  *cacheDir,
			Summarize: *summarize,
		}
		if *tickers != "" {
			cfg.Tickers = strings.Split(*tickers, ",")
		}
	}
	if len(cfg.Tickers) == 0 {
		log.Fatal("Error: no tickers given. Use -tickers or a -run config file.")
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = "configs"
	}

	fmt.Println("🚀 YOY Analysis Pipeline Starting...")
	ctx := context.Background()

	client := edgar.NewClient()
	var cache *edgar.FilingCache
	if cfg.CacheDir != "" {
		cache = edgar.NewFilingCacheWithDir(cfg.CacheDir)
	}

	orch := pipeline.NewOrchestrator(client, cache, cfg.ConfigDir)

	if os.Getenv("FMP_API_KEY") != "" {
		orch.SetFilingURLResolver(fmp.NewClient())
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Println("Warning: DATABASE_URL not set, results will not be persisted.")
		orch.SetRepository(nil)
	} else if err := store.InitDB(ctx); err != nil {
		log.Fatalf("Error: database initialization failed: %v", err)
	}

	if cfg.Summarize {
		if os.Getenv("GEMINI_API_KEY") != "" {
			orch.SetSummarizer(summary.NewSummarizer(&llm.GeminiProvider{}))
			reviewer, err := summary.NewReviewer(ctx)
			if err != nil {
				log.Printf("Warning: summary reviewer unavailable: %v", err)
			} else {
				defer reviewer.Close()
				orch.SetReviewer(reviewer)
			}
		} else if os.Getenv("DEEPSEEK_API_KEY") != "" {
			orch.SetSummarizer(summary.NewSummarizer(&llm.DeepSeekProvider{}))
		} else {
			log.Println("Warning: summarize requested but no LLM API key set, skipping summaries.")
		}
	}

	failures := 0
	for _, raw := range cfg.Tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		result, err := orch.RunForTicker(ctx, ticker, cfg.StartYear)
		if err != nil {
			log.Printf("Error: pipeline failed for %s: %v", ticker, err)
			failures++
			continue
		}
		fmt.Printf("✅ %s: %d reporting years extracted\n", ticker, len(result.Payload.Years))
	}

	if failures == len(cfg.Tickers) {
		log.Fatal("Error: every ticker failed.")
	}
}
