package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"yoy_analysis/pkg/core/edgar"
	"yoy_analysis/pkg/core/xbrl"
)

// Debug tool: run the extraction engine against a single iXBRL instance
// document and dump the resulting year records as JSON.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	file := flag.String("file", "", "path to a local instance document")
	url := flag.String("url", "", "EDGAR URL of an instance document (used when -file is empty)")
	configPath := flag.String("config", "", "path to the ticker's extraction config (.hjson)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("Error: -config is required.")
	}
	if *file == "" && *url == "" {
		log.Fatal("Error: one of -file or -url is required.")
	}

	cfg, err := xbrl.LoadTickerConfig(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	var content string
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Error: reading %s: %v", *file, err)
		}
		content = string(data)
	} else {
		content, _, err = edgar.NewClient().GetFilingContents(*url)
		if err != nil {
			log.Fatalf("Error: fetching %s: %v", *url, err)
		}
	}

	doc, err := xbrl.ParseDocument(content)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	records := xbrl.ExtractFiling(doc, cfg)
	if len(records) == 0 {
		log.Fatal("Error: no metric values extracted.")
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Error: encoding output: %v", err)
	}
	fmt.Println(string(out))
}
