// Package utils holds small shared helpers: lenient JSON parsing for LLM
// output and markdown cleanup for generated summaries.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes common JSON defects in LLM output: missing key quotes,
// single quotes, unclosed brackets, trailing commas, markdown fences.
// Uses github.com/RealAlexandreAI/json-repair.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Hjson (comments, unquoted keys, optional commas) and
// returns canonical JSON.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	canonical, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to re-marshal hjson: %w", err)
	}
	return string(canonical), nil
}

// SmartUnmarshal parses model output into dest, trying strategies from
// strictest to most lenient: plain JSON, repaired JSON, then Hjson. Returns
// an error only when all three fail.
func SmartUnmarshal(input string, dest interface{}) error {
	if err := json.Unmarshal([]byte(input), dest); err == nil {
		return nil
	}
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), dest); err == nil {
			return nil
		}
	}
	canonical, err := ParseHJSON(input)
	if err != nil {
		return fmt.Errorf("input is not parseable as JSON, repaired JSON, or Hjson: %w", err)
	}
	if err := json.Unmarshal([]byte(canonical), dest); err != nil {
		return fmt.Errorf("lenient parse produced invalid structure: %w", err)
	}
	return nil
}
