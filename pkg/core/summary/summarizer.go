// Package summary turns timestamped qualitative commentary into a prose
// summary via an LLM provider, with bounded concurrency at the only place
// this system talks to a model in parallel.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"yoy_analysis/pkg/core/llm"
	"yoy_analysis/pkg/core/utils"
)

// TimedMessage is one piece of dated commentary about a company: a press
// item, a transcript fragment, an analyst note.
type TimedMessage struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

const (
	defaultMaxConcurrent  = 4
	defaultChunkSize      = 20
	defaultRequestTimeout = 90 * time.Second

	retryMaxAttempts = 3
	retryBaseDelay   = 2 * time.Second
)

// Summarizer condenses commentary in two phases: chunks are summarized in
// parallel under a semaphore capping in-flight provider calls, then the
// partial summaries are reduced in a single final call.
type Summarizer struct {
	provider       llm.Provider
	maxConcurrent  int
	chunkSize      int
	requestTimeout time.Duration
	sleep          func(time.Duration) // test seam for backoff
}

// NewSummarizer builds a summarizer with default bounds.
func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{
		provider:       provider,
		maxConcurrent:  defaultMaxConcurrent,
		chunkSize:      defaultChunkSize,
		requestTimeout: defaultRequestTimeout,
		sleep:          time.Sleep,
	}
}

// WithLimits overrides the concurrency bound and chunk size. Zero values
// keep the defaults.
func (s *Summarizer) WithLimits(maxConcurrent, chunkSize int) *Summarizer {
	if maxConcurrent > 0 {
		s.maxConcurrent = maxConcurrent
	}
	if chunkSize > 0 {
		s.chunkSize = chunkSize
	}
	return s
}

const systemPrompt = "You are a financial analyst. Summarize the supplied company commentary " +
	"into concise prose: key developments, management tone, and risks. Respond with a JSON object " +
	`{"summary": "..."} whose summary field holds the prose in plain markdown, no preamble.`

// chunkSummary is the structured response requested from the provider.
type chunkSummary struct {
	Summary string `json:"summary"`
}

// extractSummaryText pulls the summary field out of a model response.
// Providers are asked for a JSON object but drift into prose or defective
// JSON under load, so parsing is lenient and failures fall back to the
// cleaned raw text.
func extractSummaryText(raw string) string {
	cleaned := utils.CleanMarkdown(raw)
	var parsed chunkSummary
	if err := utils.SmartUnmarshal(cleaned, &parsed); err == nil && strings.TrimSpace(parsed.Summary) != "" {
		return strings.TrimSpace(parsed.Summary)
	}
	return cleaned
}

// Summarize produces one prose summary of all messages, ordered by
// timestamp. An empty input returns an empty string and no error.
func (s *Summarizer) Summarize(ctx context.Context, messages []TimedMessage) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	ordered := make([]TimedMessage, len(messages))
	copy(ordered, messages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	chunks := chunkMessages(ordered, s.chunkSize)
	if len(chunks) == 1 {
		text, err := s.generateWithRetry(ctx, formatChunk(chunks[0]))
		if err != nil {
			return "", err
		}
		return extractSummaryText(text), nil
	}

	// Map phase: summarize chunks in parallel, at most maxConcurrent
	// requests in flight.
	partials := make([]string, len(chunks))
	errs := make([]error, len(chunks))
	semaphore := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []TimedMessage) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			partials[i], errs[i] = s.generateWithRetry(ctx, formatChunk(chunk))
		}(i, chunk)
	}
	wg.Wait()

	var usable []string
	for i, partial := range partials {
		if errs[i] != nil {
			fmt.Printf("Warning: commentary chunk %d failed: %v\n", i, errs[i])
			continue
		}
		usable = append(usable, extractSummaryText(partial))
	}
	if len(usable) == 0 {
		return "", fmt.Errorf("all %d commentary chunks failed to summarize", len(chunks))
	}

	// Reduce phase: one call merging the partial summaries.
	reducePrompt := "Merge these partial summaries of the same company's commentary into one coherent summary:\n\n" +
		strings.Join(usable, "\n\n---\n\n")
	merged, err := s.generateWithRetry(ctx, reducePrompt)
	if err != nil {
		return "", err
	}
	return extractSummaryText(merged), nil
}

// generateWithRetry wraps one provider call with a per-request timeout and
// exponential backoff on transient failure.
func (s *Summarizer) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := retryBaseDelay
	for attempt := 1; attempt <= retryMaxAttempts; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		text, err := s.provider.GenerateResponse(reqCtx, prompt, systemPrompt, map[string]interface{}{
			"response_format": map[string]interface{}{"type": "json_object"},
		})
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < retryMaxAttempts {
			s.sleep(delay)
			delay *= 2
		}
	}
	return "", fmt.Errorf("summarization failed after %d attempts: %w", retryMaxAttempts, lastErr)
}

func chunkMessages(messages []TimedMessage, size int) [][]TimedMessage {
	var chunks [][]TimedMessage
	for start := 0; start < len(messages); start += size {
		end := start + size
		if end > len(messages) {
			end = len(messages)
		}
		chunks = append(chunks, messages[start:end])
	}
	return chunks
}

func formatChunk(messages []TimedMessage) string {
	var b strings.Builder
	b.WriteString("Company commentary, oldest first:\n\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s\n", m.Timestamp.Format("2006-01-02"), m.Text)
	}
	return b.String()
}
