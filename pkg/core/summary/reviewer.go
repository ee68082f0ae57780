package summary

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"yoy_analysis/pkg/core/utils"
)

// Reviewer runs a second-pass quality check over a generated summary using
// the generative-ai-go SDK directly. It tightens wording and drops anything
// that reads like speculation rather than reported commentary. The reviewer
// is optional; pipelines that skip it ship the first-pass summary as is.
type Reviewer struct {
	client    *genai.Client
	modelName string
}

// NewReviewer connects to Gemini with GEMINI_API_KEY.
func NewReviewer(ctx context.Context) (*Reviewer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Reviewer{client: client, modelName: "gemini-2.0-flash"}, nil
}

// Close releases the underlying client.
func (r *Reviewer) Close() error {
	return r.client.Close()
}

// Review returns a cleaned revision of the summary. When the model output
// is unusable the original text is returned unchanged, the review pass
// never makes the report worse.
func (r *Reviewer) Review(ctx context.Context, summaryText string) (string, error) {
	model := r.client.GenerativeModel(r.modelName)
	model.SetTemperature(0.1)

	prompt := "Review this financial commentary summary. Remove speculation, fix factual " +
		"inconsistencies within the text, keep it in plain markdown. Return only the revised summary.\n\n" +
		summaryText

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("summary review failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return summaryText, nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	revised := utils.CleanMarkdown(b.String())
	if revised == "" || !utils.ValidateMarkdown(revised) {
		return summaryText, nil
	}
	return revised, nil
}
