package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/gompdf/cvpdf/logging"
)

// ErrEmptyText is returned when there is nothing to improve
var ErrEmptyText = errors.New("text is empty")

// maxSuggestionInput bounds the text sent to the model
const maxSuggestionInput = 8000

const suggestionPrompt = `You are an expert CV editor. Rewrite the following %s section of a CV so it is concise,
specific and results-oriented. Keep every fact, do not invent employers, dates or numbers,
and keep the original language. Return only the rewritten text without markdown.

### SECTION TEXT:
%s
`

// Suggester proposes rewrites of CV sections with a language model
type Suggester struct {
	Client llms.Model
}

// NewSuggester wraps a language model
func NewSuggester(client llms.Model) *Suggester {
	return &Suggester{Client: client}
}

// NewGeminiSuggester creates a suggester backed by Google's Gemini models
func NewGeminiSuggester(ctx context.Context, apiKey, model string) (*Suggester, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewSuggester(llm), nil
}

// Suggest returns a rewrite of text, a section of a CV such as "summary"
// or "experience"
func (s *Suggester) Suggest(ctx context.Context, section, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	text = truncate(text, maxSuggestionInput)
	if section = strings.TrimSpace(section); section == "" {
		section = "free-form"
	}

	prompt := fmt.Sprintf(suggestionPrompt, section, text)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("failed to generate suggestion: %w", err)
	}
	logging.Logger().Debug("generated suggestion",
		slog.String("section", section),
		slog.Int("input_bytes", len(text)),
		slog.Int("output_bytes", len(resp)))
	return strings.TrimSpace(resp), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
