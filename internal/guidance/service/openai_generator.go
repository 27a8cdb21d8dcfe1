// Package service implements guidance generators that turn a remediation payload and
// manual text into structured remediation steps.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/allisson/remediation/internal/remediation/domain"
)

const (
	defaultTemperature     = 0.1
	defaultMaxOutputTokens = 800
	// errorBodyChars limits how much of an error response ends up in last_error.
	errorBodyChars = 300
)

// OpenAIConfig holds the OpenAI Responses API settings.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// ExcerptChars bounds the manual text sent in the prompt.
	ExcerptChars int
}

// OpenAIGenerator calls the OpenAI Responses API. Transport failures and non-2xx
// replies are generation errors; a reply that is not the expected JSON document
// degrades to fallback guidance.
type OpenAIGenerator struct {
	config OpenAIConfig
	client *retryablehttp.Client
	logger *slog.Logger
}

type responsesRequest struct {
	Model           string          `json:"model"`
	Input           []inputMessage  `json:"input"`
	Temperature     float64         `json:"temperature"`
	MaxOutputTokens int             `json:"max_output_tokens"`
	Text            *responseFormat `json:"text,omitempty"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Format map[string]string `json:"format"`
}

type responsesReply struct {
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

type guidanceDocument struct {
	Summary    string        `json:"summary"`
	Steps      []domain.Step `json:"steps"`
	Confidence string        `json:"confidence"`
}

// NewOpenAIGenerator creates an OpenAI-backed guidance generator.
func NewOpenAIGenerator(config OpenAIConfig, logger *slog.Logger) *OpenAIGenerator {
	client := retryablehttp.NewClient()
	client.RetryMax = config.MaxRetries
	if config.RetryWaitMin > 0 {
		client.RetryWaitMin = config.RetryWaitMin
	}
	if config.RetryWaitMax > 0 {
		client.RetryWaitMax = config.RetryWaitMax
	}
	client.HTTPClient.Timeout = config.Timeout
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &OpenAIGenerator{
		config: config,
		client: client,
		logger: logger,
	}
}

// Generate requests guidance for the payload.
func (g *OpenAIGenerator) Generate(
	ctx context.Context,
	payload domain.Payload,
	manualText string,
) (*domain.Guidance, error) {
	body, err := json.Marshal(responsesRequest{
		Model: g.config.Model,
		Input: []inputMessage{
			{Role: "user", Content: buildPrompt(payload, manualText, g.config.ExcerptChars)},
		},
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
		Text:            &responseFormat{Format: map[string]string{"type": "json_object"}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %w", domain.ErrGuidanceGeneration, err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.config.BaseURL+"/responses",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", domain.ErrGuidanceGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGuidanceGeneration, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrGuidanceGeneration, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: provider returned status %d: %s",
			domain.ErrGuidanceGeneration, resp.StatusCode, truncateRunes(string(raw), errorBodyChars))
	}

	var reply responsesReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrGuidanceGeneration, err)
	}

	if guidance, ok := parseGuidance(reply.text()); ok {
		guidance.Model = g.config.Model
		return guidance, nil
	}

	if g.logger != nil {
		g.logger.Warn("guidance reply was not valid JSON, using fallback guidance",
			slog.String("trace_id", payload.TraceID),
			slog.String("model", g.config.Model),
		)
	}
	return fallbackGuidance(payload, manualText, g.config.Model), nil
}

// text returns output_text or the first output_text content part.
func (r responsesReply) text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// parseGuidance decodes the model reply. A reply needs a summary and a steps list.
func parseGuidance(text string) (*domain.Guidance, bool) {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return nil, false
	}

	var doc guidanceDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, false
	}
	if strings.TrimSpace(doc.Summary) == "" || doc.Steps == nil {
		return nil, false
	}

	confidence := strings.ToLower(strings.TrimSpace(doc.Confidence))
	switch confidence {
	case domain.ConfidenceLow, domain.ConfidenceMedium, domain.ConfidenceHigh:
	default:
		confidence = domain.ConfidenceLow
	}

	return &domain.Guidance{
		Summary:    doc.Summary,
		Steps:      doc.Steps,
		Confidence: confidence,
	}, true
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[newline+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
