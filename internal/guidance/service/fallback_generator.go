package service

import (
	"context"
	"fmt"

	"github.com/allisson/remediation/internal/remediation/domain"
)

// fallbackNoteChars is how much of the manual is quoted in the first fallback step.
const fallbackNoteChars = 200

// FallbackGenerator produces generic low-confidence guidance without calling a model.
// It backs the "fallback" provider and is used when a model reply cannot be parsed.
type FallbackGenerator struct {
	model string
}

// NewFallbackGenerator creates a fallback generator that reports the given model name.
func NewFallbackGenerator(model string) *FallbackGenerator {
	return &FallbackGenerator{model: model}
}

// Generate returns the static three-step guidance for the payload.
func (g *FallbackGenerator) Generate(
	ctx context.Context,
	payload domain.Payload,
	manualText string,
) (*domain.Guidance, error) {
	return fallbackGuidance(payload, manualText, g.model), nil
}

func fallbackGuidance(payload domain.Payload, manualText, model string) *domain.Guidance {
	subject := "unknown metric"
	for _, key := range []string{"metric", "sensor_id"} {
		if v, ok := payload.Anomaly[key]; ok && v != nil && fmt.Sprint(v) != "" {
			subject = fmt.Sprint(v)
			break
		}
	}

	note := truncateRunes(manualText, fallbackNoteChars)
	if note == "" {
		note = "no manual content"
	}

	return &domain.Guidance{
		Summary: fmt.Sprintf("%s anomaly response - review the manual and act immediately.", subject),
		Steps: []domain.Step{
			{Order: 1, Action: "review the manual summary", Note: note},
			{Order: 2, Action: "inspect field equipment", Note: "check sensor status and recent changes"},
			{Order: 3, Action: "record the action taken", Note: "mark the recommendation as handled on the dashboard"},
		},
		Confidence: domain.ConfidenceLow,
		Model:      model,
	}
}
