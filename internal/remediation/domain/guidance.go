package domain

import (
	"fmt"
	"slices"
	"strings"
)

// FailureRecommendation is written to the alert when a job is dead-lettered.
const FailureRecommendation = "recommendation generation failed"

// Confidence levels reported by guidance generators.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Step is a single ordered remediation action.
type Step struct {
	Order  int    `json:"order"`
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// Guidance is the structured output of a guidance generator.
type Guidance struct {
	Summary    string `json:"summary"`
	Steps      []Step `json:"steps"`
	Confidence string `json:"confidence"`
	Model      string `json:"model,omitempty"`
}

// OrderedSteps returns a copy of the steps sorted by Order, keeping input order on ties.
func (g Guidance) OrderedSteps() []Step {
	steps := slices.Clone(g.Steps)
	slices.SortStableFunc(steps, func(a, b Step) int {
		return a.Order - b.Order
	})
	return steps
}

// Render produces the recommendation text stored on the alert: the summary line
// followed by one "N. action - note" line per step.
func (g Guidance) Render() string {
	lines := make([]string, 0, len(g.Steps)+1)
	lines = append(lines, g.Summary)

	for _, step := range g.OrderedSteps() {
		line := fmt.Sprintf("%d. %s", step.Order, step.Action)
		if step.Note != "" {
			line += " - " + step.Note
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// RemediationResult is returned for a successfully processed job.
type RemediationResult struct {
	TraceID    string `json:"trace_id"`
	AlertID    int64  `json:"alert_id"`
	Summary    string `json:"summary"`
	Steps      []Step `json:"steps"`
	Confidence string `json:"confidence"`
}
