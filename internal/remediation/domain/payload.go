package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ManualReference points at the operating manual used to ground the guidance.
type ManualReference struct {
	Path string   `json:"path"`
	Tags []string `json:"tags,omitempty"`
}

// Payload is the job description submitted by producers. Unknown fields are dropped
// at decode time; everything the pipeline needs is modelled explicitly.
type Payload struct {
	TraceID         string           `json:"trace_id,omitempty"`
	Anomaly         map[string]any   `json:"anomaly,omitempty"`
	AIError         map[string]any   `json:"ai_error,omitempty"`
	ManualReference *ManualReference `json:"manual_reference,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	// Message overrides the alert message when present.
	Message *string `json:"message,omitempty"`
}

// IsEmpty reports whether the payload carries no usable field.
func (p Payload) IsEmpty() bool {
	return strings.TrimSpace(p.TraceID) == "" &&
		len(p.Anomaly) == 0 &&
		len(p.AIError) == 0 &&
		p.ManualReference == nil &&
		len(p.Metadata) == 0 &&
		p.Message == nil
}

// ManualPath returns the manual path or ErrMissingManualReference.
func (p Payload) ManualPath() (string, error) {
	if p.ManualReference == nil || strings.TrimSpace(p.ManualReference.Path) == "" {
		return "", ErrMissingManualReference
	}
	return strings.TrimSpace(p.ManualReference.Path), nil
}

// DashboardID extracts metadata.dashboard_id as an integer alert id.
// Integral numbers and numeric strings are accepted.
func (p Payload) DashboardID() (int64, error) {
	raw, ok := p.Metadata["dashboard_id"]
	if !ok || raw == nil {
		return 0, ErrMissingAlertReference
	}

	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, ErrMissingAlertReference
		}
		// int64 spans [-2^63, 2^63).
		if v < -(1<<63) || v >= 1<<63 {
			return 0, ErrMissingAlertReference
		}
		return int64(v), nil
	case json.Number:
		id, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, ErrMissingAlertReference
		}
		return id, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrMissingAlertReference
		}
		return id, nil
	default:
		return 0, ErrMissingAlertReference
	}
}

// MetadataString returns metadata[key] when it is a non-empty string.
func (p Payload) MetadataString(key string) string {
	if s, ok := p.Metadata[key].(string); ok {
		return s
	}
	return ""
}
