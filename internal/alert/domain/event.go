package domain

import (
	"strings"
)

// SensorScore is a sensor contribution reported by the anomaly detector.
type SensorScore struct {
	Sensor int64   `json:"sensor"`
	Score  float64 `json:"score"`
}

// AnomalyEvent is the detector notification that opens an alert.
type AnomalyEvent struct {
	EventType string        `json:"event_type"`
	Timestamp float64       `json:"timestamp"`
	Risk      float64       `json:"risk"`
	T2        float64       `json:"t2"`
	SPE       float64       `json:"spe"`
	Top3T2    []SensorScore `json:"top3_t2,omitempty"`
	Top3SPE   []SensorScore `json:"top3_spe,omitempty"`
	AlarmCode *string       `json:"alarm_code,omitempty"`
	Message   string        `json:"message,omitempty"`
	Source    string        `json:"source,omitempty"`
}

// AlertType maps the event type to an alert type, defaulting to WARNING.
func (e AnomalyEvent) AlertType() string {
	switch strings.ToUpper(strings.TrimSpace(e.EventType)) {
	case TypeCritical:
		return TypeCritical
	default:
		return TypeWarning
	}
}

// SensorID returns the strongest contributing sensor, preferring the T2 ranking.
func (e AnomalyEvent) SensorID() int64 {
	if len(e.Top3T2) > 0 {
		return e.Top3T2[0].Sensor
	}
	if len(e.Top3SPE) > 0 {
		return e.Top3SPE[0].Sensor
	}
	return 0
}

// AlertMessage returns the alarm code when present, otherwise the free-form message.
func (e AnomalyEvent) AlertMessage() string {
	if e.AlarmCode != nil && strings.TrimSpace(*e.AlarmCode) != "" {
		return *e.AlarmCode
	}
	return e.Message
}

// Anomaly renders the event as the anomaly section of a remediation payload.
func (e AnomalyEvent) Anomaly() map[string]any {
	anomaly := map[string]any{
		"event_type": e.EventType,
		"timestamp":  e.Timestamp,
		"risk":       e.Risk,
		"t2":         e.T2,
		"spe":        e.SPE,
	}
	if len(e.Top3T2) > 0 {
		anomaly["top3_t2"] = scores(e.Top3T2)
	}
	if len(e.Top3SPE) > 0 {
		anomaly["top3_spe"] = scores(e.Top3SPE)
	}
	if e.AlarmCode != nil {
		anomaly["alarm_code"] = *e.AlarmCode
	}
	if e.Source != "" {
		anomaly["source"] = e.Source
	}
	return anomaly
}

func scores(in []SensorScore) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, s := range in {
		out = append(out, map[string]any{"sensor": s.Sensor, "score": s.Score})
	}
	return out
}
