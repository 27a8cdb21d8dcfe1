// Package dto provides data transfer objects for alert HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	customValidation "github.com/allisson/remediation/internal/validation"
)

// AcknowledgeAlertRequest toggles the acknowledgement flag of an alert.
type AcknowledgeAlertRequest struct {
	IsAcknowledged *bool `json:"is_acknowledged"`
}

// Validate checks if the acknowledge request is valid.
func (r *AcknowledgeAlertRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IsAcknowledged, validation.NotNil),
	)
}

// SensorScoreRequest is a sensor contribution inside an anomaly event.
type SensorScoreRequest struct {
	Sensor int64   `json:"sensor"`
	Score  float64 `json:"score"`
}

// AnomalyEventRequest is the anomaly event posted by the monitoring process.
type AnomalyEventRequest struct {
	EventType string               `json:"event_type"`
	Timestamp float64              `json:"timestamp"`
	Risk      float64              `json:"risk"`
	T2        float64              `json:"t2"`
	SPE       float64              `json:"spe"`
	Top3T2    []SensorScoreRequest `json:"top3_t2"`
	Top3SPE   []SensorScoreRequest `json:"top3_spe"`
	AlarmCode *string              `json:"alarm_code"`
	Message   string               `json:"message"`
	Source    string               `json:"source"`
}

// Validate checks if the anomaly event is valid.
func (r *AnomalyEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventType,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 32),
		),
		validation.Field(&r.Timestamp, validation.Min(0.0)),
		validation.Field(&r.Top3T2, validation.Length(0, 3), validation.Each(validation.By(validateSensorScore))),
		validation.Field(&r.Top3SPE, validation.Length(0, 3), validation.Each(validation.By(validateSensorScore))),
		validation.Field(&r.AlarmCode, validation.NilOrNotEmpty, validation.Length(1, 64)),
		validation.Field(&r.Message, validation.Length(0, 1000)),
		validation.Field(&r.Source, validation.Length(0, 64)),
	)
}

func validateSensorScore(value interface{}) error {
	score, ok := value.(SensorScoreRequest)
	if !ok {
		return validation.NewError("validation_sensor_score_type", "must be a sensor score")
	}
	return validation.ValidateStruct(&score,
		validation.Field(&score.Sensor, validation.Required, validation.Min(int64(1))),
	)
}

// ToDomain converts the request into an anomaly event.
func (r *AnomalyEventRequest) ToDomain() *alertDomain.AnomalyEvent {
	return &alertDomain.AnomalyEvent{
		EventType: r.EventType,
		Timestamp: r.Timestamp,
		Risk:      r.Risk,
		T2:        r.T2,
		SPE:       r.SPE,
		Top3T2:    toScores(r.Top3T2),
		Top3SPE:   toScores(r.Top3SPE),
		AlarmCode: r.AlarmCode,
		Message:   r.Message,
		Source:    r.Source,
	}
}

func toScores(in []SensorScoreRequest) []alertDomain.SensorScore {
	if len(in) == 0 {
		return nil
	}
	out := make([]alertDomain.SensorScore, 0, len(in))
	for _, s := range in {
		out = append(out, alertDomain.SensorScore{Sensor: s.Sensor, Score: s.Score})
	}
	return out
}
