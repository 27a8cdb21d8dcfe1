package dto

import (
	"time"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
)

// AlertResponse represents an alert in API responses.
type AlertResponse struct {
	ID             int64     `json:"id"`
	SensorID       int64     `json:"sensor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
	IsAcknowledged bool      `json:"is_acknowledged"`
}

// MapAlertToResponse converts a domain alert to an API response.
func MapAlertToResponse(alert *alertDomain.Alert) AlertResponse {
	return AlertResponse{
		ID:             alert.ID,
		SensorID:       alert.SensorID,
		OccurredAt:     alert.CreatedAt,
		Type:           alert.Type,
		Message:        alert.Message,
		Recommendation: alert.Recommendation,
		IsAcknowledged: alert.Acknowledged,
	}
}

// ListAlertsResponse represents a paginated list of alerts in API responses.
type ListAlertsResponse struct {
	Data []AlertResponse `json:"data"`
}

// MapAlertsToListResponse converts a slice of domain alerts to a list API response.
func MapAlertsToListResponse(alerts []*alertDomain.Alert) ListAlertsResponse {
	alertResponses := make([]AlertResponse, 0, len(alerts))
	for _, alert := range alerts {
		alertResponses = append(alertResponses, MapAlertToResponse(alert))
	}
	return ListAlertsResponse{
		Data: alertResponses,
	}
}

// QueuedJobResponse identifies the remediation job opened for an ingested event.
type QueuedJobResponse struct {
	ID      string `json:"id"`
	TraceID string `json:"trace_id"`
	Status  string `json:"status"`
}

// IngestEventResponse is returned by event ingestion. Job is null when the alert was
// stored but no remediation job could be queued.
type IngestEventResponse struct {
	Alert AlertResponse      `json:"alert"`
	Job   *QueuedJobResponse `json:"job"`
}

// MapIngestResultToResponse converts an ingest result to an API response.
func MapIngestResultToResponse(result *alertDomain.IngestResult) IngestEventResponse {
	response := IngestEventResponse{Alert: MapAlertToResponse(result.Alert)}
	if result.Job != nil {
		response.Job = &QueuedJobResponse{
			ID:      result.Job.ID.String(),
			TraceID: result.Job.TraceID,
			Status:  string(result.Job.Status),
		}
	}
	return response
}
