package domain

import (
	"time"

	remediationDomain "github.com/allisson/remediation/internal/remediation/domain"
)

// Alert type values.
const (
	TypeWarning  = "WARNING"
	TypeCritical = "CRITICAL"
)

// Alert is a dashboard record shown to operators. The remediation worker writes its
// recommendation text back here.
type Alert struct {
	ID             int64
	SensorID       int64
	Type           string
	Recommendation string
	Message        string
	Acknowledged   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IngestResult is returned by event ingestion: the new alert and, when enqueueing
// succeeded, the remediation job opened for it.
type IngestResult struct {
	Alert *Alert
	Job   *remediationDomain.QueueEntry
}
