package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a queue entry.
type Status string

// Queue entry statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Processable reports whether an entry in this status may be claimed.
func (s Status) Processable() bool {
	return s == StatusPending || s == StatusError
}

// QueueEntry is one job in the remediation queue.
type QueueEntry struct {
	ID           uuid.UUID
	TraceID      string
	Payload      Payload
	Status       Status
	AttemptCount int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeadLetterEntry is a job that exhausted its attempts.
type DeadLetterEntry struct {
	TraceID      string
	Payload      Payload
	ErrorMessage string
	FailedAt     time.Time
}

// QueueCounts is a point-in-time breakdown of the live queue plus lifetime counters.
type QueueCounts struct {
	Pending    int
	Processing int
	Error      int
	Done       int
	// Enqueued counts every entry ever created.
	Enqueued int
	// Pruned counts done entries removed by retention.
	Pruned int
}

// Live returns the number of entries currently held by the queue.
func (c QueueCounts) Live() int {
	return c.Pending + c.Processing + c.Error + c.Done
}

// StatusReport is the health snapshot returned by the status operation.
type StatusReport struct {
	Pending            int `json:"pending"`
	Processing         int `json:"processing"`
	Error              int `json:"error"`
	Completed          int `json:"completed"`
	DeadLetters        int `json:"dead_letters"`
	Enqueued           int `json:"enqueued"`
	Pruned             int `json:"pruned"`
	DeadLettersEvicted int `json:"dead_letters_evicted"`
}
