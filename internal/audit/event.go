// Package audit mirrors access log entries onto a Kafka topic so downstream
// systems (airline boarding control, security operations) can follow
// checkpoint traffic without polling the service.
package audit

import (
	"time"

	"truida/internal/passenger/models"
)

// AccessEvent is the wire form of one access log entry.
type AccessEvent struct {
	EventID     string    `json:"event_id"`
	PassengerID string    `json:"passenger_id"`
	Checkpoint  string    `json:"checkpoint"`
	Result      string    `json:"result"`
	Outcome     string    `json:"outcome"`
	StaffID     string    `json:"staff_id"`
	Notes       string    `json:"notes,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	RequestID   string    `json:"request_id,omitempty"`
}

func FromEntry(entry models.AccessLogEntry, requestID string) AccessEvent {
	return AccessEvent{
		EventID:     entry.ID.String(),
		PassengerID: entry.PassengerID.String(),
		Checkpoint:  string(entry.Checkpoint),
		Result:      string(entry.Result),
		Outcome:     entry.Outcome,
		StaffID:     entry.StaffID,
		Notes:       entry.Notes,
		OccurredAt:  entry.Timestamp.UTC(),
		RequestID:   requestID,
	}
}
