package admin

import "time"

// SweepResponse reports a manually triggered lifecycle sweep.
type SweepResponse struct {
	Removed int       `json:"removed"`
	SweptAt time.Time `json:"swept_at"`
}

// ClearResponse reports a clear-all of records and access log.
type ClearResponse struct {
	Cleared   bool      `json:"cleared"`
	ClearedAt time.Time `json:"cleared_at"`
}
