package api

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type RecordFailure struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

type SyncResult struct {
	Category   string          `json:"category"`
	RunID      string          `json:"run_id"`
	State      string          `json:"state"`
	Outcome    string          `json:"outcome"`
	Message    string          `json:"message,omitempty"`
	Fetched    int             `json:"fetched"`
	Written    int             `json:"written"`
	Skipped    int             `json:"skipped"`
	Failures   []RecordFailure `json:"failures,omitempty"`
	Items      []any           `json:"items,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	DurationMs int64           `json:"duration_ms"`
}

type InventorySection struct {
	Category string          `json:"category"`
	Outcome  string          `json:"outcome"`
	Count    int             `json:"count"`
	Items    []any           `json:"items"`
	Failures []RecordFailure `json:"failures,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type Inventory struct {
	RunID      string             `json:"run_id"`
	Categories []InventorySection `json:"categories"`
}

type Categories struct {
	Categories []string `json:"categories"`
}
