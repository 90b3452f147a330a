package pipeline

import (
	"time"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
)

type State string

const (
	StateFetching      State = "fetching"
	StateNormalizing   State = "normalizing"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateFetchFailed   State = "fetch_failed"
	StatePersistFailed State = "persist_failed"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeNoData    Outcome = "no_data"
	OutcomeFailed    Outcome = "failed"
)

type Stage string

const (
	StageNormalize Stage = "normalize"
	StagePersist   Stage = "persist"
)

// Failure describes one skipped record. Index is the record's position in the fetched batch.
type Failure struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}

type Result struct {
	Category   domain.Category `json:"category"`
	RunID      string          `json:"run_id"`
	State      State           `json:"state"`
	Outcome    Outcome         `json:"outcome"`
	Fetched    int             `json:"fetched"`
	Written    int             `json:"written"`
	Skipped    int             `json:"skipped"`
	Failures   []Failure       `json:"failures,omitempty"`
	Rows       []store.Row     `json:"rows,omitempty"`
	Err        error           `json:"-"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
