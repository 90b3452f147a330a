package store

// RowFailure pairs a rejected row with the reason it was skipped.
// Index is the row's position in the persisted batch.
type RowFailure struct {
	Index int
	Row   Row
	Err   error
}

type BatchResult struct {
	Written int
	Failed  []RowFailure
}
