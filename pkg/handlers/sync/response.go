package sync

import (
	"fmt"

	"github.com/de-tools/cloud-sync/pkg/models/api"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
)

func mapRows(rows []store.Row) []any {
	items := make([]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, row)
	}
	return items
}

func mapFailures(failures []pipeline.Failure) []api.RecordFailure {
	if len(failures) == 0 {
		return nil
	}
	out := make([]api.RecordFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, api.RecordFailure{
			Index:  f.Index,
			Key:    f.Key,
			Stage:  string(f.Stage),
			Reason: f.Reason,
		})
	}
	return out
}

// MapResultToAPISyncResult renders a run result. Inventory categories carry
// the rows that were normalized in the run as items.
func MapResultToAPISyncResult(result pipeline.Result) api.SyncResult {
	out := api.SyncResult{
		Category:   result.Category.String(),
		RunID:      result.RunID,
		State:      string(result.State),
		Outcome:    string(result.Outcome),
		Fetched:    result.Fetched,
		Written:    result.Written,
		Skipped:    result.Skipped,
		Failures:   mapFailures(result.Failures),
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		DurationMs: result.Duration().Milliseconds(),
	}
	if len(result.Rows) > 0 {
		out.Items = mapRows(result.Rows)
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	if result.Outcome == pipeline.OutcomeNoData {
		out.Message = fmt.Sprintf("no %s records returned by the provider", result.Category)
	}
	return out
}

func MapResultToAPIInventorySection(result pipeline.Result) api.InventorySection {
	items := mapRows(result.Rows)
	out := api.InventorySection{
		Category: result.Category.String(),
		Outcome:  string(result.Outcome),
		Count:    len(items),
		Items:    items,
		Failures: mapFailures(result.Failures),
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	return out
}
