package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Results(t *testing.T) {
	var buf bytes.Buffer
	started := time.Date(2024, 10, 21, 8, 0, 0, 0, time.UTC)

	err := NewReporter(&buf).Results([]pipeline.Result{
		{
			Category:   domain.CategoryCompute,
			RunID:      "run-1",
			State:      pipeline.StateDone,
			Outcome:    pipeline.OutcomeSucceeded,
			Fetched:    3,
			Written:    2,
			Skipped:    1,
			Failures:   []pipeline.Failure{{Index: 1, Stage: pipeline.StageNormalize, Reason: "malformed compute record: missing InstanceId"}},
			StartedAt:  started,
			FinishedAt: started.Add(1200 * time.Millisecond),
		},
		{
			Category: domain.CategoryCost,
			State:    pipeline.StateFetchFailed,
			Outcome:  pipeline.OutcomeFailed,
			Err:      domain.NewUpstreamFetchError(domain.CategoryCost, errors.New("AccessDeniedException")),
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "| compute    | succeeded        |        3 |        2 |        1 | run run-1 in 1.2s")
	assert.Contains(t, out, "| cost       | fetch_failed     |")
	assert.Contains(t, out, "fetch cost: AccessDeniedException")
	assert.Contains(t, out, "  compute #1 normalize: malformed compute record: missing InstanceId")
}

func TestReporter_Inventory(t *testing.T) {
	var buf bytes.Buffer

	err := NewReporter(&buf).Inventory([]pipeline.Result{
		{
			Category: domain.CategoryCompute,
			Rows: []store.Row{
				store.ComputeInstance{InstanceID: "i-1"},
				store.ComputeInstance{InstanceID: "i-2"},
			},
		},
		{
			Category: domain.CategoryStorage,
			Err:      errors.New("fetch storage: ExpiredToken"),
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "=== compute (2) ===\n- ec2_instances i-1\n- ec2_instances i-2\n")
	assert.Contains(t, out, "=== storage (0) ===\nerror: fetch storage: ExpiredToken\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, strings.Repeat("a", 7)+"...", truncate(strings.Repeat("a", 20), 10))
}
