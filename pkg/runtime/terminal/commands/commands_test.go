package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/runtime/terminal/export"
	"github.com/de-tools/cloud-sync/pkg/services/config"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	results map[domain.Category]pipeline.Result
	synced  []domain.Category
}

func (f *fakeSyncer) Categories() []domain.Category {
	return domain.Categories
}

func (f *fakeSyncer) Sync(_ context.Context, category domain.Category) (pipeline.Result, error) {
	f.synced = append(f.synced, category)
	return f.results[category], nil
}

func (f *fakeSyncer) SyncAll(ctx context.Context) []pipeline.Result {
	var out []pipeline.Result
	for _, c := range domain.Categories {
		r, _ := f.Sync(ctx, c)
		out = append(out, r)
	}
	return out
}

func (f *fakeSyncer) Inventory(_ context.Context) []pipeline.Result {
	return []pipeline.Result{{
		Category: domain.CategoryDatabase,
		Rows:     []store.Row{store.ManagedDatabase{DBInstanceID: "orders-db"}},
	}}
}

func opener(s *fakeSyncer, closed *bool) Opener {
	return func(context.Context) (Syncer, func() error, error) {
		return s, func() error { *closed = true; return nil }, nil
	}
}

func succeeded(c domain.Category) pipeline.Result {
	return pipeline.Result{Category: c, State: pipeline.StateDone, Outcome: pipeline.OutcomeSucceeded}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCmd_SingleCategory(t *testing.T) {
	syncer := &fakeSyncer{results: map[domain.Category]pipeline.Result{
		domain.CategoryCost: succeeded(domain.CategoryCost),
	}}
	var closed bool
	var report bytes.Buffer

	_, err := execute(t, NewSyncCmd(opener(syncer, &closed), export.NewReporter(&report)), "cost")

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryCost}, syncer.synced)
	assert.True(t, closed)
	assert.Contains(t, report.String(), "| cost ")
}

func TestSyncCmd_AllReportsFailures(t *testing.T) {
	failed := pipeline.Result{
		Category: domain.CategoryStorage,
		State:    pipeline.StateFetchFailed,
		Outcome:  pipeline.OutcomeFailed,
		Err:      errors.New("fetch storage: AccessDenied"),
	}
	syncer := &fakeSyncer{results: map[domain.Category]pipeline.Result{
		domain.CategoryCompute:  succeeded(domain.CategoryCompute),
		domain.CategoryDatabase: succeeded(domain.CategoryDatabase),
		domain.CategoryStorage:  failed,
		domain.CategoryCost:     succeeded(domain.CategoryCost),
	}}
	var closed bool
	var report bytes.Buffer

	_, err := execute(t, NewSyncCmd(opener(syncer, &closed), export.NewReporter(&report)), "all")

	assert.EqualError(t, err, "1 of 4 syncs failed")
	assert.Equal(t, domain.Categories, syncer.synced)
	assert.Contains(t, report.String(), "fetch storage: AccessDenied")
}

func TestSyncCmd_RejectsUnknownCategory(t *testing.T) {
	syncer := &fakeSyncer{}
	var closed bool

	_, err := execute(t, NewSyncCmd(opener(syncer, &closed), export.NewReporter(&bytes.Buffer{})), "lambda")

	assert.Error(t, err)
	assert.Empty(t, syncer.synced)
	assert.False(t, closed, "storage is not opened for invalid arguments")
}

func TestSyncCmd_OpenFailure(t *testing.T) {
	open := func(context.Context) (Syncer, func() error, error) {
		return nil, nil, errors.New("invalid AWS credentials")
	}

	_, err := execute(t, NewSyncCmd(open, export.NewReporter(&bytes.Buffer{})), "compute")

	assert.EqualError(t, err, "invalid AWS credentials")
}

func TestInventoryCmd(t *testing.T) {
	var closed bool
	var report bytes.Buffer

	_, err := execute(t, NewInventoryCmd(opener(&fakeSyncer{}, &closed), export.NewReporter(&report)))

	require.NoError(t, err)
	assert.True(t, closed)
	assert.Contains(t, report.String(), "- rds_instances orders-db")
}

func TestProfilesCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("[default]\nregion = us-east-1\n\n[profile ci]\noutput = json\n"), 0o600))

	load := func() (config.Registry, error) {
		return config.NewRegistry(path)
	}

	out, err := execute(t, NewProfilesCmd(load))

	require.NoError(t, err)
	assert.Equal(t, "ci\ndefault (us-east-1)\n", out)
}
