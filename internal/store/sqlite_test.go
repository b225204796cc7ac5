package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/meeting-agent/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCreateAndGetRun(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "transcripts/sprint-sync.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "transcripts/sprint-sync.txt", got.Source)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Empty(t, got.Error)
	assert.Nil(t, got.Result)
}

func TestUpdateRunStatusFailed(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "http")
	require.NoError(t, err)

	err = st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed, "pipeline: stage extraction failed")
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "pipeline: stage extraction failed", got.Error)
}

func TestUpdateRunResult(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "http")
	require.NoError(t, err)

	result := &model.FinalOutput{
		MeetingSummary: "MEETING ANALYSIS SUMMARY",
		ActionItems: []model.ActionItem{{
			ID:          "action_1",
			Description: "Fix the login flow",
			Confidence:  1.0,
		}},
		Metadata: model.Metadata{
			RunID:         run.ID,
			ReferenceDate: model.NewDate(2026, time.January, 10),
			GeneratedAt:   time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
			ActionItems:   1,
		},
	}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "action_1", got.Result.ActionItems[0].ID)
	assert.Equal(t, "2026-01-10", got.Result.Metadata.ReferenceDate.String())
}

func TestUpdateMissingRun(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, st.UpdateRunStatus(ctx, "nope", model.RunStatusFailed, "x"))
	assert.Error(t, st.UpdateRunResult(ctx, "nope", &model.FinalOutput{}))
	_, err := st.GetRun(ctx, "nope")
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "a.txt")
	require.NoError(t, err)
	b, err := st.CreateRun(ctx, "b.txt")
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusFailed, "boom"))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, a.ID, failed[0].ID)

	running, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, b.ID, running[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
