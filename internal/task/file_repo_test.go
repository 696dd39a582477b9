package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/model"
)

func TestFileRepo_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	want := []model.Task{
		{
			ID:      "task_1",
			Title:   "write release notes",
			DueDate: &due,
			Repeat:  &model.Repeat{Frequency: model.FreqWeekly, Interval: 1, WeeklyDays: []int{1}},
		},
		{ID: "task_2", Title: "archive old boards", Completed: true},
	}
	require.NoError(t, repo.Save(ctx, want))

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, want[0].ID, got[0].ID)
	require.NotNil(t, got[0].Repeat)
	assert.Equal(t, []int{1}, got[0].Repeat.WeeklyDays)
	require.NotNil(t, got[0].DueDate)
	assert.True(t, got[0].DueDate.Equal(due))
}

func TestFileRepo_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o644))

	_, err := NewFileRepo(dir)
	assert.Error(t, err)
}

func TestFileRepo_LoadReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, []model.Task{{ID: "task_1", Title: "original"}}))

	first, err := repo.Load(ctx)
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", second[0].Title)
}
