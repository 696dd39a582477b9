package task

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/bus"
	"noteboard/internal/clock"
	"noteboard/internal/model"
)

// recordingRepo wraps MemoryRepo and counts Save calls.
type recordingRepo struct {
	*MemoryRepo
	saves int
}

func (r *recordingRepo) Save(ctx context.Context, items []model.Task) error {
	r.saves++
	return r.MemoryRepo.Save(ctx, items)
}

type failingRepo struct{}

func (failingRepo) Load(ctx context.Context) ([]model.Task, error) {
	return nil, errors.New("disk trouble")
}

func (failingRepo) Save(ctx context.Context, items []model.Task) error {
	return errors.New("disk trouble")
}

func newTestService(t *testing.T) (*Service, *recordingRepo, *int, *clock.FakeClock) {
	t.Helper()
	repo := &recordingRepo{MemoryRepo: NewMemoryRepo()}
	signals := bus.New()
	published := 0
	cancel := signals.Subscribe(bus.SignalTasksUpdated, func() { published++ })
	t.Cleanup(cancel)
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewService(repo, signals, clk, log.New(testWriter{t}, "", 0)), repo, &published, clk
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestService_CreateAndGet(t *testing.T) {
	s, _, published, clk := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Task{Title: "pick up eggs"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, clk.Now(), created.CreatedAt)
	assert.Equal(t, 1, *published)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, "task_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateAppliesPatch(t *testing.T) {
	s, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Task{Title: "old title"})
	require.NoError(t, err)

	title := "new title"
	dueDate := "2024-02-15"
	updated, err := s.Update(ctx, created.ID, Patch{Title: &title, DueDate: &dueDate})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, 15, updated.DueDate.Day())

	clearDue := ""
	updated, err = s.Update(ctx, created.ID, Patch{DueDate: &clearDue})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestService_ListDegradesToEmptyOnReadError(t *testing.T) {
	s := NewService(failingRepo{}, bus.New(), nil, log.New(testWriter{t}, "", 0))
	assert.Empty(t, s.List(context.Background()))
}

func TestService_CompletePersistsSuccessorInSameBatch(t *testing.T) {
	s, repo, published, clk := newTestService(t)
	ctx := context.Background()

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := s.Create(ctx, model.Task{
		Title:   "water plants",
		DueDate: &due,
		Repeat:  &model.Repeat{Frequency: model.FreqDaily, Interval: 1},
	})
	require.NoError(t, err)

	repo.saves = 0
	*published = 0

	completed, successor, err := s.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, clk.Now(), *completed.CompletedAt)

	require.NotNil(t, successor)
	assert.False(t, successor.Completed)
	require.NotNil(t, successor.DueDate)
	assert.Equal(t, due.AddDate(0, 0, 1), *successor.DueDate)

	assert.Equal(t, 1, repo.saves, "completion and successor must land in one write")
	assert.Equal(t, 1, *published, "one signal per effective completion")

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestService_CompleteNonRepeatingHasNoSuccessor(t *testing.T) {
	s, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Task{Title: "one off"})
	require.NoError(t, err)

	completed, successor, err := s.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.Nil(t, successor)
}

func TestService_CompleteAlreadyCompletedIsNoop(t *testing.T) {
	s, repo, published, _ := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Task{Title: "done once"})
	require.NoError(t, err)
	_, _, err = s.Complete(ctx, created.ID)
	require.NoError(t, err)

	repo.saves = 0
	*published = 0

	again, successor, err := s.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.Nil(t, successor)
	assert.Equal(t, 0, repo.saves)
	assert.Equal(t, 0, *published)
}

func TestService_Delete(t *testing.T) {
	s, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Task{Title: "short lived"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)
	assert.Empty(t, s.List(ctx))
}
