package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedred-internship-api/internal/domain"
)

func newSession(id string) *domain.WizardSession {
	return &domain.WizardSession{
		ID:      id,
		Step:    domain.StepPersonalInfo,
		Touched: map[string]bool{},
		Record:  domain.NewApplicationRecord(),
	}
}

func TestSessionRepo_CreateGetSave(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	s := newSession("s-1")
	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, s), domain.ErrVersionConflict)

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	got.Record.FirstName = "Jane"
	require.NoError(t, repo.Save(ctx, got))
	assert.Equal(t, int64(1), got.Version)

	again, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Record.FirstName)
	assert.Equal(t, int64(1), again.Version)
}

func TestSessionRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(0)
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	got, _ := repo.Get(ctx, "s-1")
	got.Record.Skills = append(got.Record.Skills, "Go")
	got.Touched["email"] = true

	fresh, _ := repo.Get(ctx, "s-1")
	assert.Empty(t, fresh.Record.Skills)
	assert.Empty(t, fresh.Touched)
}

func TestSessionRepo_VersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(0)
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	a, _ := repo.Get(ctx, "s-1")
	b, _ := repo.Get(ctx, "s-1")

	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), domain.ErrVersionConflict)
}

func TestSessionRepo_ExpiryAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Create(ctx, newSession("s-1")))
	require.NoError(t, repo.Create(ctx, newSession("s-2")))

	now = now.Add(2 * time.Minute)
	_, err := repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "s-2"))
	assert.Equal(t, 0, repo.Len())
	assert.ErrorIs(t, repo.Save(ctx, newSession("s-2")), domain.ErrNotFound)
}

func TestSimulatedSubmitter(t *testing.T) {
	sub := NewSimulatedSubmitter(0)
	app := &domain.SubmittedApplication{ReferenceNumber: "TED-1", Record: domain.NewApplicationRecord()}

	require.NoError(t, sub.Submit(context.Background(), app))
	require.NoError(t, sub.Submit(context.Background(), app))
	assert.Equal(t, 1, sub.Count())

	stored, ok := sub.Get("TED-1")
	require.True(t, ok)
	assert.Equal(t, "TED-1", stored.ReferenceNumber)
}

func TestSimulatedSubmitter_HonoursCancellation(t *testing.T) {
	sub := NewSimulatedSubmitter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sub.Submit(ctx, &domain.SubmittedApplication{ReferenceNumber: "TED-2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sub.Count())
}
