package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepo(t *testing.T) (*SQLiteOrderRepo, func()) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	repo := NewSQLiteOrderRepo(database, db.NewSQLiteUnitOfWork(database))
	return repo, func() { database.Close() }
}

func TestOrderRepo_LoadNeverPersistedReturnsEmpty(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	ids, err := repo.Load(ctx, "column:ongoing")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestOrderRepo_PersistAndLoadRoundTrip(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	want := []string{"p3", "p1", "p2"}
	require.NoError(t, repo.Persist(ctx, "column:ongoing", want))

	got, err := repo.Load(ctx, "column:ongoing")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOrderRepo_PersistIsIdempotent(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	want := []string{"p1", "p2"}
	require.NoError(t, repo.Persist(ctx, "day:2025-03-09:1", want))
	require.NoError(t, repo.Persist(ctx, "day:2025-03-09:1", want))

	got, err := repo.Load(ctx, "day:2025-03-09:1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOrderRepo_PersistReplacesPriorOrder(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Persist(ctx, "c", []string{"a", "b", "c"}))
	require.NoError(t, repo.Persist(ctx, "c", []string{"b"}))

	got, err := repo.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got)
}

func TestOrderRepo_MoveAcrossContainers(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Persist(ctx, "src", []string{"p1", "p2", "p3"}))
	require.NoError(t, repo.Persist(ctx, "dst", []string{"q1", "q2"}))

	require.NoError(t, repo.Move(ctx, "src", "dst", "p2", 1))

	src, err := repo.Load(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, src)

	dst, err := repo.Load(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "p2", "q2"}, dst)
}

func TestOrderRepo_MoveWithinSameContainer(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.Persist(ctx, "c", []string{"a", "b", "c"}))
	require.NoError(t, repo.Move(ctx, "c", "c", "c", 0))

	got, err := repo.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestOrderRepo_MoveFailureLeavesBothOrdersIntact(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()
	ctx := context.Background()

	setupRepo := NewSQLiteOrderRepo(database, db.NewSQLiteUnitOfWork(database))
	require.NoError(t, setupRepo.Persist(ctx, "src", []string{"p1", "p2"}))
	require.NoError(t, setupRepo.Persist(ctx, "dst", []string{"q1"}))

	// The move issues: delete src, re-insert src rows, delete dst,
	// insert dst rows. Fail partway through the target rewrite.
	injected := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 4, Err: injected}
	repo := NewSQLiteOrderRepo(database, failing)

	err = repo.Move(ctx, "src", "dst", "p1", 0)
	require.ErrorIs(t, err, injected)

	src, err := setupRepo.Load(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, src, "source order must not be partially applied")

	dst, err := setupRepo.Load(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, dst, "target order must not be partially applied")
}
