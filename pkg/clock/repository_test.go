package clock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runwayclock/runwayclock/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl, string) {
	ctx := context.Background()
	repository := NewRepository(db, CapacitySingle)
	ownerUid := uuid.NewString()
	return ctx, repository, ownerUid
}

func testClock(ownerUid string, name string) Clock {
	now := time.Date(2025, time.April, 10, 9, 30, 0, 0, time.UTC)
	end := now.Add(900 * 24 * time.Hour)
	return Clock{
		OwnerUid:      ownerUid,
		Name:          name,
		City:          "Lisbon",
		RunwayEndDate: &end,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func countClocksForOwner(t *testing.T, ctx context.Context, ownerUid string) int {
	t.Helper()
	var count int
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM clocks WHERE owner_uid = $1", ownerUid).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestRepositoryImpl_Upsert(t *testing.T) {

	t.Run("inserts a fresh clock", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)

		stored, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))

		require.NoError(t, err)
		assert.NotEmpty(t, stored.Id)
		assert.Equal(t, 1, countClocksForOwner(t, ctx, ownerUid))
	})

	t.Run("updates in place on a second save, preserving id and created_at", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		first, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		update := testClock(ownerUid, "Renamed startup")
		update.City = "Berlin"
		update.CreatedAt = first.CreatedAt.Add(time.Hour)
		update.UpdatedAt = first.UpdatedAt.Add(time.Hour)
		second, err := repo.Upsert(ctx, update)

		require.NoError(t, err)
		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, first.CreatedAt.UTC(), second.CreatedAt.UTC())
		assert.Equal(t, update.UpdatedAt.UTC(), second.UpdatedAt.UTC())
		assert.Equal(t, 1, countClocksForOwner(t, ctx, ownerUid))

		found, err := repo.FindByOwner(ctx, ownerUid)
		require.NoError(t, err)
		assert.Equal(t, "Renamed startup", found.Name)
		assert.Equal(t, "Berlin", found.City)
	})

	t.Run("concurrent upserts for a fresh owner leave exactly one row", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = repo.Upsert(ctx, testClock(ownerUid, "My startup"))
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, 1, countClocksForOwner(t, ctx, ownerUid))
	})

	t.Run("stores a clock without city or end date", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		c := testClock(ownerUid, "My startup")
		c.City = ""
		c.RunwayEndDate = nil

		stored, err := repo.Upsert(ctx, c)
		require.NoError(t, err)

		found, err := repo.FindById(ctx, stored.Id)
		require.NoError(t, err)
		assert.Empty(t, found.City)
		assert.Nil(t, found.RunwayEndDate)
	})
}

func TestRepositoryImpl_MultipleCapacity(t *testing.T) {

	t.Run("recovers from the unique index by updating the existing row", func(t *testing.T) {
		// The schema ships with the single-clock unique index; a repository
		// running in multiple capacity mode must treat the resulting
		// constraint violation as a recoverable signal, not an error.
		ctx := context.Background()
		repo := NewRepository(db, CapacityMultiple)
		ownerUid := uuid.NewString()

		first, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		second, err := repo.Upsert(ctx, testClock(ownerUid, "Renamed startup"))
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, 1, countClocksForOwner(t, ctx, ownerUid))
	})
}

func TestRepositoryImpl_Find(t *testing.T) {

	t.Run("finds by id and by owner", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		stored, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		byId, err := repo.FindById(ctx, stored.Id)
		require.NoError(t, err)
		byOwner, err := repo.FindByOwner(ctx, ownerUid)
		require.NoError(t, err)

		assert.Equal(t, byId, byOwner)
		assert.Equal(t, "My startup", byId.Name)
		assert.Equal(t, "Lisbon", byId.City)
		require.NotNil(t, byId.RunwayEndDate)
		assert.Equal(t, stored.RunwayEndDate.UTC(), byId.RunwayEndDate.UTC())
	})

	t.Run("returns ErrClockNotFound for unknown id", func(t *testing.T) {
		ctx, repo, _ := setupTestRepository(t)

		_, err := repo.FindById(ctx, uuid.NewString())

		assert.ErrorIs(t, err, ErrClockNotFound)
	})

	t.Run("returns ErrClockNotFound for an owner without a clock", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)

		_, err := repo.FindByOwner(ctx, ownerUid)

		assert.ErrorIs(t, err, ErrClockNotFound)
	})

	t.Run("lists only the owner's clocks", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		_, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, testClock(uuid.NewString(), "Somebody else"))
		require.NoError(t, err)

		clocks, err := repo.ListByOwner(ctx, ownerUid)

		require.NoError(t, err)
		require.Len(t, clocks, 1)
		assert.Equal(t, ownerUid, clocks[0].OwnerUid)
	})
}

func TestRepositoryImpl_Reset(t *testing.T) {

	t.Run("clears end date and city for the owner", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		stored, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		resetAt := stored.UpdatedAt.UTC().Add(time.Hour)
		ok, err := repo.Reset(ctx, stored.Id, ownerUid, resetAt)

		require.NoError(t, err)
		assert.True(t, ok)

		after, err := repo.FindById(ctx, stored.Id)
		require.NoError(t, err)
		assert.Equal(t, stored.Id, after.Id)
		assert.Equal(t, stored.Name, after.Name)
		assert.Equal(t, stored.CreatedAt.UTC(), after.CreatedAt.UTC())
		assert.Empty(t, after.City)
		assert.Nil(t, after.RunwayEndDate)
		assert.Equal(t, resetAt, after.UpdatedAt.UTC())
	})

	t.Run("does nothing for a non-owner", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		stored, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		ok, err := repo.Reset(ctx, stored.Id, uuid.NewString(), time.Now().UTC())

		require.NoError(t, err)
		assert.False(t, ok)

		after, err := repo.FindById(ctx, stored.Id)
		require.NoError(t, err)
		assert.NotNil(t, after.RunwayEndDate)
	})
}

func TestRepositoryImpl_Delete(t *testing.T) {

	t.Run("deletes only the owner's clock", func(t *testing.T) {
		ctx, repo, ownerUid := setupTestRepository(t)
		stored, err := repo.Upsert(ctx, testClock(ownerUid, "My startup"))
		require.NoError(t, err)

		ok, err := repo.Delete(ctx, stored.Id, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Delete(ctx, stored.Id, ownerUid)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, countClocksForOwner(t, ctx, ownerUid))
	})
}

func TestIsUniqueViolation(t *testing.T) {

	t.Run("recognizes the owner uniqueness constraint signal", func(t *testing.T) {
		ctx := context.Background()
		ownerUid := uuid.NewString()
		now := time.Now().UTC()

		insert := `INSERT INTO clocks (id, owner_uid, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`
		_, err := db.Exec(ctx, insert, uuid.NewString(), ownerUid, "first", now)
		require.NoError(t, err)

		_, err = db.Exec(ctx, insert, uuid.NewString(), ownerUid, "second", now)
		require.Error(t, err)
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("does not match other errors", func(t *testing.T) {
		assert.False(t, isUniqueViolation(nil))
		assert.False(t, isUniqueViolation(context.Canceled))
	})
}
