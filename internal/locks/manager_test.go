package locks

import (
	"context"
	"testing"
	"time"

	"exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const exhibitsTable = "exhibits"

func setup(t *testing.T) (*Manager, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&exhibits.Exhibit{}))

	repo := store.NewRepository[exhibits.Exhibit](db, exhibitsTable, "uuid", time.Second)
	rec, err := repo.Create(context.Background(), map[string]any{
		"uuid":  uuid.NewString(),
		"title": "Lockable",
	})
	require.NoError(t, err)

	return New(db, time.Second), rec.UUID
}

func TestAcquireUnlocked(t *testing.T) {
	mgr, id := setup(t)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Granted)
	assert.Equal(t, 1, st.IsLocked)
	assert.Equal(t, "7", st.LockedBy)
}

func TestAcquireReentrant(t *testing.T) {
	mgr, id := setup(t)

	_, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Granted)
	assert.Equal(t, "7", st.LockedBy)
}

func TestAcquireHeldByOther(t *testing.T) {
	mgr, id := setup(t)

	_, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "8", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.False(t, st.Granted)
	assert.Equal(t, "7", st.LockedBy)
	assert.Equal(t, 1, st.IsLocked)
}

func TestAcquireMissingRecord(t *testing.T) {
	mgr, _ := setup(t)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "7", uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestReleaseByOwner(t *testing.T) {
	mgr, id := setup(t)

	_, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)

	released, err := mgr.Release(context.Background(), exhibitsTable, "7", id, false)
	require.NoError(t, err)
	assert.True(t, released)

	// The lock is free again for anyone.
	st, err := mgr.Acquire(context.Background(), exhibitsTable, "8", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Granted)
}

func TestReleaseByNonOwnerDenied(t *testing.T) {
	mgr, id := setup(t)

	_, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)

	released, err := mgr.Release(context.Background(), exhibitsTable, "8", id, false)
	require.NoError(t, err)
	assert.False(t, released)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "8", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.False(t, st.Granted)
	assert.Equal(t, "7", st.LockedBy)
}

func TestReleaseForced(t *testing.T) {
	mgr, id := setup(t)

	_, err := mgr.Acquire(context.Background(), exhibitsTable, "7", id)
	require.NoError(t, err)

	released, err := mgr.Release(context.Background(), exhibitsTable, "99", id, true)
	require.NoError(t, err)
	assert.True(t, released)

	st, err := mgr.Acquire(context.Background(), exhibitsTable, "8", id)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Granted)
}

func TestReleaseMissingRecord(t *testing.T) {
	mgr, _ := setup(t)

	released, err := mgr.Release(context.Background(), exhibitsTable, "7", uuid.NewString(), false)
	require.NoError(t, err)
	assert.False(t, released)

	released, err = mgr.Release(context.Background(), exhibitsTable, "7", uuid.NewString(), true)
	require.NoError(t, err)
	assert.False(t, released)
}
