package trash

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

func setup(t *testing.T) (*Manager, *store.Set, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&exhibits.Exhibit{},
		&exhibits.Heading{},
		&exhibits.Item{},
		&exhibits.Grid{},
		&exhibits.GridItem{},
	))

	return New(db, time.Second), store.NewSet(db, time.Second), db
}

func newExhibit(t *testing.T, set *store.Set) *exhibits.Exhibit {
	t.Helper()
	rec, err := set.Exhibits.Create(context.Background(), map[string]any{
		"uuid":  uuid.NewString(),
		"title": "Trashable",
	})
	require.NoError(t, err)
	return rec
}

func newItem(t *testing.T, set *store.Set, exhibitUUID string) *exhibits.Item {
	t.Helper()
	rec, err := set.Items.Create(context.Background(), map[string]any{
		"uuid":                 uuid.NewString(),
		"is_member_of_exhibit": exhibitUUID,
		"text":                 "content",
	})
	require.NoError(t, err)
	return rec
}

func TestListTrashedOmitsEmptyKinds(t *testing.T) {
	mgr, set, _ := setup(t)
	ctx := context.Background()

	trashed, err := mgr.ListTrashed(ctx)
	require.NoError(t, err)
	assert.Empty(t, trashed)

	ex := newExhibit(t, set)
	require.NoError(t, set.Exhibits.SoftDelete(ctx, ex.UUID, ex.UUID))

	trashed, err = mgr.ListTrashed(ctx)
	require.NoError(t, err)
	assert.Contains(t, trashed, exhibits.KindExhibit)
	assert.NotContains(t, trashed, exhibits.KindItem)
	assert.NotContains(t, trashed, exhibits.KindHeading)

	got, ok := trashed[exhibits.KindExhibit].([]exhibits.Exhibit)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, ex.UUID, got[0].UUID)
}

func TestPurgeInvalidKind(t *testing.T) {
	mgr, _, _ := setup(t)

	err := mgr.Purge(context.Background(), "", uuid.NewString(), "banana")
	var invalid *InvalidKindError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "banana", invalid.Kind)
}

func TestPurgeRemovesOnlyTrashed(t *testing.T) {
	mgr, set, db := setup(t)
	ctx := context.Background()

	ex := newExhibit(t, set)
	live := newItem(t, set, ex.UUID)
	doomed := newItem(t, set, ex.UUID)
	require.NoError(t, set.Items.SoftDelete(ctx, ex.UUID, doomed.UUID))

	// A live record cannot be purged.
	require.NoError(t, mgr.Purge(ctx, ex.UUID, live.UUID, exhibits.KindItem))
	var n int64
	require.NoError(t, db.Model(&exhibits.Item{}).Where("uuid = ?", live.UUID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	require.NoError(t, mgr.Purge(ctx, ex.UUID, doomed.UUID, exhibits.KindItem))
	require.NoError(t, db.Model(&exhibits.Item{}).Where("uuid = ?", doomed.UUID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestPurgeRespectsScope(t *testing.T) {
	mgr, set, db := setup(t)
	ctx := context.Background()

	ex := newExhibit(t, set)
	other := newExhibit(t, set)
	doomed := newItem(t, set, ex.UUID)
	require.NoError(t, set.Items.SoftDelete(ctx, ex.UUID, doomed.UUID))

	// Wrong scope leaves the row alone.
	require.NoError(t, mgr.Purge(ctx, other.UUID, doomed.UUID, exhibits.KindItem))
	var n int64
	require.NoError(t, db.Model(&exhibits.Item{}).Where("uuid = ?", doomed.UUID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestPurgeAll(t *testing.T) {
	mgr, set, db := setup(t)
	ctx := context.Background()

	ex := newExhibit(t, set)
	keep := newItem(t, set, ex.UUID)
	gone := newItem(t, set, ex.UUID)
	require.NoError(t, set.Items.SoftDelete(ctx, ex.UUID, gone.UUID))
	require.NoError(t, set.Exhibits.SoftDelete(ctx, ex.UUID, ex.UUID))

	require.NoError(t, mgr.PurgeAll(ctx))

	var n int64
	require.NoError(t, db.Model(&exhibits.Exhibit{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
	require.NoError(t, db.Model(&exhibits.Item{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	require.NoError(t, db.Model(&exhibits.Item{}).Where("uuid = ?", keep.UUID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRestoreRoundTrip(t *testing.T) {
	mgr, set, _ := setup(t)
	ctx := context.Background()

	ex := newExhibit(t, set)
	require.NoError(t, set.Exhibits.SoftDelete(ctx, ex.UUID, ex.UUID))

	missing, err := set.Exhibits.Read(ctx, ex.UUID, ex.UUID)
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, mgr.Restore(ctx, "", ex.UUID, exhibits.KindExhibit))

	restored, err := set.Exhibits.Read(ctx, ex.UUID, ex.UUID)
	require.NoError(t, err)
	require.NotNil(t, restored)

	// Everything except updated_at survives the round trip.
	assert.Equal(t, ex.UUID, restored.UUID)
	assert.Equal(t, ex.Title, restored.Title)
	assert.Equal(t, ex.Styles, restored.Styles)
	assert.Equal(t, ex.IsPublished, restored.IsPublished)
	assert.Equal(t, 0, restored.IsDeleted)
}

func TestRestoreLiveRecordIsNoop(t *testing.T) {
	mgr, set, _ := setup(t)
	ctx := context.Background()

	ex := newExhibit(t, set)
	require.NoError(t, mgr.Restore(ctx, "", ex.UUID, exhibits.KindExhibit))

	rec, err := set.Exhibits.Read(ctx, ex.UUID, ex.UUID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.IsDeleted)
}

func TestRestoreInvalidKind(t *testing.T) {
	mgr, _, _ := setup(t)

	err := mgr.Restore(context.Background(), "", uuid.NewString(), "banana")
	var invalid *InvalidKindError
	assert.ErrorAs(t, err, &invalid)
}
