package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/schema"
	"exhibits-dashboard/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeIndexer records index calls and fails on demand.
type fakeIndexer struct {
	calls []string
	err   error
}

func (f *fakeIndexer) IndexExhibit(_ context.Context, uuid string) error {
	f.calls = append(f.calls, uuid)
	return f.err
}

type fixture struct {
	co      *Coordinator
	stores  *store.Set
	media   *mediastore.Store
	indexer *fakeIndexer
	root    string
}

func setup(t *testing.T, strict bool) *fixture {
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

	root := t.TempDir()
	media, err := mediastore.New(root)
	require.NoError(t, err)

	stores := store.NewSet(db, time.Second)
	indexer := &fakeIndexer{}
	co := New(stores, media, indexer, strict, zaptest.NewLogger(t))

	return &fixture{co: co, stores: stores, media: media, indexer: indexer, root: root}
}

func (f *fixture) addItem(t *testing.T, exhibitUUID string) *exhibits.Item {
	t.Helper()
	rec, err := f.stores.Items.Create(context.Background(), map[string]any{
		"uuid":                 uuid.NewString(),
		"is_member_of_exhibit": exhibitUUID,
		"text":                 "content",
	})
	require.NoError(t, err)
	return rec
}

func TestCreateAssignsIdentityAndDefaults(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "New Show"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "New Show", rec.Title)
	assert.Equal(t, "{}", rec.Styles)
	assert.Equal(t, 0, rec.IsPublished)

	// The media directory was provisioned alongside the record.
	_, err = os.Stat(filepath.Join(f.root, id))
	assert.NoError(t, err)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	f := setup(t, false)

	_, err := f.co.Create(context.Background(), map[string]any{"subtitle": "no title"})
	var v schema.Violations
	require.ErrorAs(t, err, &v)
}

func TestCreateNormalizesStyles(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{
		"title":  "Styled",
		"styles": map[string]any{"accent": "teal"},
	})
	require.NoError(t, err)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.JSONEq(t, `{"accent":"teal"}`, rec.Styles)
}

func TestUpdateRequiresFlagPresence(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Flagged"})
	require.NoError(t, err)

	err = f.co.Update(ctx, map[string]any{"uuid": id, "title": "Renamed"})
	var v schema.Violations
	require.ErrorAs(t, err, &v)
	require.Len(t, v, 2)

	// JSON numbers decode as float64; string encodings are coerced too.
	err = f.co.Update(ctx, map[string]any{
		"uuid":         id,
		"title":        "Renamed",
		"is_published": float64(0),
		"is_locked":    "0",
	})
	require.NoError(t, err)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Renamed", rec.Title)
}

func TestUpdateRejectsMalformedIdentifier(t *testing.T) {
	f := setup(t, false)

	for _, bad := range []any{nil, "", "not-a-uuid", 42} {
		err := f.co.Update(context.Background(), map[string]any{
			"uuid":         bad,
			"is_published": 0,
			"is_locked":    0,
		})
		var v schema.Violations
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "uuid", v[0].Field)
	}
}

func TestUpdateRejectsFractionalFlag(t *testing.T) {
	f := setup(t, false)

	err := f.co.Update(context.Background(), map[string]any{
		"uuid":         uuid.NewString(),
		"is_published": 0.5,
		"is_locked":    0,
	})
	var v schema.Violations
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "is_published", v[0].Field)
}

func TestDeleteGuardedByLiveItems(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Guarded"})
	require.NoError(t, err)
	item := f.addItem(t, id)

	res, err := f.co.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultHasItems, res)

	// Soft-deleting the item unblocks the exhibit delete.
	require.NoError(t, f.stores.Items.SoftDelete(ctx, id, item.UUID))

	res, err = f.co.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDeleteMissingExhibit(t *testing.T) {
	f := setup(t, false)

	_, err := f.co.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishRefusesEmptyExhibit(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Empty"})
	require.NoError(t, err)

	res, err := f.co.Publish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultNoItems, res)
	assert.Empty(t, f.indexer.calls)
}

func TestPublishCascadesAndIndexes(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Cascade"})
	require.NoError(t, err)
	f.addItem(t, id)
	_, err = f.stores.Headings.Create(ctx, map[string]any{
		"uuid":                 uuid.NewString(),
		"is_member_of_exhibit": id,
		"text":                 "Section",
	})
	require.NoError(t, err)

	res, err := f.co.Publish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, []string{id}, f.indexer.calls)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.IsPublished)

	items, err := f.stores.Items.ReadMany(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].IsPublished)

	headings, err := f.stores.Headings.ReadMany(ctx, id)
	require.NoError(t, err)
	require.Len(t, headings, 1)
	assert.Equal(t, 1, headings[0].IsPublished)
}

func TestPublishLenientToleratesIndexFailure(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Lenient"})
	require.NoError(t, err)
	f.addItem(t, id)
	f.indexer.err = errors.New("index down")

	res, err := f.co.Publish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.IsPublished)
}

func TestPublishStrictRollsBackOnIndexFailure(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Strict"})
	require.NoError(t, err)
	f.addItem(t, id)
	f.indexer.err = errors.New("index down")

	_, err = f.co.Publish(ctx, id)
	require.Error(t, err)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.IsPublished)
}

func TestSuppressClearsFlagsDespiteIndexFailure(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Hidden"})
	require.NoError(t, err)
	f.addItem(t, id)

	_, err = f.co.Publish(ctx, id)
	require.NoError(t, err)

	f.indexer.err = errors.New("index down")
	res, err := f.co.Suppress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)

	rec, err := f.stores.Exhibits.Read(ctx, id, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.IsPublished)

	items, err := f.stores.Items.ReadMany(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].IsPublished)
}

func TestBuildPreviewIsIdempotent(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Previewed"})
	require.NoError(t, err)
	f.addItem(t, id)

	require.NoError(t, f.co.BuildPreview(ctx, id))
	assert.True(t, f.media.PreviewExists(id))

	// Rebuilding replaces the artifact instead of failing.
	require.NoError(t, f.co.BuildPreview(ctx, id))
	assert.True(t, f.media.PreviewExists(id))
	assert.Equal(t, []string{id, id}, f.indexer.calls)
}

func TestBuildPreviewIndexFailureIsFatal(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	id, err := f.co.Create(ctx, map[string]any{"title": "Unindexed"})
	require.NoError(t, err)
	f.indexer.err = errors.New("index down")

	err = f.co.BuildPreview(ctx, id)
	require.Error(t, err)
	// The artifact itself was still written before the index call.
	assert.True(t, f.media.PreviewExists(id))
}

func TestBuildPreviewMissingExhibit(t *testing.T) {
	f := setup(t, false)

	err := f.co.BuildPreview(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
