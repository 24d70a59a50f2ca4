package exhibits

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/domain/users"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/lifecycle"
	"exhibits-dashboard/internal/locks"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/search"
	"exhibits-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRouter(t *testing.T, role string) (*gin.Engine, *store.Set) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Exhibit{}, &domain.Heading{}, &domain.Item{},
		&domain.Grid{}, &domain.GridItem{},
	))

	media, err := mediastore.New(t.TempDir())
	require.NoError(t, err)

	stores := store.NewSet(db, time.Second)
	coord := lifecycle.New(stores, media, search.NoopIndexer{}, false, zaptest.NewLogger(t))
	h := NewHandler(stores, coord, locks.New(db, time.Second), gate.RoleGate{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.Set("role", role)
	})
	r.POST("/exhibits", h.Create)
	r.GET("/exhibits/:exhibit", h.Get)
	r.PUT("/exhibits/:exhibit", h.Update)
	r.DELETE("/exhibits/:exhibit", h.Delete)
	r.POST("/exhibits/:exhibit/publish", h.Publish)
	r.POST("/exhibits/:exhibit/lock", h.Lock)

	return r, stores
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateReturnsIdentifier(t *testing.T) {
	r, _ := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"title": "New Show"})
	require.Equal(t, http.StatusCreated, w.Code)

	env := envelope(t, w)
	assert.Equal(t, float64(http.StatusCreated), env["status"])
	data := env["data"].(map[string]any)
	assert.NotEmpty(t, data["uuid"])
}

func TestCreateValidationFailure(t *testing.T) {
	r, _ := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"subtitle": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := envelope(t, w)
	assert.Equal(t, "validation failed", env["message"])
}

func TestViewerIsDenied(t *testing.T) {
	r, _ := testRouter(t, users.RoleViewer)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetMissingExhibit(t *testing.T) {
	r, _ := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodGet, "/exhibits/5d14f0c7-88ff-4c7c-bb1b-4e0f0f5a3a61", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteGuardEnvelope(t *testing.T) {
	r, stores := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"title": "Guarded"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := envelope(t, w)["data"].(map[string]any)["uuid"].(string)

	_, err := stores.Items.Create(context.Background(), map[string]any{
		"uuid":                 "0b6f8a61-98ab-42f5-bb7a-2f8f6f1f7d4a",
		"is_member_of_exhibit": id,
		"text":                 "blocker",
	})
	require.NoError(t, err)

	// The guard refusal rides a 200 envelope, not an error status.
	w = doJSON(t, r, http.MethodDelete, "/exhibits/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := envelope(t, w)
	assert.Contains(t, env["message"], "has items")
}

func TestPublishEmptyExhibitEnvelope(t *testing.T) {
	r, _ := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"title": "Empty"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := envelope(t, w)["data"].(map[string]any)["uuid"].(string)

	w = doJSON(t, r, http.MethodPost, "/exhibits/"+id+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, envelope(t, w)["message"], "no items")
}

func TestLockDeniedForSecondUser(t *testing.T) {
	r, stores := testRouter(t, users.RoleEditor)

	w := doJSON(t, r, http.MethodPost, "/exhibits", gin.H{"title": "Contested"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := envelope(t, w)["data"].(map[string]any)["uuid"].(string)

	w = doJSON(t, r, http.MethodPost, "/exhibits/"+id+"/lock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := envelope(t, w)["data"].(map[string]any)
	assert.Equal(t, true, state["granted"])

	// Simulate another editor already holding the lock.
	require.NoError(t, stores.Exhibits.Update(context.Background(), id, id, map[string]any{
		"locked_by_user": "99",
	}))

	w = doJSON(t, r, http.MethodPost, "/exhibits/"+id+"/lock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = envelope(t, w)["data"].(map[string]any)
	assert.Equal(t, false, state["granted"])
	assert.Equal(t, "99", state["locked_by_user"])
}
