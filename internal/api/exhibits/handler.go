package exhibits

import (
	"errors"
	"net/http"
	"strconv"

	"exhibits-dashboard/internal/api/respond"
	domain "exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/lifecycle"
	"exhibits-dashboard/internal/locks"
	"exhibits-dashboard/internal/schema"
	"exhibits-dashboard/internal/store"
	"exhibits-dashboard/pkg/logger"
	"exhibits-dashboard/prometheus"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the exhibit lifecycle endpoints.
type Handler struct {
	stores *store.Set
	coord  *lifecycle.Coordinator
	locks  *locks.Manager
	gate   gate.Gate
}

func NewHandler(stores *store.Set, coord *lifecycle.Coordinator, lockMgr *locks.Manager, g gate.Gate) *Handler {
	return &Handler{stores: stores, coord: coord, locks: lockMgr, gate: g}
}

func identity(c *gin.Context) (uint, string) {
	return c.GetUint("user_id"), c.GetString("role")
}

func (h *Handler) allowed(c *gin.Context, permission, parentID string) bool {
	userID, role := identity(c)
	ok := h.gate.CheckPermission(c.Request.Context(), gate.Request{
		UserID:      userID,
		Role:        role,
		Permissions: []string{permission},
		RecordType:  domain.KindExhibit,
		ParentID:    parentID,
	})
	if !ok {
		respond.Denied(c)
	}
	return ok
}

// POST /exhibits
func (h *Handler) Create(c *gin.Context) {
	if !h.allowed(c, gate.PermCreate, "") {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed JSON")
		return
	}

	uuid, err := h.coord.Create(c.Request.Context(), data)
	if err != nil {
		h.fail(c, "create exhibit", err)
		return
	}

	prometheus.RecordOperation(domain.KindExhibit, "create")
	respond.JSON(c, http.StatusCreated, "created", gin.H{"uuid": uuid})
}

// GET /exhibits
func (h *Handler) List(c *gin.Context) {
	recs, err := h.stores.Exhibits.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list exhibits", err)
		return
	}
	respond.JSON(c, http.StatusOK, "ok", recs)
}

// GET /exhibits/:exhibit
func (h *Handler) Get(c *gin.Context) {
	uuid := c.Param("exhibit")
	rec, err := h.stores.Exhibits.Read(c.Request.Context(), uuid, uuid)
	if err != nil {
		h.fail(c, "read exhibit", err)
		return
	}
	if rec == nil {
		respond.Error(c, http.StatusNotFound, "Exhibit not found")
		return
	}
	respond.JSON(c, http.StatusOK, "ok", rec)
}

// PUT /exhibits/:exhibit
func (h *Handler) Update(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermUpdate, uuid) {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed JSON")
		return
	}
	data["uuid"] = uuid

	if err := h.coord.Update(c.Request.Context(), data); err != nil {
		h.fail(c, "update exhibit", err)
		return
	}

	prometheus.RecordOperation(domain.KindExhibit, "update")
	respond.JSON(c, http.StatusOK, "updated", nil)
}

// DELETE /exhibits/:exhibit
func (h *Handler) Delete(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermDelete, uuid) {
		return
	}

	result, err := h.coord.Delete(c.Request.Context(), uuid)
	if err != nil {
		h.fail(c, "delete exhibit", err)
		return
	}
	if result == lifecycle.ResultHasItems {
		// Guard refusal, not an error: the exhibit still has live items.
		respond.JSON(c, http.StatusOK, "cannot delete: exhibit has items", gin.H{"result": result})
		return
	}

	prometheus.RecordOperation(domain.KindExhibit, "delete")
	respond.JSON(c, http.StatusOK, "deleted", nil)
}

// POST /exhibits/:exhibit/publish
func (h *Handler) Publish(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermPublish, uuid) {
		return
	}

	result, err := h.coord.Publish(c.Request.Context(), uuid)
	if err != nil {
		h.fail(c, "publish exhibit", err)
		return
	}
	if result == lifecycle.ResultNoItems {
		respond.JSON(c, http.StatusOK, "cannot publish: exhibit has no items", gin.H{"result": result})
		return
	}

	prometheus.RecordOperation(domain.KindExhibit, "publish")
	respond.JSON(c, http.StatusOK, "published", nil)
}

// POST /exhibits/:exhibit/suppress
func (h *Handler) Suppress(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermPublish, uuid) {
		return
	}

	if _, err := h.coord.Suppress(c.Request.Context(), uuid); err != nil {
		h.fail(c, "suppress exhibit", err)
		return
	}

	prometheus.RecordOperation(domain.KindExhibit, "suppress")
	respond.JSON(c, http.StatusOK, "suppressed", nil)
}

// POST /exhibits/:exhibit/preview
func (h *Handler) BuildPreview(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermPublish, uuid) {
		return
	}

	if err := h.coord.BuildPreview(c.Request.Context(), uuid); err != nil {
		h.fail(c, "build preview", err)
		return
	}
	respond.JSON(c, http.StatusOK, "preview built", nil)
}

// POST /exhibits/:exhibit/lock
func (h *Handler) Lock(c *gin.Context) {
	uuid := c.Param("exhibit")
	if !h.allowed(c, gate.PermLock, uuid) {
		return
	}
	userID, _ := identity(c)

	state, err := h.locks.Acquire(c.Request.Context(), domain.Exhibit{}.TableName(),
		strconv.FormatUint(uint64(userID), 10), uuid)
	if err != nil {
		h.fail(c, "lock exhibit", err)
		return
	}
	if state == nil {
		respond.Error(c, http.StatusNotFound, "Exhibit not found")
		return
	}
	if !state.Granted {
		prometheus.RecordLockDenied()
	}
	respond.JSON(c, http.StatusOK, "ok", state)
}

// POST /exhibits/:exhibit/unlock
func (h *Handler) Unlock(c *gin.Context) {
	uuid := c.Param("exhibit")
	force := c.Query("force") == "true"
	if force && !h.allowed(c, gate.PermForceUnlock, uuid) {
		return
	}
	if !force && !h.allowed(c, gate.PermLock, uuid) {
		return
	}
	userID, _ := identity(c)

	released, err := h.locks.Release(c.Request.Context(), domain.Exhibit{}.TableName(),
		strconv.FormatUint(uint64(userID), 10), uuid, force)
	if err != nil {
		h.fail(c, "unlock exhibit", err)
		return
	}
	respond.JSON(c, http.StatusOK, "ok", gin.H{"released": released})
}

// fail converts the error taxonomy to the envelope: validation violations
// become 400s, a missing exhibit becomes 404, everything else is a 500.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	var violations schema.Violations
	if errors.As(err, &violations) {
		respond.Violations(c, violations)
		return
	}
	if errors.Is(err, lifecycle.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Exhibit not found")
		return
	}
	logger.FromContext(c).Error(op+" failed", zap.Error(err))
	respond.Error(c, http.StatusInternalServerError, "Internal error")
}
