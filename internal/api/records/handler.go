package records

import (
	"errors"
	"net/http"
	"strconv"

	"exhibits-dashboard/internal/api/respond"
	domain "exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/identifier"
	"exhibits-dashboard/internal/locks"
	"exhibits-dashboard/internal/schema"
	"exhibits-dashboard/internal/store"
	"exhibits-dashboard/pkg/logger"
	"exhibits-dashboard/prometheus"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves CRUD, locking, reorder, and merged-content endpoints for
// every child record kind nested under an exhibit.
type Handler struct {
	stores *store.Set
	locks  *locks.Manager
	gate   gate.Gate
}

func NewHandler(stores *store.Set, lockMgr *locks.Manager, g gate.Gate) *Handler {
	return &Handler{stores: stores, locks: lockMgr, gate: g}
}

// RegisterRoutes mounts all child-record routes under the authenticated
// group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ex := rg.Group("/exhibits/:exhibit")

	registerKind(ex, h, "headings", "id", "exhibit", domain.KindHeading, h.stores.Headings, nil)
	registerKind(ex, h, "items", "id", "exhibit", domain.KindItem, h.stores.Items, nil)
	// The grid routes name their parameter :grid so the nested grid-item
	// routes can share the same segment. Grid items scope by their grid.
	registerKind(ex, h, "grids", "grid", "exhibit", domain.KindGrid, h.stores.Grids, nil)
	registerKind(ex.Group("/grids/:grid"), h, "items", "id", "grid", domain.KindGridItem, h.stores.GridItemsByGrid, h.gridMembership)

	ex.GET("/content", h.Content)
	ex.PUT("/reorder", h.Reorder)
}

// gridMembership verifies the parent grid lives in the same exhibit and
// stamps the grid scoping field onto the payload.
func (h *Handler) gridMembership(c *gin.Context, data map[string]any) bool {
	scope := c.Param("exhibit")
	gridID := c.Param("grid")

	grid, err := h.stores.Grids.Read(c.Request.Context(), scope, gridID)
	if err != nil {
		h.fail(c, "read grid", err)
		return false
	}
	if grid == nil {
		respond.Error(c, http.StatusNotFound, "Grid not found")
		return false
	}
	data["is_member_of_grid"] = gridID
	return true
}

// registerKind mounts the shared CRUD and lock routes for one record kind.
func registerKind[T any](parent *gin.RouterGroup, h *Handler, path, idParam, scopeParam, kind string, repo *store.Repository[T], membership func(*gin.Context, map[string]any) bool) {
	g := parent.Group("/" + path)
	table, _ := domain.TableFor(kind)
	id := func(c *gin.Context) string { return c.Param(idParam) }
	scopeOf := func(c *gin.Context) string { return c.Param(scopeParam) }

	g.GET("", func(c *gin.Context) {
		recs, err := repo.ReadMany(c.Request.Context(), scopeOf(c))
		if err != nil {
			h.fail(c, "list "+kind, err)
			return
		}
		respond.JSON(c, http.StatusOK, "ok", recs)
	})

	g.GET("/:"+idParam, func(c *gin.Context) {
		rec, err := repo.Read(c.Request.Context(), scopeOf(c), id(c))
		if err != nil {
			h.fail(c, "read "+kind, err)
			return
		}
		if rec == nil {
			respond.Error(c, http.StatusNotFound, "Record not found")
			return
		}
		respond.JSON(c, http.StatusOK, "ok", rec)
	})

	g.POST("", func(c *gin.Context) {
		scope := c.Param("exhibit")
		if !h.allowed(c, gate.PermCreate, kind, scope, "") {
			return
		}
		if !h.requireExhibit(c, scope) {
			return
		}

		var data map[string]any
		if err := c.ShouldBindJSON(&data); err != nil {
			respond.Error(c, http.StatusBadRequest, "Malformed JSON")
			return
		}
		data["uuid"] = identifier.New()
		data["is_member_of_exhibit"] = scope
		if membership != nil && !membership(c, data) {
			return
		}

		if err := schema.Validate(kind+".create", data); err != nil {
			h.fail(c, "validate "+kind, err)
			return
		}
		fields := schema.Whitelist(kind+".create", data)
		if err := schema.NormalizeStyles(fields); err != nil {
			h.fail(c, "normalize "+kind, err)
			return
		}

		rec, err := repo.Create(c.Request.Context(), fields)
		if err != nil {
			h.fail(c, "create "+kind, err)
			return
		}
		prometheus.RecordOperation(kind, "create")
		respond.JSON(c, http.StatusCreated, "created", rec)
	})

	g.PUT("/:"+idParam, func(c *gin.Context) {
		scope := c.Param("exhibit")
		if !h.allowed(c, gate.PermUpdate, kind, scope, id(c)) {
			return
		}

		var data map[string]any
		if err := c.ShouldBindJSON(&data); err != nil {
			respond.Error(c, http.StatusBadRequest, "Malformed JSON")
			return
		}

		if err := schema.Validate(kind+".update", data); err != nil {
			h.fail(c, "validate "+kind, err)
			return
		}
		fields := schema.Whitelist(kind+".update", data)
		if _, styled := fields["styles"]; styled {
			if err := schema.NormalizeStyles(fields); err != nil {
				h.fail(c, "normalize "+kind, err)
				return
			}
		}

		// Zero rows matched is a silent success by design.
		if err := repo.Update(c.Request.Context(), scopeOf(c), id(c), fields); err != nil {
			h.fail(c, "update "+kind, err)
			return
		}
		prometheus.RecordOperation(kind, "update")
		respond.JSON(c, http.StatusOK, "updated", nil)
	})

	g.DELETE("/:"+idParam, func(c *gin.Context) {
		scope := c.Param("exhibit")
		if !h.allowed(c, gate.PermDelete, kind, scope, id(c)) {
			return
		}
		if err := repo.SoftDelete(c.Request.Context(), scopeOf(c), id(c)); err != nil {
			h.fail(c, "delete "+kind, err)
			return
		}
		prometheus.RecordOperation(kind, "delete")
		respond.JSON(c, http.StatusOK, "deleted", nil)
	})

	g.POST("/:"+idParam+"/lock", func(c *gin.Context) {
		scope := c.Param("exhibit")
		if !h.allowed(c, gate.PermLock, kind, scope, id(c)) {
			return
		}
		userID, _ := identity(c)
		state, err := h.locks.Acquire(c.Request.Context(), table,
			strconv.FormatUint(uint64(userID), 10), id(c))
		if err != nil {
			h.fail(c, "lock "+kind, err)
			return
		}
		if state == nil {
			respond.Error(c, http.StatusNotFound, "Record not found")
			return
		}
		if !state.Granted {
			prometheus.RecordLockDenied()
		}
		respond.JSON(c, http.StatusOK, "ok", state)
	})

	g.POST("/:"+idParam+"/unlock", func(c *gin.Context) {
		scope := c.Param("exhibit")
		force := c.Query("force") == "true"
		perm := gate.PermLock
		if force {
			perm = gate.PermForceUnlock
		}
		if !h.allowed(c, perm, kind, scope, id(c)) {
			return
		}
		userID, _ := identity(c)
		released, err := h.locks.Release(c.Request.Context(), table,
			strconv.FormatUint(uint64(userID), 10), id(c), force)
		if err != nil {
			h.fail(c, "unlock "+kind, err)
			return
		}
		respond.JSON(c, http.StatusOK, "ok", gin.H{"released": released})
	})
}

// Content merges an exhibit's items and headings into one flow sorted by
// order.
func (h *Handler) Content(c *gin.Context) {
	scope := c.Param("exhibit")
	if !h.requireExhibit(c, scope) {
		return
	}

	items, err := h.stores.Items.ReadMany(c.Request.Context(), scope)
	if err != nil {
		h.fail(c, "list items", err)
		return
	}
	headings, err := h.stores.Headings.ReadMany(c.Request.Context(), scope)
	if err != nil {
		h.fail(c, "list headings", err)
		return
	}
	respond.JSON(c, http.StatusOK, "ok", domain.MergeContent(items, headings))
}

// Reorder rewrites the order values of the listed siblings to match their
// position in the request. Records not listed keep their order.
func (h *Handler) Reorder(c *gin.Context) {
	scope := c.Param("exhibit")
	if !h.allowed(c, gate.PermUpdate, domain.KindExhibit, scope, "") {
		return
	}

	var req struct {
		Entries []struct {
			Kind string `json:"kind" binding:"required"`
			UUID string `json:"uuid" binding:"required"`
		} `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	for i, entry := range req.Entries {
		fields := map[string]any{"order": i}
		var err error
		switch entry.Kind {
		case domain.KindItem:
			err = h.stores.Items.Update(c.Request.Context(), scope, entry.UUID, fields)
		case domain.KindHeading:
			err = h.stores.Headings.Update(c.Request.Context(), scope, entry.UUID, fields)
		case domain.KindGrid:
			err = h.stores.Grids.Update(c.Request.Context(), scope, entry.UUID, fields)
		default:
			respond.Error(c, http.StatusBadRequest, "Unknown record kind: "+entry.Kind)
			return
		}
		if err != nil {
			h.fail(c, "reorder "+entry.Kind, err)
			return
		}
	}

	respond.JSON(c, http.StatusOK, "reordered", nil)
}

func identity(c *gin.Context) (uint, string) {
	return c.GetUint("user_id"), c.GetString("role")
}

func (h *Handler) allowed(c *gin.Context, permission, kind, parentID, childID string) bool {
	userID, role := identity(c)
	ok := h.gate.CheckPermission(c.Request.Context(), gate.Request{
		UserID:      userID,
		Role:        role,
		Permissions: []string{permission},
		RecordType:  kind,
		ParentID:    parentID,
		ChildID:     childID,
	})
	if !ok {
		respond.Denied(c)
	}
	return ok
}

// requireExhibit confirms the owning exhibit exists and is live. Every child
// record must reference an existing, non-deleted exhibit.
func (h *Handler) requireExhibit(c *gin.Context, scope string) bool {
	rec, err := h.stores.Exhibits.Read(c.Request.Context(), scope, scope)
	if err != nil {
		h.fail(c, "read exhibit", err)
		return false
	}
	if rec == nil {
		respond.Error(c, http.StatusNotFound, "Exhibit not found")
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	var violations schema.Violations
	if errors.As(err, &violations) {
		respond.Violations(c, violations)
		return
	}
	logger.FromContext(c).Error(op+" failed", zap.Error(err))
	respond.Error(c, http.StatusInternalServerError, "Internal error")
}
