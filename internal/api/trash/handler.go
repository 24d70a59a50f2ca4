package trash

import (
	"errors"
	"net/http"

	"exhibits-dashboard/internal/api/respond"
	domain "exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/trash"
	"exhibits-dashboard/pkg/logger"
	"exhibits-dashboard/prometheus"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	trash *trash.Manager
	media *mediastore.Store
	gate  gate.Gate
}

func NewHandler(mgr *trash.Manager, media *mediastore.Store, g gate.Gate) *Handler {
	return &Handler{trash: mgr, media: media, gate: g}
}

// List returns every soft-deleted record grouped by kind. Kinds with an
// empty trash are omitted from the response body.
func (h *Handler) List(c *gin.Context) {
	trashed, err := h.trash.ListTrashed(c.Request.Context())
	if err != nil {
		h.fail(c, "list trash", err)
		return
	}

	for _, kind := range []string{domain.KindExhibit, domain.KindHeading, domain.KindItem} {
		count := 0
		if recs, ok := trashed[kind]; ok {
			switch v := recs.(type) {
			case []domain.Exhibit:
				count = len(v)
			case []domain.Heading:
				count = len(v)
			case []domain.Item:
				count = len(v)
			}
		}
		prometheus.SetTrashedRecords(kind, count)
	}

	respond.JSON(c, http.StatusOK, "ok", trashed)
}

// Purge permanently removes one trashed record. The optional exhibit query
// parameter scopes the deletion to a single exhibit's children.
func (h *Handler) Purge(c *gin.Context) {
	if !h.allowed(c, gate.PermPurge, c.Param("kind")) {
		return
	}

	err := h.trash.Purge(c.Request.Context(), c.Query("exhibit"), c.Param("id"), c.Param("kind"))
	if err != nil {
		h.fail(c, "purge", err)
		return
	}

	// A purged exhibit takes its media directory with it. Best-effort: the
	// row is already gone, so a leftover directory is only logged.
	if c.Param("kind") == domain.KindExhibit {
		if err := h.media.Remove(c.Param("id")); err != nil {
			logger.FromContext(c).Warn("media removal after purge failed",
				zap.String("exhibit", c.Param("id")), zap.Error(err))
		}
	}

	prometheus.RecordOperation(c.Param("kind"), "purge")
	respond.JSON(c, http.StatusOK, "purged", nil)
}

// PurgeAll empties the trash across every kind.
func (h *Handler) PurgeAll(c *gin.Context) {
	if !h.allowed(c, gate.PermPurge, "") {
		return
	}

	// Snapshot the trashed exhibits first so their media directories can be
	// removed once the rows are gone.
	trashed, err := h.trash.ListTrashed(c.Request.Context())
	if err != nil {
		h.fail(c, "purge all", err)
		return
	}

	if err := h.trash.PurgeAll(c.Request.Context()); err != nil {
		h.fail(c, "purge all", err)
		return
	}

	if exs, ok := trashed[domain.KindExhibit].([]domain.Exhibit); ok {
		for _, ex := range exs {
			if err := h.media.Remove(ex.UUID); err != nil {
				logger.FromContext(c).Warn("media removal after purge failed",
					zap.String("exhibit", ex.UUID), zap.Error(err))
			}
		}
	}

	respond.JSON(c, http.StatusOK, "purged", nil)
}

// Restore flips a trashed record back to live. Restoring a record that is
// not in the trash is a no-op.
func (h *Handler) Restore(c *gin.Context) {
	if !h.allowed(c, gate.PermRestore, c.Param("kind")) {
		return
	}

	err := h.trash.Restore(c.Request.Context(), c.Query("exhibit"), c.Param("id"), c.Param("kind"))
	if err != nil {
		h.fail(c, "restore", err)
		return
	}
	prometheus.RecordOperation(c.Param("kind"), "restore")
	respond.JSON(c, http.StatusOK, "restored", nil)
}

func (h *Handler) allowed(c *gin.Context, permission, kind string) bool {
	ok := h.gate.CheckPermission(c.Request.Context(), gate.Request{
		UserID:      c.GetUint("user_id"),
		Role:        c.GetString("role"),
		Permissions: []string{permission},
		RecordType:  kind,
	})
	if !ok {
		respond.Denied(c)
	}
	return ok
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	var invalid *trash.InvalidKindError
	if errors.As(err, &invalid) {
		respond.Error(c, http.StatusBadRequest, invalid.Error())
		return
	}
	logger.FromContext(c).Error(op+" failed", zap.Error(err))
	respond.Error(c, http.StatusInternalServerError, "Internal error")
}
