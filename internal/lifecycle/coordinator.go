// Package lifecycle orchestrates create/update/delete/publish/suppress for
// exhibits, enforcing the invariants that span entity kinds.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/identifier"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/schema"
	"exhibits-dashboard/internal/search"
	"exhibits-dashboard/internal/store"

	"go.uber.org/zap"
)

// ErrNotFound reports an operation against an exhibit that does not exist or
// is in the trash.
var ErrNotFound = errors.New("lifecycle: exhibit not found")

// Result is a soft outcome for guard conditions. Guards are not errors: they
// are descriptive refusals the caller reports with a 2xx envelope.
type Result string

const (
	ResultOK Result = "ok"
	// ResultHasItems refuses a delete while live child items remain.
	ResultHasItems Result = "has_items"
	// ResultNoItems refuses a publish of an exhibit with zero content items.
	ResultNoItems Result = "no_items"
)

// Coordinator composes record-store calls across entity kinds and the
// external media and search collaborators.
type Coordinator struct {
	stores      *store.Set
	media       *mediastore.Store
	indexer     search.Indexer
	strictIndex bool
	log         *zap.Logger
}

func New(stores *store.Set, media *mediastore.Store, indexer search.Indexer, strictIndex bool, log *zap.Logger) *Coordinator {
	return &Coordinator{
		stores:      stores,
		media:       media,
		indexer:     indexer,
		strictIndex: strictIndex,
		log:         log,
	}
}

// Create assigns a fresh UUID, validates and whitelists the payload,
// provisions the exhibit's media directory, and persists the record. The
// UUID is assigned before validation so it is part of what gets validated
// and stored.
func (co *Coordinator) Create(ctx context.Context, data map[string]any) (string, error) {
	uuid := identifier.New()
	data["uuid"] = uuid

	if err := schema.Validate("exhibit.create", data); err != nil {
		return "", err
	}
	fields := schema.Whitelist("exhibit.create", data)
	if err := schema.NormalizeStyles(fields); err != nil {
		return "", err
	}

	if _, err := co.media.Provision(uuid); err != nil {
		return "", fmt.Errorf("lifecycle: provision media directory: %w", err)
	}

	if _, err := co.stores.Exhibits.Create(ctx, fields); err != nil {
		return "", err
	}
	return uuid, nil
}

// Update applies a full-record update. is_published and is_locked must be
// present and integer-coercible; their absence is a precondition failure,
// not something to default away.
func (co *Coordinator) Update(ctx context.Context, data map[string]any) error {
	uuid, _ := data["uuid"].(string)
	if !identifier.Valid(uuid) {
		return schema.Violations{{Field: "uuid", Message: "must be a valid UUID"}}
	}

	var precondition schema.Violations
	for _, field := range []string{"is_published", "is_locked"} {
		n, ok := coerceInt(data[field])
		if !ok {
			precondition = append(precondition, schema.FieldViolation{
				Field: field, Message: "must be present and coercible to an integer",
			})
			continue
		}
		data[field] = n
	}
	if len(precondition) > 0 {
		return precondition
	}

	if err := schema.Validate("exhibit.update", data); err != nil {
		return err
	}
	fields := schema.Whitelist("exhibit.update", data)
	if _, styled := fields["styles"]; styled {
		if err := schema.NormalizeStyles(fields); err != nil {
			return err
		}
	}

	return co.stores.Exhibits.Update(ctx, uuid, uuid, fields)
}

// Delete soft-deletes an exhibit, refusing while any live child item
// remains. The refusal is a distinguishable result, not an error.
func (co *Coordinator) Delete(ctx context.Context, uuid string) (Result, error) {
	rec, err := co.stores.Exhibits.Read(ctx, uuid, uuid)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNotFound
	}

	n, err := co.stores.Items.Count(ctx, uuid)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return ResultHasItems, nil
	}

	if err := co.stores.Exhibits.SoftDelete(ctx, uuid, uuid); err != nil {
		return "", err
	}
	return ResultOK, nil
}

// Publish flips the exhibit to published, cascades the flag to every child
// kind, and notifies the search index. Publishing an exhibit with zero
// content items is refused with ResultNoItems.
func (co *Coordinator) Publish(ctx context.Context, uuid string) (Result, error) {
	rec, err := co.stores.Exhibits.Read(ctx, uuid, uuid)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNotFound
	}

	n, err := co.stores.Items.Count(ctx, uuid)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return ResultNoItems, nil
	}

	if err := co.setPublished(ctx, uuid, 1); err != nil {
		return "", err
	}

	if err := co.indexer.IndexExhibit(ctx, uuid); err != nil {
		if co.strictIndex {
			// Indexing is a hard precondition here: do not leave the
			// exhibit marked published when the index call failed.
			if rbErr := co.setPublished(ctx, uuid, 0); rbErr != nil {
				co.log.Error("publish rollback failed",
					zap.String("exhibit", uuid), zap.Error(rbErr))
			}
			return "", fmt.Errorf("lifecycle: publish %s: %w", uuid, err)
		}
		co.log.Warn("search indexing failed after publish",
			zap.String("exhibit", uuid), zap.Error(err))
	}
	return ResultOK, nil
}

// Suppress withdraws the exhibit and its children from public view. Index
// failures are logged, never fatal: the suppressed state wins.
func (co *Coordinator) Suppress(ctx context.Context, uuid string) (Result, error) {
	rec, err := co.stores.Exhibits.Read(ctx, uuid, uuid)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNotFound
	}

	if err := co.setPublished(ctx, uuid, 0); err != nil {
		return "", err
	}

	if err := co.indexer.IndexExhibit(ctx, uuid); err != nil {
		co.log.Warn("search indexing failed after suppress",
			zap.String("exhibit", uuid), zap.Error(err))
	}
	return ResultOK, nil
}

func (co *Coordinator) setPublished(ctx context.Context, uuid string, value int) error {
	if err := co.stores.Exhibits.SetPublished(ctx, uuid, value); err != nil {
		return err
	}
	if err := co.stores.Items.SetPublished(ctx, uuid, value); err != nil {
		return err
	}
	if err := co.stores.Headings.SetPublished(ctx, uuid, value); err != nil {
		return err
	}
	if err := co.stores.Grids.SetPublished(ctx, uuid, value); err != nil {
		return err
	}
	return co.stores.GridItems.SetPublished(ctx, uuid, value)
}

// PreviewManifest is the snapshot written as the preview artifact.
type PreviewManifest struct {
	Exhibit *exhibits.Exhibit       `json:"exhibit"`
	Content []exhibits.ContentEntry `json:"content"`
}

// BuildPreview rebuilds the preview artifact and notifies the index.
// Idempotent: an existing artifact is torn down first. The sequence is
// non-atomic; a failure partway leaves the prior steps in place and is
// surfaced to the caller.
func (co *Coordinator) BuildPreview(ctx context.Context, uuid string) error {
	rec, err := co.stores.Exhibits.Read(ctx, uuid, uuid)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}

	if co.media.PreviewExists(uuid) {
		if err := co.media.TearDownPreview(uuid); err != nil {
			return fmt.Errorf("lifecycle: tear down preview %s: %w", uuid, err)
		}
	}

	items, err := co.stores.Items.ReadMany(ctx, uuid)
	if err != nil {
		return err
	}
	headings, err := co.stores.Headings.ReadMany(ctx, uuid)
	if err != nil {
		return err
	}

	manifest := PreviewManifest{
		Exhibit: rec,
		Content: exhibits.MergeContent(items, headings),
	}
	if err := co.media.WritePreview(uuid, manifest); err != nil {
		return err
	}

	if err := co.indexer.IndexExhibit(ctx, uuid); err != nil {
		co.log.Error("search indexing failed after preview build",
			zap.String("exhibit", uuid), zap.Error(err))
		return fmt.Errorf("lifecycle: index preview %s: %w", uuid, err)
	}
	return nil
}

// coerceInt accepts the integer encodings clients actually send: JSON
// numbers, strings, and native ints.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
