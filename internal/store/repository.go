// Package store implements typed CRUD per entity kind against the persistent
// store. It is the only component allowed to mutate record rows directly;
// the lock and trash managers operate on disjoint field sets of the same
// tables.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exhibits-dashboard/prometheus"

	"gorm.io/gorm"
)

// StorageError wraps an unexpected storage or transaction failure. Expected
// conditions (not found, zero rows matched) are reported as values, not
// errors.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Repository is a generic record store bound to one table. Children of an
// exhibit are scoped by their is_member_of_exhibit column; the exhibit table
// scopes by its own uuid, so scope and uuid coincide for exhibits.
type Repository[T any] struct {
	db          *gorm.DB
	table       string
	scopeColumn string
	timeout     time.Duration
}

// NewRepository builds a repository for one table. timeout bounds every
// operation; zero falls back to 10 seconds.
func NewRepository[T any](db *gorm.DB, table, scopeColumn string, timeout time.Duration) *Repository[T] {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Repository[T]{db: db, table: table, scopeColumn: scopeColumn, timeout: timeout}
}

func (r *Repository[T]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts a record assembled from whitelisted fields and re-fetches
// the persisted row inside the same transaction, so the caller never sees a
// partially-committed or stale copy. Server-assigned metadata (timestamps,
// default flags) is set here, not trusted from the payload.
func (r *Repository[T]) Create(ctx context.Context, fields map[string]any) (*T, error) {
	defer prometheus.TrackDBOperation("create")(time.Now())
	uuid, _ := fields["uuid"].(string)
	if uuid == "" {
		return nil, &StorageError{Op: "create " + r.table, Err: errors.New("insert produced no identifier")}
	}

	now := time.Now().UTC()
	fields["created_at"] = now
	fields["updated_at"] = now
	fields["is_deleted"] = 0
	if _, ok := fields["is_published"]; !ok {
		fields["is_published"] = 0
	}
	if _, ok := fields["is_locked"]; !ok {
		fields["is_locked"] = 0
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rec T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(r.table).Create(fields).Error; err != nil {
			return err
		}
		return tx.Table(r.table).Where("uuid = ?", uuid).Take(&rec).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "create " + r.table, Err: err}
	}
	return &rec, nil
}

// Read fetches a single live record by scope and uuid. A missing record is
// (nil, nil); the caller decides whether that is a client error.
func (r *Repository[T]) Read(ctx context.Context, scope, uuid string) (*T, error) {
	defer prometheus.TrackDBOperation("read")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var rec T
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND uuid = ? AND is_deleted = 0", scope, uuid).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read " + r.table, Err: err}
	}
	return &rec, nil
}

// ReadMany returns every live record in a scope. No intrinsic ordering:
// merging and sorting across entity kinds is the caller's job.
func (r *Repository[T]) ReadMany(ctx context.Context, scope string) ([]T, error) {
	defer prometheus.TrackDBOperation("read_many")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var recs []T
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND is_deleted = 0", scope).
		Find(&recs).Error
	if err != nil {
		return nil, &StorageError{Op: "read_many " + r.table, Err: err}
	}
	return recs, nil
}

// List returns every live record in the table.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	defer prometheus.TrackDBOperation("list")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var recs []T
	err := r.db.WithContext(ctx).Table(r.table).
		Where("is_deleted = 0").
		Find(&recs).Error
	if err != nil {
		return nil, &StorageError{Op: "list " + r.table, Err: err}
	}
	return recs, nil
}

// Update applies whitelisted fields to the record keyed by (scope, uuid).
// Zero rows matched is a silent success: existence is not reconfirmed here.
// Identity and trash state are immutable through this path.
func (r *Repository[T]) Update(ctx context.Context, scope, uuid string, fields map[string]any) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	delete(fields, "uuid")
	delete(fields, "is_deleted")
	delete(fields, "created_at")
	fields["updated_at"] = time.Now().UTC()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND uuid = ? AND is_deleted = 0", scope, uuid).
		Updates(fields).Error
	if err != nil {
		return &StorageError{Op: "update " + r.table, Err: err}
	}
	return nil
}

// SoftDelete flags the record as deleted. Children are not touched; cascading
// is the lifecycle coordinator's job.
func (r *Repository[T]) SoftDelete(ctx context.Context, scope, uuid string) error {
	defer prometheus.TrackDBOperation("soft_delete")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND uuid = ? AND is_deleted = 0", scope, uuid).
		Updates(map[string]any{"is_deleted": 1, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return &StorageError{Op: "soft_delete " + r.table, Err: err}
	}
	return nil
}

// Count returns the live record count for a scope; the delete-guard builds
// on this.
func (r *Repository[T]) Count(ctx context.Context, scope string) (int64, error) {
	defer prometheus.TrackDBOperation("count")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND is_deleted = 0", scope).
		Count(&n).Error
	if err != nil {
		return 0, &StorageError{Op: "count " + r.table, Err: err}
	}
	return n, nil
}

// SetPublished bulk-sets the publish flag for every live record in a scope.
// This is the publish/suppress cascade primitive.
func (r *Repository[T]) SetPublished(ctx context.Context, scope string, value int) error {
	defer prometheus.TrackDBOperation("set_published")(time.Now())
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.scopeColumn+" = ? AND is_deleted = 0", scope).
		Updates(map[string]any{"is_published": value, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return &StorageError{Op: "set_published " + r.table, Err: err}
	}
	return nil
}
