// Package trash lists, restores, and permanently purges soft-deleted
// records. It owns the is_deleted flag; nothing else flips it back.
package trash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exhibits-dashboard/internal/domain/exhibits"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// InvalidKindError reports a purge/restore against an unrecognized entity
// kind.
type InvalidKindError struct {
	Kind string
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("trash: invalid record kind %q", e.Kind)
}

// Manager aggregates trash operations across entity kinds. The listing spans
// exhibits, headings, and items only; grids and grid items are not
// enumerated separately.
type Manager struct {
	db      *gorm.DB
	timeout time.Duration
}

func New(db *gorm.DB, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{db: db, timeout: timeout}
}

// ListTrashed gathers every soft-deleted record, keyed by entity kind. Kinds
// with nothing in the trash are omitted entirely, not returned as empty
// slices: a missing key means "no trashed records of that kind".
func (m *Manager) ListTrashed(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		trashedExhibits []exhibits.Exhibit
		trashedHeadings []exhibits.Heading
		trashedItems    []exhibits.Item
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.db.WithContext(ctx).Where("is_deleted = 1").Find(&trashedExhibits).Error
	})
	g.Go(func() error {
		return m.db.WithContext(ctx).Where("is_deleted = 1").Find(&trashedHeadings).Error
	})
	g.Go(func() error {
		return m.db.WithContext(ctx).Where("is_deleted = 1").Find(&trashedItems).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("trash: list: %w", err)
	}

	out := make(map[string]any)
	if len(trashedExhibits) > 0 {
		out[exhibits.KindExhibit] = trashedExhibits
	}
	if len(trashedHeadings) > 0 {
		out[exhibits.KindHeading] = trashedHeadings
	}
	if len(trashedItems) > 0 {
		out[exhibits.KindItem] = trashedItems
	}
	return out, nil
}

// Purge physically deletes one soft-deleted record. Live records are never
// purged: deletion only happens from the trash state. scope may be empty
// when the caller addresses the record by uuid alone.
func (m *Manager) Purge(ctx context.Context, scope, uuid, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tx := m.db.WithContext(ctx).Where("uuid = ? AND is_deleted = 1", uuid)
	if scope != "" && kind != exhibits.KindExhibit {
		tx = tx.Where("is_member_of_exhibit = ?", scope)
	}

	var err error
	switch kind {
	case exhibits.KindExhibit:
		err = tx.Delete(&exhibits.Exhibit{}).Error
	case exhibits.KindHeading:
		err = tx.Delete(&exhibits.Heading{}).Error
	case exhibits.KindItem:
		err = tx.Delete(&exhibits.Item{}).Error
	default:
		return &InvalidKindError{Kind: kind}
	}
	if err != nil {
		return fmt.Errorf("trash: purge %s: %w", kind, err)
	}
	return nil
}

// PurgeAll deletes every soft-deleted row in each enumerated table.
// Best-effort: there is no cross-table transaction, so a failure in one
// table does not roll back progress in another.
func (m *Manager) PurgeAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var errs []error
	if err := m.db.WithContext(ctx).Where("is_deleted = 1").Delete(&exhibits.Exhibit{}).Error; err != nil {
		errs = append(errs, fmt.Errorf("trash: purge_all exhibits: %w", err))
	}
	if err := m.db.WithContext(ctx).Where("is_deleted = 1").Delete(&exhibits.Heading{}).Error; err != nil {
		errs = append(errs, fmt.Errorf("trash: purge_all headings: %w", err))
	}
	if err := m.db.WithContext(ctx).Where("is_deleted = 1").Delete(&exhibits.Item{}).Error; err != nil {
		errs = append(errs, fmt.Errorf("trash: purge_all items: %w", err))
	}
	return errors.Join(errs...)
}

// Restore clears the deleted flag. Restoring an already-live record is a
// no-op: no error, no state change.
func (m *Manager) Restore(ctx context.Context, scope, uuid, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	fields := map[string]any{"is_deleted": 0, "updated_at": time.Now().UTC()}

	tx := m.db.WithContext(ctx).Where("uuid = ? AND is_deleted = 1", uuid)
	if scope != "" && kind != exhibits.KindExhibit {
		tx = tx.Where("is_member_of_exhibit = ?", scope)
	}

	var err error
	switch kind {
	case exhibits.KindExhibit:
		err = tx.Model(&exhibits.Exhibit{}).Updates(fields).Error
	case exhibits.KindHeading:
		err = tx.Model(&exhibits.Heading{}).Updates(fields).Error
	case exhibits.KindItem:
		err = tx.Model(&exhibits.Item{}).Updates(fields).Error
	default:
		return &InvalidKindError{Kind: kind}
	}
	if err != nil {
		return fmt.Errorf("trash: restore %s: %w", kind, err)
	}
	return nil
}
