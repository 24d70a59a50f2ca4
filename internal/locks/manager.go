// Package locks grants and releases single-owner edit locks on records. The
// lock is advisory: it gates concurrent editing sessions in the UI, not
// concurrent writes. Reads are never blocked by a lock.
package locks

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// State describes a record's lock after an acquire or release attempt.
// Granted reports whether the caller holds the lock; when false the record
// is still readable and LockedBy names the current owner, so the caller can
// render it read-only.
type State struct {
	UUID     string `json:"uuid"`
	IsLocked int    `json:"is_locked"`
	LockedBy string `json:"locked_by_user,omitempty"`
	Granted  bool   `json:"granted"`
}

type lockRow struct {
	IsLocked     int    `gorm:"column:is_locked"`
	LockedByUser string `gorm:"column:locked_by_user"`
}

// Manager operates on the is_locked/locked_by_user columns of any lockable
// table. It shares tables with the record store but touches no other fields.
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

// Acquire attempts to take the edit lock on a live record for uid.
// Unlocked records transition to locked; re-acquiring an owned lock is a
// no-op success; a lock held by someone else is not re-granted. A missing
// record returns (nil, nil).
func (m *Manager) Acquire(ctx context.Context, table, uid, uuid string) (*State, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var st *State
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row lockRow
		err := tx.Table(table).
			Select("is_locked", "locked_by_user").
			Where("uuid = ? AND is_deleted = 0", uuid).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case row.IsLocked == 0:
			err := tx.Table(table).
				Where("uuid = ?", uuid).
				Updates(map[string]any{"is_locked": 1, "locked_by_user": uid}).Error
			if err != nil {
				return err
			}
			st = &State{UUID: uuid, IsLocked: 1, LockedBy: uid, Granted: true}
		case row.LockedByUser == uid:
			st = &State{UUID: uuid, IsLocked: 1, LockedBy: uid, Granted: true}
		default:
			st = &State{UUID: uuid, IsLocked: 1, LockedBy: row.LockedByUser, Granted: false}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Release returns the record to the unlocked state. Only the owner may
// release unless force is set (administrative override). The bool result is
// false, without error, when the record is missing or not held by uid.
func (m *Manager) Release(ctx context.Context, table, uid, uuid string, force bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	unlock := map[string]any{"is_locked": 0, "locked_by_user": ""}

	if force {
		// The forced path confirms existence so an admin override on a
		// missing record reports false instead of silently succeeding.
		var row lockRow
		err := m.db.WithContext(ctx).Table(table).
			Select("is_locked", "locked_by_user").
			Where("uuid = ?", uuid).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		err = m.db.WithContext(ctx).Table(table).
			Where("uuid = ?", uuid).
			Updates(unlock).Error
		if err != nil {
			return false, err
		}
		return true, nil
	}

	res := m.db.WithContext(ctx).Table(table).
		Where("uuid = ? AND is_locked = 1 AND locked_by_user = ?", uuid, uid).
		Updates(unlock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
