package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// LockRepository persists slot locks per dataset.
type LockRepository struct {
	db *sqlx.DB
}

// NewLockRepository constructs repository.
func NewLockRepository(db *sqlx.DB) *LockRepository {
	return &LockRepository{db: db}
}

// Create inserts a lock record.
func (r *LockRepository) Create(ctx context.Context, lock *models.LockRecord) error {
	if lock == nil {
		return fmt.Errorf("lock payload is nil")
	}
	if lock.ID == "" {
		lock.ID = uuid.NewString()
	}
	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO timetable_locks (id, dataset_id, name, rooms, groups, day, periods, created_at)
VALUES (:id, :dataset_id, :name, :rooms, :groups, :day, :periods, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lock); err != nil {
		return fmt.Errorf("insert timetable lock: %w", err)
	}
	return nil
}

// ListByDataset returns locks in creation order. Earlier locks win a slot.
func (r *LockRepository) ListByDataset(ctx context.Context, datasetID string) ([]models.LockRecord, error) {
	const query = `SELECT id, dataset_id, name, rooms, groups, day, periods, created_at
FROM timetable_locks WHERE dataset_id = $1 ORDER BY created_at, id`
	var locks []models.LockRecord
	if err := r.db.SelectContext(ctx, &locks, query, datasetID); err != nil {
		return nil, fmt.Errorf("list timetable locks: %w", err)
	}
	return locks, nil
}

// Delete removes a lock belonging to the dataset.
func (r *LockRepository) Delete(ctx context.Context, datasetID, id string) error {
	const query = `DELETE FROM timetable_locks WHERE dataset_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, datasetID, id)
	if err != nil {
		return fmt.Errorf("delete timetable lock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable lock rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
