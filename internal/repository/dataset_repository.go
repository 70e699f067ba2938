package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

const datasetColumns = `d.id, d.name, d.source, d.sheet_url, d.subject_gid, d.building_gid, d.created_at, d.updated_at,
(SELECT COUNT(*) FROM timetable_subjects s WHERE s.dataset_id = d.id) AS subject_count`

// DatasetRepository persists timetable datasets.
type DatasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository constructs repository.
func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a dataset, assigning an ID and timestamps when missing.
func (r *DatasetRepository) Create(ctx context.Context, exec sqlx.ExtContext, dataset *models.Dataset) error {
	if dataset == nil {
		return fmt.Errorf("dataset payload is nil")
	}
	if dataset.ID == "" {
		dataset.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = now
	}
	dataset.UpdatedAt = now

	const query = `
INSERT INTO timetable_datasets (id, name, source, sheet_url, subject_gid, building_gid, created_at, updated_at)
VALUES (:id, :name, :source, :sheet_url, :subject_gid, :building_gid, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, dataset); err != nil {
		return fmt.Errorf("insert timetable dataset: %w", err)
	}
	return nil
}

// FindByID loads a dataset by its identifier.
func (r *DatasetRepository) FindByID(ctx context.Context, id string) (*models.Dataset, error) {
	query := `SELECT ` + datasetColumns + ` FROM timetable_datasets d WHERE d.id = $1`
	var dataset models.Dataset
	if err := r.db.GetContext(ctx, &dataset, query, id); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// List returns a page of datasets, newest first, and the total count.
func (r *DatasetRepository) List(ctx context.Context, filter models.DatasetFilter) ([]models.Dataset, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(d.name) LIKE $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM timetable_datasets d` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable datasets: %w", err)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM timetable_datasets d%s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`,
		datasetColumns, where, len(args)-1, len(args))

	var datasets []models.Dataset
	if err := r.db.SelectContext(ctx, &datasets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable datasets: %w", err)
	}
	return datasets, total, nil
}

// Delete removes a dataset; subjects, buildings and locks cascade.
func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable_datasets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable dataset rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
