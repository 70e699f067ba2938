package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// BuildingRepository persists the building order of a dataset.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository constructs repository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert stores or replaces building mappings.
func (r *BuildingRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, records []models.BuildingRecord) error {
	target := r.exec(exec)
	const query = `
INSERT INTO timetable_buildings (dataset_id, letter, number)
VALUES (:dataset_id, :letter, :number)
ON CONFLICT (dataset_id, letter) DO UPDATE SET number = EXCLUDED.number`
	for _, record := range records {
		if _, err := sqlx.NamedExecContext(ctx, target, query, record); err != nil {
			return fmt.Errorf("upsert timetable building %s: %w", record.Letter, err)
		}
	}
	return nil
}

// ListByDataset returns the building mappings of a dataset.
func (r *BuildingRepository) ListByDataset(ctx context.Context, datasetID string) ([]models.BuildingRecord, error) {
	const query = `SELECT dataset_id, letter, number FROM timetable_buildings WHERE dataset_id = $1 ORDER BY number, letter`
	var records []models.BuildingRecord
	if err := r.db.SelectContext(ctx, &records, query, datasetID); err != nil {
		return nil, fmt.Errorf("list timetable buildings: %w", err)
	}
	return records, nil
}
