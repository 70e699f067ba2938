package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// SubjectRepository persists the subject rows of a dataset.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch stores subjects in the order given.
func (r *SubjectRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, records []models.SubjectRecord) error {
	target := r.exec(exec)
	const query = `
INSERT INTO timetable_subjects (id, dataset_id, position, code, credit, teacher, weight, group_name, actual_rooms)
VALUES (:id, :dataset_id, :position, :code, :credit, :teacher, :weight, :group_name, :actual_rooms)`
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, records[i]); err != nil {
			return fmt.Errorf("insert timetable subject %s: %w", records[i].Code, err)
		}
	}
	return nil
}

// ListByDataset returns the subjects of a dataset in sheet order.
func (r *SubjectRepository) ListByDataset(ctx context.Context, datasetID string) ([]models.SubjectRecord, error) {
	const query = `SELECT id, dataset_id, position, code, credit, teacher, weight, group_name, actual_rooms
FROM timetable_subjects WHERE dataset_id = $1 ORDER BY position`
	var records []models.SubjectRecord
	if err := r.db.SelectContext(ctx, &records, query, datasetID); err != nil {
		return nil, fmt.Errorf("list timetable subjects: %w", err)
	}
	return records, nil
}
