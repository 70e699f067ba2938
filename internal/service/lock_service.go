package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/ingest"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type lockStore interface {
	Create(ctx context.Context, lock *models.LockRecord) error
	ListByDataset(ctx context.Context, datasetID string) ([]models.LockRecord, error)
	Delete(ctx context.Context, datasetID, id string) error
}

// LockService manages the slot locks of a dataset.
type LockService struct {
	datasets  datasetFinder
	locks     lockStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLockService constructs a lock service.
func NewLockService(datasets datasetFinder, locks lockStore, validate *validator.Validate, logger *zap.Logger) *LockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockService{datasets: datasets, locks: locks, validator: validate, logger: logger}
}

// Create expands a lock spec and stores it.
func (s *LockService) Create(ctx context.Context, datasetID string, req dto.CreateLockRequest) (*dto.LockResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lock payload")
	}
	if err := s.ensureDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	locks, err := ingest.ParseLockSpec(req.Name, req.Rooms, req.Day, req.Periods)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidLock.Code, appErrors.ErrInvalidLock.Status, err.Error())
	}

	record := models.LockRecordFrom(datasetID, req.Rooms, locks)
	if err := s.locks.Create(ctx, &record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store lock")
	}
	s.logger.Info("lock created",
		zap.String("dataset_id", datasetID),
		zap.String("lock_id", record.ID),
		zap.Strings("groups", record.Groups),
		zap.Int64s("periods", record.Periods),
	)
	resp := toLockResponse(record)
	return &resp, nil
}

// List returns the locks of a dataset in application order.
func (s *LockService) List(ctx context.Context, datasetID string) ([]dto.LockResponse, error) {
	if err := s.ensureDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	records, err := s.locks.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locks")
	}
	out := make([]dto.LockResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toLockResponse(r))
	}
	return out, nil
}

// Delete removes one lock.
func (s *LockService) Delete(ctx context.Context, datasetID, lockID string) error {
	if err := s.locks.Delete(ctx, datasetID, lockID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lock not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lock")
	}
	return nil
}

func (s *LockService) ensureDataset(ctx context.Context, datasetID string) error {
	if _, err := s.datasets.FindByID(ctx, datasetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "dataset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dataset")
	}
	return nil
}

func toLockResponse(r models.LockRecord) dto.LockResponse {
	periods := make([]int, 0, len(r.Periods))
	for _, p := range r.Periods {
		periods = append(periods, int(p))
	}
	return dto.LockResponse{
		ID:      r.ID,
		Name:    r.Name,
		Rooms:   r.Rooms,
		Groups:  append([]string{}, r.Groups...),
		Day:     timetable.Day(r.Day).String(),
		Periods: periods,
	}
}
