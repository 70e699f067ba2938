package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type datasetFinder interface {
	FindByID(ctx context.Context, id string) (*models.Dataset, error)
}

type subjectLister interface {
	ListByDataset(ctx context.Context, datasetID string) ([]models.SubjectRecord, error)
}

type lockLister interface {
	ListByDataset(ctx context.Context, datasetID string) ([]models.LockRecord, error)
}

type buildingLister interface {
	ListByDataset(ctx context.Context, datasetID string) ([]models.BuildingRecord, error)
}

// TimetableConfig bounds generation runs.
type TimetableConfig struct {
	RunTimeout time.Duration
}

// TimetableService runs the scheduling engine over a stored dataset.
type TimetableService struct {
	datasets  datasetFinder
	subjects  subjectLister
	locks     lockLister
	buildings buildingLister
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	datasets datasetFinder,
	subjects subjectLister,
	locks lockLister,
	buildings buildingLister,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Second
	}
	return &TimetableService{
		datasets:  datasets,
		subjects:  subjects,
		locks:     locks,
		buildings: buildings,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// scheduleInputs is everything one run reads from storage.
type scheduleInputs struct {
	subjects  []timetable.Subject
	locks     []timetable.Lock
	buildings timetable.BuildingMap
}

// Generate schedules the dataset's groups and returns every table.
func (s *TimetableService) Generate(ctx context.Context, datasetID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	start := time.Now()
	result, err := s.Run(ctx, datasetID, req.Groups)
	if err != nil {
		return nil, err
	}

	resp := &dto.TimetableResponse{DatasetID: datasetID, Groups: make([]dto.GroupTimetable, 0, len(result.Groups))}
	for _, gs := range result.Groups {
		group := toGroupTimetable(gs)
		resp.Summary.Placements += group.Placed
		resp.Summary.Unplaced += len(group.Unplaced)
		resp.Groups = append(resp.Groups, group)
	}
	resp.Summary.Groups = len(resp.Groups)
	resp.Summary.DurationMs = time.Since(start).Milliseconds()
	return resp, nil
}

// Group returns one group's table. The whole dataset is scheduled because a
// group's table depends on the teachers and rooms consumed before it.
func (s *TimetableService) Group(ctx context.Context, datasetID, group string) (*dto.GroupTimetable, error) {
	result, err := s.Run(ctx, datasetID, nil)
	if err != nil {
		return nil, err
	}
	gs, ok := result.Group(group)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownGroup, fmt.Sprintf("group %s has no subjects in this dataset", group))
	}
	out := toGroupTimetable(gs)
	return &out, nil
}

// Run executes one scheduling run. groups fixes the order when non-empty;
// otherwise every group of the dataset is scheduled in room order.
func (s *TimetableService) Run(ctx context.Context, datasetID string, groups []string) (*timetable.Result, error) {
	inputs, err := s.load(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	order, err := groupOrder(inputs.subjects, groups)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	result, err := timetable.ScheduleAllContext(runCtx, order, inputs.subjects, inputs.locks, inputs.buildings)
	duration := time.Since(start)
	if err != nil {
		s.metrics.ObserveTimetableRun(RunOutcomeCancelled, duration, 0, 0)
		s.logger.Warn("timetable run interrupted", zap.String("dataset_id", datasetID), zap.Duration("duration", duration), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRunCancelled.Code, appErrors.ErrRunCancelled.Status, appErrors.ErrRunCancelled.Message)
	}

	placed, unplaced := 0, 0
	for _, gs := range result.Groups {
		groupPlaced := len(gs.Table.Placements())
		placed += groupPlaced
		unplaced += len(gs.Unplaced)
		s.logger.Debug("group scheduled",
			zap.String("dataset_id", datasetID),
			zap.String("group", gs.Group),
			zap.Float64("total_credit", gs.TotalCredit),
			zap.Int("placed", groupPlaced),
			zap.Int("unplaced", len(gs.Unplaced)),
		)
	}
	s.metrics.ObserveTimetableRun(RunOutcomeCompleted, duration, placed, unplaced)
	s.logger.Info("timetable generated",
		zap.String("dataset_id", datasetID),
		zap.Int("groups", len(result.Groups)),
		zap.Int("placed", placed),
		zap.Int("unplaced", unplaced),
		zap.Duration("duration", duration),
	)
	return result, nil
}

func (s *TimetableService) load(ctx context.Context, datasetID string) (*scheduleInputs, error) {
	if _, err := s.datasets.FindByID(ctx, datasetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dataset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dataset")
	}

	subjectRecords, err := s.subjects.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	lockRecords, err := s.locks.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locks")
	}
	buildingRecords, err := s.buildings.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load buildings")
	}

	inputs := &scheduleInputs{
		subjects:  make([]timetable.Subject, 0, len(subjectRecords)),
		buildings: models.BuildingMap(buildingRecords),
	}
	for _, record := range subjectRecords {
		inputs.subjects = append(inputs.subjects, record.Subject())
	}
	for _, record := range lockRecords {
		inputs.locks = append(inputs.locks, record.Locks()...)
	}
	return inputs, nil
}

// groupOrder maps order validation failures onto API errors.
func groupOrder(subjects []timetable.Subject, requested []string) ([]string, error) {
	order, err := timetable.Order(subjects, requested)
	switch {
	case errors.Is(err, timetable.ErrUnknownGroup):
		return nil, appErrors.Wrap(err, appErrors.ErrUnknownGroup.Code, appErrors.ErrUnknownGroup.Status, err.Error())
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return order, nil
}
