package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/ingest"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

const sheetCachePrefix = "timetable:sheet:"

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type sheetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type datasetStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, dataset *models.Dataset) error
	FindByID(ctx context.Context, id string) (*models.Dataset, error)
	List(ctx context.Context, filter models.DatasetFilter) ([]models.Dataset, int, error)
	Delete(ctx context.Context, id string) error
}

type subjectStore interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, records []models.SubjectRecord) error
	ListByDataset(ctx context.Context, datasetID string) ([]models.SubjectRecord, error)
}

type buildingStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, records []models.BuildingRecord) error
	ListByDataset(ctx context.Context, datasetID string) ([]models.BuildingRecord, error)
}

// cachedSheet is the cache representation of a downloaded sheet.
type cachedSheet struct {
	Body      string    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// DatasetService imports and manages scheduling datasets.
type DatasetService struct {
	datasets  datasetStore
	subjects  subjectStore
	buildings buildingStore
	fetcher   sheetFetcher
	cache     *CacheService
	metrics   *MetricsService
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDatasetService wires dataset dependencies.
func NewDatasetService(
	datasets datasetStore,
	subjects subjectStore,
	buildings buildingStore,
	fetcher sheetFetcher,
	cache *CacheService,
	metrics *MetricsService,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *DatasetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		datasets:  datasets,
		subjects:  subjects,
		buildings: buildings,
		fetcher:   fetcher,
		cache:     cache,
		metrics:   metrics,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

// Import downloads the subject (and optionally building) tab of a published
// sheet and stores it as a new dataset. Unreadable rows are reported as
// warnings.
func (s *DatasetService) Import(ctx context.Context, req dto.ImportDatasetRequest) (*dto.DatasetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dataset import payload")
	}
	subjectURL, err := ingest.CSVExportURL(req.SheetURL, req.SubjectGID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "sheetUrl is not a Google Sheets link")
	}

	if req.Refresh {
		// drops every cached tab of the spreadsheet, not only the subject tab
		_ = s.cache.Invalidate(ctx, sheetCacheKey(subjectURL, true))
	}

	body, err := s.fetchSheet(ctx, subjectURL, req.Refresh)
	if err != nil {
		return nil, err
	}
	sheet, err := ingest.ParseSubjects(bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidSheet.Code, appErrors.ErrInvalidSheet.Status, appErrors.ErrInvalidSheet.Message)
	}
	if len(sheet.Subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidSheet, "subject sheet has no usable rows")
	}

	buildings := timetable.BuildingMap{}
	if req.BuildingGID != "" {
		buildingURL, err := ingest.CSVExportURL(req.SheetURL, req.BuildingGID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid building sheet gid")
		}
		raw, err := s.fetchSheet(ctx, buildingURL, req.Refresh)
		if err != nil {
			return nil, err
		}
		if buildings, err = ingest.ParseBuildingMap(bytes.NewReader(raw)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidSheet.Code, appErrors.ErrInvalidSheet.Status, "building sheet could not be parsed")
		}
	}

	dataset := &models.Dataset{
		Name:        strings.TrimSpace(req.Name),
		Source:      models.DatasetSourceSheet,
		SheetURL:    req.SheetURL,
		SubjectGID:  req.SubjectGID,
		BuildingGID: req.BuildingGID,
	}
	if err := s.persist(ctx, dataset, sheet.Subjects, buildings); err != nil {
		return nil, err
	}

	var warnings []string
	if sheet.Skipped != nil {
		for _, rowErr := range sheet.Skipped.Errors {
			warnings = append(warnings, rowErr.Error())
		}
	}
	s.logger.Info("dataset imported",
		zap.String("dataset_id", dataset.ID),
		zap.Int("subjects", len(sheet.Subjects)),
		zap.Int("buildings", len(buildings)),
		zap.Int("skipped_rows", len(warnings)),
	)
	resp := toDatasetResponse(dataset, timetable.Groups(sheet.Subjects))
	resp.Warnings = warnings
	return resp, nil
}

// Create stores a dataset supplied inline.
func (s *DatasetService) Create(ctx context.Context, req dto.CreateDatasetRequest) (*dto.DatasetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dataset payload")
	}
	subjects := make([]timetable.Subject, 0, len(req.Subjects))
	for _, in := range req.Subjects {
		rooms := ingest.NormalizeRooms(in.ActualRooms)
		subjects = append(subjects, timetable.Subject{
			Code:        strings.TrimSpace(in.Code),
			Credit:      in.Credit,
			Teacher:     strings.TrimSpace(in.Teacher),
			Weight:      in.Weight,
			Group:       strings.TrimSpace(in.Group),
			ActualRooms: rooms,
		})
	}
	buildings := timetable.BuildingMap{}
	for _, b := range req.Buildings {
		buildings[strings.ToUpper(strings.TrimSpace(b.Letter))] = b.Number
	}

	dataset := &models.Dataset{Name: strings.TrimSpace(req.Name), Source: models.DatasetSourceManual}
	if err := s.persist(ctx, dataset, subjects, buildings); err != nil {
		return nil, err
	}
	return toDatasetResponse(dataset, timetable.Groups(subjects)), nil
}

// Get returns a dataset with its group list.
func (s *DatasetService) Get(ctx context.Context, id string) (*dto.DatasetResponse, error) {
	dataset, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.subjects.ListByDataset(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	subjects := make([]timetable.Subject, 0, len(records))
	for _, r := range records {
		subjects = append(subjects, r.Subject())
	}
	return toDatasetResponse(dataset, timetable.Groups(subjects)), nil
}

// List returns a page of datasets.
func (s *DatasetService) List(ctx context.Context, filter models.DatasetFilter) ([]dto.DatasetResponse, *models.Pagination, error) {
	datasets, total, err := s.datasets.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list datasets")
	}
	items := make([]dto.DatasetResponse, 0, len(datasets))
	for i := range datasets {
		items = append(items, *toDatasetResponse(&datasets[i], nil))
	}
	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Subjects returns the subject rows of a dataset.
func (s *DatasetService) Subjects(ctx context.Context, id string) ([]models.SubjectRecord, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.subjects.ListByDataset(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	return records, nil
}

// Delete removes a dataset with its subjects, buildings and locks.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	if err := s.datasets.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "dataset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete dataset")
	}
	s.logger.Info("dataset deleted", zap.String("dataset_id", id))
	return nil
}

func (s *DatasetService) find(ctx context.Context, id string) (*models.Dataset, error) {
	dataset, err := s.datasets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dataset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dataset")
	}
	return dataset, nil
}

func (s *DatasetService) persist(ctx context.Context, dataset *models.Dataset, subjects []timetable.Subject, buildings timetable.BuildingMap) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.datasets.Create(ctx, tx, dataset); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create dataset")
	}

	records := make([]models.SubjectRecord, 0, len(subjects))
	for i, subject := range subjects {
		records = append(records, models.SubjectRecordFrom(dataset.ID, i, subject))
	}
	if err = s.subjects.InsertBatch(ctx, tx, records); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store subjects")
	}

	if len(buildings) > 0 {
		letters := make([]string, 0, len(buildings))
		for letter := range buildings {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		buildingRecords := make([]models.BuildingRecord, 0, len(letters))
		for _, letter := range letters {
			buildingRecords = append(buildingRecords, models.BuildingRecord{DatasetID: dataset.ID, Letter: letter, Number: buildings[letter]})
		}
		if err = s.buildings.Upsert(ctx, tx, buildingRecords); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store buildings")
		}
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit dataset")
	}
	dataset.SubjectCount = len(records)
	return nil
}

// fetchSheet returns the decoded sheet body, from cache unless refresh is set.
func (s *DatasetService) fetchSheet(ctx context.Context, url string, refresh bool) ([]byte, error) {
	key := sheetCacheKey(url, false)
	if !refresh {
		var cached cachedSheet
		if s.cache.Get(ctx, key, &cached) {
			s.logger.Debug("sheet served from cache", zap.String("url", url), zap.Time("fetched_at", cached.FetchedAt))
			return []byte(cached.Body), nil
		}
	}
	if s.fetcher == nil {
		return nil, appErrors.Clone(appErrors.ErrSheetUnavailable, "sheet fetching is not configured")
	}

	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, url)
	s.metrics.ObserveSheetFetch(err == nil, time.Since(start))
	if err != nil {
		s.logger.Warn("sheet fetch failed", zap.String("url", url), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrSheetUnavailable.Code, appErrors.ErrSheetUnavailable.Status, appErrors.ErrSheetUnavailable.Message)
	}
	s.cache.Set(ctx, key, cachedSheet{Body: string(body), FetchedAt: time.Now().UTC()}, 0)
	return body, nil
}

// sheetCacheKey keys a fetched export by its URL. With wholeSheet it returns a
// pattern matching every tab of the same spreadsheet.
func sheetCacheKey(exportURL string, wholeSheet bool) string {
	if !wholeSheet {
		return sheetCachePrefix + exportURL
	}
	base, _, _ := strings.Cut(exportURL, "/export")
	return sheetCachePrefix + base + "/export*"
}

func toDatasetResponse(dataset *models.Dataset, groups []string) *dto.DatasetResponse {
	return &dto.DatasetResponse{
		ID:           dataset.ID,
		Name:         dataset.Name,
		Source:       string(dataset.Source),
		SheetURL:     dataset.SheetURL,
		SubjectCount: dataset.SubjectCount,
		Groups:       groups,
		CreatedAt:    dataset.CreatedAt.UTC().Format(time.RFC3339),
	}
}
