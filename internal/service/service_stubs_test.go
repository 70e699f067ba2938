package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type datasetStoreStub struct {
	mu        sync.Mutex
	datasets  map[string]*models.Dataset
	createErr error
	created   []*models.Dataset
}

func newDatasetStoreStub(ids ...string) *datasetStoreStub {
	stub := &datasetStoreStub{datasets: map[string]*models.Dataset{}}
	for _, id := range ids {
		stub.datasets[id] = &models.Dataset{ID: id, Name: "Dataset " + id, Source: models.DatasetSourceManual, CreatedAt: time.Now()}
	}
	return stub
}

func (s *datasetStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, dataset *models.Dataset) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if dataset.ID == "" {
		dataset.ID = "ds-new"
	}
	dataset.CreatedAt = time.Now()
	s.datasets[dataset.ID] = dataset
	s.created = append(s.created, dataset)
	return nil
}

func (s *datasetStoreStub) FindByID(ctx context.Context, id string) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dataset, ok := s.datasets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return dataset, nil
}

func (s *datasetStoreStub) List(ctx context.Context, filter models.DatasetFilter) ([]models.Dataset, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (s *datasetStoreStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.datasets, id)
	return nil
}

type subjectStoreStub struct {
	records   map[string][]models.SubjectRecord
	insertErr error
}

func newSubjectStoreStub() *subjectStoreStub {
	return &subjectStoreStub{records: map[string][]models.SubjectRecord{}}
}

func (s *subjectStoreStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, records []models.SubjectRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, r := range records {
		s.records[r.DatasetID] = append(s.records[r.DatasetID], r)
	}
	return nil
}

func (s *subjectStoreStub) ListByDataset(ctx context.Context, datasetID string) ([]models.SubjectRecord, error) {
	return s.records[datasetID], nil
}

func (s *subjectStoreStub) add(datasetID, code, teacher, group string, credit float64, rooms ...string) {
	s.records[datasetID] = append(s.records[datasetID], models.SubjectRecord{
		DatasetID:   datasetID,
		Position:    len(s.records[datasetID]),
		Code:        code,
		Credit:      credit,
		Teacher:     teacher,
		GroupName:   group,
		ActualRooms: pq.StringArray(rooms),
	})
}

type buildingStoreStub struct {
	records map[string][]models.BuildingRecord
}

func newBuildingStoreStub() *buildingStoreStub {
	return &buildingStoreStub{records: map[string][]models.BuildingRecord{}}
}

func (s *buildingStoreStub) Upsert(ctx context.Context, exec sqlx.ExtContext, records []models.BuildingRecord) error {
	for _, r := range records {
		s.records[r.DatasetID] = append(s.records[r.DatasetID], r)
	}
	return nil
}

func (s *buildingStoreStub) ListByDataset(ctx context.Context, datasetID string) ([]models.BuildingRecord, error) {
	return s.records[datasetID], nil
}

type lockStoreStub struct {
	records []models.LockRecord
}

func (s *lockStoreStub) Create(ctx context.Context, lock *models.LockRecord) error {
	lock.ID = "lock-" + lock.Name
	s.records = append(s.records, *lock)
	return nil
}

func (s *lockStoreStub) ListByDataset(ctx context.Context, datasetID string) ([]models.LockRecord, error) {
	var out []models.LockRecord
	for _, r := range s.records {
		if r.DatasetID == datasetID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *lockStoreStub) Delete(ctx context.Context, datasetID, id string) error {
	for i, r := range s.records {
		if r.DatasetID == datasetID && r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// memoryCache is an in-process CacheRepository.
type memoryCache struct {
	mu          sync.Mutex
	values      map[string]interface{}
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]interface{}{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if sheet, ok := value.(cachedSheet); ok {
		*(dest.(*cachedSheet)) = sheet
	}
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}
