package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type datasetServiceStub struct {
	imported dto.ImportDatasetRequest
	filter   models.DatasetFilter
	err      error
}

func (s *datasetServiceStub) Import(ctx context.Context, req dto.ImportDatasetRequest) (*dto.DatasetResponse, error) {
	s.imported = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DatasetResponse{ID: "ds-1", Name: req.Name, Source: "SHEET", Warnings: []string{"line 4: bad credit"}}, nil
}

func (s *datasetServiceStub) Create(ctx context.Context, req dto.CreateDatasetRequest) (*dto.DatasetResponse, error) {
	return &dto.DatasetResponse{ID: "ds-2", Name: req.Name, Source: "MANUAL", SubjectCount: len(req.Subjects)}, s.err
}

func (s *datasetServiceStub) Get(ctx context.Context, id string) (*dto.DatasetResponse, error) {
	if id != "ds-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "dataset not found")
	}
	return &dto.DatasetResponse{ID: id}, nil
}

func (s *datasetServiceStub) List(ctx context.Context, filter models.DatasetFilter) ([]dto.DatasetResponse, *models.Pagination, error) {
	s.filter = filter
	return []dto.DatasetResponse{{ID: "ds-1"}}, &models.Pagination{Page: 2, PageSize: 5, TotalCount: 6}, nil
}

func (s *datasetServiceStub) Subjects(ctx context.Context, id string) ([]models.SubjectRecord, error) {
	return []models.SubjectRecord{{Code: "M101"}, {Code: "S101"}}, nil
}

func (s *datasetServiceStub) Delete(ctx context.Context, id string) error {
	return s.err
}

type lockServiceStub struct {
	datasetID string
	req       dto.CreateLockRequest
	err       error
}

func (s *lockServiceStub) Create(ctx context.Context, datasetID string, req dto.CreateLockRequest) (*dto.LockResponse, error) {
	s.datasetID, s.req = datasetID, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LockResponse{ID: "lock-1", Name: req.Name, Groups: []string{"ALL"}, Day: "Mon", Periods: []int{1}}, nil
}

func (s *lockServiceStub) List(ctx context.Context, datasetID string) ([]dto.LockResponse, error) {
	return []dto.LockResponse{{ID: "lock-1"}}, nil
}

func (s *lockServiceStub) Delete(ctx context.Context, datasetID, lockID string) error {
	return s.err
}

type timetableServiceStub struct {
	req   dto.GenerateTimetableRequest
	group string
	err   error
}

func (s *timetableServiceStub) Generate(ctx context.Context, datasetID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TimetableResponse{DatasetID: datasetID, Summary: dto.TimetableSummary{Groups: 1, Placements: 4}}, nil
}

func (s *timetableServiceStub) Group(ctx context.Context, datasetID, group string) (*dto.GroupTimetable, error) {
	s.group = group
	return &dto.GroupTimetable{Group: group, Placed: 4}, s.err
}

type exportServiceStub struct {
	query dto.ExportTimetableQuery
}

func (s *exportServiceStub) Export(ctx context.Context, datasetID string, query dto.ExportTimetableQuery) (*service.ExportFile, error) {
	s.query = query
	switch query.Format {
	case "", service.FormatCSV:
		return &service.ExportFile{Filename: "timetable-" + datasetID + ".csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("M4/1\n")}, nil
	case service.FormatXLSX:
		return &service.ExportFile{
			Filename:    "timetable-" + datasetID + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Payload:     []byte("PK"),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")
	}
}

type testAPI struct {
	router     *gin.Engine
	auth       *service.AuthService
	datasets   *datasetServiceStub
	locks      *lockServiceStub
	timetables *timetableServiceStub
	exports    *exportServiceStub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		auth:       service.NewAuthService(service.AuthConfig{Secret: "secret"}),
		datasets:   &datasetServiceStub{},
		locks:      &lockServiceStub{},
		timetables: &timetableServiceStub{},
		exports:    &exportServiceStub{},
	}
	api.router = gin.New()
	api.router.UseRawPath = true
	Routes{
		Datasets:   &DatasetHandler{service: api.datasets},
		Locks:      &LockHandler{service: api.locks},
		Timetables: &TimetableHandler{timetables: api.timetables, exports: api.exports},
		Metrics:    NewMetricsHandler(service.NewMetricsService(), nil),
		Auth:       api.auth,
	}.Register(api.router, "/api/v1")
	return api
}

func (a *testAPI) do(t *testing.T, role models.Role, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := a.auth.IssueToken("u-1", "Tester", role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
	Meta       map[string]float64 `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func jsonUnmarshal(raw json.RawMessage, dest interface{}) error {
	return json.Unmarshal(raw, dest)
}
