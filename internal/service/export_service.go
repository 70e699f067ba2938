package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

type timetableRunner interface {
	Run(ctx context.Context, datasetID string, groups []string) (*timetable.Result, error)
}

// GridRenderer turns timetable grids into one document.
type GridRenderer interface {
	Render(grids []export.Grid) ([]byte, error)
}

// Renderers holds one renderer per export format. Nil entries fall back to
// the pkg/export defaults.
type Renderers struct {
	CSV  GridRenderer
	PDF  GridRenderer
	XLSX GridRenderer
}

func (r Renderers) withDefaults() Renderers {
	if r.CSV == nil {
		r.CSV = export.NewCSVExporter()
	}
	if r.PDF == nil {
		r.PDF = export.NewPDFExporter("")
	}
	if r.XLSX == nil {
		r.XLSX = export.NewXLSXExporter()
	}
	return r
}

// Export formats with their content types.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportFile is a rendered timetable document.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders generated timetables as CSV, PDF or XLSX documents.
type ExportService struct {
	runner    timetableRunner
	renderers Renderers
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(runner timetableRunner, renderers Renderers, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{runner: runner, renderers: renderers.withDefaults(), validator: validate, logger: logger}
}

// Export runs the dataset and renders every group, or only query.Group.
func (s *ExportService) Export(ctx context.Context, datasetID string, query dto.ExportTimetableQuery) (*ExportFile, error) {
	query.Format = strings.ToLower(strings.TrimSpace(query.Format))
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv, pdf or xlsx")
	}
	format := query.Format
	if format == "" {
		format = FormatCSV
	}

	result, err := s.runner.Run(ctx, datasetID, nil)
	if err != nil {
		return nil, err
	}
	grids, err := GridsFor(result, query.Group)
	if err != nil {
		return nil, err
	}

	file, err := RenderGrids(grids, format, s.renderers)
	if err != nil {
		s.logger.Error("timetable export failed", zap.String("dataset_id", datasetID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	file.Filename = exportFilename(datasetID, query.Group, format)
	return file, nil
}

// GridsFor selects the groups to export from a run.
func GridsFor(result *timetable.Result, group string) ([]export.Grid, error) {
	if group != "" {
		gs, ok := result.Group(group)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrUnknownGroup, fmt.Sprintf("group %s has no subjects in this dataset", group))
		}
		return []export.Grid{toGrid(gs)}, nil
	}
	grids := make([]export.Grid, 0, len(result.Groups))
	for _, gs := range result.Groups {
		grids = append(grids, toGrid(gs))
	}
	return grids, nil
}

// RenderGrids renders grids in the given format.
func RenderGrids(grids []export.Grid, format string, renderers Renderers) (*ExportFile, error) {
	renderers = renderers.withDefaults()
	var renderer GridRenderer
	switch format {
	case FormatCSV:
		renderer = renderers.CSV
	case FormatPDF:
		renderer = renderers.PDF
	case FormatXLSX:
		renderer = renderers.XLSX
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	payload, err := renderer.Render(grids)
	if err != nil {
		return nil, err
	}
	return &ExportFile{ContentType: contentTypes[format], Payload: payload}, nil
}

func exportFilename(datasetID, group, format string) string {
	name := "timetable-" + datasetID
	if group != "" {
		name += "-" + strings.NewReplacer("/", "-", " ", "_").Replace(group)
	}
	return name + "." + format
}
