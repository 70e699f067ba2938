package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, datasetID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error)
	Group(ctx context.Context, datasetID, group string) (*dto.GroupTimetable, error)
}

type exportService interface {
	Export(ctx context.Context, datasetID string, query dto.ExportTimetableQuery) (*service.ExportFile, error)
}

// TimetableHandler runs the scheduler and serves its tables.
type TimetableHandler struct {
	timetables timetableService
	exports    exportService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(timetables *service.TimetableService, exports *service.ExportService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, exports: exports}
}

// Generate godoc
// @Summary Generate the timetables of a dataset
// @Description Schedules every group in room order, or in the order given by groups. Unplaceable slots are reported in the tables.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Dataset ID"
// @Param payload body dto.GenerateTimetableRequest false "Group order"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /datasets/{id}/timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.timetables.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Group godoc
// @Summary Get one group's timetable
// @Description Group ids contain slashes and must be URL encoded, e.g. ม.4%2F1.
// @Tags Timetables
// @Produce json
// @Param id path string true "Dataset ID"
// @Param group path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /datasets/{id}/timetables/{group} [get]
func (h *TimetableHandler) Group(c *gin.Context) {
	group, err := h.timetables.Group(c.Request.Context(), c.Param("id"), c.Param("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Export godoc
// @Summary Download timetables as CSV or PDF
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Dataset ID"
// @Param format query string false "csv, pdf or xlsx"
// @Param group query string false "Only this group"
// @Success 200 {file} file
// @Router /datasets/{id}/timetables/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.ExportTimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.exports.Export(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
