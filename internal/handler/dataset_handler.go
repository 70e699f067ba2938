package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type datasetService interface {
	Import(ctx context.Context, req dto.ImportDatasetRequest) (*dto.DatasetResponse, error)
	Create(ctx context.Context, req dto.CreateDatasetRequest) (*dto.DatasetResponse, error)
	Get(ctx context.Context, id string) (*dto.DatasetResponse, error)
	List(ctx context.Context, filter models.DatasetFilter) ([]dto.DatasetResponse, *models.Pagination, error)
	Subjects(ctx context.Context, id string) ([]models.SubjectRecord, error)
	Delete(ctx context.Context, id string) error
}

// DatasetHandler exposes dataset endpoints.
type DatasetHandler struct {
	service datasetService
}

// NewDatasetHandler constructs the handler.
func NewDatasetHandler(svc *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: svc}
}

// Import godoc
// @Summary Import a dataset from a published Google Sheet
// @Tags Datasets
// @Accept json
// @Produce json
// @Param payload body dto.ImportDatasetRequest true "Sheet location"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /datasets/import [post]
func (h *DatasetHandler) Import(c *gin.Context) {
	var req dto.ImportDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}
	dataset, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dataset)
}

// Create godoc
// @Summary Create a dataset from inline subjects
// @Tags Datasets
// @Accept json
// @Produce json
// @Param payload body dto.CreateDatasetRequest true "Subjects and buildings"
// @Success 201 {object} response.Envelope
// @Router /datasets [post]
func (h *DatasetHandler) Create(c *gin.Context) {
	var req dto.CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dataset payload"))
		return
	}
	dataset, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dataset)
}

// List godoc
// @Summary List datasets
// @Tags Datasets
// @Produce json
// @Param search query string false "Name filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /datasets [get]
func (h *DatasetHandler) List(c *gin.Context) {
	items, pagination, err := h.service.List(c.Request.Context(), datasetFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a dataset
// @Tags Datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /datasets/{id} [get]
func (h *DatasetHandler) Get(c *gin.Context) {
	dataset, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dataset, nil)
}

// Subjects godoc
// @Summary List the subject rows of a dataset
// @Tags Datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} response.Envelope
// @Router /datasets/{id}/subjects [get]
func (h *DatasetHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil, map[string]interface{}{"count": len(subjects)})
}

// Delete godoc
// @Summary Delete a dataset with its locks
// @Tags Datasets
// @Param id path string true "Dataset ID"
// @Success 204
// @Router /datasets/{id} [delete]
func (h *DatasetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
