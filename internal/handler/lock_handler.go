package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type lockService interface {
	Create(ctx context.Context, datasetID string, req dto.CreateLockRequest) (*dto.LockResponse, error)
	List(ctx context.Context, datasetID string) ([]dto.LockResponse, error)
	Delete(ctx context.Context, datasetID, lockID string) error
}

// LockHandler exposes slot lock endpoints.
type LockHandler struct {
	service lockService
}

// NewLockHandler constructs the handler.
func NewLockHandler(svc *service.LockService) *LockHandler {
	return &LockHandler{service: svc}
}

// Create godoc
// @Summary Reserve a slot for some or all groups
// @Description rooms takes a room range such as "ม.4/1-3" or "*" for every group; periods takes "1-3,5".
// @Tags Locks
// @Accept json
// @Produce json
// @Param id path string true "Dataset ID"
// @Param payload body dto.CreateLockRequest true "Lock spec"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /datasets/{id}/locks [post]
func (h *LockHandler) Create(c *gin.Context) {
	var req dto.CreateLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lock payload"))
		return
	}
	lock, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lock)
}

// List godoc
// @Summary List the locks of a dataset
// @Tags Locks
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} response.Envelope
// @Router /datasets/{id}/locks [get]
func (h *LockHandler) List(c *gin.Context) {
	locks, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, locks, nil)
}

// Delete godoc
// @Summary Remove a lock
// @Tags Locks
// @Param id path string true "Dataset ID"
// @Param lockId path string true "Lock ID"
// @Success 204
// @Router /datasets/{id}/locks/{lockId} [delete]
func (h *LockHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Param("lockId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
