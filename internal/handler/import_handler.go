package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexplan/nexplan-api/internal/service"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// ImportHandler triggers the simulated classroom import.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler constructs the handler.
func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Trigger godoc
// @Summary Schedule a classroom assignment import
// @Tags Imports
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /imports/classroom [post]
func (h *ImportHandler) Trigger(c *gin.Context) {
	jobID, err := h.service.Trigger()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule import"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"job_id": jobID, "status": "scheduled"})
}
