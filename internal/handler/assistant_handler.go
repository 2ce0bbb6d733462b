package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexplan/nexplan-api/internal/service"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// AssistantHandler exposes the reconciliation session endpoints.
type AssistantHandler struct {
	service *service.AssistantService
}

// NewAssistantHandler constructs the handler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// Submit godoc
// @Summary Submit text and/or an attachment for event extraction
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Router /assistant/submissions [post]
func (h *AssistantHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Session godoc
// @Summary Get the current reconciliation session
// @Tags Assistant
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assistant/session [get]
func (h *AssistantHandler) Session(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot())
}

// EditDraft godoc
// @Summary Edit fields of one draft
// @Tags Assistant
// @Accept json
// @Produce json
// @Param index path int true "Draft index"
// @Param payload body service.DraftPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /assistant/drafts/{index} [patch]
func (h *AssistantHandler) EditDraft(c *gin.Context) {
	index, ok := draftIndex(c)
	if !ok {
		return
	}
	var patch service.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.EditDraft(index, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// RemoveDraft godoc
// @Summary Remove one draft from the session
// @Tags Assistant
// @Produce json
// @Param index path int true "Draft index"
// @Success 200 {object} response.Envelope
// @Router /assistant/drafts/{index} [delete]
func (h *AssistantHandler) RemoveDraft(c *gin.Context) {
	index, ok := draftIndex(c)
	if !ok {
		return
	}
	view, err := h.service.RemoveDraft(index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Confirm godoc
// @Summary Commit every remaining draft to the calendar
// @Tags Assistant
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /assistant/confirm [post]
func (h *AssistantHandler) Confirm(c *gin.Context) {
	events, err := h.service.ConfirmAll()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, events)
}

// Discard godoc
// @Summary Discard the current session
// @Tags Assistant
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assistant/session [delete]
func (h *AssistantHandler) Discard(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Discard())
}

func draftIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "draft index must be an integer"))
		return 0, false
	}
	return index, true
}
