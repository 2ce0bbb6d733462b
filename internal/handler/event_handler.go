package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexplan/nexplan-api/internal/service"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// EventHandler manages calendar event endpoints.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler constructs the handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List calendar events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List())
}

// Get godoc
// @Summary Get one event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ev)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ev, conflict, err := h.service.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ev, conflictMeta(conflict))
}

// Update godoc
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ev, conflict, err := h.service.Update(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ev, conflictMeta(conflict))
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204 {object} nil
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	h.service.Delete(c.Param("id"))
	response.NoContent(c)
}

// Move godoc
// @Summary Reschedule event to a new anchor date
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.MoveEventRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/move [post]
func (h *EventHandler) Move(c *gin.Context) {
	var req service.MoveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ev, conflict, err := h.service.Move(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ev, conflictMeta(conflict))
}

// Conflicts godoc
// @Summary Probe a time range for overlaps
// @Tags Events
// @Produce json
// @Param start query string true "RFC3339 range start"
// @Param end query string true "RFC3339 range end"
// @Param exclude query string false "Event ID to skip"
// @Success 200 {object} response.Envelope
// @Router /events/conflicts [get]
func (h *EventHandler) Conflicts(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start must be an RFC3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end must be an RFC3339 timestamp"))
		return
	}
	conflict := h.service.CheckConflict(start, end, c.Query("exclude"))
	response.JSON(c, http.StatusOK, gin.H{"conflict": conflict})
}

// conflictMeta annotates a save with the advisory overlap flag. Conflicts
// never block the action.
func conflictMeta(conflict bool) map[string]interface{} {
	if !conflict {
		return nil
	}
	return map[string]interface{}{"conflict": true}
}
