package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/internal/schedule"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// CalendarHandler serves the view navigator.
type CalendarHandler struct{}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{}
}

// Navigate godoc
// @Summary Step the displayed date by one view unit
// @Tags Calendar
// @Produce json
// @Param date query string true "RFC3339 current date"
// @Param view query string true "Day, Month or Year"
// @Param direction query string true "next or prev"
// @Success 200 {object} response.Envelope
// @Router /calendar/navigate [get]
func (h *CalendarHandler) Navigate(c *gin.Context) {
	current, err := time.Parse(time.RFC3339, c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be an RFC3339 timestamp"))
		return
	}
	view := models.ViewMode(c.Query("view"))
	if !view.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "view must be Day, Month or Year"))
		return
	}

	direction := 0
	switch c.DefaultQuery("direction", "next") {
	case "next":
		direction = 1
	case "prev":
		direction = -1
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "direction must be next or prev"))
		return
	}

	next := schedule.Step(current, view, direction)
	response.JSON(c, http.StatusOK, gin.H{"date": next.Format(time.RFC3339)})
}
