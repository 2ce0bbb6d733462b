package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexplan/nexplan-api/internal/service"
	"github.com/nexplan/nexplan-api/pkg/response"
)

// ExportHandler serves agenda downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ICS godoc
// @Summary Download the calendar as an ICS feed
// @Tags Export
// @Produce text/calendar
// @Success 200 {string} string
// @Router /export/agenda.ics [get]
func (h *ExportHandler) ICS(c *gin.Context) {
	data, err := h.service.ICS()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="agenda.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// CSV godoc
// @Summary Download the agenda as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {string} string
// @Router /export/agenda.csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	data, err := h.service.CSV()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="agenda.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// PDF godoc
// @Summary Download the agenda as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {string} string
// @Router /export/agenda.pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	data, err := h.service.PDF()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="agenda.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
