package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/scholarhub/scholarhub-api/internal/service"
	"github.com/scholarhub/scholarhub-api/pkg/response"
)

// ExportHandler streams rendered export files.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RosterCSV godoc
// @Summary Download class roster as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path int true "Class ID"
// @Success 200
// @Router /exports/classes/{id}/roster [get]
func (h *ExportHandler) RosterCSV(c *gin.Context) {
	classID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.RosterCSV(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// AttendanceDayCSV godoc
// @Summary Download one class day's attendance as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path int true "Class ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200
// @Router /exports/classes/{id}/attendance [get]
func (h *ExportHandler) AttendanceDayCSV(c *gin.Context) {
	classID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateParam(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.AttendanceDayCSV(c.Request.Context(), classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// GradebookXLSX godoc
// @Summary Download class gradebook as XLSX
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Class ID"
// @Success 200
// @Router /exports/classes/{id}/gradebook [get]
func (h *ExportHandler) GradebookXLSX(c *gin.Context) {
	classID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.GradebookXLSX(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// AtRiskPDF godoc
// @Summary Download the at-risk student report as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200
// @Router /exports/at-risk [get]
func (h *ExportHandler) AtRiskPDF(c *gin.Context) {
	file, err := h.exports.AtRiskPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(200, file.ContentType, file.Content)
}
