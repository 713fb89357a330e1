package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarhub/scholarhub-api/internal/models"
	"github.com/scholarhub/scholarhub-api/internal/service"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
	"github.com/scholarhub/scholarhub-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param class_id query int false "Filter by class"
// @Param student_id query int false "Filter by student"
// @Param date query string false "Exact day (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter
	if classID, err := strconv.ParseInt(c.Query("class_id"), 10, 64); err == nil {
		filter.ClassID = classID
	}
	if studentID, err := strconv.ParseInt(c.Query("student_id"), 10, 64); err == nil {
		filter.StudentID = studentID
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be formatted YYYY-MM-DD"))
			return
		}
		filter.Date = &date
	}
	if raw := c.Query("from"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "from must be formatted YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &date
	}
	if raw := c.Query("to"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "to must be formatted YYYY-MM-DD"))
			return
		}
		filter.DateTo = &date
	}

	records, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Day godoc
// @Summary Attendance records for one class day
// @Tags Attendance
// @Produce json
// @Param id path int true "Class ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance/{date} [get]
func (h *AttendanceHandler) Day(c *gin.Context) {
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
	records, err := h.attendance.ListForClassOnDate(c.Request.Context(), classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

type saveDayRequest struct {
	Entries []service.DayEntryInput `json:"entries" binding:"required"`
}

// SaveDay godoc
// @Summary Replace all attendance records for one class day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param payload body saveDayRequest true "Day submission"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance/{date} [put]
func (h *AttendanceHandler) SaveDay(c *gin.Context) {
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
	var req saveDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	records, err := h.attendance.SaveDay(c.Request.Context(), classID, date, req.Entries)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// DaySheet godoc
// @Summary Roster sheet for taking attendance, defaulting to Present
// @Tags Attendance
// @Produce json
// @Param id path int true "Class ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance/{date}/sheet [get]
func (h *AttendanceHandler) DaySheet(c *gin.Context) {
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
	sheet, err := h.attendance.BuildDaySheet(c.Request.Context(), classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// StudentSummary godoc
// @Summary Attendance counts and presence rate for a student
// @Tags Attendance
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *AttendanceHandler) StudentSummary(c *gin.Context) {
	studentID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.attendance.StudentSummary(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
