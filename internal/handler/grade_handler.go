package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholarhub/scholarhub-api/internal/models"
	"github.com/scholarhub/scholarhub-api/internal/service"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
	"github.com/scholarhub/scholarhub-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param assignment_id query int false "Filter by assignment"
// @Param class_id query int false "Filter by class"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	var filter models.GradeFilter
	if studentID, err := strconv.ParseInt(c.Query("student_id"), 10, 64); err == nil {
		filter.StudentID = studentID
	}
	if assignmentID, err := strconv.ParseInt(c.Query("assignment_id"), 10, 64); err == nil {
		filter.AssignmentID = assignmentID
	}
	if classID, err := strconv.ParseInt(c.Query("class_id"), 10, 64); err == nil {
		filter.ClassID = classID
	}
	grades, err := h.grades.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Get godoc
// @Summary Get grade detail
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	grade, err := h.grades.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Upsert godoc
// @Summary Record or replace a score for a student and assignment
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.UpsertGradeInput true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades [put]
func (h *GradeHandler) Upsert(c *gin.Context) {
	var input service.UpsertGradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Upsert(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete grade
// @Tags Grades
// @Param id path int true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentAverage godoc
// @Summary Overall average for a student across all grades
// @Tags Grades
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/average [get]
func (h *GradeHandler) StudentAverage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	average, err := h.grades.StudentAverage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"student_id": id,
		"average":    average,
		"letter":     models.LetterGrade(average),
	}, nil)
}
