package service

import (
	"context"
	"database/sql"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	FindByStudentAndAssignment(ctx context.Context, studentID, assignmentID int64) (*models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
}

type gradeAssignmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}

type gradeStudentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// UpsertGradeInput carries a score submission for one student and assignment.
type UpsertGradeInput struct {
	StudentID    int64   `json:"student_id" validate:"required,gt=0"`
	AssignmentID int64   `json:"assignment_id" validate:"required,gt=0"`
	Score        float64 `json:"score" validate:"gte=0"`
}

// GradeService records scores and derives percentages and letter grades.
type GradeService struct {
	grades      gradeRepository
	assignments gradeAssignmentReader
	students    gradeStudentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeRepository, assignments gradeAssignmentReader, students gradeStudentReader, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		grades:      grades,
		assignments: assignments,
		students:    students,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Percentage converts a raw score into a whole-number percentage, rounding
// halves up. Fails when the assignment is worth zero or negative points.
func Percentage(score float64, pointsPossible int) (int, error) {
	if pointsPossible <= 0 {
		return 0, appErrors.Clone(appErrors.ErrInvalidAssignment, "")
	}
	return int(math.Floor(score/float64(pointsPossible)*100 + 0.5)), nil
}

// List returns grades matching the filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list grades")
	}
	return grades, nil
}

// Get fetches a single grade.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load grade")
	}
	return grade, nil
}

// Upsert records a score for a (student, assignment) pair, creating the
// grade on first submission and replacing the score on resubmission. The
// stored percentage is always recomputed from the submitted score.
func (s *GradeService) Upsert(ctx context.Context, input UpsertGradeInput) (*models.Grade, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	assignment, err := s.assignments.FindByID(ctx, input.AssignmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load assignment")
	}
	if _, err := s.students.FindByID(ctx, input.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	if input.Score < 0 || input.Score > float64(assignment.PointsPossible) {
		return nil, appErrors.Clone(appErrors.ErrOutOfRange, "")
	}

	percentage, err := Percentage(input.Score, assignment.PointsPossible)
	if err != nil {
		return nil, err
	}

	existing, err := s.grades.FindByStudentAndAssignment(ctx, input.StudentID, input.AssignmentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to look up grade")
	}

	if existing != nil {
		existing.Score = input.Score
		existing.Percentage = percentage
		if err := s.grades.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update grade")
		}
		s.logger.Info("grade updated", zap.Int64("grade_id", existing.ID), zap.Int("percentage", percentage))
		return existing, nil
	}

	grade := &models.Grade{
		StudentID:    input.StudentID,
		AssignmentID: input.AssignmentID,
		ClassID:      assignment.ClassID,
		Score:        input.Score,
		Percentage:   percentage,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to record grade")
	}
	s.logger.Info("grade recorded", zap.Int64("grade_id", grade.ID), zap.Int("percentage", percentage))
	return grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.grades.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete grade")
	}
	return nil
}

// AssignmentAverage returns the mean percentage across all grades recorded
// for an assignment, rounded half up. Empty sets average to zero.
func (s *GradeService) AssignmentAverage(ctx context.Context, assignmentID int64) (int, error) {
	grades, err := s.List(ctx, models.GradeFilter{AssignmentID: assignmentID})
	if err != nil {
		return 0, err
	}
	return meanPercentage(grades), nil
}

// StudentAverage returns the mean percentage across all of a student's
// grades, rounded half up. Empty sets average to zero.
func (s *GradeService) StudentAverage(ctx context.Context, studentID int64) (int, error) {
	grades, err := s.List(ctx, models.GradeFilter{StudentID: studentID})
	if err != nil {
		return 0, err
	}
	return meanPercentage(grades), nil
}

func meanPercentage(grades []models.Grade) int {
	sum := 0
	for _, grade := range grades {
		sum += grade.Percentage
	}
	return roundMean(sum, len(grades))
}

// roundMean is the mean of sum over count, rounded half up. Both the grade
// averages and the gradebook export use it so the rounding rule stays single.
func roundMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return (sum*2 + count) / (count * 2)
}
