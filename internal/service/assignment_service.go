package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type assignmentClassReader interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

type assignmentGradeCleaner interface {
	DeleteByAssignment(ctx context.Context, assignmentID int64) error
}

// CreateAssignmentInput is the payload for adding graded work to a class.
type CreateAssignmentInput struct {
	ClassID        int64      `json:"class_id" validate:"required,gt=0"`
	Name           string     `json:"name" validate:"required"`
	Description    *string    `json:"description"`
	PointsPossible int        `json:"points_possible" validate:"required,gt=0"`
	DueDate        *time.Time `json:"due_date"`
	Type           string     `json:"type"`
}

// UpdateAssignmentInput carries partial updates; nil fields are left unchanged.
type UpdateAssignmentInput struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	PointsPossible *int       `json:"points_possible" validate:"omitempty,gt=0"`
	DueDate        *time.Time `json:"due_date"`
	Type           *string    `json:"type"`
}

// AssignmentService manages graded work within classes.
type AssignmentService struct {
	assignments assignmentRepository
	classes     assignmentClassReader
	grades      assignmentGradeCleaner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(assignments assignmentRepository, classes assignmentClassReader, grades assignmentGradeCleaner, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		classes:     classes,
		grades:      grades,
		validator:   validator.New(),
		logger:      logger,
	}
}

// List returns assignments matching the filter plus pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	assignments, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list assignments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return assignments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create adds an assignment to an existing class. Zero-point assignments
// are rejected here so percentages stay well defined.
func (s *AssignmentService) Create(ctx context.Context, input CreateAssignmentInput) (*models.Assignment, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.classes.FindByID(ctx, input.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}

	kind := models.AssignmentType(input.Type)
	if input.Type == "" {
		kind = models.AssignmentTypeAssignment
	}
	assignment := &models.Assignment{
		ClassID:        input.ClassID,
		Name:           input.Name,
		Description:    input.Description,
		PointsPossible: input.PointsPossible,
		DueDate:        input.DueDate,
		Type:           kind,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create assignment")
	}
	s.logger.Info("assignment created", zap.Int64("assignment_id", assignment.ID), zap.Int64("class_id", assignment.ClassID))
	return assignment, nil
}

// Update applies partial changes to an assignment. Changing the points does
// not rescale stored percentages; scores resubmitted afterwards pick up the
// new scale.
func (s *AssignmentService) Update(ctx context.Context, id int64, input UpdateAssignmentInput) (*models.Assignment, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		assignment.Name = *input.Name
	}
	if input.Description != nil {
		assignment.Description = input.Description
	}
	if input.PointsPossible != nil {
		assignment.PointsPossible = *input.PointsPossible
	}
	if input.DueDate != nil {
		assignment.DueDate = input.DueDate
	}
	if input.Type != nil {
		assignment.Type = models.AssignmentType(*input.Type)
	}
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update assignment")
	}
	return assignment, nil
}

// Delete removes an assignment along with every grade recorded against it.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.grades.DeleteByAssignment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete assignment grades")
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete assignment")
	}
	s.logger.Info("assignment deleted", zap.Int64("assignment_id", id))
	return nil
}
