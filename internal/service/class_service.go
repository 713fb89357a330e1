package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// CreateClassInput is the payload for opening a new class section.
type CreateClassInput struct {
	CourseName string  `json:"course_name" validate:"required"`
	CourseCode string  `json:"course_code" validate:"required"`
	Instructor string  `json:"instructor" validate:"required"`
	GradeLevel int     `json:"grade_level" validate:"required,gte=1,lte=12"`
	Subject    string  `json:"subject" validate:"required"`
	Room       *string `json:"room"`
	Schedule   *string `json:"schedule"`
	Capacity   int     `json:"capacity" validate:"required,gt=0"`
}

// UpdateClassInput carries partial updates; nil fields are left unchanged.
type UpdateClassInput struct {
	CourseName *string `json:"course_name"`
	CourseCode *string `json:"course_code"`
	Instructor *string `json:"instructor"`
	GradeLevel *int    `json:"grade_level" validate:"omitempty,gte=1,lte=12"`
	Subject    *string `json:"subject"`
	Room       *string `json:"room"`
	Schedule   *string `json:"schedule"`
	Capacity   *int    `json:"capacity" validate:"omitempty,gt=0"`
}

// ClassService manages class sections. Roster membership is handled by
// RosterService; the enrolled count is derived from the roster and never
// written through class updates.
type ClassService struct {
	classes   classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(classes classRepository, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, validator: validator.New(), logger: logger}
}

// List returns classes matching the filter plus pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return classes, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches a class with its enrolled student IDs.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	detail, err := s.classes.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}
	return detail, nil
}

// Create opens a new class section with an empty roster.
func (s *ClassService) Create(ctx context.Context, input CreateClassInput) (*models.Class, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		CourseName: input.CourseName,
		CourseCode: input.CourseCode,
		Instructor: input.Instructor,
		GradeLevel: input.GradeLevel,
		Subject:    input.Subject,
		Room:       input.Room,
		Schedule:   input.Schedule,
		Capacity:   input.Capacity,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create class")
	}
	s.logger.Info("class created", zap.Int64("class_id", class.ID), zap.String("course_code", class.CourseCode))
	return class, nil
}

// Update applies partial changes to a class. Lowering capacity below the
// current enrollment is rejected rather than dropping students.
func (s *ClassService) Update(ctx context.Context, id int64, input UpdateClassInput) (*models.Class, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	class := detail.Class

	if input.Capacity != nil {
		if *input.Capacity < len(detail.EnrolledStudentIDs) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "capacity cannot be lower than current enrollment")
		}
		class.Capacity = *input.Capacity
	}
	if input.CourseName != nil {
		class.CourseName = *input.CourseName
	}
	if input.CourseCode != nil {
		class.CourseCode = *input.CourseCode
	}
	if input.Instructor != nil {
		class.Instructor = *input.Instructor
	}
	if input.GradeLevel != nil {
		class.GradeLevel = *input.GradeLevel
	}
	if input.Subject != nil {
		class.Subject = *input.Subject
	}
	if input.Room != nil {
		class.Room = input.Room
	}
	if input.Schedule != nil {
		class.Schedule = input.Schedule
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update class")
	}
	return &class, nil
}

// Delete removes a class and its roster rows.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete class")
	}
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}
