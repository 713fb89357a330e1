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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByNumber(ctx context.Context, number string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id int64) error
}

// CreateStudentInput is the payload for registering a student.
type CreateStudentInput struct {
	FirstName            string     `json:"first_name" validate:"required"`
	LastName             string     `json:"last_name" validate:"required"`
	StudentNumber        string     `json:"student_number" validate:"required"`
	GradeLevel           int        `json:"grade_level" validate:"required,gte=1,lte=12"`
	EnrollmentStatus     string     `json:"enrollment_status"`
	EnrollmentDate       *time.Time `json:"enrollment_date"`
	DateOfBirth          *time.Time `json:"date_of_birth"`
	Email                *string    `json:"email" validate:"omitempty,email"`
	Phone                *string    `json:"phone"`
	GuardianName         *string    `json:"guardian_name"`
	GuardianPhone        *string    `json:"guardian_phone"`
	GuardianEmail        *string    `json:"guardian_email" validate:"omitempty,email"`
	GuardianRelationship *string    `json:"guardian_relationship"`
	StreetAddress        *string    `json:"street_address"`
	City                 *string    `json:"city"`
	State                *string    `json:"state"`
	ZipCode              *string    `json:"zip_code"`
	Notes                *string    `json:"notes"`
}

// UpdateStudentInput carries partial updates; nil fields are left unchanged.
type UpdateStudentInput struct {
	FirstName            *string    `json:"first_name"`
	LastName             *string    `json:"last_name"`
	StudentNumber        *string    `json:"student_number"`
	GradeLevel           *int       `json:"grade_level" validate:"omitempty,gte=1,lte=12"`
	EnrollmentStatus     *string    `json:"enrollment_status"`
	EnrollmentDate       *time.Time `json:"enrollment_date"`
	DateOfBirth          *time.Time `json:"date_of_birth"`
	Email                *string    `json:"email" validate:"omitempty,email"`
	Phone                *string    `json:"phone"`
	GuardianName         *string    `json:"guardian_name"`
	GuardianPhone        *string    `json:"guardian_phone"`
	GuardianEmail        *string    `json:"guardian_email" validate:"omitempty,email"`
	GuardianRelationship *string    `json:"guardian_relationship"`
	StreetAddress        *string    `json:"street_address"`
	City                 *string    `json:"city"`
	State                *string    `json:"state"`
	ZipCode              *string    `json:"zip_code"`
	Notes                *string    `json:"notes"`
}

// StudentService manages the student directory.
type StudentService struct {
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, validator: validator.New(), logger: logger}
}

// List returns students matching the filter plus pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student, enforcing a unique student number.
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	status := models.EnrollmentStatus(input.EnrollmentStatus)
	if input.EnrollmentStatus == "" {
		status = models.EnrollmentStatusActive
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status "+input.EnrollmentStatus)
	}

	taken, err := s.students.ExistsByNumber(ctx, input.StudentNumber, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check student number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student number already in use")
	}

	student := &models.Student{
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		StudentNumber:        input.StudentNumber,
		GradeLevel:           input.GradeLevel,
		EnrollmentStatus:     status,
		EnrollmentDate:       input.EnrollmentDate,
		DateOfBirth:          input.DateOfBirth,
		Email:                input.Email,
		Phone:                input.Phone,
		GuardianName:         input.GuardianName,
		GuardianPhone:        input.GuardianPhone,
		GuardianEmail:        input.GuardianEmail,
		GuardianRelationship: input.GuardianRelationship,
		StreetAddress:        input.StreetAddress,
		City:                 input.City,
		State:                input.State,
		ZipCode:              input.ZipCode,
		Notes:                input.Notes,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", student.ID), zap.String("student_number", student.StudentNumber))
	return student, nil
}

// Update applies partial changes to a student.
func (s *StudentService) Update(ctx context.Context, id int64, input UpdateStudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.StudentNumber != nil && *input.StudentNumber != student.StudentNumber {
		taken, err := s.students.ExistsByNumber(ctx, *input.StudentNumber, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check student number")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student number already in use")
		}
		student.StudentNumber = *input.StudentNumber
	}
	if input.FirstName != nil {
		student.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		student.LastName = *input.LastName
	}
	if input.GradeLevel != nil {
		student.GradeLevel = *input.GradeLevel
	}
	if input.EnrollmentStatus != nil {
		status := models.EnrollmentStatus(*input.EnrollmentStatus)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status "+*input.EnrollmentStatus)
		}
		student.EnrollmentStatus = status
	}
	if input.EnrollmentDate != nil {
		student.EnrollmentDate = input.EnrollmentDate
	}
	if input.DateOfBirth != nil {
		student.DateOfBirth = input.DateOfBirth
	}
	if input.Email != nil {
		student.Email = input.Email
	}
	if input.Phone != nil {
		student.Phone = input.Phone
	}
	if input.GuardianName != nil {
		student.GuardianName = input.GuardianName
	}
	if input.GuardianPhone != nil {
		student.GuardianPhone = input.GuardianPhone
	}
	if input.GuardianEmail != nil {
		student.GuardianEmail = input.GuardianEmail
	}
	if input.GuardianRelationship != nil {
		student.GuardianRelationship = input.GuardianRelationship
	}
	if input.StreetAddress != nil {
		student.StreetAddress = input.StreetAddress
	}
	if input.City != nil {
		student.City = input.City
	}
	if input.State != nil {
		student.State = input.State
	}
	if input.ZipCode != nil {
		student.ZipCode = input.ZipCode
	}
	if input.Notes != nil {
		student.Notes = input.Notes
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update student")
	}
	return student, nil
}

// Deactivate soft-removes a student by marking them inactive. Historical
// grades and attendance stay attached to the record.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.students.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to deactivate student")
	}
	s.logger.Info("student deactivated", zap.Int64("student_id", id))
	return nil
}
