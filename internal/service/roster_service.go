package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type rosterRepository interface {
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	RosterStudents(ctx context.Context, classID int64) ([]models.Student, error)
	AddToRoster(ctx context.Context, classID, studentID int64) error
	RemoveFromRoster(ctx context.Context, classID, studentID int64) error
}

type rosterStudentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// RosterService keeps a class's enrolled-student set consistent with its
// capacity and derived count. Enroll and unenroll are read-modify-write
// against the store; concurrent calls for the same class can race past the
// capacity check and the last write wins. Acceptable for a human admin
// surface, so no optimistic locking here.
type RosterService struct {
	classes  rosterRepository
	students rosterStudentReader
	logger   *zap.Logger
}

// NewRosterService constructs RosterService.
func NewRosterService(classes rosterRepository, students rosterStudentReader, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{classes: classes, students: students, logger: logger}
}

// Enroll adds a student to a class roster, enforcing uniqueness and capacity.
func (s *RosterService) Enroll(ctx context.Context, classID, studentID int64) (*models.ClassDetail, error) {
	detail, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	for _, id := range detail.EnrolledStudentIDs {
		if id == studentID {
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		}
	}
	if len(detail.EnrolledStudentIDs) >= detail.Capacity {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}
	if err := s.classes.AddToRoster(ctx, classID, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to enroll student")
	}
	s.logger.Info("student enrolled", zap.Int64("class_id", classID), zap.Int64("student_id", studentID))
	return s.loadClass(ctx, classID)
}

// Unenroll removes a student from a class roster.
func (s *RosterService) Unenroll(ctx context.Context, classID, studentID int64) (*models.ClassDetail, error) {
	detail, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	enrolled := false
	for _, id := range detail.EnrolledStudentIDs {
		if id == studentID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrNotEnrolled, "")
	}
	if err := s.classes.RemoveFromRoster(ctx, classID, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to unenroll student")
	}
	s.logger.Info("student unenrolled", zap.Int64("class_id", classID), zap.Int64("student_id", studentID))
	return s.loadClass(ctx, classID)
}

// Roster returns the enrolled students for a class.
func (s *RosterService) Roster(ctx context.Context, classID int64) ([]models.Student, error) {
	if _, err := s.loadClass(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.classes.RosterStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}
	return students, nil
}

func (s *RosterService) loadClass(ctx context.Context, classID int64) (*models.ClassDetail, error) {
	detail, err := s.classes.FindDetailByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}
	return detail, nil
}
