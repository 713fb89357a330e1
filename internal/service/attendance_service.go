package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	ListForClassOnDate(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceRecord, error)
	ReplaceForClassDate(ctx context.Context, classID int64, date time.Time, records []models.AttendanceRecord) ([]models.AttendanceRecord, error)
	StudentSummary(ctx context.Context, studentID int64) (*models.AttendanceSummary, error)
}

type attendanceClassReader interface {
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	RosterStudents(ctx context.Context, classID int64) ([]models.Student, error)
}

// DayEntryInput is one student's status within a day submission.
type DayEntryInput struct {
	StudentID int64                   `json:"student_id"`
	Status    models.AttendanceStatus `json:"status"`
}

// AttendanceService records per-day class attendance and summarises it.
type AttendanceService struct {
	attendance attendanceRepository
	classes    attendanceClassReader
	logger     *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(attendance attendanceRepository, classes attendanceClassReader, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{attendance: attendance, classes: classes, logger: logger}
}

// List returns attendance records matching the filter.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list attendance")
	}
	return records, nil
}

// ListForClassOnDate returns the records for one class day.
func (s *AttendanceService) ListForClassOnDate(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceRecord, error) {
	records, err := s.attendance.ListForClassOnDate(ctx, classID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list attendance")
	}
	return records, nil
}

// SaveDay replaces every record for (class, date) with the submitted set.
// Prior records for that day are discarded, including ones for students
// missing from the submission. Submissions outside the current roster are
// still stored; the roster only shapes the day sheet, not what can be saved.
func (s *AttendanceService) SaveDay(ctx context.Context, classID int64, date time.Time, entries []DayEntryInput) ([]models.AttendanceRecord, error) {
	if classID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}
	if date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one attendance entry is required")
	}

	if _, err := s.classes.FindDetailByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}

	seen := make(map[int64]struct{}, len(entries))
	records := make([]models.AttendanceRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.StudentID <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required for every entry")
		}
		if !entry.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status "+string(entry.Status))
		}
		if _, dup := seen[entry.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate entry for student")
		}
		seen[entry.StudentID] = struct{}{}
		records = append(records, models.AttendanceRecord{
			StudentID: entry.StudentID,
			ClassID:   classID,
			Date:      date,
			Status:    entry.Status,
		})
	}

	stored, err := s.attendance.ReplaceForClassDate(ctx, classID, date, records)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to save attendance day")
	}
	s.logger.Info("attendance day saved",
		zap.Int64("class_id", classID),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("entries", len(stored)))
	return stored, nil
}

// BuildDaySheet assembles the roster view for taking attendance on a given
// day. Students without a stored record default to Present.
func (s *AttendanceService) BuildDaySheet(ctx context.Context, classID int64, date time.Time) ([]models.DaySheetEntry, error) {
	if _, err := s.classes.FindDetailByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}

	students, err := s.classes.RosterStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}
	records, err := s.attendance.ListForClassOnDate(ctx, classID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list attendance")
	}

	byStudent := make(map[int64]models.AttendanceStatus, len(records))
	for _, record := range records {
		byStudent[record.StudentID] = record.Status
	}

	sheet := make([]models.DaySheetEntry, 0, len(students))
	for _, student := range students {
		entry := models.DaySheetEntry{
			StudentID:   student.ID,
			StudentName: student.FullName(),
			Status:      models.AttendanceStatusPresent,
		}
		if status, ok := byStudent[student.ID]; ok {
			entry.Status = status
			entry.Recorded = true
		}
		sheet = append(sheet, entry)
	}
	return sheet, nil
}

// StudentSummary returns a student's status counts and presence rate across
// all recorded days. A student with no records has a rate of zero.
func (s *AttendanceService) StudentSummary(ctx context.Context, studentID int64) (*models.AttendanceSummary, error) {
	summary, err := s.attendance.StudentSummary(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to summarise attendance")
	}
	return summary, nil
}
