package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

const attendanceColumns = `id, student_id, class_id, date, status, created_at, updated_at`

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance records matching the provided filters.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	base := "FROM attendance_records ar"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("ar.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("ar.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date = $%d", len(args)+1))
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date <= $%d", len(args)+1))
		args = append(args, filter.DateTo.Format("2006-01-02"))
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY ar.date, ar.student_id",
		prefixColumns(attendanceColumns, "ar"), base, strings.Join(conditions, " AND "))

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ListAll returns every attendance record, used by full-collection reductions.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	return r.List(ctx, models.AttendanceFilter{})
}

// ListForClassOnDate returns the records for one class day.
func (r *AttendanceRepository) ListForClassOnDate(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceRecord, error) {
	return r.List(ctx, models.AttendanceFilter{ClassID: classID, Date: &date})
}

// ReplaceForClassDate atomically replaces every record for (class, date)
// with the provided set. The caller observes either the old day or the new
// day, never a mix.
func (r *AttendanceRepository) ReplaceForClassDate(ctx context.Context, classID int64, date time.Time, records []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin attendance tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	day := date.Format("2006-01-02")
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE class_id = $1 AND date = $2`, classID, day); err != nil {
		return nil, fmt.Errorf("clear attendance day: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO attendance_records (student_id, class_id, date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	stored := make([]models.AttendanceRecord, 0, len(records))
	for _, record := range records {
		record.ClassID = classID
		record.Date = date
		record.CreatedAt = now
		record.UpdatedAt = now
		if err := tx.GetContext(ctx, &record.ID, insert,
			record.StudentID, record.ClassID, day, record.Status, record.CreatedAt, record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert attendance row: %w", err)
		}
		stored = append(stored, record)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attendance tx: %w", err)
	}
	return stored, nil
}

// DeleteForClassDate removes every record for (class, date).
func (r *AttendanceRepository) DeleteForClassDate(ctx context.Context, classID int64, date time.Time) error {
	day := date.Format("2006-01-02")
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE class_id = $1 AND date = $2`, classID, day); err != nil {
		return fmt.Errorf("delete attendance day: %w", err)
	}
	return nil
}

// StudentSummary counts a student's records by status and derives the
// presence rate.
func (r *AttendanceRepository) StudentSummary(ctx context.Context, studentID int64) (*models.AttendanceSummary, error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE status = 'Present') AS present,
        COUNT(*) FILTER (WHERE status = 'Absent') AS absent,
        COUNT(*) FILTER (WHERE status = 'Tardy') AS tardy,
        COUNT(*) FILTER (WHERE status = 'Excused') AS excused,
        COUNT(*) AS total
        FROM attendance_records WHERE student_id = $1`
	var summary models.AttendanceSummary
	if err := r.db.GetContext(ctx, &summary, query, studentID); err != nil {
		return nil, fmt.Errorf("summarise attendance: %w", err)
	}
	if summary.Total > 0 {
		summary.Rate = float64(summary.Present) / float64(summary.Total)
	}
	return &summary, nil
}
