package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

func TestAttendanceRepositoryReplaceForClassDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE class_id = $1 AND date = $2")).
		WithArgs(int64(1), "2026-03-02").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WithArgs(int64(10), int64(1), "2026-03-02", models.AttendanceStatusPresent, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WithArgs(int64(11), int64(1), "2026-03-02", models.AttendanceStatusAbsent, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	stored, err := repo.ReplaceForClassDate(context.Background(), 1, day, []models.AttendanceRecord{
		{StudentID: 10, Status: models.AttendanceStatusPresent},
		{StudentID: 11, Status: models.AttendanceStatusAbsent},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, int64(100), stored[0].ID)
	require.Equal(t, int64(101), stored[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryReplaceRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE class_id = $1 AND date = $2")).
		WithArgs(int64(1), "2026-03-02").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err := repo.ReplaceForClassDate(context.Background(), 1, day, []models.AttendanceRecord{
		{StudentID: 10, Status: models.AttendanceStatusPresent},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByClassAndDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "student_id", "class_id", "date", "status", "created_at", "updated_at"}).
		AddRow(100, 10, 1, day, "Present", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ar.id, ar.student_id")).
		WithArgs(int64(1), "2026-03-02").
		WillReturnRows(rows)

	records, err := repo.ListForClassOnDate(context.Background(), 1, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendanceStatusPresent, records[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryStudentSummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"present", "absent", "tardy", "excused", "total"}).
		AddRow(3, 1, 0, 0, 4)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = 'Present')")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	summary, err := repo.StudentSummary(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Present)
	require.Equal(t, 4, summary.Total)
	require.InDelta(t, 0.75, summary.Rate, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}
