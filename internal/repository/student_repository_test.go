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

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "student_number", "grade_level", "enrollment_status",
		"enrollment_date", "date_of_birth", "email", "phone", "guardian_name", "guardian_phone", "guardian_email",
		"guardian_relationship", "street_address", "city", "state", "zip_code", "notes", "created_at", "updated_at"})
}

func TestStudentRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)

	rows := studentRows().AddRow(1, "Ada", "Lovelace", "S-1001", 9, "Active",
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.first_name")).
		WithArgs("%ada%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s")).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: "Ada"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "Lovelace", students[0].LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE student_number = $1")).
		WithArgs("S-1001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	taken, err := repo.ExistsByNumber(context.Background(), "S-1001", 0)
	require.NoError(t, err)
	require.True(t, taken)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE student_number = $1 AND id <> $2")).
		WithArgs("S-1001", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	taken, err = repo.ExistsByNumber(context.Background(), "S-1001", 4)
	require.NoError(t, err)
	require.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET enrollment_status = $2")).
		WithArgs(int64(1), models.EnrollmentStatusInactive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}
