package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

func gradeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "assignment_id", "class_id", "score", "percentage", "created_at", "updated_at"})
}

func TestGradeRepositoryFindByStudentAndAssignment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 AND assignment_id = $2")).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(gradeRows().AddRow(5, 10, 1, 3, 23.0, 92, time.Now(), time.Now()))

	grade, err := repo.FindByStudentAndAssignment(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, 92, grade.Percentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByStudentAndAssignmentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 AND assignment_id = $2")).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(gradeRows())

	_, err := repo.FindByStudentAndAssignment(context.Background(), 10, 1)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO grades")).
		WithArgs(int64(10), int64(1), int64(3), 23.0, 92, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	grade := &models.Grade{StudentID: 10, AssignmentID: 1, ClassID: 3, Score: 23, Percentage: 92}
	require.NoError(t, repo.Create(context.Background(), grade))
	require.Equal(t, int64(5), grade.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT g.id, g.student_id")).
		WithArgs(int64(3)).
		WillReturnRows(gradeRows().
			AddRow(5, 10, 1, 3, 23.0, 92, time.Now(), time.Now()).
			AddRow(6, 11, 1, 3, 20.0, 80, time.Now(), time.Now()))

	grades, err := repo.List(context.Background(), models.GradeFilter{ClassID: 3})
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDeleteByAssignment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE assignment_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteByAssignment(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}
