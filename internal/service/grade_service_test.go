package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type mockGradeRepo struct {
	grades map[int64]models.Grade
	nextID int64
}

func (m *mockGradeRepo) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	var list []models.Grade
	for _, g := range m.grades {
		if filter.StudentID > 0 && g.StudentID != filter.StudentID {
			continue
		}
		if filter.AssignmentID > 0 && g.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.ClassID > 0 && g.ClassID != filter.ClassID {
			continue
		}
		list = append(list, g)
	}
	return list, nil
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) FindByStudentAndAssignment(ctx context.Context, studentID, assignmentID int64) (*models.Grade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.AssignmentID == assignmentID {
			return &g, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	if m.grades == nil {
		m.grades = make(map[int64]models.Grade)
	}
	m.nextID++
	grade.ID = m.nextID
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, id int64) error {
	delete(m.grades, id)
	return nil
}

type mockAssignmentReader struct {
	assignments map[int64]models.Assignment
}

func (m *mockAssignmentReader) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type mockStudentReader struct {
	known map[int64]bool
}

func (m *mockStudentReader) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.known[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		score  float64
		points int
		want   int
	}{
		{23, 25, 92},
		{20, 25, 80},
		{0, 25, 0},
		{25, 25, 100},
		{12.4, 25, 50}, // 49.6 rounds up
		{1, 8, 13},     // 12.5 half rounds up
		{7, 9, 78},     // 77.77...
	}
	for _, tc := range cases {
		got, err := Percentage(tc.score, tc.points)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "score %v of %d", tc.score, tc.points)
	}

	_, err := Percentage(10, 0)
	assert.Equal(t, appErrors.ErrInvalidAssignment.Code, errorCode(t, err))
	_, err = Percentage(10, -5)
	assert.Equal(t, appErrors.ErrInvalidAssignment.Code, errorCode(t, err))
}

func newGradeFixture() (*GradeService, *mockGradeRepo) {
	repo := &mockGradeRepo{}
	assignments := &mockAssignmentReader{assignments: map[int64]models.Assignment{
		1: {ID: 1, ClassID: 5, PointsPossible: 25},
		2: {ID: 2, ClassID: 5, PointsPossible: 10},
	}}
	students := &mockStudentReader{known: map[int64]bool{10: true, 11: true}}
	return NewGradeService(repo, assignments, students, zap.NewNop()), repo
}

func TestGradeServiceUpsertCreatesThenReplaces(t *testing.T) {
	svc, repo := newGradeFixture()

	grade, err := svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 1, Score: 23})
	require.NoError(t, err)
	assert.Equal(t, 92, grade.Percentage)
	assert.Equal(t, int64(5), grade.ClassID)

	grade, err = svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 1, Score: 20})
	require.NoError(t, err)
	assert.Equal(t, 80, grade.Percentage)
	assert.Len(t, repo.grades, 1)
}

func TestGradeServiceUpsertOutOfRange(t *testing.T) {
	svc, repo := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 1, Score: 26})
	assert.Equal(t, appErrors.ErrOutOfRange.Code, errorCode(t, err))
	assert.Empty(t, repo.grades)
}

func TestGradeServiceUpsertUnknownRefs(t *testing.T) {
	svc, _ := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 99, Score: 5})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))

	_, err = svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 99, AssignmentID: 1, Score: 5})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestGradeServiceAverages(t *testing.T) {
	svc, _ := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 1, Score: 23})
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 11, AssignmentID: 1, Score: 20})
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 2, Score: 7})
	require.NoError(t, err)

	avg, err := svc.AssignmentAverage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 86, avg) // (92+80)/2

	avg, err = svc.StudentAverage(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 81, avg) // (92+70)/2

	avg, err = svc.AssignmentAverage(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, avg)

	avg, err = svc.StudentAverage(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, avg)
}

func TestGradeServiceDelete(t *testing.T) {
	svc, repo := newGradeFixture()
	grade, err := svc.Upsert(context.Background(), UpsertGradeInput{StudentID: 10, AssignmentID: 1, Score: 23})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), grade.ID))
	assert.Empty(t, repo.grades)

	err = svc.Delete(context.Background(), grade.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestLetterGradeBands(t *testing.T) {
	assert.Equal(t, "A", models.LetterGrade(95))
	assert.Equal(t, "A", models.LetterGrade(90))
	assert.Equal(t, "B", models.LetterGrade(89))
	assert.Equal(t, "B", models.LetterGrade(80))
	assert.Equal(t, "C", models.LetterGrade(79))
	assert.Equal(t, "C", models.LetterGrade(70))
	assert.Equal(t, "D", models.LetterGrade(69))
	assert.Equal(t, "D", models.LetterGrade(60))
	assert.Equal(t, "F", models.LetterGrade(59))
	assert.Equal(t, "F", models.LetterGrade(0))
}
