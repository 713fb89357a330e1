package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type mockRosterRepo struct {
	classes map[int64]models.Class
	rosters map[int64][]int64
}

func (m *mockRosterRepo) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	ids := append([]int64(nil), m.rosters[id]...)
	class.EnrolledCount = len(ids)
	return &models.ClassDetail{Class: class, EnrolledStudentIDs: ids}, nil
}

func (m *mockRosterRepo) RosterStudents(ctx context.Context, classID int64) ([]models.Student, error) {
	var students []models.Student
	for _, id := range m.rosters[classID] {
		students = append(students, models.Student{ID: id})
	}
	return students, nil
}

func (m *mockRosterRepo) AddToRoster(ctx context.Context, classID, studentID int64) error {
	if m.rosters == nil {
		m.rosters = make(map[int64][]int64)
	}
	m.rosters[classID] = append(m.rosters[classID], studentID)
	return nil
}

func (m *mockRosterRepo) RemoveFromRoster(ctx context.Context, classID, studentID int64) error {
	kept := m.rosters[classID][:0]
	for _, id := range m.rosters[classID] {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	m.rosters[classID] = kept
	return nil
}

type mockRosterStudents struct {
	known map[int64]bool
}

func (m *mockRosterStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.known[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	return appErr.Code
}

func TestRosterServiceEnrollFillsToCapacity(t *testing.T) {
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 2}},
		rosters: map[int64][]int64{},
	}
	students := &mockRosterStudents{known: map[int64]bool{10: true, 11: true, 12: true}}
	svc := NewRosterService(repo, students, zap.NewNop())

	detail, err := svc.Enroll(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.EnrolledCount)

	detail, err = svc.Enroll(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.EnrolledCount)

	_, err = svc.Enroll(context.Background(), 1, 12)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, errorCode(t, err))
	assert.Len(t, repo.rosters[1], 2)
}

func TestRosterServiceEnrollDuplicate(t *testing.T) {
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 5}},
		rosters: map[int64][]int64{1: {10}},
	}
	students := &mockRosterStudents{known: map[int64]bool{10: true}}
	svc := NewRosterService(repo, students, zap.NewNop())

	_, err := svc.Enroll(context.Background(), 1, 10)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, errorCode(t, err))
	assert.Equal(t, []int64{10}, repo.rosters[1])
}

func TestRosterServiceEnrollDuplicateBeatsFullClass(t *testing.T) {
	// A student already on a full roster reports the duplicate, not capacity.
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 1}},
		rosters: map[int64][]int64{1: {10}},
	}
	students := &mockRosterStudents{known: map[int64]bool{10: true}}
	svc := NewRosterService(repo, students, zap.NewNop())

	_, err := svc.Enroll(context.Background(), 1, 10)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, errorCode(t, err))
}

func TestRosterServiceEnrollMissingClassOrStudent(t *testing.T) {
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 2}},
		rosters: map[int64][]int64{},
	}
	students := &mockRosterStudents{known: map[int64]bool{10: true}}
	svc := NewRosterService(repo, students, zap.NewNop())

	_, err := svc.Enroll(context.Background(), 99, 10)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))

	_, err = svc.Enroll(context.Background(), 1, 99)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
	assert.Empty(t, repo.rosters[1])
}

func TestRosterServiceUnenroll(t *testing.T) {
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 5}},
		rosters: map[int64][]int64{1: {10, 11}},
	}
	students := &mockRosterStudents{known: map[int64]bool{10: true, 11: true}}
	svc := NewRosterService(repo, students, zap.NewNop())

	detail, err := svc.Unenroll(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, detail.EnrolledStudentIDs)
	assert.Equal(t, 1, detail.EnrolledCount)

	_, err = svc.Unenroll(context.Background(), 1, 10)
	assert.Equal(t, appErrors.ErrNotEnrolled.Code, errorCode(t, err))
}

func TestRosterServiceRoster(t *testing.T) {
	repo := &mockRosterRepo{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 5}},
		rosters: map[int64][]int64{1: {10, 11}},
	}
	svc := NewRosterService(repo, &mockRosterStudents{}, zap.NewNop())

	students, err := svc.Roster(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = svc.Roster(context.Background(), 2)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}
