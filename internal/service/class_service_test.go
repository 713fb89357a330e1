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

type mockClassRepo struct {
	classes map[int64]models.Class
	rosters map[int64][]int64
	deleted []int64
	nextID  int64
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	var list []models.Class
	for _, c := range m.classes {
		list = append(list, c)
	}
	return list, len(list), nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.ClassDetail{Class: c, EnrolledStudentIDs: m.rosters[id]}, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.classes == nil {
		m.classes = make(map[int64]models.Class)
	}
	m.nextID++
	class.ID = m.nextID
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id int64) error {
	delete(m.classes, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestClassServiceCreate(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, zap.NewNop())

	class, err := svc.Create(context.Background(), CreateClassInput{
		CourseName: "Algebra I",
		CourseCode: "MATH-101",
		Instructor: "G. Boole",
		GradeLevel: 9,
		Subject:    "Math",
		Capacity:   30,
	})
	require.NoError(t, err)
	assert.NotZero(t, class.ID)
	assert.Zero(t, class.EnrolledCount)

	_, err = svc.Create(context.Background(), CreateClassInput{CourseName: "Incomplete"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestClassServiceUpdateCapacityGuard(t *testing.T) {
	repo := &mockClassRepo{
		classes: map[int64]models.Class{1: {ID: 1, CourseName: "Algebra I", Capacity: 30}},
		rosters: map[int64][]int64{1: {10, 11, 12}},
	}
	svc := NewClassService(repo, zap.NewNop())

	two := 2
	_, err := svc.Update(context.Background(), 1, UpdateClassInput{Capacity: &two})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	ten := 10
	class, err := svc.Update(context.Background(), 1, UpdateClassInput{Capacity: &ten})
	require.NoError(t, err)
	assert.Equal(t, 10, class.Capacity)
}

func TestClassServiceDelete(t *testing.T) {
	repo := &mockClassRepo{classes: map[int64]models.Class{1: {ID: 1}}}
	svc := NewClassService(repo, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Contains(t, repo.deleted, int64(1))

	err := svc.Delete(context.Background(), 1)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}
