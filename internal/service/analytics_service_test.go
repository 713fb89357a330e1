package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
)

type mockStudentLister struct {
	students []models.Student
	calls    int
}

func (m *mockStudentLister) ListAll(ctx context.Context) ([]models.Student, error) {
	m.calls++
	return m.students, nil
}

type mockGradeLister struct {
	grades []models.Grade
}

func (m *mockGradeLister) ListAll(ctx context.Context) ([]models.Grade, error) {
	return m.grades, nil
}

type mockAttendanceLister struct {
	records []models.AttendanceRecord
}

func (m *mockAttendanceLister) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	return m.records, nil
}

type mockSummaryCache struct {
	stored      *models.AnalyticsSummary
	invalidated int
}

func (m *mockSummaryCache) Enabled() bool { return true }

func (m *mockSummaryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.stored == nil {
		return false, nil
	}
	*dest.(*models.AnalyticsSummary) = *m.stored
	return true, nil
}

func (m *mockSummaryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	summary := value.(*models.AnalyticsSummary)
	copied := *summary
	m.stored = &copied
	return nil
}

func (m *mockSummaryCache) Invalidate(ctx context.Context, pattern string) error {
	m.stored = nil
	m.invalidated++
	return nil
}

func analyticsFixtureData() (*mockStudentLister, *mockGradeLister, *mockAttendanceLister) {
	students := &mockStudentLister{students: []models.Student{
		{ID: 1, EnrollmentStatus: models.EnrollmentStatusActive},
		{ID: 2, EnrollmentStatus: models.EnrollmentStatusActive},
		{ID: 3, EnrollmentStatus: models.EnrollmentStatusActive},
		{ID: 4, EnrollmentStatus: models.EnrollmentStatusActive},
		{ID: 5, EnrollmentStatus: models.EnrollmentStatusInactive},
	}}
	grades := &mockGradeLister{grades: []models.Grade{
		{StudentID: 1, Percentage: 95},
		{StudentID: 2, Percentage: 65},
		{StudentID: 3, Percentage: 40},
		{StudentID: 3, Percentage: 60},
	}}
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 2+offset, 0, 0, 0, 0, time.UTC)
	}
	attendance := &mockAttendanceLister{records: []models.AttendanceRecord{
		{StudentID: 1, Date: day(0), Status: models.AttendanceStatusPresent},
		{StudentID: 1, Date: day(1), Status: models.AttendanceStatusPresent},
		{StudentID: 3, Date: day(0), Status: models.AttendanceStatusPresent},
		{StudentID: 3, Date: day(1), Status: models.AttendanceStatusAbsent},
		{StudentID: 4, Date: day(0), Status: models.AttendanceStatusPresent},
		{StudentID: 4, Date: day(1), Status: models.AttendanceStatusAbsent},
	}}
	return students, grades, attendance
}

func TestAnalyticsServiceSummary(t *testing.T) {
	students, grades, attendance := analyticsFixtureData()
	svc := NewAnalyticsService(students, grades, attendance, nil, time.Minute, zap.NewNop())

	summary, err := svc.Summary(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalActiveStudents)
	assert.Equal(t, 4, summary.PreviousSemesterStudents) // round(4 * 0.92)
	assert.InDelta(t, 2.3, summary.AttendanceTrend, 0.0001)

	// 4 of 6 records present.
	assert.Equal(t, 67, summary.AverageAttendance)

	// One bucket increment per grade: 95 (A), 65 (D), 40 (F), 60 (D).
	assert.Equal(t, models.GradeDistribution{A: 1, D: 2, F: 1}, summary.GradeDistribution)

	// Student 2 and 3 via grades, students 3 and 4 via attendance rate 0.5;
	// student 3 counted once.
	assert.Equal(t, 3, summary.StudentsAtRisk)
	assert.Equal(t, []int64{2, 3, 4}, summary.AtRiskStudentIDs)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestAnalyticsServiceSummaryFlagsAnyFailingGrade(t *testing.T) {
	students := &mockStudentLister{students: []models.Student{
		{ID: 1, EnrollmentStatus: models.EnrollmentStatusActive},
	}}
	// Passing average (73) must not mask the failing grade.
	grades := &mockGradeLister{grades: []models.Grade{
		{StudentID: 1, Percentage: 95},
		{StudentID: 1, Percentage: 50},
	}}
	svc := NewAnalyticsService(students, grades, &mockAttendanceLister{}, nil, time.Minute, zap.NewNop())

	summary, err := svc.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, models.GradeDistribution{A: 1, F: 1}, summary.GradeDistribution)
	assert.Equal(t, []int64{1}, summary.AtRiskStudentIDs)
}

func TestAnalyticsServiceSummaryEmpty(t *testing.T) {
	svc := NewAnalyticsService(&mockStudentLister{}, &mockGradeLister{}, &mockAttendanceLister{}, nil, time.Minute, zap.NewNop())

	summary, err := svc.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalActiveStudents)
	assert.Zero(t, summary.AverageAttendance)
	assert.Zero(t, summary.StudentsAtRisk)
	assert.Zero(t, summary.GradeDistribution.Total())
}

func TestAnalyticsServiceSummaryUsesCache(t *testing.T) {
	students, grades, attendance := analyticsFixtureData()
	cache := &mockSummaryCache{}
	svc := NewAnalyticsService(students, grades, attendance, cache, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, students.calls)
	require.NotNil(t, cache.stored)

	_, err = svc.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, students.calls, "second call should be served from cache")

	_, err = svc.Summary(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, 2, students.calls, "refresh must bypass and rebuild the cache")
}
