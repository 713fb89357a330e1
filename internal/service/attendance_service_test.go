package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

type dayKey struct {
	classID int64
	day     string
}

type mockAttendanceRepo struct {
	days   map[dayKey][]models.AttendanceRecord
	nextID int64
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	var list []models.AttendanceRecord
	for _, records := range m.days {
		for _, r := range records {
			if filter.ClassID > 0 && r.ClassID != filter.ClassID {
				continue
			}
			if filter.StudentID > 0 && r.StudentID != filter.StudentID {
				continue
			}
			if filter.Date != nil && !r.Date.Equal(*filter.Date) {
				continue
			}
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockAttendanceRepo) ListForClassOnDate(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceRecord, error) {
	return append([]models.AttendanceRecord(nil), m.days[dayKey{classID, date.Format("2006-01-02")}]...), nil
}

func (m *mockAttendanceRepo) ReplaceForClassDate(ctx context.Context, classID int64, date time.Time, records []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
	if m.days == nil {
		m.days = make(map[dayKey][]models.AttendanceRecord)
	}
	stored := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		m.nextID++
		r.ID = m.nextID
		stored = append(stored, r)
	}
	m.days[dayKey{classID, date.Format("2006-01-02")}] = stored
	return stored, nil
}

func (m *mockAttendanceRepo) StudentSummary(ctx context.Context, studentID int64) (*models.AttendanceSummary, error) {
	summary := &models.AttendanceSummary{}
	for _, records := range m.days {
		for _, r := range records {
			if r.StudentID != studentID {
				continue
			}
			summary.Total++
			switch r.Status {
			case models.AttendanceStatusPresent:
				summary.Present++
			case models.AttendanceStatusAbsent:
				summary.Absent++
			case models.AttendanceStatusTardy:
				summary.Tardy++
			case models.AttendanceStatusExcused:
				summary.Excused++
			}
		}
	}
	if summary.Total > 0 {
		summary.Rate = float64(summary.Present) / float64(summary.Total)
	}
	return summary, nil
}

type mockAttendanceClasses struct {
	classes map[int64]models.Class
	rosters map[int64][]models.Student
}

func (m *mockAttendanceClasses) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.ClassDetail{Class: class}, nil
}

func (m *mockAttendanceClasses) RosterStudents(ctx context.Context, classID int64) ([]models.Student, error) {
	return m.rosters[classID], nil
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceRepo) {
	repo := &mockAttendanceRepo{}
	classes := &mockAttendanceClasses{
		classes: map[int64]models.Class{1: {ID: 1, Capacity: 30}},
		rosters: map[int64][]models.Student{1: {
			{ID: 10, FirstName: "Ada", LastName: "Lovelace"},
			{ID: 11, FirstName: "Alan", LastName: "Turing"},
		}},
	}
	return NewAttendanceService(repo, classes, zap.NewNop()), repo
}

func TestAttendanceServiceSaveDayReplacesExisting(t *testing.T) {
	svc, repo := newAttendanceFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	stored, err := svc.SaveDay(context.Background(), 1, day, []DayEntryInput{
		{StudentID: 10, Status: models.AttendanceStatusPresent},
		{StudentID: 11, Status: models.AttendanceStatusAbsent},
	})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// Resubmitting the day drops the old records entirely, including the
	// student left out of the second submission.
	stored, err = svc.SaveDay(context.Background(), 1, day, []DayEntryInput{
		{StudentID: 10, Status: models.AttendanceStatusTardy},
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AttendanceStatusTardy, stored[0].Status)
	assert.Len(t, repo.days[dayKey{1, "2026-03-02"}], 1)
}

func TestAttendanceServiceSaveDayValidation(t *testing.T) {
	svc, _ := newAttendanceFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.SaveDay(context.Background(), 0, day, []DayEntryInput{{StudentID: 10, Status: models.AttendanceStatusPresent}})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.SaveDay(context.Background(), 1, time.Time{}, []DayEntryInput{{StudentID: 10, Status: models.AttendanceStatusPresent}})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.SaveDay(context.Background(), 1, day, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.SaveDay(context.Background(), 1, day, []DayEntryInput{{StudentID: 10, Status: "Late"}})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.SaveDay(context.Background(), 1, day, []DayEntryInput{
		{StudentID: 10, Status: models.AttendanceStatusPresent},
		{StudentID: 10, Status: models.AttendanceStatusAbsent},
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.SaveDay(context.Background(), 99, day, []DayEntryInput{{StudentID: 10, Status: models.AttendanceStatusPresent}})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestAttendanceServiceDaySheetDefaultsToPresent(t *testing.T) {
	svc, _ := newAttendanceFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.SaveDay(context.Background(), 1, day, []DayEntryInput{
		{StudentID: 11, Status: models.AttendanceStatusExcused},
	})
	require.NoError(t, err)

	sheet, err := svc.BuildDaySheet(context.Background(), 1, day)
	require.NoError(t, err)
	require.Len(t, sheet, 2)

	assert.Equal(t, "Ada Lovelace", sheet[0].StudentName)
	assert.Equal(t, models.AttendanceStatusPresent, sheet[0].Status)
	assert.False(t, sheet[0].Recorded)

	assert.Equal(t, models.AttendanceStatusExcused, sheet[1].Status)
	assert.True(t, sheet[1].Recorded)
}

func TestAttendanceServiceStudentSummary(t *testing.T) {
	svc, _ := newAttendanceFixture()
	for i, status := range []models.AttendanceStatus{
		models.AttendanceStatusPresent,
		models.AttendanceStatusPresent,
		models.AttendanceStatusPresent,
		models.AttendanceStatusAbsent,
	} {
		day := time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC)
		_, err := svc.SaveDay(context.Background(), 1, day, []DayEntryInput{{StudentID: 10, Status: status}})
		require.NoError(t, err)
	}

	summary, err := svc.StudentSummary(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 4, summary.Total)
	assert.InDelta(t, 0.75, summary.Rate, 0.0001)

	empty, err := svc.StudentSummary(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Rate)
}
