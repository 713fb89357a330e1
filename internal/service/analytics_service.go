package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

const (
	analyticsCacheKey = "analytics:summary"

	// Historical enrollment is not tracked yet, so the previous-semester
	// figure is modelled as a fixed share of current actives and the
	// attendance trend as a fixed delta.
	// TODO: replace with real figures once semester snapshots are stored.
	previousSemesterRatio = 0.92
	attendanceTrendDelta  = 2.3

	// Students below this presence rate are flagged at risk.
	atRiskAttendanceRate = 0.75
)

type analyticsStudentLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type analyticsGradeLister interface {
	ListAll(ctx context.Context) ([]models.Grade, error)
}

type analyticsAttendanceLister interface {
	ListAll(ctx context.Context) ([]models.AttendanceRecord, error)
}

type analyticsCache interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// AnalyticsService reduces the full student, grade and attendance
// collections into the dashboard summary. The reduction is cheap relative
// to request volume, so it refetches everything rather than maintaining
// incremental aggregates; any single fetch failure aborts the summary.
type AnalyticsService struct {
	students   analyticsStudentLister
	grades     analyticsGradeLister
	attendance analyticsAttendanceLister
	cache      analyticsCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewAnalyticsService constructs AnalyticsService. A nil cache disables
// caching entirely.
func NewAnalyticsService(
	students analyticsStudentLister,
	grades analyticsGradeLister,
	attendance analyticsAttendanceLister,
	cache analyticsCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{
		students:   students,
		grades:     grades,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Summary returns the dashboard summary, serving a cached copy when one is
// fresh. Pass refresh to force recomputation and invalidate the cache.
func (s *AnalyticsService) Summary(ctx context.Context, refresh bool) (*models.AnalyticsSummary, error) {
	cacheable := s.cache != nil && s.cache.Enabled()
	if cacheable {
		if refresh {
			if err := s.cache.Invalidate(ctx, analyticsCacheKey); err != nil {
				s.logger.Warn("failed to invalidate analytics cache", zap.Error(err))
			}
		} else {
			var cached models.AnalyticsSummary
			if hit, err := s.cache.Get(ctx, analyticsCacheKey, &cached); err == nil && hit {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, analyticsCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *AnalyticsService) compute(ctx context.Context) (*models.AnalyticsSummary, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch students")
	}
	grades, err := s.grades.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch grades")
	}
	attendance, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch attendance")
	}

	summary := &models.AnalyticsSummary{GeneratedAt: time.Now().UTC()}

	for _, student := range students {
		if student.EnrollmentStatus == models.EnrollmentStatusActive {
			summary.TotalActiveStudents++
		}
	}
	summary.PreviousSemesterStudents = int(math.Floor(float64(summary.TotalActiveStudents)*previousSemesterRatio + 0.5))

	// Every grade counts once: one failing grade flags the student even
	// when their average is passing.
	atRisk := make(map[int64]struct{})
	for _, grade := range grades {
		letter := models.LetterGrade(grade.Percentage)
		summary.GradeDistribution.Add(letter)
		if letter == "D" || letter == "F" {
			atRisk[grade.StudentID] = struct{}{}
		}
	}

	presentTotal := 0
	presentByStudent := make(map[int64]int)
	totalByStudent := make(map[int64]int)
	for _, record := range attendance {
		totalByStudent[record.StudentID]++
		if record.Status == models.AttendanceStatusPresent {
			presentByStudent[record.StudentID]++
			presentTotal++
		}
	}
	if len(attendance) > 0 {
		summary.AverageAttendance = int(math.Floor(float64(presentTotal)/float64(len(attendance))*100 + 0.5))
	}
	summary.AttendanceTrend = attendanceTrendDelta

	for studentID, total := range totalByStudent {
		rate := float64(presentByStudent[studentID]) / float64(total)
		if rate < atRiskAttendanceRate {
			atRisk[studentID] = struct{}{}
		}
	}

	summary.StudentsAtRisk = len(atRisk)
	summary.AtRiskStudentIDs = make([]int64, 0, len(atRisk))
	for studentID := range atRisk {
		summary.AtRiskStudentIDs = append(summary.AtRiskStudentIDs, studentID)
	}
	sort.Slice(summary.AtRiskStudentIDs, func(i, j int) bool {
		return summary.AtRiskStudentIDs[i] < summary.AtRiskStudentIDs[j]
	})

	return summary, nil
}
