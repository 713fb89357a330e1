package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scholarhub/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
	"github.com/scholarhub/scholarhub-api/pkg/export"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExportFile is a rendered download ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type exportClassReader interface {
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	RosterStudents(ctx context.Context, classID int64) ([]models.Student, error)
}

type exportAssignmentLister interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
}

type exportGradeLister interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
}

type exportStudentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type exportAnalytics interface {
	Summary(ctx context.Context, refresh bool) (*models.AnalyticsSummary, error)
}

type exportAttendance interface {
	BuildDaySheet(ctx context.Context, classID int64, date time.Time) ([]models.DaySheetEntry, error)
}

// ExportService renders rosters, attendance sheets, gradebooks and at-risk
// reports as downloadable files.
type ExportService struct {
	classes     exportClassReader
	assignments exportAssignmentLister
	grades      exportGradeLister
	students    exportStudentReader
	analytics   exportAnalytics
	attendance  exportAttendance
	csv         *export.CSVExporter
	excel       *export.ExcelExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(
	classes exportClassReader,
	assignments exportAssignmentLister,
	grades exportGradeLister,
	students exportStudentReader,
	analytics exportAnalytics,
	attendance exportAttendance,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		classes:     classes,
		assignments: assignments,
		grades:      grades,
		students:    students,
		analytics:   analytics,
		attendance:  attendance,
		csv:         export.NewCSVExporter(),
		excel:       export.NewExcelExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// RosterCSV renders a class roster as CSV.
func (s *ExportService) RosterCSV(ctx context.Context, classID int64) (*ExportFile, error) {
	detail, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.classes.RosterStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}

	data := export.Dataset{
		Headers: []string{"Student Number", "First Name", "Last Name", "Grade Level", "Status"},
	}
	for _, student := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Student Number": student.StudentNumber,
			"First Name":     student.FirstName,
			"Last Name":      student.LastName,
			"Grade Level":    strconv.Itoa(student.GradeLevel),
			"Status":         string(student.EnrollmentStatus),
		})
	}

	content, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("roster-%s.csv", detail.CourseCode),
		ContentType: contentTypeCSV,
		Content:     content,
	}, nil
}

// AttendanceDayCSV renders one class day's attendance sheet as CSV.
// Students without a stored record appear with the default Present status.
func (s *ExportService) AttendanceDayCSV(ctx context.Context, classID int64, date time.Time) (*ExportFile, error) {
	detail, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	sheet, err := s.attendance.BuildDaySheet(ctx, classID, date)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Student", "Status", "Recorded"}}
	for _, entry := range sheet {
		recorded := "No"
		if entry.Recorded {
			recorded = "Yes"
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":  entry.StudentName,
			"Status":   string(entry.Status),
			"Recorded": recorded,
		})
	}

	content, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance csv")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("attendance-%s-%s.csv", detail.CourseCode, date.Format("2006-01-02")),
		ContentType: contentTypeCSV,
		Content:     content,
	}, nil
}

// GradebookXLSX renders a class gradebook: one row per enrolled student,
// one column per assignment, percentages in the cells.
func (s *ExportService) GradebookXLSX(ctx context.Context, classID int64) (*ExportFile, error) {
	detail, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.classes.RosterStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}
	assignments, _, err := s.assignments.List(ctx, models.AssignmentFilter{ClassID: classID, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load assignments")
	}
	grades, err := s.grades.List(ctx, models.GradeFilter{ClassID: classID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load grades")
	}

	type gradeKey struct{ studentID, assignmentID int64 }
	byPair := make(map[gradeKey]models.Grade, len(grades))
	for _, grade := range grades {
		byPair[gradeKey{grade.StudentID, grade.AssignmentID}] = grade
	}

	headers := []string{"Student"}
	for _, assignment := range assignments {
		headers = append(headers, assignment.Name)
	}
	headers = append(headers, "Average")

	data := export.Dataset{Headers: headers}
	for _, student := range students {
		row := map[string]string{"Student": student.FullName()}
		sum, count := 0, 0
		for _, assignment := range assignments {
			if grade, ok := byPair[gradeKey{student.ID, assignment.ID}]; ok {
				row[assignment.Name] = strconv.Itoa(grade.Percentage) + "%"
				sum += grade.Percentage
				count++
			} else {
				row[assignment.Name] = ""
			}
		}
		if count > 0 {
			row["Average"] = strconv.Itoa(roundMean(sum, count)) + "%"
		} else {
			row["Average"] = ""
		}
		data.Rows = append(data.Rows, row)
	}

	content, err := s.excel.Render([]export.Sheet{{Name: "Gradebook", Data: data}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("gradebook-%s.xlsx", detail.CourseCode),
		ContentType: contentTypeXLSX,
		Content:     content,
	}, nil
}

// AtRiskPDF renders the current at-risk student list as a PDF report.
func (s *ExportService) AtRiskPDF(ctx context.Context) (*ExportFile, error) {
	summary, err := s.analytics.Summary(ctx, false)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Student Number", "Name", "Grade Level", "Status"}}
	for _, studentID := range summary.AtRiskStudentIDs {
		student, err := s.students.FindByID(ctx, studentID)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student Number": student.StudentNumber,
			"Name":           student.FullName(),
			"Grade Level":    strconv.Itoa(student.GradeLevel),
			"Status":         string(student.EnrollmentStatus),
		})
	}

	content, err := s.pdf.Render(data, "Students At Risk")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render at-risk report")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("at-risk-%s.pdf", time.Now().UTC().Format("2006-01-02")),
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

func (s *ExportService) loadClass(ctx context.Context, classID int64) (*models.ClassDetail, error) {
	detail, err := s.classes.FindDetailByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}
	return detail, nil
}
