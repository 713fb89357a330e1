package models

import "time"

// GradeDistribution counts grades per letter band.
type GradeDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	F int `json:"F"`
}

// Add increments the band the letter belongs to.
func (d *GradeDistribution) Add(letter string) {
	switch letter {
	case "A":
		d.A++
	case "B":
		d.B++
	case "C":
		d.C++
	case "D":
		d.D++
	case "F":
		d.F++
	}
}

// Total returns the number of counted grades.
func (d GradeDistribution) Total() int {
	return d.A + d.B + d.C + d.D + d.F
}

// AnalyticsSummary is the dashboard-level reduction over students, grades
// and attendance. It is recomputed from full fetches on every refresh.
type AnalyticsSummary struct {
	TotalActiveStudents      int               `json:"total_active_students"`
	PreviousSemesterStudents int               `json:"previous_semester_students"`
	AverageAttendance        int               `json:"average_attendance"`
	AttendanceTrend          float64           `json:"attendance_trend"`
	GradeDistribution        GradeDistribution `json:"grade_distribution"`
	StudentsAtRisk           int               `json:"students_at_risk"`
	AtRiskStudentIDs         []int64           `json:"at_risk_student_ids"`
	GeneratedAt              time.Time         `json:"generated_at"`
}
