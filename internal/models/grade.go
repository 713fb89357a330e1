package models

import "time"

// Grade is a scored result for one student on one assignment. At most one
// grade exists per (student, assignment) pair; Percentage is always derived
// from Score and the assignment's points possible, never stored by callers.
type Grade struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	AssignmentID int64     `db:"assignment_id" json:"assignment_id"`
	ClassID      int64     `db:"class_id" json:"class_id"`
	Score        float64   `db:"score" json:"score"`
	Percentage   int       `db:"percentage" json:"percentage"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GradeFilter scopes grade listing.
type GradeFilter struct {
	StudentID    int64
	AssignmentID int64
	ClassID      int64
}

// LetterGrade maps a percentage to the reporting band. Boundaries are
// inclusive on the lower edge of each band.
func LetterGrade(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
