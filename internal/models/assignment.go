package models

import "time"

// AssignmentType tags an assignment. The set is open ended; these are the
// values the UI offers out of the box.
type AssignmentType string

const (
	AssignmentTypeAssignment   AssignmentType = "Assignment"
	AssignmentTypeQuiz         AssignmentType = "Quiz"
	AssignmentTypeTest         AssignmentType = "Test"
	AssignmentTypeExam         AssignmentType = "Exam"
	AssignmentTypeProject      AssignmentType = "Project"
	AssignmentTypeHomework     AssignmentType = "Homework"
	AssignmentTypeDiscussion   AssignmentType = "Discussion"
	AssignmentTypeLab          AssignmentType = "Lab"
	AssignmentTypePresentation AssignmentType = "Presentation"
)

// Assignment is a graded piece of work belonging to one class.
type Assignment struct {
	ID             int64          `db:"id" json:"id"`
	ClassID        int64          `db:"class_id" json:"class_id"`
	Name           string         `db:"name" json:"name"`
	Description    *string        `db:"description" json:"description,omitempty"`
	PointsPossible int            `db:"points_possible" json:"points_possible"`
	DueDate        *time.Time     `db:"due_date" json:"due_date,omitempty"`
	Type           AssignmentType `db:"type" json:"type"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter scopes assignment listing.
type AssignmentFilter struct {
	ClassID   int64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
