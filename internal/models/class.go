package models

import "time"

// Class represents a course section with a bounded roster.
type Class struct {
	ID            int64     `db:"id" json:"id"`
	CourseName    string    `db:"course_name" json:"course_name"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	Instructor    string    `db:"instructor" json:"instructor"`
	GradeLevel    int       `db:"grade_level" json:"grade_level"`
	Subject       string    `db:"subject" json:"subject"`
	Room          *string   `db:"room" json:"room,omitempty"`
	Schedule      *string   `db:"schedule" json:"schedule,omitempty"`
	Capacity      int       `db:"capacity" json:"capacity"`
	EnrolledCount int       `db:"enrolled_count" json:"enrolled_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with the enrolled student IDs.
type ClassDetail struct {
	Class
	EnrolledStudentIDs []int64 `json:"enrolled_student_ids"`
}

// RosterEntry pairs an enrolled student with roster metadata.
type RosterEntry struct {
	ClassID    int64     `db:"class_id" json:"class_id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search     string
	Subject    string
	GradeLevel int
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
