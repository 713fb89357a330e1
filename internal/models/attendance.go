package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusTardy   AttendanceStatus = "Tardy"
	AttendanceStatusExcused AttendanceStatus = "Excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusTardy, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's status in one class on one date.
// At most one record exists per (student, class, date) triple.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	ClassID   int64            `db:"class_id" json:"class_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes attendance listing.
type AttendanceFilter struct {
	ClassID   int64
	StudentID int64
	Date      *time.Time
	DateFrom  *time.Time
	DateTo    *time.Time
}

// AttendanceSummary counts a student's records by status.
type AttendanceSummary struct {
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Tardy   int     `json:"tardy"`
	Excused int     `json:"excused"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// DaySheetEntry is one editable row of a class's attendance sheet for a
// date: the student plus the recorded status, or the Present default when
// no record exists yet.
type DaySheetEntry struct {
	StudentID   int64            `json:"student_id"`
	StudentName string           `json:"student_name"`
	Status      AttendanceStatus `json:"status"`
	Recorded    bool             `json:"recorded"`
}
