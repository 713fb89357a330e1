package models

import "time"

// EnrollmentStatus captures a student's standing with the school.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "Active"
	EnrollmentStatusInactive  EnrollmentStatus = "Inactive"
	EnrollmentStatusPending   EnrollmentStatus = "Pending"
	EnrollmentStatusGraduated EnrollmentStatus = "Graduated"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusInactive, EnrollmentStatusPending, EnrollmentStatusGraduated:
		return true
	default:
		return false
	}
}

// Student represents a learner registered in the institution.
type Student struct {
	ID                   int64            `db:"id" json:"id"`
	FirstName            string           `db:"first_name" json:"first_name"`
	LastName             string           `db:"last_name" json:"last_name"`
	StudentNumber        string           `db:"student_number" json:"student_number"`
	GradeLevel           int              `db:"grade_level" json:"grade_level"`
	EnrollmentStatus     EnrollmentStatus `db:"enrollment_status" json:"enrollment_status"`
	EnrollmentDate       *time.Time       `db:"enrollment_date" json:"enrollment_date,omitempty"`
	DateOfBirth          *time.Time       `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Email                *string          `db:"email" json:"email,omitempty"`
	Phone                *string          `db:"phone" json:"phone,omitempty"`
	GuardianName         *string          `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone        *string          `db:"guardian_phone" json:"guardian_phone,omitempty"`
	GuardianEmail        *string          `db:"guardian_email" json:"guardian_email,omitempty"`
	GuardianRelationship *string          `db:"guardian_relationship" json:"guardian_relationship,omitempty"`
	StreetAddress        *string          `db:"street_address" json:"street_address,omitempty"`
	City                 *string          `db:"city" json:"city,omitempty"`
	State                *string          `db:"state" json:"state,omitempty"`
	ZipCode              *string          `db:"zip_code" json:"zip_code,omitempty"`
	Notes                *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts for display and export rows.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	GradeLevel int
	Status     *EnrollmentStatus
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
