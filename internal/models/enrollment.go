package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentFailed    EnrollmentStatus = "FAILED"
)

// ValidEnrollmentStatus reports whether the value belongs to the status set.
// Transitions between members are unrestricted.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentEnrolled, EnrollmentCompleted, EnrollmentDropped, EnrollmentFailed:
		return true
	}
	return false
}

// Enrollment links one student and one course for one academic year. The
// triple (student_id, course_id, academic_year) is unique; semester is
// informational only.
type Enrollment struct {
	ID           string           `db:"id" json:"id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	CourseID     string           `db:"course_id" json:"course_id"`
	AcademicYear string           `db:"academic_year" json:"academic_year"`
	Semester     *int             `db:"semester" json:"semester,omitempty"`
	Grade        *string          `db:"grade" json:"grade,omitempty"`
	Marks        *float64         `db:"marks" json:"marks,omitempty"`
	Remarks      *string          `db:"remarks" json:"remarks,omitempty"`
	Status       EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt   time.Time        `db:"enrolled_at" json:"enrolled_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentName       string `db:"student_name" json:"student_name"`
	StudentRollNumber string `db:"student_roll_number" json:"student_roll_number"`
	CourseName        string `db:"course_name" json:"course_name"`
	CourseCode        string `db:"course_code" json:"course_code"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID    string
	CourseID     string
	AcademicYear string
	Status       EnrollmentStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
