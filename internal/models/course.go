package models

import "time"

// CourseType classifies a course offering.
type CourseType string

const (
	CourseTypeCore     CourseType = "CORE"
	CourseTypeElective CourseType = "ELECTIVE"
	CourseTypeLab      CourseType = "LAB"
	CourseTypeProject  CourseType = "PROJECT"
)

// ValidCourseType reports whether the value belongs to the course type set.
func ValidCourseType(t CourseType) bool {
	switch t {
	case CourseTypeCore, CourseTypeElective, CourseTypeLab, CourseTypeProject:
		return true
	}
	return false
}

// Course is a teachable unit owned by a department, optionally assigned to a
// teacher. Course code is unique.
type Course struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	CourseCode   string      `db:"course_code" json:"course_code"`
	Description  *string     `db:"description" json:"description,omitempty"`
	Credits      *int        `db:"credits" json:"credits,omitempty"`
	Semester     *int        `db:"semester" json:"semester,omitempty"`
	CourseType   *CourseType `db:"course_type" json:"course_type,omitempty"`
	DepartmentID string      `db:"department_id" json:"department_id"`
	TeacherID    *string     `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures search parameters for listing courses.
type CourseFilter struct {
	Search       string
	DepartmentID string
	TeacherID    string
	Semester     *int
	Unassigned   bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
