package models

import "time"

// Teacher is an instructor account. Employee ID is unique among teachers.
type Teacher struct {
	ID             string        `db:"id" json:"id"`
	EmployeeID     string        `db:"employee_id" json:"employee_id"`
	Email          string        `db:"email" json:"email"`
	PasswordHash   string        `db:"password_hash" json:"-"`
	Name           string        `db:"name" json:"name"`
	Phone          *string       `db:"phone" json:"phone,omitempty"`
	Specialization *string       `db:"specialization" json:"specialization,omitempty"`
	Qualification  *string       `db:"qualification" json:"qualification,omitempty"`
	Experience     *int          `db:"experience" json:"experience,omitempty"`
	OfficeRoom     *string       `db:"office_room" json:"office_room,omitempty"`
	DepartmentID   *string       `db:"department_id" json:"department_id,omitempty"`
	Status         AccountStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Principal projects the teacher onto the shared identity type.
func (t *Teacher) Principal() *Principal {
	return &Principal{
		ID:           t.ID,
		Email:        t.Email,
		PasswordHash: t.PasswordHash,
		Name:         t.Name,
		Role:         RoleTeacher,
		Status:       t.Status,
	}
}

// TeacherFilter captures search parameters for listing teachers.
type TeacherFilter struct {
	Search       string
	DepartmentID string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
