package models

import "time"

// Gender values accepted for student records.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Student is a learner account. Roll number is unique among students; email
// shares one namespace with teachers.
type Student struct {
	ID              string        `db:"id" json:"id"`
	RollNumber      string        `db:"roll_number" json:"roll_number"`
	Email           string        `db:"email" json:"email"`
	PasswordHash    string        `db:"password_hash" json:"-"`
	Name            string        `db:"name" json:"name"`
	Phone           *string       `db:"phone" json:"phone,omitempty"`
	Address         *string       `db:"address" json:"address,omitempty"`
	DateOfBirth     *string       `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender          *Gender       `db:"gender" json:"gender,omitempty"`
	Semester        *int          `db:"semester" json:"semester,omitempty"`
	GuardianName    *string       `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianContact *string       `db:"guardian_contact" json:"guardian_contact,omitempty"`
	DepartmentID    *string       `db:"department_id" json:"department_id,omitempty"`
	Status          AccountStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Principal projects the student onto the shared identity type.
func (s *Student) Principal() *Principal {
	return &Principal{
		ID:           s.ID,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Name:         s.Name,
		Role:         RoleStudent,
		Status:       s.Status,
	}
}

// StudentFilter captures search parameters for listing students.
type StudentFilter struct {
	Search       string
	DepartmentID string
	Status       AccountStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
