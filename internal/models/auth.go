package models

// LoginRequest holds credentials for authenticating a principal.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StudentRegistrationRequest creates a PENDING student account.
type StudentRegistrationRequest struct {
	Name            string  `json:"name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	RollNumber      string  `json:"roll_number" validate:"required"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	DateOfBirth     *string `json:"date_of_birth,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	Semester        *int    `json:"semester,omitempty"`
	GuardianName    *string `json:"guardian_name,omitempty"`
	GuardianContact *string `json:"guardian_contact,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
}

// TeacherRegistrationRequest creates an ACTIVE teacher account.
type TeacherRegistrationRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	EmployeeID     string  `json:"employee_id" validate:"required"`
	Phone          *string `json:"phone,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Qualification  *string `json:"qualification,omitempty"`
	Experience     *int    `json:"experience,omitempty"`
	OfficeRoom     *string `json:"office_room,omitempty"`
	DepartmentID   *string `json:"department_id,omitempty"`
}

// AuthResponse is returned by login and registration. Token is empty when
// registration does not grant an immediate session (pending students).
type AuthResponse struct {
	Token   string        `json:"token,omitempty"`
	Type    string        `json:"type,omitempty"`
	ID      string        `json:"id"`
	Email   string        `json:"email"`
	Name    string        `json:"name"`
	Role    Role          `json:"role"`
	Status  AccountStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}

// AuthContext is the verified identity attached to a request after the JWT
// middleware resolves the token subject against the principal directory.
type AuthContext struct {
	PrincipalID string
	Email       string
	Name        string
	Role        Role
	Status      AccountStatus
}
