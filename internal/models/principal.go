package models

// Role is the coarse capability class of a principal, fixed at creation.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// AccountStatus is the lifecycle state gating login.
type AccountStatus string

const (
	StatusPending   AccountStatus = "PENDING"
	StatusActive    AccountStatus = "ACTIVE"
	StatusSuspended AccountStatus = "SUSPENDED"
	StatusRejected  AccountStatus = "REJECTED"
)

// Principal is the authenticatable identity common to students and teachers.
// Email is unique across both kinds; lookups query students first, then
// teachers.
type Principal struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Name         string        `json:"name"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
