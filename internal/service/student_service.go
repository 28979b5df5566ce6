package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
	Delete(ctx context.Context, id string) error
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}

// UpdateStudentRequest carries the self-service editable profile fields.
// Roll number is never editable; department changes require a teacher.
type UpdateStudentRequest struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	DateOfBirth     *string `json:"date_of_birth,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	Semester        *int    `json:"semester,omitempty"`
	GuardianName    *string `json:"guardian_name,omitempty"`
	GuardianContact *string `json:"guardian_contact,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
}

// StudentService manages student records and the account approval workflow.
type StudentService struct {
	repo        studentRepository
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// ListPending returns the approval queue.
func (s *StudentService) ListPending(ctx context.Context) ([]models.Student, error) {
	students, _, err := s.repo.List(ctx, models.StudentFilter{Status: models.StatusPending, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending students")
	}
	return students, nil
}

// Update applies the provided fields to a student. Students may only edit
// their own profile; department reassignment is reserved for teachers.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest, actor models.AuthContext) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleStudent && actor.PrincipalID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only update your own profile")
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.DateOfBirth != nil {
		student.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil && *req.Gender != "" {
		gender := models.Gender(strings.ToUpper(*req.Gender))
		switch gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			student.Gender = &gender
		default:
			return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "unrecognized gender value")
		}
	}
	if req.Semester != nil {
		student.Semester = req.Semester
	}
	if req.GuardianName != nil {
		student.GuardianName = req.GuardianName
	}
	if req.GuardianContact != nil {
		student.GuardianContact = req.GuardianContact
	}
	if req.DepartmentID != nil && actor.Role == models.RoleTeacher {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
		student.DepartmentID = req.DepartmentID
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Approve transitions a PENDING account to ACTIVE. Any other starting state
// fails; the transition is neither idempotent nor reversible here.
func (s *StudentService) Approve(ctx context.Context, id string) (*models.Student, error) {
	return s.resolvePending(ctx, id, models.StatusActive)
}

// Reject transitions a PENDING account to REJECTED.
func (s *StudentService) Reject(ctx context.Context, id string) (*models.Student, error) {
	return s.resolvePending(ctx, id, models.StatusRejected)
}

func (s *StudentService) resolvePending(ctx context.Context, id string, next models.AccountStatus) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if student.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "student is not in pending status")
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student status")
	}
	student.Status = next

	s.logger.Info("student account resolved", zap.String("student_id", id), zap.String("status", string(next)))
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// CountByDepartment returns the number of students in a department.
func (s *StudentService) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	total, err := s.repo.CountByDepartment(ctx, departmentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	return total, nil
}
