package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

type authStudentRepository interface {
	studentByEmailFinder
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRollNumber(ctx context.Context, rollNumber string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

type authTeacherRepository interface {
	teacherByEmailFinder
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type tokenIssuer interface {
	Issue(email string) (string, error)
}

// AuthService orchestrates credential verification, account-state gating and
// token issuance.
type AuthService struct {
	students    authStudentRepository
	teachers    authTeacherRepository
	departments departmentReader
	directory   *PrincipalDirectory
	tokens      tokenIssuer
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, teachers authTeacherRepository, departments departmentReader, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		students:    students,
		teachers:    teachers,
		departments: departments,
		directory:   NewPrincipalDirectory(students, teachers),
		tokens:      tokens,
		validator:   validate,
		logger:      logger,
	}
}

// Directory exposes the principal directory for token resolution middleware.
func (s *AuthService) Directory() *PrincipalDirectory {
	return s.directory
}

// Login authenticates a principal and returns an issued token. Unknown email
// and wrong password collapse to the same credentials error; account-state
// failures are only reachable after the password verified.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	principal, err := s.directory.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up principal")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	switch principal.Status {
	case models.StatusPending:
		return nil, appErrors.Clone(appErrors.ErrAccountPending, "")
	case models.StatusSuspended:
		return nil, appErrors.Clone(appErrors.ErrAccountSuspended, "")
	case models.StatusRejected:
		return nil, appErrors.Clone(appErrors.ErrAccountRejected, "")
	}

	token, err := s.tokens.Issue(principal.Email)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:   token,
		Type:    "Bearer",
		ID:      principal.ID,
		Email:   principal.Email,
		Name:    principal.Name,
		Role:    principal.Role,
		Status:  principal.Status,
		Message: "Login successful",
	}, nil
}

// RegisterStudent creates a PENDING student account. No token is issued;
// registration does not imply login until a teacher approves the account.
func (s *AuthService) RegisterStudent(ctx context.Context, req models.StudentRegistrationRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if err := s.checkEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}
	if taken, err := s.students.ExistsByRollNumber(ctx, req.RollNumber); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateRollNumber, "")
	}

	gender, err := parseGender(req.Gender)
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		RollNumber:      req.RollNumber,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		DateOfBirth:     req.DateOfBirth,
		Gender:          gender,
		Semester:        req.Semester,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		DepartmentID:    req.DepartmentID,
		Status:          models.StatusPending,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student registered", zap.String("student_id", student.ID), zap.String("roll_number", student.RollNumber))

	return &models.AuthResponse{
		ID:      student.ID,
		Email:   student.Email,
		Name:    student.Name,
		Role:    models.RoleStudent,
		Status:  student.Status,
		Message: "Registration successful. Waiting for teacher approval.",
	}, nil
}

// RegisterTeacher creates an ACTIVE teacher account and issues a token
// immediately; teachers are trusted at registration time.
func (s *AuthService) RegisterTeacher(ctx context.Context, req models.TeacherRegistrationRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if err := s.checkEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}
	if taken, err := s.teachers.ExistsByEmployeeID(ctx, req.EmployeeID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee id")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmployeeID, "")
	}

	if req.DepartmentID != nil {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	teacher := &models.Teacher{
		EmployeeID:     req.EmployeeID,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		Experience:     req.Experience,
		OfficeRoom:     req.OfficeRoom,
		DepartmentID:   req.DepartmentID,
		Status:         models.StatusActive,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	token, err := s.tokens.Issue(teacher.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("teacher registered", zap.String("teacher_id", teacher.ID), zap.String("employee_id", teacher.EmployeeID))

	return &models.AuthResponse{
		Token:   token,
		Type:    "Bearer",
		ID:      teacher.ID,
		Email:   teacher.Email,
		Name:    teacher.Name,
		Role:    models.RoleTeacher,
		Status:  teacher.Status,
		Message: "Teacher registration successful",
	}, nil
}

// checkEmailFree enforces the single login namespace: the email must be
// absent from students and teachers alike.
func (s *AuthService) checkEmailFree(ctx context.Context, email string) error {
	if taken, err := s.students.ExistsByEmail(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	} else if taken {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, "")
	}
	if taken, err := s.teachers.ExistsByEmail(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	} else if taken {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, "")
	}
	return nil
}

func parseGender(raw *string) (*models.Gender, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	gender := models.Gender(strings.ToUpper(*raw))
	switch gender {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return &gender, nil
	}
	return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "unrecognized gender value")
}
