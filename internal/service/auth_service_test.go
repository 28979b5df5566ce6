package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
	created  *models.Student
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			copy := s
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if s, ok := m.students[email]; ok {
		copy := s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.students[email]
	return ok, nil
}

func (m *mockStudentRepo) ExistsByRollNumber(ctx context.Context, rollNumber string) (bool, error) {
	for _, s := range m.students {
		if s.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "student-new"
	}
	m.students[student.Email] = *student
	m.created = student
	return nil
}

type mockTeacherRepo struct {
	teachers map[string]models.Teacher
	created  *models.Teacher
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for _, t := range m.teachers {
		if t.ID == id {
			copy := t
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if t, ok := m.teachers[email]; ok {
		copy := t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.teachers[email]
	return ok, nil
}

func (m *mockTeacherRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	for _, t := range m.teachers {
		if t.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.teachers == nil {
		m.teachers = make(map[string]models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "teacher-new"
	}
	m.teachers[teacher.Email] = *teacher
	m.created = teacher
	return nil
}

type mockDepartmentReader struct {
	departments map[string]models.Department
}

func (m *mockDepartmentReader) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		copy := d
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type mockTokenIssuer struct {
	issued []string
}

func (m *mockTokenIssuer) Issue(email string) (string, error) {
	m.issued = append(m.issued, email)
	return "token-for-" + email, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(students *mockStudentRepo, teachers *mockTeacherRepo, departments *mockDepartmentReader, tokens *mockTokenIssuer) *AuthService {
	if students == nil {
		students = &mockStudentRepo{}
	}
	if teachers == nil {
		teachers = &mockTeacherRepo{}
	}
	if departments == nil {
		departments = &mockDepartmentReader{}
	}
	if tokens == nil {
		tokens = &mockTokenIssuer{}
	}
	return NewAuthService(students, teachers, departments, tokens, nil, nil)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"amy@example.edu": {
			ID:           "student-1",
			RollNumber:   "R001",
			Email:        "amy@example.edu",
			PasswordHash: hashFor(t, "secret123"),
			Name:         "Amy",
			Status:       models.StatusActive,
		},
	}}
	svc := newAuthFixture(students, nil, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "amy@example.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-amy@example.edu", res.Token)
	assert.Equal(t, "Bearer", res.Type)
	assert.Equal(t, models.RoleStudent, res.Role)
	assert.Equal(t, models.StatusActive, res.Status)
}

func TestAuthServiceLoginTeacherNamespace(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: map[string]models.Teacher{
		"prof@example.edu": {
			ID:           "teacher-1",
			EmployeeID:   "EMP007",
			Email:        "prof@example.edu",
			PasswordHash: hashFor(t, "secret123"),
			Name:         "Prof",
			Status:       models.StatusActive,
		},
	}}
	svc := newAuthFixture(nil, teachers, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "prof@example.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, res.Role)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthFixture(nil, nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.edu", Password: "whatever"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"amy@example.edu": {
			ID:           "student-1",
			Email:        "amy@example.edu",
			PasswordHash: hashFor(t, "secret123"),
			Status:       models.StatusActive,
		},
	}}
	svc := newAuthFixture(students, nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "amy@example.edu", Password: "wrong"})
	require.Error(t, err)
	// Wrong password and unknown email are indistinguishable to the caller.
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginStatusGate(t *testing.T) {
	cases := []struct {
		status models.AccountStatus
		want   *appErrors.Error
	}{
		{models.StatusPending, appErrors.ErrAccountPending},
		{models.StatusSuspended, appErrors.ErrAccountSuspended},
		{models.StatusRejected, appErrors.ErrAccountRejected},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			students := &mockStudentRepo{students: map[string]models.Student{
				"amy@example.edu": {
					ID:           "student-1",
					Email:        "amy@example.edu",
					PasswordHash: hashFor(t, "secret123"),
					Status:       tc.status,
				},
			}}
			svc := newAuthFixture(students, nil, nil, nil)

			_, err := svc.Login(context.Background(), models.LoginRequest{Email: "amy@example.edu", Password: "secret123"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthServiceLoginStatusAfterPassword(t *testing.T) {
	// A wrong password on a pending account must not leak the account state.
	students := &mockStudentRepo{students: map[string]models.Student{
		"amy@example.edu": {
			ID:           "student-1",
			Email:        "amy@example.edu",
			PasswordHash: hashFor(t, "secret123"),
			Status:       models.StatusPending,
		},
	}}
	svc := newAuthFixture(students, nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "amy@example.edu", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceRegisterStudentPending(t *testing.T) {
	students := &mockStudentRepo{}
	tokens := &mockTokenIssuer{}
	svc := newAuthFixture(students, nil, nil, tokens)

	res, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:       "Amy",
		Email:      "amy@example.edu",
		Password:   "secret123",
		RollNumber: "R001",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, res.Status)
	assert.Empty(t, res.Token)
	assert.Empty(t, tokens.issued)
	require.NotNil(t, students.created)
	assert.Equal(t, models.StatusPending, students.created.Status)
	assert.NotEqual(t, "secret123", students.created.PasswordHash)
}

func TestAuthServiceRegisterStudentDuplicateEmail(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"amy@example.edu": {ID: "student-1", Email: "amy@example.edu"},
	}}
	svc := newAuthFixture(students, nil, nil, nil)

	_, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:       "Amy",
		Email:      "amy@example.edu",
		Password:   "secret123",
		RollNumber: "R002",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestAuthServiceRegisterStudentEmailTakenByTeacher(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: map[string]models.Teacher{
		"shared@example.edu": {ID: "teacher-1", Email: "shared@example.edu"},
	}}
	svc := newAuthFixture(nil, teachers, nil, nil)

	_, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:       "Amy",
		Email:      "shared@example.edu",
		Password:   "secret123",
		RollNumber: "R001",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestAuthServiceRegisterStudentDuplicateRollNumber(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"other@example.edu": {ID: "student-1", Email: "other@example.edu", RollNumber: "R001"},
	}}
	svc := newAuthFixture(students, nil, nil, nil)

	_, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:       "Amy",
		Email:      "amy@example.edu",
		Password:   "secret123",
		RollNumber: "R001",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateRollNumber)
}

func TestAuthServiceRegisterStudentUnknownDepartment(t *testing.T) {
	svc := newAuthFixture(nil, nil, &mockDepartmentReader{}, nil)

	deptID := "missing-dept"
	_, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:         "Amy",
		Email:        "amy@example.edu",
		Password:     "secret123",
		RollNumber:   "R001",
		DepartmentID: &deptID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAuthServiceRegisterStudentInvalidGender(t *testing.T) {
	svc := newAuthFixture(nil, nil, nil, nil)

	gender := "UNSPECIFIED"
	_, err := svc.RegisterStudent(context.Background(), models.StudentRegistrationRequest{
		Name:       "Amy",
		Email:      "amy@example.edu",
		Password:   "secret123",
		RollNumber: "R001",
		Gender:     &gender,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}

func TestAuthServiceRegisterTeacherActive(t *testing.T) {
	teachers := &mockTeacherRepo{}
	tokens := &mockTokenIssuer{}
	svc := newAuthFixture(nil, teachers, nil, tokens)

	res, err := svc.RegisterTeacher(context.Background(), models.TeacherRegistrationRequest{
		Name:       "Prof",
		Email:      "prof@example.edu",
		Password:   "secret123",
		EmployeeID: "EMP007",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, res.Status)
	assert.Equal(t, "token-for-prof@example.edu", res.Token)
	require.NotNil(t, teachers.created)
	assert.Equal(t, models.StatusActive, teachers.created.Status)
}

func TestAuthServiceRegisterTeacherDuplicateEmployeeID(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: map[string]models.Teacher{
		"other@example.edu": {ID: "teacher-1", Email: "other@example.edu", EmployeeID: "EMP007"},
	}}
	svc := newAuthFixture(nil, teachers, nil, nil)

	_, err := svc.RegisterTeacher(context.Background(), models.TeacherRegistrationRequest{
		Name:       "Prof",
		Email:      "prof@example.edu",
		Password:   "secret123",
		EmployeeID: "EMP007",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmployeeID)
}
