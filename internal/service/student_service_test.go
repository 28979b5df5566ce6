package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

type mockStudentStore struct {
	students map[string]models.Student
	statuses map[string]models.AccountStatus
	deleted  []string
}

func (m *mockStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var result []models.Student
	for _, s := range m.students {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, s)
	}
	return result, len(result), nil
}

func (m *mockStudentStore) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentStore) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.AccountStatus)
	}
	m.statuses[id] = status
	s := m.students[id]
	s.Status = status
	m.students[id] = s
	return nil
}

func (m *mockStudentStore) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.students, id)
	return nil
}

func (m *mockStudentStore) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	count := 0
	for _, s := range m.students {
		if s.DepartmentID != nil && *s.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func newStudentFixture(store *mockStudentStore) *StudentService {
	return NewStudentService(store, &mockDepartmentReader{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Computer Science", Code: "CSE"},
	}}, nil, nil)
}

func teacherActor() models.AuthContext {
	return models.AuthContext{PrincipalID: "teacher-1", Role: models.RoleTeacher, Status: models.StatusActive}
}

func studentActor(id string) models.AuthContext {
	return models.AuthContext{PrincipalID: id, Role: models.RoleStudent, Status: models.StatusActive}
}

func TestStudentServiceApprove(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusPending},
	}}
	svc := newStudentFixture(store)

	student, err := svc.Approve(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, student.Status)
	assert.Equal(t, models.StatusActive, store.statuses["student-1"])
}

func TestStudentServiceReject(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusPending},
	}}
	svc := newStudentFixture(store)

	student, err := svc.Reject(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, student.Status)
}

func TestStudentServiceApproveNonPending(t *testing.T) {
	for _, status := range []models.AccountStatus{models.StatusActive, models.StatusSuspended, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			store := &mockStudentStore{students: map[string]models.Student{
				"student-1": {ID: "student-1", Status: status},
			}}
			svc := newStudentFixture(store)

			_, err := svc.Approve(context.Background(), "student-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrInvalidState)
		})
	}
}

func TestStudentServiceApproveTwice(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusPending},
	}}
	svc := newStudentFixture(store)

	_, err := svc.Approve(context.Background(), "student-1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "student-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)
}

func TestStudentServiceApproveMissing(t *testing.T) {
	svc := newStudentFixture(&mockStudentStore{students: map[string]models.Student{}})

	_, err := svc.Approve(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceListPending(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusPending},
		"student-2": {ID: "student-2", Status: models.StatusActive},
	}}
	svc := newStudentFixture(store)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "student-1", pending[0].ID)
}

func TestStudentServiceUpdateSelf(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Name: "Amy", Status: models.StatusActive},
	}}
	svc := newStudentFixture(store)

	name := "Amy Updated"
	student, err := svc.Update(context.Background(), "student-1", UpdateStudentRequest{Name: &name}, studentActor("student-1"))
	require.NoError(t, err)
	assert.Equal(t, "Amy Updated", student.Name)
}

func TestStudentServiceUpdateOtherStudentForbidden(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Name: "Amy", Status: models.StatusActive},
	}}
	svc := newStudentFixture(store)

	name := "Hijacked"
	_, err := svc.Update(context.Background(), "student-1", UpdateStudentRequest{Name: &name}, studentActor("student-2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestStudentServiceUpdateDepartmentRequiresTeacher(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusActive},
	}}
	svc := newStudentFixture(store)

	dept := "dept-1"
	student, err := svc.Update(context.Background(), "student-1", UpdateStudentRequest{DepartmentID: &dept}, studentActor("student-1"))
	require.NoError(t, err)
	// Department reassignment from a student is ignored, not an error.
	assert.Nil(t, student.DepartmentID)

	student, err = svc.Update(context.Background(), "student-1", UpdateStudentRequest{DepartmentID: &dept}, teacherActor())
	require.NoError(t, err)
	require.NotNil(t, student.DepartmentID)
	assert.Equal(t, "dept-1", *student.DepartmentID)
}

func TestStudentServiceDelete(t *testing.T) {
	store := &mockStudentStore{students: map[string]models.Student{
		"student-1": {ID: "student-1", Status: models.StatusActive},
	}}
	svc := newStudentFixture(store)

	require.NoError(t, svc.Delete(context.Background(), "student-1"))
	assert.Contains(t, store.deleted, "student-1")

	err := svc.Delete(context.Background(), "student-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
