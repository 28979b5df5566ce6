package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "academic_year", "semester", "grade", "marks", "remarks", "status", "enrolled_at", "updated_at"}).
		AddRow("enr-1", "stu-1", "crs-1", "2024-2025", nil, nil, nil, nil, models.EnrollmentEnrolled, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, student_id, course_id, academic_year, semester, grade, marks, remarks, status, enrolled_at, updated_at FROM enrollments WHERE id = \$1`).
		WithArgs("enr-1").
		WillReturnRows(rows)

	enrollment, err := repo.FindByID(context.Background(), "enr-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", enrollment.StudentID)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsByStudentCourseYear(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	query := regexp.QuoteMeta(`SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 AND academic_year = $3 LIMIT 1`)

	mock.ExpectQuery(query).
		WithArgs("stu-1", "crs-1", "2024-2025").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByStudentCourseYear(context.Background(), "stu-1", "crs-1", "2024-2025")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(query).
		WithArgs("stu-1", "crs-1", "2025-2026").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByStudentCourseYear(context.Background(), "stu-1", "crs-1", "2025-2026")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{StudentID: "stu-1", CourseID: "crs-1", AcademicYear: "2024-2025"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "enrollments_student_course_year_key"})

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: "stu-1", CourseID: "crs-1", AcademicYear: "2024-2025"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEnrollment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`UPDATE enrollments SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	grade := "A"
	enrollment := &models.Enrollment{ID: "enr-1", Grade: &grade, Status: models.EnrollmentCompleted}
	require.NoError(t, repo.Update(context.Background(), enrollment))
	assert.False(t, enrollment.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE id = $1`)).
		WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "enr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListDetailByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "academic_year", "semester", "grade", "marks", "remarks", "status", "enrolled_at", "updated_at", "student_name", "student_roll_number", "course_name", "course_code"}).
		AddRow("enr-1", "stu-1", "crs-1", "2024-2025", nil, "A", 90.0, nil, models.EnrollmentCompleted, time.Now(), time.Now(), "Amy", "R001", "Data Structures", "CS201")
	mock.ExpectQuery(`(?s)SELECT e\.id,.+FROM enrollments e.+JOIN students s.+JOIN courses c.+WHERE e\.student_id = \$1`).
		WithArgs("stu-1").
		WillReturnRows(rows)

	details, err := repo.ListDetailByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "CS201", details[0].CourseCode)
	assert.Equal(t, "Amy", details[0].StudentName)
	require.NoError(t, mock.ExpectationsWereMet())
}
