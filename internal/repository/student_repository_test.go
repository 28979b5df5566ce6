package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academic-records-api/internal/models"
)

var studentRowColumns = []string{
	"id", "roll_number", "email", "password_hash", "name", "phone", "address", "date_of_birth",
	"gender", "semester", "guardian_name", "guardian_contact", "department_id", "status",
	"created_at", "updated_at",
}

func studentRow() *sqlmock.Rows {
	return sqlmock.NewRows(studentRowColumns).
		AddRow("stu-1", "CS2023001", "asha@example.edu", "$2a$10$hash", "Asha Verma", nil, nil, nil,
			nil, 3, nil, nil, "dept-1", models.StatusActive, time.Now(), time.Now())
}

func TestStudentRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT id, roll_number, .+ FROM students WHERE email = \$1 LIMIT 1`).
		WithArgs("asha@example.edu").
		WillReturnRows(studentRow())

	student, err := repo.FindByEmail(context.Background(), "asha@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "CS2023001", student.RollNumber)
	assert.Equal(t, models.StatusActive, student.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT id, roll_number, .+ FROM students WHERE email = \$1 LIMIT 1`).
		WithArgs("ghost@example.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.edu")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByRollNumber(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	query := regexp.QuoteMeta(`SELECT 1 FROM students WHERE roll_number = $1 LIMIT 1`)

	mock.ExpectQuery(query).
		WithArgs("CS2023001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(query).
		WithArgs("CS2099999").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByRollNumber(context.Background(), "CS2023001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByRollNumber(context.Background(), "CS2099999")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`INSERT INTO students`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{
		RollNumber:   "CS2023002",
		Email:        "ravi@example.edu",
		PasswordHash: "$2a$10$hash",
		Name:         "Ravi Kumar",
		Status:       models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`)).
		WithArgs("stu-1", models.StatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "stu-1", models.StatusActive))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT id, roll_number, .+ FROM students WHERE status = \$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs(models.StatusPending).
		WillReturnRows(studentRow())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE status = \$1`).
		WithArgs(models.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
