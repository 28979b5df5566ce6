package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuskit/academic-records-api/internal/models"
)

type studentByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

type teacherByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
}

// PrincipalDirectory resolves an email to a principal across the single
// login namespace shared by students and teachers. Students are checked
// first; the order is immaterial since email is unique across both tables.
type PrincipalDirectory struct {
	students studentByEmailFinder
	teachers teacherByEmailFinder
}

// NewPrincipalDirectory constructs a PrincipalDirectory.
func NewPrincipalDirectory(students studentByEmailFinder, teachers teacherByEmailFinder) *PrincipalDirectory {
	return &PrincipalDirectory{students: students, teachers: teachers}
}

// FindByEmail returns the principal for the email, or sql.ErrNoRows when no
// account of either kind exists.
func (d *PrincipalDirectory) FindByEmail(ctx context.Context, email string) (*models.Principal, error) {
	student, err := d.students.FindByEmail(ctx, email)
	if err == nil {
		return student.Principal(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	teacher, err := d.teachers.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return teacher.Principal(), nil
}
