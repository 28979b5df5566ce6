package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/repository"
)

// Seeder loads sample reference data into an empty database. It only runs
// when explicitly enabled, and only when the departments table is empty so
// a restart never duplicates rows.
type Seeder struct {
	departments *repository.DepartmentRepository
	teachers    *repository.TeacherRepository
	courses     *repository.CourseRepository
	logger      *zap.Logger
}

// New constructs a Seeder.
func New(departments *repository.DepartmentRepository, teachers *repository.TeacherRepository, courses *repository.CourseRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{departments: departments, teachers: teachers, courses: courses, logger: logger}
}

// Run seeds departments, one teacher account and a starter course catalog.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.departments.Count(ctx)
	if err != nil {
		return fmt.Errorf("check department count: %w", err)
	}
	if count > 0 {
		s.logger.Info("seed skipped, departments already present", zap.Int("count", count))
		return nil
	}

	departments := []models.Department{
		{Name: "Computer Science", Code: "CSE", Description: strPtr("Computer Science and Engineering")},
		{Name: "Electronics", Code: "ECE", Description: strPtr("Electronics and Communication Engineering")},
		{Name: "Mechanical", Code: "ME", Description: strPtr("Mechanical Engineering")},
		{Name: "Mathematics", Code: "MATH", Description: strPtr("Mathematics and Statistics")},
	}
	for i := range departments {
		if err := s.departments.Create(ctx, &departments[i]); err != nil {
			return fmt.Errorf("seed department %s: %w", departments[i].Code, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	teacher := models.Teacher{
		EmployeeID:     "EMP001",
		Email:          "admin.teacher@example.edu",
		PasswordHash:   string(hash),
		Name:           "Admin Teacher",
		Specialization: strPtr("Computer Science"),
		DepartmentID:   &departments[0].ID,
		Status:         models.StatusActive,
	}
	if err := s.teachers.Create(ctx, &teacher); err != nil {
		return fmt.Errorf("seed teacher: %w", err)
	}

	core := models.CourseTypeCore
	lab := models.CourseTypeLab
	courses := []models.Course{
		{Name: "Data Structures", CourseCode: "CS201", Credits: intPtr(4), Semester: intPtr(3), CourseType: &core, DepartmentID: departments[0].ID, TeacherID: &teacher.ID},
		{Name: "Operating Systems", CourseCode: "CS301", Credits: intPtr(4), Semester: intPtr(5), CourseType: &core, DepartmentID: departments[0].ID},
		{Name: "Digital Circuits Lab", CourseCode: "EC210", Credits: intPtr(2), Semester: intPtr(4), CourseType: &lab, DepartmentID: departments[1].ID},
		{Name: "Linear Algebra", CourseCode: "MA101", Credits: intPtr(3), Semester: intPtr(1), CourseType: &core, DepartmentID: departments[3].ID},
	}
	for i := range courses {
		if err := s.courses.Create(ctx, &courses[i]); err != nil {
			return fmt.Errorf("seed course %s: %w", courses[i].CourseCode, err)
		}
	}

	s.logger.Info("sample data seeded",
		zap.Int("departments", len(departments)),
		zap.Int("courses", len(courses)))
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
