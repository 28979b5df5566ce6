package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
	"github.com/campuskit/academic-records-api/pkg/export"
)

// TranscriptFormat selects the rendered output type.
type TranscriptFormat string

const (
	TranscriptCSV TranscriptFormat = "csv"
	TranscriptPDF TranscriptFormat = "pdf"
)

type transcriptRenderer interface {
	Render(t export.Transcript) ([]byte, error)
	ContentType() string
	Extension() string
}

type transcriptEnrollments interface {
	ListDetailByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

// TranscriptService assembles a student's graded record and renders it
// through the export package.
type TranscriptService struct {
	students    enrollmentStudentReader
	departments departmentReader
	enrollments transcriptEnrollments
	renderers   map[TranscriptFormat]transcriptRenderer
	logger      *zap.Logger
}

// NewTranscriptService constructs TranscriptService with CSV and PDF
// renderers registered.
func NewTranscriptService(students enrollmentStudentReader, departments departmentReader, enrollments transcriptEnrollments, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		students:    students,
		departments: departments,
		enrollments: enrollments,
		renderers: map[TranscriptFormat]transcriptRenderer{
			TranscriptCSV: export.NewCSVExporter(),
			TranscriptPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Export renders the student's transcript in the requested format and
// returns the bytes, content type and a suggested filename.
func (s *TranscriptService) Export(ctx context.Context, studentID string, format TranscriptFormat) ([]byte, string, string, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, "", "", appErrors.Clone(appErrors.ErrInvalidArgument, "unsupported transcript format")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	departmentName := ""
	if student.DepartmentID != nil {
		department, err := s.departments.FindByID(ctx, *student.DepartmentID)
		if err == nil {
			departmentName = department.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
		}
	}

	details, err := s.enrollments.ListDetailByStudent(ctx, studentID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	transcript := export.Transcript{
		StudentName: student.Name,
		RollNumber:  student.RollNumber,
		Email:       student.Email,
		Department:  departmentName,
		Rows:        make([]export.TranscriptRow, 0, len(details)),
	}
	for _, d := range details {
		transcript.Rows = append(transcript.Rows, export.TranscriptRow{
			CourseCode:   d.CourseCode,
			CourseName:   d.CourseName,
			AcademicYear: d.AcademicYear,
			Semester:     intOrEmpty(d.Semester),
			Grade:        stringOrEmpty(d.Grade),
			Marks:        marksOrEmpty(d.Marks),
			Status:       string(d.Status),
		})
	}

	data, err := renderer.Render(transcript)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}

	filename := fmt.Sprintf("transcript_%s.%s", student.RollNumber, renderer.Extension())
	return data, renderer.ContentType(), filename, nil
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func marksOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
