package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academic-records-api/internal/middleware"
	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/service"
	"github.com/campuskit/academic-records-api/pkg/config"
)

type departmentStoreStub struct {
	departments map[string]models.Department
}

func (s *departmentStoreStub) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := s.departments[id]; ok {
		copy := d
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *departmentStoreStub) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	for _, d := range s.departments {
		if d.Code == code {
			copy := d
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *departmentStoreStub) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (s *departmentStoreStub) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (s *departmentStoreStub) Create(ctx context.Context, department *models.Department) error {
	return nil
}

func (s *departmentStoreStub) Update(ctx context.Context, department *models.Department) error {
	return nil
}

func (s *departmentStoreStub) Delete(ctx context.Context, id string) error {
	return nil
}

func (s *departmentStoreStub) List(ctx context.Context, search string) ([]models.Department, error) {
	var result []models.Department
	for _, d := range s.departments {
		result = append(result, d)
	}
	return result, nil
}

type noStudentFinder struct{}

func (noStudentFinder) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

type teacherFinderStub struct {
	teachers map[string]models.Teacher
}

func (s *teacherFinderStub) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[email]; ok {
		return &teacher, nil
	}
	return nil, sql.ErrNoRows
}

// buildDepartmentRouter mirrors the department route table: the /all listing
// is public, every other read sits behind authentication and a role check.
func buildDepartmentRouter() (*service.TokenService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	directory := service.NewPrincipalDirectory(noStudentFinder{}, &teacherFinderStub{teachers: map[string]models.Teacher{
		"dana@example.edu": {ID: "teacher-1", Email: "dana@example.edu", Name: "Dana", Status: models.StatusActive},
	}})

	store := &departmentStoreStub{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Computer Science", Code: "CSE"},
	}}
	h := NewDepartmentHandler(service.NewDepartmentService(store, nil, 0, nil, nil, nil), nil, nil)

	authn := middleware.JWT(tokens, directory)
	anyRole := middleware.RequireRoles(models.RoleStudent, models.RoleTeacher)

	router := gin.New()
	departments := router.Group("/api/departments")
	departments.GET("/all", h.ListAll)
	departments.GET("", authn, anyRole, h.List)
	departments.GET("/code/:code", authn, anyRole, h.GetByCode)
	departments.GET("/:id", authn, anyRole, h.Get)
	return tokens, router
}

func TestDepartmentRoutesAccessControl(t *testing.T) {
	tokens, router := buildDepartmentRouter()

	token, err := tokens.Issue("dana@example.edu")
	require.NoError(t, err)

	t.Run("public catalog listing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/departments/all", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Contains(t, recorder.Body.String(), "Computer Science")
	})

	t.Run("anonymous listing rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/departments", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("anonymous get rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/departments/dept-1", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("anonymous code lookup rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/departments/code/CSE", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated listing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("authenticated get", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/departments/dept-1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Contains(t, recorder.Body.String(), "CSE")
	})
}
