package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/service"
	"github.com/campuskit/academic-records-api/pkg/config"
)

type stubStudentFinder struct {
	students map[string]models.Student
}

func (s *stubStudentFinder) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if student, ok := s.students[email]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

type stubTeacherFinder struct {
	teachers map[string]models.Teacher
}

func (s *stubTeacherFinder) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[email]; ok {
		return &teacher, nil
	}
	return nil, sql.ErrNoRows
}

func jwtTestSetup(students map[string]models.Student) (*service.TokenService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewTokenService(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	directory := service.NewPrincipalDirectory(&stubStudentFinder{students: students}, &stubTeacherFinder{})

	router := gin.New()
	router.GET("/protected", JWT(tokens, directory), func(c *gin.Context) {
		auth := AuthFrom(c)
		if auth == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": auth.Email, "role": auth.Role})
	})
	return tokens, router
}

func TestJWTResolvesPrincipal(t *testing.T) {
	tokens, router := jwtTestSetup(map[string]models.Student{
		"amy@example.edu": {ID: "student-1", Email: "amy@example.edu", Name: "Amy", Status: models.StatusActive},
	})

	token, err := tokens.Issue("amy@example.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", recorder.Code, recorder.Body.String())
	}
}

func TestJWTMissingHeader(t *testing.T) {
	_, router := jwtTestSetup(nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestJWTMalformedHeader(t *testing.T) {
	_, router := jwtTestSetup(nil)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestJWTGarbageToken(t *testing.T) {
	_, router := jwtTestSetup(nil)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestJWTDeletedAccount(t *testing.T) {
	// A token whose subject no longer resolves must not authenticate.
	tokens, router := jwtTestSetup(nil)

	token, err := tokens.Issue("gone@example.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}
