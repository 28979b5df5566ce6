package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/models"
)

func TestAuthorize(t *testing.T) {
	teacherOnly := []models.Role{models.RoleTeacher}
	anyRole := []models.Role{models.RoleStudent, models.RoleTeacher}
	var public []models.Role

	cases := []struct {
		name    string
		role    models.Role
		allowed []models.Role
		want    bool
	}{
		{"teacher allowed on teacher route", models.RoleTeacher, teacherOnly, true},
		{"student denied on teacher route", models.RoleStudent, teacherOnly, false},
		{"student allowed on shared route", models.RoleStudent, anyRole, true},
		{"teacher allowed on shared route", models.RoleTeacher, anyRole, true},
		{"empty set denies everyone", models.RoleTeacher, public, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.role, tc.allowed); got != tc.want {
				t.Fatalf("Authorize(%s) = %v, want %v", tc.role, got, tc.want)
			}
		})
	}
}

func rbacTestRouter(allowed ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireRoles(allowed...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func rbacTestRouterWithAuth(role models.Role, allowed ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextAuthKey, &models.AuthContext{
			PrincipalID: "principal-1",
			Email:       "someone@example.edu",
			Role:        role,
			Status:      models.StatusActive,
		})
	})
	router.GET("/protected", RequireRoles(allowed...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireRolesAllows(t *testing.T) {
	router := rbacTestRouterWithAuth(models.RoleTeacher, models.RoleTeacher)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireRolesForbidsOutsideSet(t *testing.T) {
	router := rbacTestRouterWithAuth(models.RoleStudent, models.RoleTeacher)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestRequireRolesUnauthenticated(t *testing.T) {
	// Missing auth context is an authentication failure, not a role failure.
	router := rbacTestRouter(models.RoleTeacher)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}
