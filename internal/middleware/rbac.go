package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
	"github.com/campuskit/academic-records-api/pkg/response"
)

// Authorize reports whether the role belongs to the allowed set. It is a
// pure function so the gate can be tested without any HTTP plumbing.
func Authorize(role models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// RequireRoles enforces the allowed role set on a route. Missing auth
// context yields unauthorized; a known principal outside the set yields
// forbidden.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := AuthFrom(c)
		if auth == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !Authorize(auth.Role, allowed) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
