package middleware

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/service"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
	"github.com/campuskit/academic-records-api/pkg/response"
)

// ContextAuthKey is the gin context key storing the resolved auth context.
const ContextAuthKey = "currentAuth"

// JWT protects routes by requiring a valid bearer token. The token subject
// is an email; the directory resolves it to a live principal so downstream
// role checks never touch the database.
func JWT(tokens *service.TokenService, directory *service.PrincipalDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		email, err := tokens.Verify(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		principal, err := directory.FindByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
			} else {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve principal"))
			}
			c.Abort()
			return
		}

		c.Set(ContextAuthKey, &models.AuthContext{
			PrincipalID: principal.ID,
			Email:       principal.Email,
			Name:        principal.Name,
			Role:        principal.Role,
			Status:      principal.Status,
		})
		c.Next()
	}
}

// AuthFrom extracts the auth context set by JWT, or nil when absent.
func AuthFrom(c *gin.Context) *models.AuthContext {
	value, exists := c.Get(ContextAuthKey)
	if !exists {
		return nil
	}
	auth, ok := value.(*models.AuthContext)
	if !ok {
		return nil
	}
	return auth
}
