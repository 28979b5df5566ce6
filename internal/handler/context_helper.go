package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/middleware"
	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
	"github.com/campuskit/academic-records-api/pkg/response"
)

// currentAuth pulls the auth context set by the JWT middleware. It writes
// the unauthorized response itself when absent.
func currentAuth(c *gin.Context) (*models.AuthContext, bool) {
	auth := middleware.AuthFrom(c)
	if auth == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return auth, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryIntPtr(c *gin.Context, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func pageParams(c *gin.Context) (int, int) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
