package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/service"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
	"github.com/campuskit/academic-records-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service     *service.StudentService
	transcripts *service.TranscriptService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService, transcripts *service.TranscriptService) *StudentHandler {
	return &StudentHandler{service: svc, transcripts: transcripts}
}

// List godoc
// @Summary List students
// @Description List students with keyword search, department and status filters
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Keyword over name, email and roll number"
// @Param department_id query string false "Department filter"
// @Param status query string false "Account status filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.StudentFilter{
		Search:       c.Query("search"),
		DepartmentID: c.Query("department_id"),
		Status:       models.AccountStatus(c.Query("status")),
		Page:         page,
		PageSize:     pageSize,
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}

	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// ListPending godoc
// @Summary List pending registrations
// @Description List student accounts awaiting approval
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/pending [get]
func (h *StudentHandler) ListPending(c *gin.Context) {
	students, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Get godoc
// @Summary Get a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Update godoc
// @Summary Update a student
// @Description Partial profile update; students may only update themselves
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	auth, ok := currentAuth(c)
	if !ok {
		return
	}

	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.service.Update(c.Request.Context(), c.Param("id"), req, *auth)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Approve godoc
// @Summary Approve a pending student
// @Description Move a PENDING student to ACTIVE
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/approve [post]
func (h *StudentHandler) Approve(c *gin.Context) {
	student, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Reject godoc
// @Summary Reject a pending student
// @Description Move a PENDING student to REJECTED
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/reject [post]
func (h *StudentHandler) Reject(c *gin.Context) {
	student, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportTranscript godoc
// @Summary Export a student transcript
// @Description Render the student's graded record as CSV or PDF
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *StudentHandler) ExportTranscript(c *gin.Context) {
	auth, ok := currentAuth(c)
	if !ok {
		return
	}
	id := c.Param("id")
	// Students can only pull their own transcript.
	if auth.Role == models.RoleStudent && auth.PrincipalID != id {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	format := service.TranscriptFormat(c.DefaultQuery("format", "pdf"))
	data, contentType, filename, err := h.transcripts.Export(c.Request.Context(), id, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
