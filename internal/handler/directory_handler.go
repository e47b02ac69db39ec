package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
}

type lecturerService interface {
	List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Lecturer, error)
}

// StudentHandler exposes read-only student endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(service studentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Name or NIM"
// @Param program query string false "Study program"
// @Param status query string false "Academic status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Program: c.Query("program"),
		Status:  models.StudentStatus(strings.ToUpper(c.Query("status"))),
	}
	filter.Page, filter.PageSize = pageParams(c)

	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// LecturerHandler exposes read-only lecturer endpoints.
type LecturerHandler struct {
	service lecturerService
}

// NewLecturerHandler constructs handler.
func NewLecturerHandler(service lecturerService) *LecturerHandler {
	return &LecturerHandler{service: service}
}

// List godoc
// @Summary List lecturers
// @Tags Lecturers
// @Produce json
// @Param search query string false "Name or NIDN"
// @Param department query string false "Department"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lecturers [get]
func (h *LecturerHandler) List(c *gin.Context) {
	filter := models.LecturerFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Department: c.Query("department"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	lecturers, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecturers, pagination)
}

// Get godoc
// @Summary Get lecturer
// @Tags Lecturers
// @Produce json
// @Param id path string true "Lecturer ID"
// @Success 200 {object} response.Envelope
// @Router /lecturers/{id} [get]
func (h *LecturerHandler) Get(c *gin.Context) {
	lecturer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecturer, nil)
}
