package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/middleware"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
	"github.com/noah-isme/siakad-api/pkg/response"
)

type krsService interface {
	List(ctx context.Context, filter models.KRSFilter) ([]models.KRSDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.KRSDetail, error)
	Create(ctx context.Context, req dto.CreateKRSRequest) (*models.KRSDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateKRSRequest) (*models.KRSDetail, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, query dto.KRSSummaryQuery) (*models.KRSSummary, bool, error)
}

// KRSHandler exposes study plan (KRS) endpoints.
type KRSHandler struct {
	service krsService
}

// NewKRSHandler constructs the handler.
func NewKRSHandler(service krsService) *KRSHandler {
	return &KRSHandler{service: service}
}

// List godoc
// @Summary List KRS entries
// @Tags KRS
// @Produce json
// @Param search query string false "Student name/NIM or course code/name"
// @Param student_id query string false "Filter by student"
// @Param semester query string false "Filter by term label"
// @Param year query int false "Filter by year"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /krs [get]
func (h *KRSHandler) List(c *gin.Context) {
	year, err := intQuery(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.KRSFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		StudentID: c.Query("student_id"),
		Semester:  c.Query("semester"),
		Year:      year,
		Status:    models.KRSStatus(strings.ToUpper(c.Query("status"))),
	}
	filter.Page, filter.PageSize = pageParams(c)

	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Summary godoc
// @Summary Credit load of a student for one term
// @Tags KRS
// @Produce json
// @Param student_id query string true "Student ID"
// @Param semester query string true "Term label"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /krs/summary [get]
func (h *KRSHandler) Summary(c *gin.Context) {
	var query dto.KRSSummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get KRS entry
// @Tags KRS
// @Produce json
// @Param id path string true "KRS ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /krs/{id} [get]
func (h *KRSHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Enroll a student in a course
// @Description Rejected with 409 on a duplicate (student, course, term) and with 400 CAPACITY_EXCEEDED past the credit ceiling.
// @Tags KRS
// @Accept json
// @Produce json
// @Param payload body dto.CreateKRSRequest true "KRS payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /krs [post]
func (h *KRSHandler) Create(c *gin.Context) {
	var req dto.CreateKRSRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update KRS entry
// @Tags KRS
// @Accept json
// @Produce json
// @Param id path string true "KRS ID"
// @Param payload body dto.UpdateKRSRequest true "KRS patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /krs/{id} [put]
func (h *KRSHandler) Update(c *gin.Context) {
	var req dto.UpdateKRSRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete KRS entry
// @Description Entries with a recorded grade cannot be deleted.
// @Tags KRS
// @Produce json
// @Param id path string true "KRS ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /krs/{id} [delete]
func (h *KRSHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
