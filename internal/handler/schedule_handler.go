package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	"github.com/noah-isme/siakad-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ScheduleDetail, error)
	Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.ScheduleDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*models.ScheduleDetail, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleHandler manages room booking endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary List schedules
// @Tags Schedules
// @Produce json
// @Param search query string false "Course code/name, lecturer or room"
// @Param room_id query string false "Filter by room"
// @Param day query string false "Filter by weekday"
// @Param status query string false "ACTIVE, INACTIVE or CANCELLED"
// @Param semester query int false "Filter by semester"
// @Param academic_year query string false "Filter by academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	semester, err := intQuery(c, "semester")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ScheduleFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		RoomID:       c.Query("room_id"),
		Day:          models.Weekday(c.Query("day")),
		Status:       models.ScheduleStatus(strings.ToUpper(c.Query("status"))),
		Semester:     semester,
		AcademicYear: c.Query("academic_year"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	schedules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Book a room
// @Description Fails with 409 when the room is inactive or an active booking overlaps [start_time, end_time).
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.UpdateScheduleRequest true "Schedule patch"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
