package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
	"github.com/noah-isme/siakad-api/pkg/middleware/requestid"
)

const scheduleComponent = "schedule"

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindDetailByID(ctx context.Context, id string) (*models.ScheduleDetail, error)
	ListActiveByRoomDay(ctx context.Context, roomID string, day models.Weekday, excludeID string) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
}

type lecturerReader interface {
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
}

type roomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// ScheduleServiceParams groups constructor dependencies.
type ScheduleServiceParams struct {
	Repo      scheduleRepository
	Courses   courseReader
	Lecturers lecturerReader
	Rooms     roomReader
	Locker    lockRunner
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// ScheduleService books rooms while keeping active bookings of a room and day disjoint.
type ScheduleService struct {
	repo      scheduleRepository
	courses   courseReader
	lecturers lecturerReader
	rooms     roomReader
	locker    lockRunner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(params ScheduleServiceParams) *ScheduleService {
	validate := params.Validator
	if validate == nil {
		validate = NewValidator()
	} else {
		registerClock(validate)
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      params.Repo,
		courses:   params.Courses,
		lecturers: params.Lecturers,
		rooms:     params.Rooms,
		locker:    params.Locker,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns schedules matching filter.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, *models.Pagination, error) {
	filter.Day = normalizeDay(filter.Day)
	if filter.Day != "" && !filter.Day.Valid() {
		return nil, nil, invalidFilter("day", string(filter.Day))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, invalidFilter("status", string(filter.Status))
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list schedules")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a schedule with its course, lecturer and room.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule")
	}
	return detail, nil
}

// Create books a room slot. Only active bookings take part in the overlap test.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (detail *models.ScheduleDetail, err error) {
	defer func() { s.metrics.RecordDecision(scheduleComponent, decisionOutcome(err)) }()

	req.Day = normalizeDay(req.Day)
	if err := s.validator.Struct(req); err != nil {
		if failedOn(err, clockTag) {
			return nil, validationError(err, "invalid time range")
		}
		return nil, validationError(err, "required fields missing")
	}
	start, end, err := timeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, lookupError(err, "course")
	}
	if _, err := s.lecturers.FindByID(ctx, req.LecturerID); err != nil {
		return nil, lookupError(err, "lecturer")
	}
	if err := s.ensureRoomActive(ctx, req.RoomID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.ScheduleStatusActive
	}
	schedule := &models.Schedule{
		CourseID:     req.CourseID,
		LecturerID:   req.LecturerID,
		RoomID:       req.RoomID,
		Day:          req.Day,
		StartTime:    FormatClock(start),
		EndTime:      FormatClock(end),
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Status:       status,
		Notes:        blankToNil(req.Notes),
	}

	began := time.Now()
	err = s.locker.WithinLock(ctx, scheduleLockKey(schedule.RoomID, schedule.Day), func(ctx context.Context) error {
		if schedule.Status == models.ScheduleStatusActive {
			if err := s.ensureFree(ctx, schedule.RoomID, schedule.Day, start, end, ""); err != nil {
				return err
			}
		}
		if err := s.repo.Create(ctx, schedule); err != nil {
			return writeError(err, "room already booked in this interval", "failed to create schedule")
		}
		return nil
	})
	s.metrics.ObserveTransaction("schedule.create", time.Since(began))
	if err != nil {
		s.logDecision(ctx, "schedule create rejected", schedule, err)
		return nil, passThrough(err, "failed to create schedule")
	}

	s.logger.Info("schedule created",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("schedule_id", schedule.ID),
		zap.String("room_id", schedule.RoomID),
		zap.String("day", string(schedule.Day)),
		zap.String("start", schedule.StartTime),
		zap.String("end", schedule.EndTime),
	)
	return s.detailOrFallback(ctx, schedule), nil
}

// Update applies a patch. The overlap test re-runs only when the effective room,
// day or interval changes, or when the booking is re-activated.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (detail *models.ScheduleDetail, err error) {
	defer func() { s.metrics.RecordDecision(scheduleComponent, decisionOutcome(err)) }()

	if req.Day != nil {
		day := normalizeDay(*req.Day)
		req.Day = &day
	}
	if err := s.validator.Struct(req); err != nil {
		if failedOn(err, clockTag) {
			return nil, validationError(err, "invalid time range")
		}
		return nil, validationError(err, "invalid schedule payload")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule")
	}
	curStart, curEnd, err := storedRange(current)
	if err != nil {
		return nil, err
	}

	target := *current
	if req.CourseID != nil {
		target.CourseID = *req.CourseID
	}
	if req.LecturerID != nil {
		target.LecturerID = *req.LecturerID
	}
	if req.RoomID != nil {
		target.RoomID = *req.RoomID
	}
	if req.Day != nil {
		target.Day = *req.Day
	}
	if req.Semester != nil {
		target.Semester = *req.Semester
	}
	if req.AcademicYear != nil {
		target.AcademicYear = *req.AcademicYear
	}
	if req.Status != nil {
		target.Status = *req.Status
	}
	if req.Notes != nil {
		target.Notes = blankToNil(req.Notes)
	}

	startValue, endValue := FormatClock(curStart), FormatClock(curEnd)
	if req.StartTime != nil {
		startValue = *req.StartTime
	}
	if req.EndTime != nil {
		endValue = *req.EndTime
	}
	start, end, err := timeRange(startValue, endValue)
	if err != nil {
		return nil, err
	}
	target.StartTime = FormatClock(start)
	target.EndTime = FormatClock(end)

	if target.CourseID != current.CourseID {
		if _, err := s.courses.FindByID(ctx, target.CourseID); err != nil {
			return nil, lookupError(err, "course")
		}
	}
	if target.LecturerID != current.LecturerID {
		if _, err := s.lecturers.FindByID(ctx, target.LecturerID); err != nil {
			return nil, lookupError(err, "lecturer")
		}
	}
	if target.RoomID != current.RoomID {
		if err := s.ensureRoomActive(ctx, target.RoomID); err != nil {
			return nil, err
		}
	}

	slotChanged := target.RoomID != current.RoomID || target.Day != current.Day || start != curStart || end != curEnd
	reactivated := current.Status != models.ScheduleStatusActive && target.Status == models.ScheduleStatusActive
	recheck := target.Status == models.ScheduleStatusActive && (slotChanged || reactivated)

	began := time.Now()
	err = s.locker.WithinLock(ctx, scheduleLockKey(target.RoomID, target.Day), func(ctx context.Context) error {
		if recheck {
			if err := s.ensureFree(ctx, target.RoomID, target.Day, start, end, target.ID); err != nil {
				return err
			}
		}
		if err := s.repo.Update(ctx, &target); err != nil {
			return updateError(err, "schedule", "room already booked in this interval")
		}
		return nil
	})
	s.metrics.ObserveTransaction("schedule.update", time.Since(began))
	if err != nil {
		s.logDecision(ctx, "schedule update rejected", &target, err)
		return nil, passThrough(err, "failed to update schedule")
	}
	return s.detailOrFallback(ctx, &target), nil
}

// Delete removes a booking. Bookings have no dependents.
func (s *ScheduleService) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.RecordDecision(scheduleComponent, decisionOutcome(err)) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "schedule")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		mapped := deleteError(err, "schedule")
		s.logDecision(ctx, "schedule delete rejected", current, mapped)
		return mapped
	}
	s.logger.Info("schedule deleted",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("schedule_id", id),
		zap.String("room_id", current.RoomID),
		zap.String("day", string(current.Day)),
	)
	return nil
}

func (s *ScheduleService) ensureRoomActive(ctx context.Context, roomID string) error {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return lookupError(err, "room")
	}
	if !room.IsActive {
		return appErrors.Clone(appErrors.ErrConflict, "room is inactive").WithDetails(map[string]interface{}{
			"room_id": room.ID,
		})
	}
	return nil
}

// ensureFree fails with CONFLICT naming the first active booking that overlaps [start,end).
func (s *ScheduleService) ensureFree(ctx context.Context, roomID string, day models.Weekday, start, end int, excludeID string) error {
	existing, err := s.repo.ListActiveByRoomDay(ctx, roomID, day, excludeID)
	if err != nil {
		return appErrors.Storage(err, "failed to load room bookings")
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		otherStart, otherEnd, err := storedRange(&other)
		if err != nil {
			return err
		}
		if !Overlaps(start, end, otherStart, otherEnd) {
			continue
		}
		conflict := models.ScheduleConflict{
			ScheduleID: other.ID,
			RoomID:     other.RoomID,
			CourseID:   other.CourseID,
			Day:        other.Day,
			StartTime:  FormatClock(otherStart),
			EndTime:    FormatClock(otherEnd),
		}
		const msg = "room already booked in this interval"
		cause := &models.ScheduleConflictError{Message: msg, Conflict: conflict}
		return appErrors.Wrap(cause, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msg).WithDetails(map[string]interface{}{
			"conflicting_schedule_id": other.ID,
			"conflict":                conflict,
		})
	}
	return nil
}

func (s *ScheduleService) detailOrFallback(ctx context.Context, schedule *models.Schedule) *models.ScheduleDetail {
	detail, err := s.repo.FindDetailByID(ctx, schedule.ID)
	if err != nil {
		s.logger.Warn("failed to load schedule detail", zap.String("schedule_id", schedule.ID), zap.Error(err))
		return &models.ScheduleDetail{Schedule: *schedule}
	}
	return detail
}

func (s *ScheduleService) logDecision(ctx context.Context, msg string, schedule *models.Schedule, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("room_id", schedule.RoomID),
		zap.String("day", string(schedule.Day)),
		zap.String("start", schedule.StartTime),
		zap.String("end", schedule.EndTime),
		zap.Error(err),
	}
	if decisionOutcome(err) == OutcomeError {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Info(msg, fields...)
}

// timeRange parses a wall-clock interval and requires start < end on the same day.
func timeRange(startValue, endValue string) (int, int, error) {
	start, err := ParseClock(startValue)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time range")
	}
	end, err := ParseClock(endValue)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time range")
	}
	if start >= end {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "invalid time range").WithDetails(map[string]interface{}{
			"start_time": startValue,
			"end_time":   endValue,
		})
	}
	return start, end, nil
}

func storedRange(schedule *models.Schedule) (int, int, error) {
	start, err := ParseClock(schedule.StartTime)
	if err != nil {
		return 0, 0, appErrors.Storage(err, fmt.Sprintf("schedule %s has an unreadable start time", schedule.ID))
	}
	end, err := ParseClock(schedule.EndTime)
	if err != nil {
		return 0, 0, appErrors.Storage(err, fmt.Sprintf("schedule %s has an unreadable end time", schedule.ID))
	}
	return start, end, nil
}

func normalizeDay(day models.Weekday) models.Weekday {
	return models.Weekday(strings.ToUpper(strings.TrimSpace(string(day))))
}

func blankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func scheduleLockKey(roomID string, day models.Weekday) string {
	return fmt.Sprintf("schedule:%s:%s", roomID, day)
}
