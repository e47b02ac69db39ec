package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-api/internal/dto"
	"github.com/noah-isme/siakad-api/internal/models"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindByCode(ctx context.Context, code string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

type roomBookingCounter interface {
	CountActiveByRoom(ctx context.Context, roomID string) (int, error)
}

// RoomService manages rooms.
type RoomService struct {
	repo      roomRepository
	schedules roomBookingCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService creates a RoomService.
func NewRoomService(repo roomRepository, schedules roomBookingCounter, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, schedules: schedules, validator: validate, logger: logger}
}

// List returns rooms matching filter.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list rooms")
	}
	return rooms, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	return room, nil
}

// Create registers a room. New rooms are active unless stated otherwise.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid room payload")
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, ""); err != nil {
		return nil, err
	}
	room := &models.Room{
		Code:       code,
		Name:       req.Name,
		Capacity:   req.Capacity,
		Type:       req.Type,
		Location:   req.Location,
		Facilities: req.Facilities,
		IsActive:   true,
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, writeError(err, "room code already exists", "failed to create room")
	}
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("code", room.Code))
	return room, nil
}

// Update patches a room. Deactivating a room leaves existing bookings untouched.
func (s *RoomService) Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid room payload")
	}
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != room.Code {
			if err := s.ensureCodeFree(ctx, code, room.ID); err != nil {
				return nil, err
			}
		}
		room.Code = code
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Location != nil {
		room.Location = *req.Location
	}
	if req.Facilities != nil {
		room.Facilities = blankToNil(req.Facilities)
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, updateError(err, "room", "room code already exists")
	}
	return room, nil
}

// Delete removes a room that has no active bookings.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "room")
	}
	booked, err := s.schedules.CountActiveByRoom(ctx, id)
	if err != nil {
		return appErrors.Storage(err, "failed to count room bookings")
	}
	if booked > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "room has active schedules")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "room")
	}
	return nil
}

func (s *RoomService) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Storage(err, "failed to check room code")
	}
	if existing.ID != selfID {
		return appErrors.Clone(appErrors.ErrConflict, "room code already exists")
	}
	return nil
}
