package dto

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Capacity   int     `json:"capacity" validate:"required,min=1"`
	Type       string  `json:"type" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	Facilities *string `json:"facilities"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateRoomRequest patches a room.
type UpdateRoomRequest struct {
	Code       *string `json:"code" validate:"omitempty,min=1"`
	Name       *string `json:"name" validate:"omitempty,min=1"`
	Capacity   *int    `json:"capacity" validate:"omitempty,min=1"`
	Type       *string `json:"type" validate:"omitempty,min=1"`
	Location   *string `json:"location" validate:"omitempty,min=1"`
	Facilities *string `json:"facilities"`
	IsActive   *bool   `json:"is_active"`
}
