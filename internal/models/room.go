package models

import "time"

// Room is a bookable ruangan.
type Room struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Capacity   int       `db:"capacity" json:"capacity"`
	Type       string    `db:"type" json:"type"`
	Location   string    `db:"location" json:"location"`
	Facilities *string   `db:"facilities" json:"facilities,omitempty"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures supported filters for listing rooms.
type RoomFilter struct {
	Search   string
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}
