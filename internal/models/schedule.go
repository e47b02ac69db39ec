package models

import "time"

// Weekday is the day a schedule repeats on.
type Weekday string

// Supported weekdays.
const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// Valid reports whether d is a known weekday.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// ScheduleStatus represents the lifecycle of a room booking.
type ScheduleStatus string

// Possible schedule statuses. Only active schedules occupy a room.
const (
	ScheduleStatusActive    ScheduleStatus = "ACTIVE"
	ScheduleStatusInactive  ScheduleStatus = "INACTIVE"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusActive, ScheduleStatusInactive, ScheduleStatusCancelled:
		return true
	}
	return false
}

// Schedule books a room for a course on a weekday between StartTime and EndTime
// ("HH:MM", same day).
type Schedule struct {
	ID           string         `db:"id" json:"id"`
	CourseID     string         `db:"course_id" json:"course_id"`
	LecturerID   string         `db:"lecturer_id" json:"lecturer_id"`
	RoomID       string         `db:"room_id" json:"room_id"`
	Day          Weekday        `db:"day" json:"day"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	Semester     int            `db:"semester" json:"semester"`
	AcademicYear string         `db:"academic_year" json:"academic_year"`
	Status       ScheduleStatus `db:"status" json:"status"`
	Notes        *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail enriches Schedule with course, lecturer and room info.
type ScheduleDetail struct {
	Schedule
	CourseCode   string `db:"course_code" json:"course_code"`
	CourseName   string `db:"course_name" json:"course_name"`
	LecturerName string `db:"lecturer_name" json:"lecturer_name"`
	RoomCode     string `db:"room_code" json:"room_code"`
	RoomName     string `db:"room_name" json:"room_name"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Search       string
	RoomID       string
	Day          Weekday
	Status       ScheduleStatus
	Semester     int
	AcademicYear string
	Page         int
	PageSize     int
}

// ScheduleConflict describes an existing schedule that blocks a booking.
type ScheduleConflict struct {
	ScheduleID string  `json:"schedule_id"`
	RoomID     string  `json:"room_id"`
	CourseID   string  `json:"course_id"`
	Day        Weekday `json:"day"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
}

// ScheduleConflictError is returned when a booking overlaps an active one.
type ScheduleConflictError struct {
	Message  string           `json:"message"`
	Conflict ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
