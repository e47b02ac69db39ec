package dto

import "github.com/noah-isme/siakad-api/internal/models"

// CreateScheduleRequest books a room for a course.
type CreateScheduleRequest struct {
	CourseID     string                `json:"course_id" validate:"required"`
	LecturerID   string                `json:"lecturer_id" validate:"required"`
	RoomID       string                `json:"room_id" validate:"required"`
	Day          models.Weekday        `json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string                `json:"start_time" validate:"required,clock"`
	EndTime      string                `json:"end_time" validate:"required,clock"`
	Semester     int                   `json:"semester" validate:"required,min=1"`
	AcademicYear string                `json:"academic_year" validate:"required"`
	Status       models.ScheduleStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE CANCELLED"`
	Notes        *string               `json:"notes"`
}

// UpdateScheduleRequest patches a schedule. Nil fields are left untouched; an
// empty Notes clears the notes.
type UpdateScheduleRequest struct {
	CourseID     *string                `json:"course_id" validate:"omitempty,min=1"`
	LecturerID   *string                `json:"lecturer_id" validate:"omitempty,min=1"`
	RoomID       *string                `json:"room_id" validate:"omitempty,min=1"`
	Day          *models.Weekday        `json:"day" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    *string                `json:"start_time" validate:"omitempty,clock"`
	EndTime      *string                `json:"end_time" validate:"omitempty,clock"`
	Semester     *int                   `json:"semester" validate:"omitempty,min=1"`
	AcademicYear *string                `json:"academic_year" validate:"omitempty,min=1"`
	Status       *models.ScheduleStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE CANCELLED"`
	Notes        *string                `json:"notes"`
}
