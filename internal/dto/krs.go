package dto

import "github.com/noah-isme/siakad-api/internal/models"

// CreateKRSRequest registers a student to a course for a term.
type CreateKRSRequest struct {
	StudentID string           `json:"student_id" validate:"required"`
	CourseID  string           `json:"course_id" validate:"required"`
	Semester  string           `json:"semester" validate:"required"`
	Year      int              `json:"year" validate:"required,min=1"`
	Status    models.KRSStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// UpdateKRSRequest patches a KRS entry. Nil fields are left untouched.
type UpdateKRSRequest struct {
	StudentID *string           `json:"student_id" validate:"omitempty,min=1"`
	CourseID  *string           `json:"course_id" validate:"omitempty,min=1"`
	Semester  *string           `json:"semester" validate:"omitempty,min=1"`
	Year      *int              `json:"year" validate:"omitempty,min=1"`
	Status    *models.KRSStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// KRSSummaryQuery selects the term load to summarise.
type KRSSummaryQuery struct {
	StudentID string `form:"student_id" validate:"required"`
	Semester  string `form:"semester" validate:"required"`
}
