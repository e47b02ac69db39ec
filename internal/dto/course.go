package dto

// CreateCourseRequest adds a course to the catalog.
type CreateCourseRequest struct {
	Code        string  `json:"code" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Credits     int     `json:"credits" validate:"required,min=1,max=6"`
	Semester    int     `json:"semester" validate:"required,min=1,max=14"`
	Description *string `json:"description"`
	LecturerID  string  `json:"lecturer_id" validate:"required"`
}

// UpdateCourseRequest patches a course.
type UpdateCourseRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Credits     *int    `json:"credits" validate:"omitempty,min=1,max=6"`
	Semester    *int    `json:"semester" validate:"omitempty,min=1,max=14"`
	Description *string `json:"description"`
	LecturerID  *string `json:"lecturer_id" validate:"omitempty,min=1"`
}
