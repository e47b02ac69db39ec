package models

import "time"

// Course is a mata kuliah in the catalog. Credits is the SKS weight.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Credits     int       `db:"credits" json:"credits"`
	Semester    int       `db:"semester" json:"semester"`
	Description *string   `db:"description" json:"description,omitempty"`
	LecturerID  string    `db:"lecturer_id" json:"lecturer_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with the lecturer in charge.
type CourseDetail struct {
	Course
	LecturerName string `db:"lecturer_name" json:"lecturer_name"`
	LecturerNIDN string `db:"lecturer_nidn" json:"lecturer_nidn"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Search     string
	Semester   int
	LecturerID string
	Page       int
	PageSize   int
}
