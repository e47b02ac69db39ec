package models

import "time"

// Lecturer represents a dosen.
type Lecturer struct {
	ID         string    `db:"id" json:"id"`
	NIDN       string    `db:"nidn" json:"nidn"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Position   string    `db:"position" json:"position"`
	Department string    `db:"department" json:"department"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LecturerFilter captures supported filters for listing lecturers.
type LecturerFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}
