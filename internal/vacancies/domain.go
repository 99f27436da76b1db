// Package vacancies publishes sport job openings.
package vacancies

import (
	"time"

	"github.com/sportportal/portal/internal/shared"
)

// Vacancy is a job posting.
type Vacancy struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	ImageURL    string    `json:"image_url"`
	Location    string    `json:"location"`
	SalaryRange string    `json:"salary_range"`
	Contact     string    `json:"contact"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilter narrows vacancy listings.
type ListFilter struct {
	IsActive *bool
	Location string
	Search   string
	shared.Window
}

// CreateInput is the posting payload.
type CreateInput struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1"`
	Company     string `json:"company" validate:"required,min=1,max=255"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=500"`
	Location    string `json:"location" validate:"omitempty,max=255"`
	SalaryRange string `json:"salary_range" validate:"omitempty,max=100"`
	Contact     string `json:"contact" validate:"required,max=255"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateInput is a partial update.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Company     *string `json:"company" validate:"omitempty,min=1,max=255"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	SalaryRange *string `json:"salary_range" validate:"omitempty,max=100"`
	Contact     *string `json:"contact" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
}
