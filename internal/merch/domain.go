// Package merch is the athlete merchandise marketplace.
package merch

import (
	"time"

	"github.com/sportportal/portal/internal/shared"
)

// Item is a product listed by its owner.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	IsAvailable bool      `json:"is_available"`
	OwnerUserID int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID is the listing user.
func (i Item) OwnerID() int64 { return i.OwnerUserID }

// ListFilter narrows product listings.
type ListFilter struct {
	Search      string
	Brand       string
	IsAvailable *bool
	OwnerID     int64
	shared.Window
}

// NewItem is the persisted shape of a listing.
type NewItem struct {
	Name        string
	Brand       string
	Description string
	Price       int64
	Stock       int
	ImageURL    string
	IsAvailable bool
	OwnerID     int64
}

// Changes lists the columns an update touches.
type Changes struct {
	Name        *string
	Brand       *string
	Description *string
	Price       *int64
	Stock       *int
	ImageURL    *string
	IsAvailable *bool
}

// CreateInput is the listing payload.
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Brand       string `json:"brand" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=500"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdateInput is a partial update.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Brand       *string `json:"brand" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
	IsAvailable *bool   `json:"is_available"`
}
