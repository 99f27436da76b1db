// Package education is the directory of sport academies, federations,
// schools and clubs.
package education

import (
	"strings"
	"time"

	"github.com/sportportal/portal/internal/shared"
)

// Region is one of the country's administrative regions.
type Region string

var regions = map[Region]struct{}{
	"andijan": {}, "bukhara": {}, "fergana": {}, "jizzakh": {}, "karakalpakstan": {},
	"kashkadarya": {}, "khorezm": {}, "namangan": {}, "navoiy": {}, "samarkand": {},
	"surkhandarya": {}, "syrdarya": {}, "tashkent city": {}, "tashkent region": {},
}

// ParseRegion accepts any letter case; underscores stand for spaces.
func ParseRegion(raw string) (Region, bool) {
	r := Region(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", " "))
	_, ok := regions[r]
	return r, ok
}

// Kind is the institution type.
type Kind string

const (
	KindAcademy    Kind = "academy"
	KindFederation Kind = "federation"
	KindSchool     Kind = "school"
	KindClub       Kind = "club"
)

// Institution is a directory entry.
type Institution struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Region       Region    `json:"region"`
	Type         Kind      `json:"type"`
	Address      string    `json:"address"`
	WorkingHours string    `json:"working_hours"`
	ImageURL     string    `json:"image_url"`
	Phone        string    `json:"phone"`
	Rating       float64   `json:"rating"`
	MapsLink     string    `json:"maps_link"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListFilter narrows directory listings.
type ListFilter struct {
	Region *Region
	Type   *Kind
	Search string
	shared.Window
}

// Fields is the writable part of an institution. Nil pointers are left
// untouched on update.
type Fields struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	Region       *string  `json:"region" validate:"omitempty,max=32"`
	Type         *string  `json:"type" validate:"omitempty,oneof=academy federation school club"`
	Address      *string  `json:"address" validate:"omitempty,max=500"`
	WorkingHours *string  `json:"working_hours" validate:"omitempty,max=100"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
	Phone        *string  `json:"phone" validate:"omitempty,max=20"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	MapsLink     *string  `json:"maps_link" validate:"omitempty,max=500"`
}

// CreateInput requires a name and a region.
type CreateInput struct {
	Fields
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Region string `json:"region" validate:"required,max=32"`
}
