// Package favorites lets users like merch items.
package favorites

import (
	"context"
	"time"

	"github.com/sportportal/portal/internal/merch"
)

// Favorite marks a product liked by a user.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MerchID   int64     `json:"merch_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID is the liking user.
func (f Favorite) OwnerID() int64 { return f.UserID }

// Status is the toggle outcome.
type Status string

const (
	StatusLiked   Status = "liked"
	StatusUnliked Status = "unliked"
)

// MerchLookup confirms a product exists. *merch.Service satisfies it.
type MerchLookup interface {
	Get(ctx context.Context, id int64) (*merch.Item, error)
}
