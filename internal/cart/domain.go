// Package cart keeps each user's shopping cart of merch items.
package cart

import (
	"context"
	"time"

	"github.com/sportportal/portal/internal/merch"
)

// Item is one product line in a cart.
type Item struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MerchID   int64     `json:"merch_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID is the cart's user.
func (i Item) OwnerID() int64 { return i.UserID }

// Line is a cart item joined with its product.
type Line struct {
	Item
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url"`
	Available bool   `json:"is_available"`
}

// Summary is the cart view.
type Summary struct {
	Items    []Line `json:"items"`
	Total    int64  `json:"total"`
	Quantity int    `json:"quantity"`
}

// QuantityInput sets a line's quantity.
type QuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=1000"`
}

// MerchLookup confirms a product exists. *merch.Service satisfies it.
type MerchLookup interface {
	Get(ctx context.Context, id int64) (*merch.Item, error)
}
