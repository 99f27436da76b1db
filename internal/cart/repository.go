package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for carts.
type Repository interface {
	// Add inserts a line with quantity 1 or increments an existing one.
	Add(ctx context.Context, userID, merchID int64) (*Item, error)
	SetQuantity(ctx context.Context, userID, merchID int64, quantity int) (*Item, error)
	Lines(ctx context.Context, userID int64) ([]Line, error)
	Remove(ctx context.Context, userID, merchID int64) error
}

const itemColumns = `id, user_id, merch_id, quantity, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	if err := row.Scan(&i.ID, &i.UserID, &i.MerchID, &i.Quantity, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// Add upserts the (user, merch) line.
func (r *PGRepository) Add(ctx context.Context, userID, merchID int64) (*Item, error) {
	i, err := scanItem(r.db.QueryRow(ctx, `INSERT INTO cart (user_id, merch_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (user_id, merch_id) DO UPDATE SET quantity = cart.quantity + 1, updated_at = NOW()
RETURNING `+itemColumns, userID, merchID))
	if err != nil {
		return nil, db.MapError(err, "cart item")
	}
	return i, nil
}

// SetQuantity overwrites a line's quantity.
func (r *PGRepository) SetQuantity(ctx context.Context, userID, merchID int64, quantity int) (*Item, error) {
	i, err := scanItem(r.db.QueryRow(ctx, `UPDATE cart SET quantity = $3, updated_at = NOW()
WHERE user_id = $1 AND merch_id = $2
RETURNING `+itemColumns, userID, merchID, quantity))
	if err != nil {
		return nil, db.MapError(err, "cart item")
	}
	return i, nil
}

// Lines returns the user's cart with product details.
func (r *PGRepository) Lines(ctx context.Context, userID int64) ([]Line, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.user_id, c.merch_id, c.quantity, c.created_at, c.updated_at,
       m.name, m.price, m.image_url, m.is_available
FROM cart c
JOIN merches m ON m.id = c.merch_id
WHERE c.user_id = $1
ORDER BY c.created_at, c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: lines: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.UserID, &l.MerchID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
			&l.Name, &l.Price, &l.ImageURL, &l.Available); err != nil {
			return nil, fmt.Errorf("cart: scan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Remove deletes a line. Removing an absent line is not an error.
func (r *PGRepository) Remove(ctx context.Context, userID, merchID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart WHERE user_id = $1 AND merch_id = $2`, userID, merchID)
	return err
}

var _ Repository = (*PGRepository)(nil)
