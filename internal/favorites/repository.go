package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for favorites.
type Repository interface {
	// Toggle flips the (user, merch) like. allow is consulted with the
	// direction before anything is written; its error aborts the toggle.
	Toggle(ctx context.Context, userID, merchID int64, allow func(liking bool) error) (Status, error)
	List(ctx context.Context, userID int64) ([]Favorite, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.TxDB
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.TxDB) *PGRepository {
	return &PGRepository{db: conn}
}

// Toggle runs the existence check and the write in one transaction.
func (r *PGRepository) Toggle(ctx context.Context, userID, merchID int64, allow func(liking bool) error) (Status, error) {
	var status Status
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `SELECT id FROM favorites WHERE user_id = $1 AND merch_id = $2 FOR UPDATE`,
			userID, merchID).Scan(&id)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("favorites: lookup: %w", err)
		}
		exists := err == nil
		if err := allow(!exists); err != nil {
			return err
		}
		if exists {
			if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id); err != nil {
				return fmt.Errorf("favorites: unlike: %w", err)
			}
			status = StatusUnliked
			return nil
		}
		if _, err := tx.Exec(ctx, `INSERT INTO favorites (user_id, merch_id) VALUES ($1, $2) ON CONFLICT (user_id, merch_id) DO NOTHING`,
			userID, merchID); err != nil {
			return db.MapError(err, "favorite")
		}
		status = StatusLiked
		return nil
	})
	return status, err
}

// List returns the user's liked products, newest first.
func (r *PGRepository) List(ctx context.Context, userID int64) ([]Favorite, error) {
	rows, err := r.db.Query(ctx, `SELECT f.id, f.user_id, f.merch_id, m.name, m.price, m.image_url, f.created_at
FROM favorites f
JOIN merches m ON m.id = f.merch_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites: list: %w", err)
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.MerchID, &f.Name, &f.Price, &f.ImageURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("favorites: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
