package aichat

import (
	"context"
	"fmt"

	"github.com/sportportal/portal/internal/platform/db"
	"github.com/sportportal/portal/internal/shared"
)

// Repository defines persistence operations for chats.
type Repository interface {
	Create(ctx context.Context, userID int64, message, response string) (*Chat, error)
	History(ctx context.Context, userID int64, window shared.Window) ([]Chat, int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

// Create stores an exchange.
func (r *PGRepository) Create(ctx context.Context, userID int64, message, response string) (*Chat, error) {
	c := Chat{UserID: userID, Message: message, Response: response}
	err := r.db.QueryRow(ctx, `INSERT INTO ai_chats (user_id, message, response) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, message, response).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, db.MapError(err, "chat")
	}
	return &c, nil
}

// History returns a user's exchanges, newest first.
func (r *PGRepository) History(ctx context.Context, userID int64, window shared.Window) ([]Chat, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ai_chats WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("aichat: count: %w", err)
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, message, response, created_at FROM ai_chats
WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, userID, window.Limit, window.Skip)
	if err != nil {
		return nil, 0, fmt.Errorf("aichat: history: %w", err)
	}
	defer rows.Close()

	var out []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Response, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("aichat: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
