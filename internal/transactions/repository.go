package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for transactions.
type Repository interface {
	Get(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, int, error)
	// FailStale marks pending transactions created before cutoff as failed.
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
}

const transactionColumns = `id, user_id, amount, transaction_type, status, payment_method, external_id, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Status, &t.PaymentMethod, &t.ExternalID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get fetches a transaction by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "transaction")
	}
	return t, nil
}

// List returns newest-first transactions and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	var cond db.Conditions
	if filter.UserID > 0 {
		cond.Add("user_id = $%d", filter.UserID)
	}
	if filter.Status != "" {
		cond.Add("status = $%d", string(filter.Status))
	}
	if filter.Type != "" {
		cond.Add("transaction_type = $%d", string(filter.Type))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("transactions: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions `+cond.Where()+` ORDER BY created_at DESC, id DESC `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("transactions: list: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("transactions: scan: %w", err)
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// FailStale implements Repository.
func (r *PGRepository) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE transactions SET status = 'failed', updated_at = NOW()
WHERE status = 'pending' AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("transactions: fail stale: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
