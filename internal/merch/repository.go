package merch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for listings.
type Repository interface {
	Get(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, filter ListFilter) ([]Item, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, item NewItem) (*Item, error)
	Update(ctx context.Context, id int64, changes Changes) (*Item, error)
	Delete(ctx context.Context, id int64) error
	// DeleteMany removes ids, limited to ownerID when it is non-zero.
	DeleteMany(ctx context.Context, ids []int64, ownerID int64) ([]int64, error)
}

const itemColumns = `id, name, brand, description, price, stock, image_url, is_available, owner_id, created_at, updated_at`

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
	if err := row.Scan(&i.ID, &i.Name, &i.Brand, &i.Description, &i.Price, &i.Stock, &i.ImageURL,
		&i.IsAvailable, &i.OwnerUserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// Get fetches a listing by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Item, error) {
	i, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM merches WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "merch")
	}
	return i, nil
}

// List returns newest-first listings and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	var cond db.Conditions
	if filter.OwnerID > 0 {
		cond.Add("owner_id = $%d", filter.OwnerID)
	}
	if filter.IsAvailable != nil {
		cond.Add("is_available = $%d", *filter.IsAvailable)
	}
	if b := strings.TrimSpace(filter.Brand); b != "" {
		cond.Add("brand ILIKE $%d", b)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond.Add("(name ILIKE $%d OR description ILIKE $%d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM merches `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("merch: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM merches `+cond.Where()+` ORDER BY created_at DESC, id DESC `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("merch: list: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("merch: scan: %w", err)
		}
		out = append(out, *i)
	}
	return out, total, rows.Err()
}

// Count returns the number of listings.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM merches`).Scan(&n)
	return n, err
}

// Create inserts a listing.
func (r *PGRepository) Create(ctx context.Context, ni NewItem) (*Item, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO merches (name, brand, description, price, stock, image_url, is_available, owner_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+itemColumns,
		ni.Name, ni.Brand, ni.Description, ni.Price, ni.Stock, ni.ImageURL, ni.IsAvailable, ni.OwnerID)
	i, err := scanItem(row)
	if err != nil {
		return nil, db.MapError(err, "merch")
	}
	return i, nil
}

// Update applies changes and returns the stored listing.
func (r *PGRepository) Update(ctx context.Context, id int64, c Changes) (*Item, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if c.Name != nil {
		set("name", *c.Name)
	}
	if c.Brand != nil {
		set("brand", *c.Brand)
	}
	if c.Description != nil {
		set("description", *c.Description)
	}
	if c.Price != nil {
		set("price", *c.Price)
	}
	if c.Stock != nil {
		set("stock", *c.Stock)
	}
	if c.ImageURL != nil {
		set("image_url", *c.ImageURL)
	}
	if c.IsAvailable != nil {
		set("is_available", *c.IsAvailable)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE merches SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), itemColumns)
	i, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, db.MapError(err, "merch")
	}
	return i, nil
}

// Delete removes a listing.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM merches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "merch")
	}
	return nil
}

// DeleteMany removes the listed products and returns the ids that were
// actually deleted.
func (r *PGRepository) DeleteMany(ctx context.Context, ids []int64, ownerID int64) ([]int64, error) {
	var cond db.Conditions
	cond.Add("id = ANY($%d)", ids)
	if ownerID > 0 {
		cond.Add("owner_id = $%d", ownerID)
	}
	rows, err := r.db.Query(ctx, `DELETE FROM merches `+cond.Where()+` RETURNING id`, cond.Args()...)
	if err != nil {
		return nil, fmt.Errorf("merch: bulk delete: %w", err)
	}
	deleted, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("merch: bulk delete: %w", err)
	}
	return deleted, nil
}

var _ Repository = (*PGRepository)(nil)
