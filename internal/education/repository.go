package education

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for the directory.
type Repository interface {
	Get(ctx context.Context, id int64) (*Institution, error)
	List(ctx context.Context, filter ListFilter) ([]Institution, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, inst Institution) (*Institution, error)
	Update(ctx context.Context, id int64, changes Fields) (*Institution, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}

const columns = `id, name, description, region, type, address, working_hours, image_url, phone, rating, maps_link, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scan(row pgx.Row) (*Institution, error) {
	var i Institution
	if err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Region, &i.Type, &i.Address, &i.WorkingHours,
		&i.ImageURL, &i.Phone, &i.Rating, &i.MapsLink, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// Get fetches an institution by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Institution, error) {
	i, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM education WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "education institution")
	}
	return i, nil
}

// List returns newest-first institutions and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Institution, int, error) {
	var cond db.Conditions
	if filter.Region != nil {
		cond.Add("region = $%d", string(*filter.Region))
	}
	if filter.Type != nil {
		cond.Add("type = $%d", string(*filter.Type))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond.Add("(name ILIKE $%d OR description ILIKE $%d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM education `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("education: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM education `+cond.Where()+` ORDER BY created_at DESC, id DESC `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("education: list: %w", err)
	}
	defer rows.Close()

	var out []Institution
	for rows.Next() {
		i, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("education: scan: %w", err)
		}
		out = append(out, *i)
	}
	return out, total, rows.Err()
}

// Count returns the number of institutions.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM education`).Scan(&n)
	return n, err
}

// Create inserts an institution.
func (r *PGRepository) Create(ctx context.Context, in Institution) (*Institution, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO education (name, description, region, type, address, working_hours, image_url, phone, rating, maps_link)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+columns,
		in.Name, in.Description, string(in.Region), string(in.Type), in.Address, in.WorkingHours,
		in.ImageURL, in.Phone, in.Rating, in.MapsLink)
	i, err := scan(row)
	if err != nil {
		return nil, db.MapError(err, "education institution")
	}
	return i, nil
}

// Update applies changes and returns the stored institution.
func (r *PGRepository) Update(ctx context.Context, id int64, f Fields) (*Institution, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Name != nil {
		set("name", *f.Name)
	}
	if f.Description != nil {
		set("description", *f.Description)
	}
	if f.Region != nil {
		set("region", *f.Region)
	}
	if f.Type != nil {
		set("type", *f.Type)
	}
	if f.Address != nil {
		set("address", *f.Address)
	}
	if f.WorkingHours != nil {
		set("working_hours", *f.WorkingHours)
	}
	if f.ImageURL != nil {
		set("image_url", *f.ImageURL)
	}
	if f.Phone != nil {
		set("phone", *f.Phone)
	}
	if f.Rating != nil {
		set("rating", *f.Rating)
	}
	if f.MapsLink != nil {
		set("maps_link", *f.MapsLink)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE education SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), columns)
	i, err := scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, db.MapError(err, "education institution")
	}
	return i, nil
}

// Delete removes an institution.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM education WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "education institution")
	}
	return nil
}

// DeleteMany removes the listed institutions.
func (r *PGRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM education WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("education: bulk delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
