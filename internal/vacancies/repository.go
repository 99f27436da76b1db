package vacancies

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for vacancies.
type Repository interface {
	Get(ctx context.Context, id int64) (*Vacancy, error)
	List(ctx context.Context, filter ListFilter) ([]Vacancy, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, v Vacancy) (*Vacancy, error)
	Update(ctx context.Context, id int64, changes UpdateInput) (*Vacancy, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}

const columns = `id, title, description, company, image_url, location, salary_range, contact, is_active, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scan(row pgx.Row) (*Vacancy, error) {
	var v Vacancy
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Company, &v.ImageURL, &v.Location,
		&v.SalaryRange, &v.Contact, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Get fetches a vacancy by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Vacancy, error) {
	v, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM job_vacancies WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "job vacancy")
	}
	return v, nil
}

// List returns newest-first vacancies and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Vacancy, int, error) {
	var cond db.Conditions
	if filter.IsActive != nil {
		cond.Add("is_active = $%d", *filter.IsActive)
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		cond.Add("location ILIKE $%d", "%"+l+"%")
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond.Add("(title ILIKE $%d OR description ILIKE $%d OR company ILIKE $%d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_vacancies `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("vacancies: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM job_vacancies `+cond.Where()+` ORDER BY created_at DESC, id DESC `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("vacancies: list: %w", err)
	}
	defer rows.Close()

	var out []Vacancy
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("vacancies: scan: %w", err)
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

// Count returns the number of vacancies.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_vacancies`).Scan(&n)
	return n, err
}

// Create inserts a vacancy.
func (r *PGRepository) Create(ctx context.Context, in Vacancy) (*Vacancy, error) {
	v, err := scan(r.db.QueryRow(ctx, `INSERT INTO job_vacancies (title, description, company, image_url, location, salary_range, contact, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+columns,
		in.Title, in.Description, in.Company, in.ImageURL, in.Location, in.SalaryRange, in.Contact, in.IsActive))
	if err != nil {
		return nil, db.MapError(err, "job vacancy")
	}
	return v, nil
}

// Update applies changes and returns the stored vacancy.
func (r *PGRepository) Update(ctx context.Context, id int64, c UpdateInput) (*Vacancy, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if c.Title != nil {
		set("title", *c.Title)
	}
	if c.Description != nil {
		set("description", *c.Description)
	}
	if c.Company != nil {
		set("company", *c.Company)
	}
	if c.ImageURL != nil {
		set("image_url", *c.ImageURL)
	}
	if c.Location != nil {
		set("location", *c.Location)
	}
	if c.SalaryRange != nil {
		set("salary_range", *c.SalaryRange)
	}
	if c.Contact != nil {
		set("contact", *c.Contact)
	}
	if c.IsActive != nil {
		set("is_active", *c.IsActive)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE job_vacancies SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), columns)
	v, err := scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, db.MapError(err, "job vacancy")
	}
	return v, nil
}

// Delete removes a vacancy.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_vacancies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "job vacancy")
	}
	return nil
}

// DeleteMany removes the listed vacancies.
func (r *PGRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_vacancies WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("vacancies: bulk delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
