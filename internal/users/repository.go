package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	Get(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user NewUser) (*User, error)
	Update(ctx context.Context, id int64, changes Changes) (*User, error)
	Delete(ctx context.Context, id int64) error
}

const userColumns = `id, email, full_name, phone, sport_type, location, bio, password_hash, role, is_superuser, is_active, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.SportType, &u.Location, &u.Bio,
		&u.PasswordHash, &u.Role, &u.IsSuperuser, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Get fetches an account by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "user")
	}
	return u, nil
}

// GetByEmail fetches an account by case-insensitive email.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, db.MapError(err, "user")
	}
	return u, nil
}

// List returns a page of accounts and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]User, int, error) {
	var cond db.Conditions
	if filter.OnlyID > 0 {
		cond.Add("id = $%d", filter.OnlyID)
	}
	if filter.Role != nil {
		cond.Add("role = $%d", string(*filter.Role))
	}
	if filter.IsActive != nil {
		cond.Add("is_active = $%d", *filter.IsActive)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond.Add("(email ILIKE $%d OR full_name ILIKE $%d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users `+cond.Where()+` ORDER BY id `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

// Count returns the number of accounts.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// Create inserts an account.
func (r *PGRepository) Create(ctx context.Context, nu NewUser) (*User, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO users (email, full_name, phone, sport_type, location, bio, password_hash, role, is_superuser, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+userColumns,
		nu.Email, nu.FullName, nu.Phone, nu.SportType, nu.Location, nu.Bio, nu.PasswordHash, string(nu.Role), nu.IsSuperuser, nu.IsActive)
	u, err := scanUser(row)
	if err != nil {
		return nil, db.MapError(err, "user with this email")
	}
	return u, nil
}

// Update applies changes and returns the stored account.
func (r *PGRepository) Update(ctx context.Context, id int64, c Changes) (*User, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if c.Email != nil {
		set("email", *c.Email)
	}
	if c.FullName != nil {
		set("full_name", *c.FullName)
	}
	if c.Phone != nil {
		set("phone", *c.Phone)
	}
	if c.SportType != nil {
		set("sport_type", *c.SportType)
	}
	if c.Location != nil {
		set("location", *c.Location)
	}
	if c.Bio != nil {
		set("bio", *c.Bio)
	}
	if c.PasswordHash != nil {
		set("password_hash", *c.PasswordHash)
	}
	if c.Role != nil {
		set("role", string(*c.Role))
	}
	if c.IsSuperuser != nil {
		set("is_superuser", *c.IsSuperuser)
	}
	if c.IsActive != nil {
		set("is_active", *c.IsActive)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, db.MapError(err, "user")
	}
	return u, nil
}

// Delete removes an account.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "user")
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
