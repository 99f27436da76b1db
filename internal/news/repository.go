package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sportportal/portal/internal/platform/db"
)

// Repository defines persistence operations for articles.
type Repository interface {
	Get(ctx context.Context, id int64) (*Article, error)
	List(ctx context.Context, filter ListFilter) ([]Article, int, error)
	Count(ctx context.Context) (int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, article NewArticle) (*Article, error)
	Update(ctx context.Context, id int64, changes Changes) (*Article, error)
	IncrementViews(ctx context.Context, id int64) (*Article, error)
	Delete(ctx context.Context, id int64) error
	// DeleteMany removes ids, limited to authorID when it is non-zero.
	DeleteMany(ctx context.Context, ids []int64, authorID int64) ([]int64, error)
}

const articleColumns = `id, title, slug, content, snippet, image_url, category, views_count, author_id, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Snippet, &a.ImageURL, &a.Category,
		&a.ViewsCount, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Get fetches an article by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err, "news article")
	}
	return a, nil
}

// List returns newest-first articles and the filtered total.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Article, int, error) {
	var cond db.Conditions
	if filter.Category != nil {
		cond.Add("category = $%d", string(*filter.Category))
	}
	if filter.AuthorID > 0 {
		cond.Add("author_id = $%d", filter.AuthorID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond.Add("(title ILIKE $%d OR content ILIKE $%d)", "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news `+cond.Where(), cond.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("news: count: %w", err)
	}

	page, args := cond.Page(filter.Limit, filter.Skip)
	rows, err := r.db.Query(ctx, `SELECT `+articleColumns+` FROM news `+cond.Where()+` ORDER BY created_at DESC, id DESC `+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("news: list: %w", err)
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("news: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

// Count returns the number of articles.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&n)
	return n, err
}

// SlugExists reports whether slug is taken.
func (r *PGRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM news WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// Create inserts an article.
func (r *PGRepository) Create(ctx context.Context, na NewArticle) (*Article, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO news (title, slug, content, snippet, image_url, category, author_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+articleColumns,
		na.Title, na.Slug, na.Content, na.Snippet, na.ImageURL, string(na.Category), na.AuthorID)
	a, err := scanArticle(row)
	if err != nil {
		return nil, db.MapError(err, "news article with this slug")
	}
	return a, nil
}

// Update applies changes and returns the stored article.
func (r *PGRepository) Update(ctx context.Context, id int64, c Changes) (*Article, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if c.Title != nil {
		set("title", *c.Title)
	}
	if c.Slug != nil {
		set("slug", *c.Slug)
	}
	if c.Content != nil {
		set("content", *c.Content)
	}
	if c.Snippet != nil {
		set("snippet", *c.Snippet)
	}
	if c.ImageURL != nil {
		set("image_url", *c.ImageURL)
	}
	if c.Category != nil {
		set("category", string(*c.Category))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE news SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), articleColumns)
	a, err := scanArticle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, db.MapError(err, "news article")
	}
	return a, nil
}

// IncrementViews bumps the view counter and returns the article.
func (r *PGRepository) IncrementViews(ctx context.Context, id int64) (*Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx,
		`UPDATE news SET views_count = views_count + 1 WHERE id = $1 RETURNING `+articleColumns, id))
	if err != nil {
		return nil, db.MapError(err, "news article")
	}
	return a, nil
}

// Delete removes an article.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "news article")
	}
	return nil
}

// DeleteMany removes the listed articles and returns the ids that were
// actually deleted.
func (r *PGRepository) DeleteMany(ctx context.Context, ids []int64, authorID int64) ([]int64, error) {
	var cond db.Conditions
	cond.Add("id = ANY($%d)", ids)
	if authorID > 0 {
		cond.Add("author_id = $%d", authorID)
	}
	rows, err := r.db.Query(ctx, `DELETE FROM news `+cond.Where()+` RETURNING id`, cond.Args()...)
	if err != nil {
		return nil, fmt.Errorf("news: bulk delete: %w", err)
	}
	deleted, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("news: bulk delete: %w", err)
	}
	return deleted, nil
}

var _ Repository = (*PGRepository)(nil)
