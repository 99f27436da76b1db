package news

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// ExportLimit caps the rows a CSV export returns.
const ExportLimit = 10000

// Service handles article business rules.
type Service struct {
	repo   Repository
	audit  shared.AuditRecorder
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance. audit may be nil.
func NewService(repo Repository, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// List is the public article feed.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Article, int, error) {
	return s.repo.List(ctx, filter)
}

// Detail returns an article and counts the view.
func (s *Service) Detail(ctx context.Context, id int64) (*Article, error) {
	return s.repo.IncrementViews(ctx, id)
}

// Mine lists articles written by p.
func (s *Service) Mine(ctx context.Context, p authz.Principal, window shared.Window) ([]Article, int, error) {
	if _, err := authz.Require(p, authz.ResourceNews, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, ListFilter{AuthorID: p.ID, Window: window})
}

// Create publishes an article authored by p.
func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (*Article, error) {
	if _, err := authz.Require(p, authz.ResourceNews, authz.ActionCreate); err != nil {
		return nil, err
	}
	category := CategoryGeneral
	if in.Category != "" {
		c, ok := ParseCategory(in.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", httpx.ErrValidation, in.Category)
		}
		category = c
	}
	slug, err := s.uniqueSlug(ctx, in.Title, "")
	if err != nil {
		return nil, err
	}
	snippet := strings.TrimSpace(in.Snippet)
	if snippet == "" {
		snippet = makeSnippet(in.Content)
	}
	return s.repo.Create(ctx, NewArticle{
		Title:    strings.TrimSpace(in.Title),
		Slug:     slug,
		Content:  in.Content,
		Snippet:  snippet,
		ImageURL: in.ImageURL,
		Category: category,
		AuthorID: p.ID,
	})
}

// Update edits an article. Owner-scoped roles may only edit their own.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, in UpdateInput) (*Article, error) {
	current, err := authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceNews, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	changes := Changes{Content: in.Content, Snippet: in.Snippet, ImageURL: in.ImageURL}
	if in.Category != nil {
		c, ok := ParseCategory(*in.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", httpx.ErrValidation, *in.Category)
		}
		changes.Category = &c
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		changes.Title = &title
		if title != current.Title {
			slug, err := s.uniqueSlug(ctx, title, current.Slug)
			if err != nil {
				return nil, err
			}
			changes.Slug = &slug
		}
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete removes an article. Owner-scoped roles may only delete their own.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if _, err := authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceNews, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export returns the filtered articles for a CSV download.
func (s *Service) Export(ctx context.Context, p authz.Principal, filter ListFilter) ([]Article, error) {
	if _, err := authz.Require(p, authz.ResourceNews, authz.ActionExport); err != nil {
		return nil, err
	}
	filter.Window = shared.Window{Limit: ExportLimit}
	items, _, err := s.repo.List(ctx, filter)
	return items, err
}

// BulkDelete removes several articles at once.
func (s *Service) BulkDelete(ctx context.Context, p authz.Principal, ids []int64) (int64, error) {
	if _, err := authz.Require(p, authz.ResourceNews, authz.ActionBulkDelete); err != nil {
		return 0, err
	}
	var author int64
	if authz.OwnerScoped(p, authz.ResourceNews) {
		author = p.ID
	}
	deleted, err := s.repo.DeleteMany(ctx, ids, author)
	if err != nil {
		return 0, err
	}
	if s.audit != nil {
		for _, id := range deleted {
			if err := s.audit.Record(ctx, shared.AuditLog{ActorID: p.ID, Action: "news_bulk_deleted", Entity: "news", EntityID: id}); err != nil {
				s.logger.Warn("audit bulk delete", slog.Int64("id", id), slog.Any("error", err))
			}
		}
	}
	return int64(len(deleted)), nil
}

// Count returns the number of articles.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// uniqueSlug derives a slug from title. On collision the current unix time
// is appended, then a counter. keep is the article's own slug, which never
// counts as a collision.
func (s *Service) uniqueSlug(ctx context.Context, title, keep string) (string, error) {
	base := shared.Slugify(title)
	candidate := base
	for attempt := 0; ; attempt++ {
		if candidate == keep {
			return candidate, nil
		}
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("news: check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		stamp := strconv.FormatInt(s.now().Unix(), 10)
		if attempt == 0 {
			candidate = base + "-" + stamp
		} else {
			candidate = fmt.Sprintf("%s-%s-%d", base, stamp, attempt+1)
		}
	}
}
