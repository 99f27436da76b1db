package merch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/shared"
)

// ExportLimit caps the rows a CSV export returns.
const ExportLimit = 10000

// Service handles marketplace business rules.
type Service struct {
	repo   Repository
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds Service instance. audit may be nil.
func NewService(repo Repository, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List is the public catalogue.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one listing.
func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.Get(ctx, id)
}

// Mine lists products owned by p.
func (s *Service) Mine(ctx context.Context, p authz.Principal, window shared.Window) ([]Item, int, error) {
	if _, err := authz.Require(p, authz.ResourceMerches, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, ListFilter{OwnerID: p.ID, Window: window})
}

// Create lists a product owned by p.
func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (*Item, error) {
	if _, err := authz.Require(p, authz.ResourceMerches, authz.ActionCreate); err != nil {
		return nil, err
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return s.repo.Create(ctx, NewItem{
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		IsAvailable: available,
		OwnerID:     p.ID,
	})
}

// Update edits a listing. Athletes may only edit their own.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, in UpdateInput) (*Item, error) {
	if _, err := authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceMerches, authz.ActionUpdate); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, Changes{
		Name:        in.Name,
		Brand:       in.Brand,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable,
	})
}

// Delete removes a listing. Athletes may only delete their own.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if _, err := authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceMerches, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export returns the filtered catalogue for a CSV download.
func (s *Service) Export(ctx context.Context, p authz.Principal, filter ListFilter) ([]Item, error) {
	if _, err := authz.Require(p, authz.ResourceMerches, authz.ActionExport); err != nil {
		return nil, err
	}
	filter.Window = shared.Window{Limit: ExportLimit}
	items, _, err := s.repo.List(ctx, filter)
	return items, err
}

// BulkDelete removes several listings at once.
func (s *Service) BulkDelete(ctx context.Context, p authz.Principal, ids []int64) (int64, error) {
	if _, err := authz.Require(p, authz.ResourceMerches, authz.ActionBulkDelete); err != nil {
		return 0, err
	}
	var owner int64
	if authz.OwnerScoped(p, authz.ResourceMerches) {
		owner = p.ID
	}
	deleted, err := s.repo.DeleteMany(ctx, ids, owner)
	if err != nil {
		return 0, err
	}
	if s.audit != nil {
		for _, id := range deleted {
			if err := s.audit.Record(ctx, shared.AuditLog{ActorID: p.ID, Action: "merch_bulk_deleted", Entity: "merches", EntityID: id}); err != nil {
				s.logger.Warn("audit bulk delete", slog.Int64("id", id), slog.Any("error", err))
			}
		}
	}
	return int64(len(deleted)), nil
}

// Count returns the number of listings.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
