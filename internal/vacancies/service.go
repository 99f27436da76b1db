package vacancies

import (
	"context"
	"strings"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/shared"
)

// ExportLimit caps the rows a CSV export returns.
const ExportLimit = 10000

// Service handles vacancy rules.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List is the public job board.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Vacancy, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one vacancy.
func (s *Service) Get(ctx context.Context, id int64) (*Vacancy, error) {
	return s.repo.Get(ctx, id)
}

// Create posts a vacancy, active unless stated otherwise.
func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (*Vacancy, error) {
	if _, err := authz.Require(p, authz.ResourceJobVacancies, authz.ActionCreate); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.repo.Create(ctx, Vacancy{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Company:     strings.TrimSpace(in.Company),
		ImageURL:    in.ImageURL,
		Location:    in.Location,
		SalaryRange: in.SalaryRange,
		Contact:     in.Contact,
		IsActive:    active,
	})
}

// Update edits a vacancy.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, in UpdateInput) (*Vacancy, error) {
	if _, err := authz.Require(p, authz.ResourceJobVacancies, authz.ActionUpdate); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a vacancy.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if _, err := authz.Require(p, authz.ResourceJobVacancies, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export returns the filtered board for a CSV download.
func (s *Service) Export(ctx context.Context, p authz.Principal, filter ListFilter) ([]Vacancy, error) {
	if _, err := authz.Require(p, authz.ResourceJobVacancies, authz.ActionExport); err != nil {
		return nil, err
	}
	filter.Window = shared.Window{Limit: ExportLimit}
	items, _, err := s.repo.List(ctx, filter)
	return items, err
}

// BulkDelete removes several vacancies at once.
func (s *Service) BulkDelete(ctx context.Context, p authz.Principal, ids []int64) (int64, error) {
	if _, err := authz.Require(p, authz.ResourceJobVacancies, authz.ActionBulkDelete); err != nil {
		return 0, err
	}
	return s.repo.DeleteMany(ctx, ids)
}

// Count returns the number of vacancies.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
