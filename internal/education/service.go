package education

import (
	"context"
	"fmt"
	"strings"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

// ExportLimit caps the rows a CSV export returns.
const ExportLimit = 10000

// Service handles directory rules. No role is owner-scoped here, so the
// role table alone decides.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List is the public directory.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Institution, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one institution.
func (s *Service) Get(ctx context.Context, id int64) (*Institution, error) {
	return s.repo.Get(ctx, id)
}

// Create adds an institution.
func (s *Service) Create(ctx context.Context, p authz.Principal, in CreateInput) (*Institution, error) {
	if _, err := authz.Require(p, authz.ResourceEducation, authz.ActionCreate); err != nil {
		return nil, err
	}
	region, ok := ParseRegion(in.Region)
	if !ok {
		return nil, fmt.Errorf("%w: unknown region %q", httpx.ErrValidation, in.Region)
	}
	inst := Institution{Name: strings.TrimSpace(in.Name), Region: region}
	f := in.Fields
	if f.Description != nil {
		inst.Description = *f.Description
	}
	if f.Type != nil {
		inst.Type = Kind(*f.Type)
	}
	if f.Address != nil {
		inst.Address = *f.Address
	}
	if f.WorkingHours != nil {
		inst.WorkingHours = *f.WorkingHours
	}
	if f.ImageURL != nil {
		inst.ImageURL = *f.ImageURL
	}
	if f.Phone != nil {
		inst.Phone = *f.Phone
	}
	if f.Rating != nil {
		inst.Rating = *f.Rating
	}
	if f.MapsLink != nil {
		inst.MapsLink = *f.MapsLink
	}
	return s.repo.Create(ctx, inst)
}

// Update edits an institution.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, in Fields) (*Institution, error) {
	if _, err := authz.Require(p, authz.ResourceEducation, authz.ActionUpdate); err != nil {
		return nil, err
	}
	if in.Region != nil {
		region, ok := ParseRegion(*in.Region)
		if !ok {
			return nil, fmt.Errorf("%w: unknown region %q", httpx.ErrValidation, *in.Region)
		}
		normalised := string(region)
		in.Region = &normalised
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes an institution.
func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	if _, err := authz.Require(p, authz.ResourceEducation, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export returns the filtered directory for a CSV download.
func (s *Service) Export(ctx context.Context, p authz.Principal, filter ListFilter) ([]Institution, error) {
	if _, err := authz.Require(p, authz.ResourceEducation, authz.ActionExport); err != nil {
		return nil, err
	}
	filter.Window = shared.Window{Limit: ExportLimit}
	items, _, err := s.repo.List(ctx, filter)
	return items, err
}

// BulkDelete removes several institutions at once.
func (s *Service) BulkDelete(ctx context.Context, p authz.Principal, ids []int64) (int64, error) {
	if _, err := authz.Require(p, authz.ResourceEducation, authz.ActionBulkDelete); err != nil {
		return 0, err
	}
	return s.repo.DeleteMany(ctx, ids)
}

// Count returns the number of institutions.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
