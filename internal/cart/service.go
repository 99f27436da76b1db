package cart

import (
	"context"

	"github.com/sportportal/portal/internal/authz"
)

// Service handles cart rules. Every operation acts on the caller's own cart.
type Service struct {
	repo   Repository
	merchs MerchLookup
}

// NewService builds Service instance.
func NewService(repo Repository, merchs MerchLookup) *Service {
	return &Service{repo: repo, merchs: merchs}
}

// Add puts one unit of merchID in p's cart.
func (s *Service) Add(ctx context.Context, p authz.Principal, merchID int64) (*Item, error) {
	if _, err := authz.Require(p, authz.ResourceCart, authz.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := s.merchs.Get(ctx, merchID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, p.ID, merchID)
}

// SetQuantity changes how many units of merchID p wants.
func (s *Service) SetQuantity(ctx context.Context, p authz.Principal, merchID int64, quantity int) (*Item, error) {
	if _, err := authz.Require(p, authz.ResourceCart, authz.ActionUpdate); err != nil {
		return nil, err
	}
	return s.repo.SetQuantity(ctx, p.ID, merchID, quantity)
}

// View returns p's cart with totals.
func (s *Service) View(ctx context.Context, p authz.Principal) (Summary, error) {
	if _, err := authz.Require(p, authz.ResourceCart, authz.ActionRead); err != nil {
		return Summary{}, err
	}
	lines, err := s.repo.Lines(ctx, p.ID)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Items: lines}
	if sum.Items == nil {
		sum.Items = []Line{}
	}
	for _, l := range lines {
		sum.Quantity += l.Quantity
		sum.Total += l.Price * int64(l.Quantity)
	}
	return sum, nil
}

// Remove drops merchID from p's cart.
func (s *Service) Remove(ctx context.Context, p authz.Principal, merchID int64) error {
	if _, err := authz.Require(p, authz.ResourceCart, authz.ActionDelete); err != nil {
		return err
	}
	return s.repo.Remove(ctx, p.ID, merchID)
}
