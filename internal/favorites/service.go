package favorites

import (
	"context"

	"github.com/sportportal/portal/internal/authz"
)

// Service handles like/unlike for the caller.
type Service struct {
	repo   Repository
	merchs MerchLookup
}

// NewService builds Service instance.
func NewService(repo Repository, merchs MerchLookup) *Service {
	return &Service{repo: repo, merchs: merchs}
}

// Toggle likes merchID, or unlikes it when p already liked it. Liking needs
// favorites:create, unliking favorites:delete.
func (s *Service) Toggle(ctx context.Context, p authz.Principal, merchID int64) (Status, error) {
	if _, err := authz.Require(p, authz.ResourceFavorites, authz.ActionRead); err != nil {
		return "", err
	}
	if _, err := s.merchs.Get(ctx, merchID); err != nil {
		return "", err
	}
	return s.repo.Toggle(ctx, p.ID, merchID, func(liking bool) error {
		action := authz.ActionDelete
		if liking {
			action = authz.ActionCreate
		}
		_, err := authz.Require(p, authz.ResourceFavorites, action)
		return err
	})
}

// List returns p's liked products.
func (s *Service) List(ctx context.Context, p authz.Principal) ([]Favorite, error) {
	if _, err := authz.Require(p, authz.ResourceFavorites, authz.ActionRead); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Favorite{}
	}
	return items, nil
}
