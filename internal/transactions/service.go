package transactions

import (
	"context"
	"log/slog"
	"time"

	"github.com/sportportal/portal/internal/authz"
)

// PendingTTL is how long a payment may stay pending before ExpireStale
// fails it.
const PendingTTL = 24 * time.Hour

// Service is the read side of the payment ledger.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns transactions visible to p. Owner-scoped roles only ever see
// their own, whatever filter.UserID says.
func (s *Service) List(ctx context.Context, p authz.Principal, filter ListFilter) ([]Transaction, int, error) {
	if _, err := authz.Require(p, authz.ResourceTransactions, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	if authz.OwnerScoped(p, authz.ResourceTransactions) {
		filter.UserID = p.ID
	}
	return s.repo.List(ctx, filter)
}

// Get returns one transaction if p may read it.
func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Transaction, error) {
	return authz.LoadScoped(ctx, s.repo.Get, id, p, authz.ResourceTransactions, authz.ActionRead)
}

// ExpireStale fails pending payments older than PendingTTL. It runs from
// the worker, outside any caller's permissions.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repo.FailStale(ctx, s.now().Add(-PendingTTL))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("stale payments failed", slog.Int64("count", n))
	}
	return n, nil
}
