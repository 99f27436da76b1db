package aichat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/shared"
)

// Service runs chat exchanges.
type Service struct {
	repo      Repository
	responder Responder
}

// NewService builds Service instance. A nil responder falls back to
// CannedResponder.
func NewService(repo Repository, responder Responder) *Service {
	if responder == nil {
		responder = CannedResponder{}
	}
	return &Service{repo: repo, responder: responder}
}

// Chat stores p's message together with the buddy's reply.
func (s *Service) Chat(ctx context.Context, p authz.Principal, message string) (*Chat, error) {
	if _, err := authz.Require(p, authz.ResourceAIChats, authz.ActionCreate); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	reply, err := s.responder.Reply(ctx, p.ID, message)
	if err != nil {
		return nil, fmt.Errorf("aichat: reply: %w", err)
	}
	return s.repo.Create(ctx, p.ID, message, reply)
}

// History lists exchanges of userID, or of p when userID is zero. Reading
// someone else's history needs admin or superuser.
func (s *Service) History(ctx context.Context, p authz.Principal, userID int64, window shared.Window) ([]Chat, int, error) {
	if _, err := authz.Require(p, authz.ResourceAIChats, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	target := p.ID
	if userID != 0 && userID != p.ID {
		if _, err := authz.RequireAdminOrSuperuser(p); err != nil {
			return nil, 0, err
		}
		target = userID
	}
	return s.repo.History(ctx, target, window)
}
