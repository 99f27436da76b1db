package authz

import (
	"fmt"
	"strings"

	"github.com/sportportal/portal/internal/platform/httpx"
)

var (
	// ErrForbidden is the sentinel every denial unwraps to.
	ErrForbidden = httpx.ErrForbidden
	// ErrNotFound is returned by ownership checks on missing records.
	ErrNotFound = httpx.ErrNotFound
)

// ForbiddenError names what was denied.
type ForbiddenError struct {
	Action   Action
	Resource Resource
	Reason   string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("you don't have permission to %s %s", e.Action, e.Resource)
}

// Unwrap lets errors.Is(err, ErrForbidden) match.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func roleRequirement(roles []Role) *ForbiddenError {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return &ForbiddenError{Reason: "this endpoint requires one of these roles: " + strings.Join(names, ", ")}
}
