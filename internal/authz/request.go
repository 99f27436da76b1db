package authz

import (
	"context"
	"net/http"

	"github.com/sportportal/portal/internal/platform/httpx"
)

// PrincipalFromRequest is PrincipalFromContext for handlers; a missing
// principal maps to 401.
func PrincipalFromRequest(r *http.Request) (Principal, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return Principal{}, httpx.ErrUnauthorized
	}
	return p, nil
}

// LoadScoped runs RequireScoped and returns the record, reading storage at
// most once.
func LoadScoped[T Ownable](ctx context.Context, find func(context.Context, int64) (T, error), id int64, p Principal, resource Resource, action Action) (T, error) {
	var (
		record T
		loaded bool
	)
	lookup := func(ctx context.Context, id int64) (Ownable, error) {
		r, err := find(ctx, id)
		if err != nil {
			return nil, err
		}
		record, loaded = r, true
		return r, nil
	}
	if err := RequireScoped(ctx, lookup, id, p, resource, action); err != nil {
		var zero T
		return zero, err
	}
	if loaded {
		return record, nil
	}
	return find(ctx, id)
}
