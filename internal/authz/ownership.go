package authz

import (
	"context"
	"fmt"
)

// Ownable is implemented by records that remember who created them. The
// owner is fixed at creation.
type Ownable interface {
	OwnerID() int64
}

// OwnerLookup loads a record by id. It must return an error matching
// ErrNotFound when nothing exists and should run inside whatever
// connection or transaction the caller already holds.
type OwnerLookup func(ctx context.Context, id int64) (Ownable, error)

// ownerScoped lists, per resource, the roles whose access is limited to the
// instances they own.
var ownerScoped = map[Resource]map[Role]struct{}{
	ResourceNews:         {RoleTrainer: {}},
	ResourceMerches:      {RoleAthlete: {}},
	ResourceUsers:        {RoleAthlete: {}, RoleTrainer: {}, RoleObserver: {}},
	ResourceTransactions: {RoleAthlete: {}, RoleTrainer: {}},
}

// OwnerScoped reports whether p must own an instance of resource before
// changing it. Superusers are never scoped.
func OwnerScoped(p Principal, resource Resource) bool {
	if bypass(p) {
		return false
	}
	_, ok := ownerScoped[resource][p.Role]
	return ok
}

// IsOwner reports whether p owns the record identified by id. Superusers own
// everything and never hit storage.
func IsOwner(ctx context.Context, lookup OwnerLookup, id int64, p Principal) (bool, error) {
	if bypass(p) {
		return true, nil
	}
	record, err := lookup(ctx, id)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, fmt.Errorf("authz: record %d: %w", id, ErrNotFound)
	}
	return record.OwnerID() == p.ID, nil
}

// RequireOwner turns a negative ownership answer into a ForbiddenError.
// Missing records surface as ErrNotFound, not as a denial.
func RequireOwner(ctx context.Context, lookup OwnerLookup, id int64, p Principal, resource Resource, action Action) error {
	owned, err := IsOwner(ctx, lookup, id, p)
	if err != nil {
		return err
	}
	if !owned {
		return &ForbiddenError{
			Action:   action,
			Resource: resource,
			Reason:   fmt.Sprintf("you can only %s your own %s", action, resource),
		}
	}
	return nil
}

// RequireScoped is the endpoint-level pair of checks: role table first, then
// ownership when the caller's role is owner-scoped for resource.
func RequireScoped(ctx context.Context, lookup OwnerLookup, id int64, p Principal, resource Resource, action Action) error {
	if _, err := Require(p, resource, action); err != nil {
		return err
	}
	if !OwnerScoped(p, resource) {
		return nil
	}
	return RequireOwner(ctx, lookup, id, p, resource, action)
}
