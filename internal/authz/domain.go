// Package authz holds the portal's authorization core: the static
// role/resource permission table, the evaluator, ownership checks and the
// gates endpoints call before doing any work.
package authz

import (
	"sort"
	"strings"
)

// Role is the single category assigned to every account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAthlete  Role = "athlete"
	RoleTrainer  Role = "trainer"
	RoleObserver Role = "observer"
)

// Roles lists every known role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAthlete, RoleTrainer, RoleObserver}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAthlete, RoleTrainer, RoleObserver:
		return true
	}
	return false
}

// ParseRole normalises user input into a Role.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Resource names a protected collection.
type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceNews         Resource = "news"
	ResourceMerches      Resource = "merches"
	ResourceEducation    Resource = "education"
	ResourceJobVacancies Resource = "job_vacancies"
	ResourceAIChats      Resource = "ai_chats"
	ResourceCart         Resource = "cart"
	ResourceFavorites    Resource = "favorites"
	ResourceTransactions Resource = "transactions"
)

// Resources lists every protected collection.
func Resources() []Resource {
	return []Resource{
		ResourceUsers,
		ResourceNews,
		ResourceMerches,
		ResourceEducation,
		ResourceJobVacancies,
		ResourceAIChats,
		ResourceCart,
		ResourceFavorites,
		ResourceTransactions,
	}
}

// Action is an operation category.
type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionExport     Action = "export"
	ActionBulkDelete Action = "bulk_delete"
)

// Actions lists every action.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionExport, ActionBulkDelete}
}

// ActionSet is an immutable-by-convention set of actions.
type ActionSet map[Action]struct{}

func newActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Has reports whether a is in the set. A nil set contains nothing.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Len returns the number of actions.
func (s ActionSet) Len() int {
	return len(s)
}

// Sorted returns the actions in stable order for display.
func (s ActionSet) Sorted() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Principal is the authenticated caller as seen by the authorization core.
type Principal struct {
	ID        int64
	Email     string
	Role      Role
	Superuser bool
	Active    bool
}
