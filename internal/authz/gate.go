package authz

// Require checks every action in order and fails on the first one the role
// table does not allow. The principal is returned so call sites can chain.
func Require(p Principal, resource Resource, actions ...Action) (Principal, error) {
	for _, action := range actions {
		if !Allow(p, resource, action) {
			return Principal{}, &ForbiddenError{Action: action, Resource: resource}
		}
	}
	return p, nil
}

// RequireRole passes superusers and principals whose role is listed.
func RequireRole(p Principal, roles ...Role) (Principal, error) {
	if bypass(p) {
		return p, nil
	}
	for _, r := range roles {
		if p.Role == r {
			return p, nil
		}
	}
	return Principal{}, roleRequirement(roles)
}

// RequireSuperuser only passes the superuser flag. No role substitutes for it.
func RequireSuperuser(p Principal) (Principal, error) {
	if !p.Superuser {
		return Principal{}, &ForbiddenError{Reason: "superuser access required"}
	}
	return p, nil
}

// RequireAdminOrSuperuser guards the admin console.
func RequireAdminOrSuperuser(p Principal) (Principal, error) {
	if bypass(p) || p.Role == RoleAdmin {
		return p, nil
	}
	return Principal{}, &ForbiddenError{Reason: "admin or superuser access required"}
}
