package authz

// Allow reports whether p may perform action on resource. Superusers are
// always allowed; everyone else is limited to the role table. Instance
// ownership is checked separately by RequireOwner.
func Allow(p Principal, resource Resource, action Action) bool {
	if bypass(p) {
		return true
	}
	return PermissionsFor(p.Role, resource).Has(action)
}

// bypass is the single superuser override shared by Allow, IsOwner and the
// admin console.
func bypass(p Principal) bool {
	return p.Superuser
}
