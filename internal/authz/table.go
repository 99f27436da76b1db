package authz

var allActions = newActionSet(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionExport, ActionBulkDelete)

var (
	readOnly = newActionSet(ActionRead)
	crud     = newActionSet(ActionCreate, ActionRead, ActionUpdate, ActionDelete)
	noAccess = newActionSet()
)

// rolePermissions is populated once and never written after init. Superusers
// never reach it.
var rolePermissions = map[Role]map[Resource]ActionSet{
	RoleAdmin: {
		ResourceNews:         allActions,
		ResourceMerches:      allActions,
		ResourceEducation:    allActions,
		ResourceJobVacancies: allActions,

		ResourceUsers:        readOnly,
		ResourceAIChats:      readOnly,
		ResourceCart:         readOnly,
		ResourceFavorites:    readOnly,
		ResourceTransactions: readOnly,
	},
	RoleAthlete: {
		ResourceUsers:        readOnly,
		ResourceNews:         readOnly,
		ResourceMerches:      crud,
		ResourceEducation:    readOnly,
		ResourceJobVacancies: readOnly,
		ResourceAIChats:      newActionSet(ActionCreate, ActionRead),
		ResourceCart:         crud,
		ResourceFavorites:    crud,
		ResourceTransactions: readOnly,
	},
	RoleTrainer: {
		ResourceUsers:        readOnly,
		ResourceNews:         readOnly,
		ResourceMerches:      readOnly,
		ResourceEducation:    readOnly,
		ResourceJobVacancies: readOnly,
		ResourceAIChats:      newActionSet(ActionCreate, ActionRead),
		ResourceCart:         crud,
		ResourceFavorites:    crud,
		ResourceTransactions: readOnly,
	},
	RoleObserver: {
		ResourceUsers:        readOnly,
		ResourceNews:         readOnly,
		ResourceMerches:      readOnly,
		ResourceEducation:    readOnly,
		ResourceJobVacancies: readOnly,
		ResourceAIChats:      noAccess,
		ResourceCart:         noAccess,
		ResourceFavorites:    noAccess,
		ResourceTransactions: noAccess,
	},
}

// PermissionsFor returns the actions role may perform on resource. Unknown
// pairs yield an empty set. Callers must not mutate the result.
func PermissionsFor(role Role, resource Resource) ActionSet {
	byResource, ok := rolePermissions[role]
	if !ok {
		return noAccess
	}
	set, ok := byResource[resource]
	if !ok {
		return noAccess
	}
	return set
}
