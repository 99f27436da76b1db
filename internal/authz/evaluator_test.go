package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowSuperuserBypassesEveryRole(t *testing.T) {
	roles := append(Roles(), Role("unknown"))
	for _, role := range roles {
		p := Principal{ID: 7, Role: role, Superuser: true, Active: true}
		for _, res := range append(Resources(), Resource("unlisted")) {
			for _, act := range Actions() {
				assert.True(t, Allow(p, res, act), "%s %s %s", role, res, act)
			}
		}
	}
}

func TestAllowScenarios(t *testing.T) {
	cases := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		want     bool
	}{
		{"admin deletes news", RoleAdmin, ResourceNews, ActionDelete, true},
		{"admin bulk deletes job vacancies", RoleAdmin, ResourceJobVacancies, ActionBulkDelete, true},
		{"admin cannot delete users", RoleAdmin, ResourceUsers, ActionDelete, false},
		{"admin cannot add to cart", RoleAdmin, ResourceCart, ActionCreate, false},
		{"athlete updates merch at role level", RoleAthlete, ResourceMerches, ActionUpdate, true},
		{"athlete cannot export merch", RoleAthlete, ResourceMerches, ActionExport, false},
		{"trainer cannot create merch", RoleTrainer, ResourceMerches, ActionCreate, false},
		{"trainer cannot update news", RoleTrainer, ResourceNews, ActionUpdate, false},
		{"trainer chats with ai", RoleTrainer, ResourceAIChats, ActionCreate, true},
		{"observer reads merch", RoleObserver, ResourceMerches, ActionRead, true},
		{"observer has no cart", RoleObserver, ResourceCart, ActionRead, false},
		{"observer has no favorites", RoleObserver, ResourceFavorites, ActionCreate, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Principal{ID: 1, Role: tc.role, Active: true}
			assert.Equal(t, tc.want, Allow(p, tc.resource, tc.action))
		})
	}
}

func TestAllowIsIdempotent(t *testing.T) {
	p := Principal{ID: 3, Role: RoleAthlete, Active: true}
	first := Allow(p, ResourceCart, ActionUpdate)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Allow(p, ResourceCart, ActionUpdate))
	}
	assert.True(t, PermissionsFor(RoleAthlete, ResourceCart).Has(ActionUpdate))
}
