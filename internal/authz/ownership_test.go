package authz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ownedRecord struct{ owner int64 }

func (o ownedRecord) OwnerID() int64 { return o.owner }

type countingLookup struct {
	records map[int64]ownedRecord
	calls   int
}

func (c *countingLookup) find(ctx context.Context, id int64) (Ownable, error) {
	c.calls++
	rec, ok := c.records[id]
	if !ok {
		return nil, fmt.Errorf("merch %d: %w", id, ErrNotFound)
	}
	return rec, nil
}

func TestIsOwnerSuperuserSkipsStorage(t *testing.T) {
	lookup := &countingLookup{}
	owned, err := IsOwner(context.Background(), lookup.find, 99, Principal{ID: 1, Superuser: true})
	require.NoError(t, err)
	assert.True(t, owned)
	assert.Zero(t, lookup.calls)
}

func TestIsOwnerComparesOwner(t *testing.T) {
	lookup := &countingLookup{records: map[int64]ownedRecord{10: {owner: 5}}}

	owned, err := IsOwner(context.Background(), lookup.find, 10, Principal{ID: 5, Role: RoleAthlete})
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = IsOwner(context.Background(), lookup.find, 10, Principal{ID: 6, Role: RoleAthlete})
	require.NoError(t, err)
	assert.False(t, owned)
	assert.Equal(t, 2, lookup.calls)
}

func TestIsOwnerMissingRecordIsNotFound(t *testing.T) {
	lookup := &countingLookup{}
	_, err := IsOwner(context.Background(), lookup.find, 1, Principal{ID: 5, Role: RoleAthlete})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
}

func TestIsOwnerNilRecordIsNotFound(t *testing.T) {
	lookup := func(ctx context.Context, id int64) (Ownable, error) { return nil, nil }
	_, err := IsOwner(context.Background(), lookup, 1, Principal{ID: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequireScopedAthleteMerchNotOwned(t *testing.T) {
	lookup := &countingLookup{records: map[int64]ownedRecord{10: {owner: 5}}}
	p := Principal{ID: 6, Role: RoleAthlete, Active: true}

	// the role table alone allows the update
	assert.True(t, Allow(p, ResourceMerches, ActionUpdate))

	err := RequireScoped(context.Background(), lookup.find, 10, p, ResourceMerches, ActionUpdate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "you can only update your own merches", err.Error())
}

func TestRequireScopedOwnerPasses(t *testing.T) {
	lookup := &countingLookup{records: map[int64]ownedRecord{10: {owner: 5}}}
	err := RequireScoped(context.Background(), lookup.find, 10, Principal{ID: 5, Role: RoleAthlete}, ResourceMerches, ActionDelete)
	assert.NoError(t, err)
}

func TestRequireScopedTableDeniesBeforeLookup(t *testing.T) {
	lookup := &countingLookup{records: map[int64]ownedRecord{10: {owner: 5}}}
	err := RequireScoped(context.Background(), lookup.find, 10, Principal{ID: 5, Role: RoleTrainer}, ResourceMerches, ActionUpdate)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, lookup.calls)
}

func TestRequireScopedAdminIsNotOwnerScoped(t *testing.T) {
	lookup := &countingLookup{records: map[int64]ownedRecord{10: {owner: 5}}}
	err := RequireScoped(context.Background(), lookup.find, 10, Principal{ID: 1, Role: RoleAdmin}, ResourceMerches, ActionUpdate)
	assert.NoError(t, err)
	assert.Zero(t, lookup.calls)
}

func TestOwnerScoped(t *testing.T) {
	assert.True(t, OwnerScoped(Principal{Role: RoleAthlete}, ResourceMerches))
	assert.True(t, OwnerScoped(Principal{Role: RoleTrainer}, ResourceNews))
	assert.True(t, OwnerScoped(Principal{Role: RoleObserver}, ResourceUsers))
	assert.False(t, OwnerScoped(Principal{Role: RoleAdmin}, ResourceUsers))
	assert.False(t, OwnerScoped(Principal{Role: RoleAthlete, Superuser: true}, ResourceMerches))
	assert.False(t, OwnerScoped(Principal{Role: RoleAthlete}, ResourceEducation))
	assert.True(t, OwnerScoped(Principal{Role: RoleTrainer}, ResourceTransactions))
	assert.False(t, OwnerScoped(Principal{Role: RoleAdmin}, ResourceTransactions))
}
