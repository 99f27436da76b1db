package merch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/merch"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

func TestCreateOwnedByCaller(t *testing.T) {
	svc := merch.NewService(newMemRepo(), nil, nil)
	it, err := svc.Create(context.Background(), seller, merch.CreateInput{Name: "Kimono", Brand: "Adidas", Price: 450000, Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, seller.ID, it.OwnerUserID)
	assert.True(t, it.IsAvailable)
}

func TestTrainerAndObserverCannotSell(t *testing.T) {
	svc := merch.NewService(newMemRepo(), nil, nil)
	for _, p := range []authz.Principal{coach, observer} {
		_, err := svc.Create(context.Background(), p, merch.CreateInput{Name: "x", Brand: "y", Price: 1})
		assert.ErrorIs(t, err, authz.ErrForbidden, p.Role)
	}
}

func TestAthleteOwnershipOnWrite(t *testing.T) {
	repo := newMemRepo(item(1, seller.ID, "Gloves"))
	svc := merch.NewService(repo, nil, nil)
	ctx := context.Background()
	price := int64(90000)

	_, err := svc.Update(ctx, rival, 1, merch.UpdateInput{Price: &price})
	require.Error(t, err)
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Contains(t, err.Error(), "you can only update your own merches")

	assert.ErrorIs(t, svc.Delete(ctx, rival, 1), authz.ErrForbidden)

	updated, err := svc.Update(ctx, seller, 1, merch.UpdateInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)

	updated, err = svc.Update(ctx, admin, 1, merch.UpdateInput{Price: &price})
	require.NoError(t, err, "admins are not owner-scoped on merches")
	assert.Equal(t, seller.ID, updated.OwnerUserID)

	require.NoError(t, svc.Delete(ctx, seller, 1))
	assert.ErrorIs(t, svc.Delete(ctx, seller, 1), httpx.ErrNotFound)
}

func TestMineAndAdminOnlyBulkOps(t *testing.T) {
	repo := newMemRepo(item(1, seller.ID, "A"), item(2, rival.ID, "B"), item(3, seller.ID, "C"))
	svc := merch.NewService(repo, nil, nil)
	ctx := context.Background()

	items, total, err := svc.Mine(ctx, seller, shared.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	_, err = svc.BulkDelete(ctx, seller, []int64{1, 3})
	assert.ErrorIs(t, err, authz.ErrForbidden)
	_, err = svc.Export(ctx, seller, merch.ListFilter{})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	n, err := svc.BulkDelete(ctx, admin, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestBulkDeleteAuditsOnlyRemovedRows(t *testing.T) {
	repo := newMemRepo(item(1, seller.ID, "A"), item(2, rival.ID, "B"))
	audit := &auditSpy{}
	svc := merch.NewService(repo, audit, nil)

	n, err := svc.BulkDelete(context.Background(), admin, []int64{2, 404, 1, 405})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.Len(t, audit.logs, 2)
	assert.Equal(t, int64(2), audit.logs[0].EntityID)
	assert.Equal(t, int64(1), audit.logs[1].EntityID)
	for _, log := range audit.logs {
		assert.Equal(t, "merch_bulk_deleted", log.Action)
		assert.Equal(t, admin.ID, log.ActorID)
	}
}
