package news_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/authz"
	"github.com/sportportal/portal/internal/news"
	"github.com/sportportal/portal/internal/platform/httpx"
	"github.com/sportportal/portal/internal/shared"
)

func seedArticle(id, author int64, title string) news.Article {
	return news.Article{ID: id, Title: title, Slug: shared.Slugify(title), Content: "body", Category: news.CategoryGeneral, AuthorID: author}
}

func TestCreateBuildsSlugAndSnippet(t *testing.T) {
	repo := newMemRepo()
	svc := news.NewService(repo, nil, nil)

	a, err := svc.Create(context.Background(), admin, news.CreateInput{
		Title:    "Cup Final: Navbahor wins!",
		Content:  strings.Repeat("x", 250),
		Category: "football",
	})
	require.NoError(t, err)
	assert.Equal(t, "cup-final-navbahor-wins", a.Slug)
	assert.Equal(t, news.CategoryFootball, a.Category)
	assert.Len(t, a.Snippet, 200)
	assert.Equal(t, admin.ID, a.AuthorID)
}

func TestCreateSlugCollisionGetsSuffix(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "Match Day"))
	svc := news.NewService(repo, nil, nil)

	a, err := svc.Create(context.Background(), admin, news.CreateInput{Title: "Match day", Content: "again"})
	require.NoError(t, err)
	assert.NotEqual(t, "match-day", a.Slug)
	assert.True(t, strings.HasPrefix(a.Slug, "match-day-"))
}

func TestCreateRequiresPermission(t *testing.T) {
	svc := news.NewService(newMemRepo(), nil, nil)
	for _, p := range []authz.Principal{coach, athlete, {ID: 5, Role: authz.RoleObserver}} {
		_, err := svc.Create(context.Background(), p, news.CreateInput{Title: "t", Content: "c"})
		assert.ErrorIs(t, err, authz.ErrForbidden, p.Role)
	}
	_, err := svc.Create(context.Background(), root, news.CreateInput{Title: "t", Content: "c"})
	assert.NoError(t, err)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := news.NewService(newMemRepo(), nil, nil)
	_, err := svc.Create(context.Background(), admin, news.CreateInput{Title: "t", Content: "c", Category: "CHESS"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "Old Title"))
	svc := news.NewService(repo, nil, nil)

	title := "New Title"
	a, err := svc.Update(context.Background(), admin, 1, news.UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new-title", a.Slug)

	content := "edited"
	a, err = svc.Update(context.Background(), admin, 1, news.UpdateInput{Title: &title, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "new-title", a.Slug, "unchanged title keeps its slug")
	assert.Equal(t, "edited", a.Content)
}

func TestUpdateDeniedBeforeLookupForReadOnlyRoles(t *testing.T) {
	repo := newMemRepo(seedArticle(1, coach.ID, "Coach notes"))
	svc := news.NewService(repo, nil, nil)

	content := "x"
	_, err := svc.Update(context.Background(), coach, 1, news.UpdateInput{Content: &content})
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Zero(t, repo.gets)

	err = svc.Delete(context.Background(), athlete, 1)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	svc := news.NewService(newMemRepo(), nil, nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, 42), httpx.ErrNotFound)
}

func TestDetailCountsViews(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "Read me"))
	svc := news.NewService(repo, nil, nil)

	_, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	a, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, a.ViewsCount)
}

func TestMineListsOwnArticles(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "A"), seedArticle(2, coach.ID, "B"), seedArticle(3, admin.ID, "C"))
	svc := news.NewService(repo, nil, nil)

	items, total, err := svc.Mine(context.Background(), admin, shared.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, a := range items {
		assert.Equal(t, admin.ID, a.AuthorID)
	}
}

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestBulkDeleteAndExportAreAdminOnly(t *testing.T) {
	repo := newMemRepo(seedArticle(1, admin.ID, "A"), seedArticle(2, coach.ID, "B"))
	audit := &auditSpy{}
	svc := news.NewService(repo, audit, nil)
	ctx := context.Background()

	_, err := svc.BulkDelete(ctx, coach, []int64{1, 2})
	assert.ErrorIs(t, err, authz.ErrForbidden)
	_, err = svc.Export(ctx, athlete, news.ListFilter{})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	items, err := svc.Export(ctx, admin, news.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	n, err := svc.BulkDelete(ctx, admin, []int64{1, 2, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.Len(t, audit.logs, 2, "missing ids are not audited")
	assert.ElementsMatch(t, []int64{1, 2}, []int64{audit.logs[0].EntityID, audit.logs[1].EntityID})
}
