// Package news serves sport news articles: public reading, authoring and
// the admin-only export and bulk delete.
package news

import (
	"strings"
	"time"

	"github.com/sportportal/portal/internal/shared"
)

// Category groups articles on the portal front page.
type Category string

const (
	CategoryAchievements Category = "ACHIEVEMENTS"
	CategoryCompetitions Category = "COMPETITIONS"
	CategoryNews         Category = "NEWS"
	CategoryInterview    Category = "INTERVIEW"
	CategoryHealth       Category = "HEALTH"
	CategoryFootball     Category = "FOOTBALL"
	CategoryBoxing       Category = "BOXING"
	CategoryWrestling    Category = "WRESTLING"
	CategoryTennis       Category = "TENNIS"
	CategoryBasketball   Category = "BASKETBALL"
	CategorySwimming     Category = "SWIMMING"
	CategoryGeneral      Category = "GENERAL"
)

var categories = map[Category]struct{}{
	CategoryAchievements: {}, CategoryCompetitions: {}, CategoryNews: {}, CategoryInterview: {},
	CategoryHealth: {}, CategoryFootball: {}, CategoryBoxing: {}, CategoryWrestling: {},
	CategoryTennis: {}, CategoryBasketball: {}, CategorySwimming: {}, CategoryGeneral: {},
}

// ParseCategory accepts any letter case.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := categories[c]
	return c, ok
}

// snippetLength bounds the generated teaser.
const snippetLength = 200

// Article is a published news item.
type Article struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Snippet    string    `json:"snippet"`
	ImageURL   string    `json:"image_url"`
	Category   Category  `json:"category"`
	ViewsCount int       `json:"views_count"`
	AuthorID   int64     `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OwnerID is the author.
func (a Article) OwnerID() int64 { return a.AuthorID }

// ListFilter narrows article listings.
type ListFilter struct {
	Category *Category
	Search   string
	AuthorID int64
	shared.Window
}

// NewArticle is the persisted shape of a created article.
type NewArticle struct {
	Title    string
	Slug     string
	Content  string
	Snippet  string
	ImageURL string
	Category Category
	AuthorID int64
}

// Changes lists the columns an update touches.
type Changes struct {
	Title    *string
	Slug     *string
	Content  *string
	Snippet  *string
	ImageURL *string
	Category *Category
}

// CreateInput is the authoring payload.
type CreateInput struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required"`
	Snippet  string `json:"snippet" validate:"omitempty,max=500"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=500"`
	Category string `json:"category" validate:"omitempty,max=32"`
}

// UpdateInput is a partial update.
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Snippet  *string `json:"snippet" validate:"omitempty,max=500"`
	ImageURL *string `json:"image_url" validate:"omitempty,url,max=500"`
	Category *string `json:"category" validate:"omitempty,max=32"`
}

func makeSnippet(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= snippetLength {
		return string(runes)
	}
	return string(runes[:snippetLength])
}
