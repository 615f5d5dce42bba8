package utils

import (
	"net/url"
	"time"

	"pencilpost/internal/models"
)

// CardExcerptLength is the rune budget of the excerpt on a post card.
const CardExcerptLength = 160

// EmptyState is the message shown in place of an empty post list.
type EmptyState struct {
	Title       string
	Message     string
	ShowViewAll bool
}

var (
	EmptyAll = EmptyState{
		Title:   "No posts found",
		Message: "No blog posts available at the moment. Check back soon!",
	}
	EmptyFiltered = EmptyState{
		Title:       "No posts found",
		Message:     "No posts in this category yet. Try another category!",
		ShowViewAll: true,
	}
	EmptyCategory = EmptyState{
		Title:   "No posts in this category yet",
		Message: "Check back soon for new content!",
	}
	EmptyHome = EmptyState{
		Title:   "No posts yet",
		Message: "Check back soon for new content!",
	}
)

// CategoryFilter is one entry of the category filter bar.
type CategoryFilter struct {
	Name   string
	Href   string
	Active bool
}

// PostCard is the list view of a post.
type PostCard struct {
	Title        string
	Href         string
	Excerpt      string
	CategoryName string
	CategoryHref string
	DateLabel    string
	Keywords     []string
}

// Listing is everything a post list page renders.
type Listing struct {
	Cards          []PostCard
	Pagination     Pagination
	Filters        []CategoryFilter
	ActiveCategory string
	Empty          *EmptyState
}

// AssembleListing builds the /blog list. activeCategory is a category slug or
// "" for all posts; it is kept in every page link.
func AssembleListing(page models.PagedResult[models.Post], categories []models.Category, activeCategory string) Listing {
	l := Listing{
		Cards:          Cards(page.Items),
		Pagination:     BuildPagination(BlogListLinks(activeCategory), page.CurrentPage, page.TotalPages),
		Filters:        Filters(categories, activeCategory),
		ActiveCategory: activeCategory,
	}
	if page.Empty() {
		empty := EmptyAll
		if activeCategory != "" {
			empty = EmptyFiltered
		}
		l.Empty = &empty
	}
	return l
}

// AssembleCategoryListing builds the list on a category page.
func AssembleCategoryListing(cp models.CategoryPage) Listing {
	slug := ""
	if cp.Category != nil {
		slug = cp.Category.Slug
	}
	l := Listing{
		Cards:          Cards(cp.Posts.Items),
		Pagination:     BuildPagination(CategoryLinks(slug), cp.Posts.CurrentPage, cp.Posts.TotalPages),
		ActiveCategory: slug,
	}
	if cp.Posts.Empty() {
		empty := EmptyCategory
		l.Empty = &empty
	}
	return l
}

// Filters returns "All Posts" followed by one entry per category.
func Filters(categories []models.Category, activeCategory string) []CategoryFilter {
	filters := make([]CategoryFilter, 0, len(categories)+1)
	filters = append(filters, CategoryFilter{Name: "All Posts", Href: "/blog", Active: activeCategory == ""})
	for _, c := range categories {
		filters = append(filters, CategoryFilter{
			Name:   c.Name,
			Href:   "/blog?category=" + url.QueryEscape(c.Slug),
			Active: c.Slug == activeCategory,
		})
	}
	return filters
}

// Cards converts posts to their list view.
func Cards(posts []models.Post) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for i := range posts {
		cards = append(cards, Card(&posts[i]))
	}
	return cards
}

// Card builds the list view of one post.
func Card(p *models.Post) PostCard {
	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = GenerateExcerpt(p.Content, CardExcerptLength)
	}
	card := PostCard{
		Title:        p.Title,
		Href:         "/blog/" + url.PathEscape(p.Slug),
		Excerpt:      excerpt,
		CategoryName: p.CategoryName(),
		DateLabel:    "Draft",
		Keywords:     p.Keywords,
	}
	if p.Category != nil && p.Category.Slug != "" {
		card.CategoryHref = "/category/" + url.PathEscape(p.Category.Slug)
	}
	if p.PublishedAt != nil {
		card.DateLabel = FormatDate(*p.PublishedAt)
	}
	return card
}

// FormatDate renders a publication date for display.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
