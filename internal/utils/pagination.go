package utils

import (
	"net/url"
	"strconv"
)

// LinkBuilder returns the target URL for a page number.
type LinkBuilder func(page int) string

// PageLink describes one numbered pagination link.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pagination is the view model for the pagination component.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Pages       []PageLink
	HasPrev     bool
	HasNext     bool
	PrevHref    string
	NextHref    string
}

// Visible reports whether pagination controls should be rendered.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

// BuildPagination produces one link per page in 1..totalPages.
func BuildPagination(link LinkBuilder, currentPage, totalPages int) Pagination {
	if totalPages < 0 {
		totalPages = 0
	}
	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		Pages:       make([]PageLink, 0, totalPages),
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
	for i := 1; i <= totalPages; i++ {
		p.Pages = append(p.Pages, PageLink{Number: i, Href: link(i), Current: i == currentPage})
	}
	if p.HasPrev {
		p.PrevHref = link(currentPage - 1)
	}
	if p.HasNext {
		p.NextHref = link(currentPage + 1)
	}
	return p
}

// BlogListLinks links into /blog, keeping the category filter when set.
func BlogListLinks(category string) LinkBuilder {
	return func(page int) string {
		href := "/blog?page=" + strconv.Itoa(page)
		if category != "" {
			href += "&category=" + url.QueryEscape(category)
		}
		return href
	}
}

// CategoryLinks links into the category page at /category/{slug}.
func CategoryLinks(slug string) LinkBuilder {
	base := "/category/" + url.PathEscape(slug)
	return func(page int) string {
		return base + "?page=" + strconv.Itoa(page)
	}
}
