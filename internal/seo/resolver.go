// Package seo derives page metadata (title, description, canonical URL,
// social preview) from content records.
package seo

import (
	"fmt"

	"pencilpost/internal/models"
)

const (
	// DefaultSocialImage is used when a post has no ogImage.
	DefaultSocialImage = "/images/og-default.jpg"
	// DescriptionLength is the rune budget for a description cut from content.
	DescriptionLength = 150
	// TruncationMarker follows a description that was cut from content.
	TruncationMarker = "..."

	NotFoundTitle         = "Blog Not Found"
	CategoryNotFoundTitle = "Category Not Found"
)

// Resolve computes the metadata for a post. A nil post yields the fixed
// not-found record. Resolve has no side effects.
func Resolve(post *models.Post) models.ResolvedMetadata {
	if post == nil {
		return NotFound()
	}

	title := post.MetaTitle
	if title == "" {
		title = post.Title
	}

	canonical := post.CanonicalURL
	if canonical == "" {
		canonical = "/blog/" + post.Slug
	}

	image := post.OGImage
	if image == "" {
		image = DefaultSocialImage
	}

	keywords := post.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return models.ResolvedMetadata{
		Title:         title,
		Description:   describe(post),
		Keywords:      keywords,
		CanonicalURL:  canonical,
		SocialImage:   image,
		OGType:        "article",
		Author:        post.Author,
		PublishedTime: post.PublishedAt,
	}
}

func describe(post *models.Post) string {
	if post.MetaDescription != "" {
		return post.MetaDescription
	}
	if post.Excerpt != "" {
		return post.Excerpt
	}
	return Truncate(post.Content, DescriptionLength)
}

// Truncate returns the first n runes of s, followed by TruncationMarker
// when anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + TruncationMarker
}

// NotFound is the metadata for a missing post.
func NotFound() models.ResolvedMetadata {
	return models.ResolvedMetadata{
		Title:       NotFoundTitle,
		Keywords:    []string{},
		SocialImage: DefaultSocialImage,
		OGType:      "website",
		NoIndex:     true,
	}
}

// ResolveCategory computes the metadata for a category page.
func ResolveCategory(category *models.Category) models.ResolvedMetadata {
	if category == nil {
		md := NotFound()
		md.Title = CategoryNotFoundTitle
		return md
	}
	description := category.Description
	if description == "" {
		description = fmt.Sprintf("Browse all blog posts in the %s category", category.Name)
	}
	return models.ResolvedMetadata{
		Title:        category.Name + " - Blog Category",
		Description:  description,
		Keywords:     []string{},
		CanonicalURL: "/category/" + category.Slug,
		SocialImage:  DefaultSocialImage,
		OGType:       "website",
	}
}

// Page builds metadata for a static page such as the home page.
func Page(title, description, canonical string) models.ResolvedMetadata {
	return models.ResolvedMetadata{
		Title:        title,
		Description:  description,
		Keywords:     []string{},
		CanonicalURL: canonical,
		SocialImage:  DefaultSocialImage,
		OGType:       "website",
	}
}
