package models

import "time"

// ResolvedMetadata is the SEO/display data derived from a record for one
// render. It is recomputed on every request and never stored.
type ResolvedMetadata struct {
	Title         string
	Description   string
	Keywords      []string
	CanonicalURL  string
	SocialImage   string
	OGType        string // "website" or "article"
	Author        string
	PublishedTime *time.Time
	NoIndex       bool
}
