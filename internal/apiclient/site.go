package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// SiteFile is a generated file (sitemap.xml, robots.txt) served by the API.
type SiteFile struct {
	Body        []byte
	ContentType string
}

// FetchSiteFile downloads /api/{name} verbatim.
func (c *Client) FetchSiteFile(ctx context.Context, name, accept string) (*SiteFile, error) {
	body, contentType, err := c.send(ctx, request{method: http.MethodGet, path: "/" + name}, accept)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if contentType == "" {
		contentType = accept
	}
	return &SiteFile{Body: body, ContentType: contentType}, nil
}
