package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/metrics"
	"pencilpost/internal/seo"
)

const (
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
)

var siteFileTypes = map[string]string{
	SitemapFile: "application/xml",
	RobotsFile:  "text/plain",
}

// SiteService proxies the generated site files and keeps the last good copy
// of each in memory.
type SiteService struct {
	api  SiteFileAPI
	site seo.Site

	mu    sync.RWMutex
	cache map[string]*apiclient.SiteFile
	group singleflight.Group
}

func NewSiteService(api SiteFileAPI, site seo.Site) *SiteService {
	return &SiteService{api: api, site: site, cache: make(map[string]*apiclient.SiteFile)}
}

// File returns the cached copy of name, fetching it on first use. Concurrent
// misses share one fetch. robots.txt falls back to a local file when the API
// has none.
func (s *SiteService) File(ctx context.Context, name string) (*apiclient.SiteFile, error) {
	if _, ok := siteFileTypes[name]; !ok {
		return nil, fmt.Errorf("unknown site file %q", name)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		return s.fetch(ctx, name)
	})
	if err != nil {
		if name == RobotsFile {
			return s.LocalRobots(), nil
		}
		return nil, err
	}
	return v.(*apiclient.SiteFile), nil
}

// Refresh re-fetches every site file. A failed fetch keeps the stale copy.
func (s *SiteService) Refresh(ctx context.Context) {
	for name := range siteFileTypes {
		_, err := s.fetch(ctx, name)
		metrics.RecordSiteFileRefresh(name, err)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("site file refresh failed, keeping previous copy")
		}
	}
}

func (s *SiteService) fetch(ctx context.Context, name string) (*apiclient.SiteFile, error) {
	f, err := s.api.FetchSiteFile(ctx, name, siteFileTypes[name])
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[name] = f
	s.mu.Unlock()
	log.Debug().Str("file", name).Int("bytes", len(f.Body)).Msg("site file fetched")
	return f, nil
}

// LocalRobots allows everything but /admin/ and points at the sitemap.
func (s *SiteService) LocalRobots() *apiclient.SiteFile {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/%s\n", s.site.URL, SitemapFile)
	return &apiclient.SiteFile{Body: []byte(body), ContentType: "text/plain; charset=utf-8"}
}
