// Command seed imports a directory of markdown files into the blog through
// the admin API. Each file needs a YAML front matter block with at least a
// title; missing categories are created on the way.
package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/config"
	"pencilpost/internal/forms"
	"pencilpost/internal/logger"
	"pencilpost/internal/services"
)

const defaultCategory = "General"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	dir := flag.String("dir", "content", "directory of markdown files to import")
	username := flag.String("user", os.Getenv("SEED_USERNAME"), "admin username")
	password := flag.String("password", os.Getenv("SEED_PASSWORD"), "admin password")
	dryRun := flag.Bool("dry-run", false, "parse and validate without calling the API")
	flag.Parse()

	docs, err := loadDocuments(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to read posts")
	}
	log.Info().Int("count", len(docs)).Str("dir", *dir).Msg("documents parsed")
	if *dryRun {
		for path, doc := range docs {
			if err := doc.PostDraft("dry-run").Validate(); err != nil {
				log.Warn().Err(err).Str("file", path).Msg("invalid document")
			}
		}
		return
	}

	ctx := context.Background()
	api := apiclient.New(cfg.APIURL, cfg.APITimeout)
	auth := services.NewAuthService(api)
	admin := services.NewAdminService(api)

	res, err := auth.Login(ctx, *username, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("login failed")
	}

	categories, err := admin.Categories(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list categories")
	}
	bySlug := make(map[string]string, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}

	paths := importOrder(docs)

	var imported, failed int
	for _, path := range paths {
		doc := docs[path]
		name := doc.Category
		if strings.TrimSpace(name) == "" {
			name = defaultCategory
		}

		categoryID, err := ensureCategory(ctx, admin, res.Token, bySlug, name)
		if err != nil {
			log.Error().Err(err).Str("file", path).Str("category", name).Msg("failed to create category")
			failed++
			continue
		}

		post, err := admin.SavePost(ctx, res.Token, doc.PostDraft(categoryID))
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to import post")
			failed++
			continue
		}
		log.Info().Str("file", path).Str("slug", post.Slug).Msg("imported")
		imported++
	}

	log.Info().Int("imported", imported).Int("failed", failed).Msg("import finished")
	if failed > 0 {
		os.Exit(1)
	}
}

// ensureCategory returns the id of the category called name, creating it
// when no category with the same slug exists.
func ensureCategory(ctx context.Context, admin *services.AdminService, token string, bySlug map[string]string, name string) (string, error) {
	key := slug.Make(name)
	if id, ok := bySlug[key]; ok {
		return id, nil
	}
	created, err := admin.SaveCategory(ctx, token, forms.CategoryDraft{Name: name})
	if err != nil {
		return "", err
	}
	bySlug[key] = created.ID
	log.Info().Str("category", name).Str("slug", key).Msg("category created")
	return created.ID, nil
}

// importOrder sorts the files oldest first so the API's creation order
// follows the publish dates. Undated files go last.
func importOrder(docs map[string]*Document) []string {
	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		ti, oki := docs[paths[i]].Published()
		tj, okj := docs[paths[j]].Published()
		switch {
		case oki && okj && !ti.Equal(tj):
			return ti.Before(tj)
		case oki != okj:
			return oki
		default:
			return paths[i] < paths[j]
		}
	})
	return paths
}

func loadDocuments(dir string) (map[string]*Document, error) {
	docs := make(map[string]*Document)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable file")
			return nil
		}
		doc, err := ParseDocument(string(raw))
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping file")
			return nil
		}
		docs[path] = doc
		return nil
	})
	return docs, err
}
