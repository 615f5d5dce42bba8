//go:build ignore

// build prepares static assets for a release build:
//
//	go run build.go -release   minify assets and point the templates at them
//	go run build.go -clean     remove the minified copies and restore the templates
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	staticDir    = "static"
	templatesDir = "templates"
)

var (
	m = minify.New()
	// source asset (relative to static/) -> minified name
	assetReplacements = map[string]string{
		"css/style.css": "css/style.min.css",
	}
	mediaTypes = map[string]string{
		".css": "text/css",
		".js":  "text/javascript",
	}
)

func init() {
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
}

func main() {
	release := flag.Bool("release", false, "Process assets for release")
	clean := flag.Bool("clean", false, "Clean processed assets and restore original files")
	flag.Parse()

	if *release && *clean {
		log.Fatal().Msg("cannot use -release and -clean together")
	}

	switch {
	case *release:
		if err := processAssets(); err != nil {
			log.Fatal().Err(err).Msg("failed to process assets for release")
		}
		fmt.Println("Assets processed successfully.")
	case *clean:
		if err := cleanupAssets(); err != nil {
			log.Fatal().Err(err).Msg("failed to clean up assets")
		}
		fmt.Println("Cleanup complete.")
	default:
		fmt.Println("No action specified. Use -release to process assets or -clean to clean up.")
	}
}

func processAssets() error {
	for src, dst := range assetReplacements {
		if err := minifyFile(filepath.Join(staticDir, src), filepath.Join(staticDir, dst)); err != nil {
			return err
		}
	}
	return updateHTMLReferences(func(html string) string {
		for src, dst := range assetReplacements {
			html = strings.ReplaceAll(html, "/static/"+src, "/static/"+dst)
		}
		return html
	})
}

func cleanupAssets() error {
	for _, dst := range assetReplacements {
		if err := os.Remove(filepath.Join(staticDir, dst)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return updateHTMLReferences(func(html string) string {
		for src, dst := range assetReplacements {
			html = strings.ReplaceAll(html, "/static/"+dst, "/static/"+src)
		}
		return html
	})
}

func minifyFile(src, dst string) error {
	mediaType, ok := mediaTypes[filepath.Ext(src)]
	if !ok {
		return fmt.Errorf("no minifier for %s", src)
	}
	in, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := m.Minify(mediaType, &out, bytes.NewReader(in)); err != nil {
		return fmt.Errorf("minify %s: %w", src, err)
	}
	fmt.Printf("  %s -> %s (%d -> %d bytes)\n", src, dst, len(in), out.Len())
	return os.WriteFile(dst, out.Bytes(), 0o644)
}

func updateHTMLReferences(rewrite func(string) string) error {
	files, err := filepath.Glob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return err
	}
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		updated := rewrite(string(raw))
		if updated == string(raw) {
			continue
		}
		if err := os.WriteFile(f, []byte(updated), 0o644); err != nil {
			return err
		}
		fmt.Printf("  updated %s\n", f)
	}
	return nil
}
