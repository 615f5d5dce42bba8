package main

import (
	"context"
	"errors"
	"flag"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/config"
	"pencilpost/internal/constants"
	"pencilpost/internal/handlers"
	"pencilpost/internal/logger"
	"pencilpost/internal/seo"
	"pencilpost/internal/services"
	"pencilpost/internal/tasks"
	"pencilpost/internal/utils"
)

// Global filesystems that will be populated by either assets_dev.go or assets_prod.go at startup.
var templatesFS fs.FS
var staticFS fs.FS

func createRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	add := func(name string, files ...string) {
		tpl, err := template.ParseFS(templatesFS, files...)
		if err != nil {
			log.Fatal().Err(err).Str("template", name).Msg("failed to parse template")
		}
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_cards.html")
	add("blog.html", "base.html", "blog.html", "_cards.html", "_pagination.html")
	add("category.html", "base.html", "category.html", "_cards.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("about.html", "base.html", "about.html")
	add("login.html", "base.html", "login.html")
	add("dashboard.html", "base.html", "dashboard.html")
	add("editor.html", "base.html", "editor.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")

	return r
}

func main() {
	unsafe := flag.Bool("unsafe", false, "allow insecure cookies")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *unsafe {
		cfg.CookieSecure = false
	}

	site := seo.Site{Name: cfg.SiteName, URL: cfg.SiteURL, Description: cfg.SiteDescription}
	api := apiclient.New(cfg.APIURL, cfg.APITimeout)

	postService := services.NewPostService(api, site)
	adminService := services.NewAdminService(api)
	authService := services.NewAuthService(api)
	siteService := services.NewSiteService(api, site)

	scheduler := tasks.NewScheduler(cfg.APITimeout)
	if err := scheduler.AddRefresh(cfg.SiteFilesRefresh, "site-files", siteService); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.SiteFilesRefresh).Msg("failed to schedule site file refresh")
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
		defer cancel()
		siteService.Refresh(ctx)
	}()
	scheduler.Start()
	defer scheduler.Stop()

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HTMLRender = utils.MinifiedHTML{HTMLRender: createRenderer(), M: utils.NewMinifier()}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(handlers.RequestLogger())
	r.Use(handlers.Recovery())
	r.Use(sessions.Sessions(constants.SessionName, store))
	r.Use(handlers.SiteMiddleware(site))

	r.StaticFS("/static", http.FS(staticFS))
	if cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	handlers.NewRouter(postService, adminService, authService, siteService).Register(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("api", cfg.APIURL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
