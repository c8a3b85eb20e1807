package cmd

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio/admin"
	"portfolio/analytics"
	"portfolio/benchmarks"
	"portfolio/blog"
	"portfolio/cache"
	"portfolio/common"
	"portfolio/config"
	"portfolio/contact"
	"portfolio/database"
	"portfolio/email"
	"portfolio/posts"
	"portfolio/site"
	"portfolio/views"
)

const sessionMaxAge = 86400 * 7

var trackedPrefixes = []string{"/blog/"}

// app is the wired server. Everything the handlers need is built once here.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	store  *posts.Store
	caches []*cache.Store
	router *gin.Engine
}

// loadContent compiles the blog collection, copying cover images under
// the public directory.
func loadContent(cfg *config.Config) (*posts.Store, error) {
	store := posts.NewStore(cfg.ContentDir, posts.Options{
		AssetsDir: filepath.Join(cfg.PublicDir, "static"),
	})
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func newMailer(cfg *config.Config) email.Mailer {
	if cfg.MailTransport == "smtp" {
		return email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	}
	return email.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	db, err := common.ConnectDb(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := loadContent(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("content loaded", zap.Int("posts", store.Library().Len()))

	data, err := site.LoadData()
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL()

	router := gin.New()
	router.Use(gin.Recovery(), common.RequestLogger(log))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	router.Use(sessions.Sessions("portfolio-session", sessionStore))
	router.Use(analytics.NewTracker(db, trackedPrefixes, cfg.IsProduction(), log.Named("analytics")).Middleware())

	router.SetHTMLTemplate(views.Must(template.FuncMap{
		"appName": func() string { return cfg.AppName },
		"baseURL": func() string { return baseURL },
	}))
	router.Static("/public", cfg.PublicDir)

	pages := cache.NewStore()
	responses := cache.NewStore()

	var notifier contact.Notifier
	if cfg.SlackWebhookURL != "" {
		notifier = contact.NewSlackNotifier(cfg.SlackWebhookURL)
	}
	repo := contact.NewGormRepository(db)
	service := contact.NewService(repo, newMailer(cfg), notifier, contact.ServiceConfig{
		OwnerEmail: cfg.ContactEmail,
		Signature:  cfg.AppName,
		Verbose:    cfg.IsDevelopment(),
	}, log.Named("contact"))

	upstream := benchmarks.NewUpstream(cfg.BenchmarkAPIBaseURL, nil)

	site.NewSiteModule(data, store, baseURL, log.Named("site")).RegisterRoutes(router)
	blog.NewBlogModule(store, pages, baseURL, log.Named("blog")).RegisterRoutes(router)
	contact.NewContactModule(service, baseURL).RegisterRoutes(router)
	benchmarks.NewBenchmarksModule(upstream, benchmarks.NewClient(upstream, responses), baseURL, log.Named("benchmarks")).RegisterRoutes(router)
	admin.NewAdminModule(repo, analytics.NewStats(db), []*cache.Store{pages, responses}, cfg.AdminPasswordHash, log.Named("admin")).RegisterRoutes(router)

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		caches: []*cache.Store{pages, responses},
		router: router,
	}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
