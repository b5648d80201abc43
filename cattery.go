// Package cattery is a small-business cattery site and admin backend built
// with Go, Echo, and templ: cat and kitten listings, news articles with
// image galleries, and an adoption-request intake form driven by a dynamic
// questionnaire.
//
// Users provide their own templ components via the ViewFuncs struct, and
// cattery handles the handlers, middleware, image pipeline, and database
// operations. Uploaded photos are stored inline in the database (the
// production filesystem is ephemeral); writing them to disk as well is an
// optional compatibility mode.
package cattery

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/lavandercats/cattery/images"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home           func(cats []CatView, articles []Article) templ.Component
	Cats           func(cats []CatView) templ.Component
	Cat            func(cat CatView) templ.Component
	Articles       func(articles []Article) templ.Component
	Article        func(article Article, gallery []GalleryImage) templ.Component
	AdoptionForm   func(questions []AdoptionQuestion, csrfToken string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(data DashboardData, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central cattery application. It wires together the store,
// image pipeline, cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ArticleCache
	Images *images.Service
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a new cattery App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, image pipeline, cache, middleware, and
// routes, then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("cattery: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("cattery: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("cattery: init store: %w", err)
	}
	a.Store = store

	fileStore, err := images.NewFileStore(a.Config.StaticDir)
	if err != nil {
		return fmt.Errorf("cattery: init file store: %w", err)
	}
	a.Images = images.NewService(images.DefaultLimits(), fileStore, a.Config.MirrorUploadsToDisk, log.Default())

	a.Cache = NewArticleCache(a.Store, a.Config.ArticleCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	stopSweep := a.Images.StartSweep(a.Config.TempSweepInterval, a.Config.TempMaxAge)
	defer stopSweep()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Public content root; stored image paths resolve under this prefix.
	e.Static(a.Config.PublicPrefix, a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/contract.pdf", a.handleContractPDF)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/cats/", a.handleCats)
	e.GET("/cats/:id/", a.handleCat)
	e.GET("/news/", a.handleArticles)
	e.GET("/news/:id/", a.handleArticle)
	e.GET("/adopt/", a.handleAdoptionPage)

	// Admin pages
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	// JSON API
	api := e.Group("/api")

	api.GET("/cats/", a.handleListCats)
	api.POST("/cats/", a.handleCreateCat)
	api.GET("/cats/:id", a.handleGetCat)
	api.PUT("/cats/:id", a.handleUpdateCat)
	api.DELETE("/cats/:id", a.handleDeleteCat)

	api.GET("/articles/", a.handleListArticles)
	api.POST("/articles/", a.handleCreateArticle)
	api.GET("/articles/:id", a.handleGetArticle)
	api.PUT("/articles/:id", a.handleUpdateArticle)
	api.DELETE("/articles/:id", a.handleDeleteArticle)

	api.GET("/articles/:id/images/", a.handleListArticleImages)
	api.POST("/articles/:id/images/", a.handleUploadArticleImage)
	api.POST("/articles/:id/images/associate/", a.handleAssociateArticleImage)
	api.POST("/articles/:id/images/clear/", a.handleClearArticleImages)
	api.DELETE("/articles/:id/images/:imageID", a.handleDeleteArticleImage)

	api.GET("/adoption/form", a.handleAdoptionForm)
	api.POST("/adoption/submit", a.handleAdoptionSubmit)
	api.GET("/adoption/questions", a.handleListQuestions)
	api.POST("/adoption/questions", a.handleCreateQuestion)
	api.GET("/adoption/questions/:id", a.handleGetQuestion)
	api.PUT("/adoption/questions/:id", a.handleUpdateQuestion)
	api.DELETE("/adoption/questions/:id", a.handleDeleteQuestion)
	api.GET("/adoption/requests", a.handleListRequests)
	api.GET("/adoption/requests/export", a.handleExportRequests)
	api.GET("/adoption/requests/:id", a.handleGetRequest)
	api.PUT("/adoption/requests/:id", a.handleUpdateRequestStatus)

	api.POST("/upload/photo", a.handleUploadPhoto)
	api.POST("/upload/multiple", a.handleUploadMultiple)
	api.DELETE("/upload/cleanup", a.handleUploadCleanup)

	api.POST("/admin/backfill-inline/", a.handleBackfillInline)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("cattery: required environment variable %s is not set", key)
	}
	return v
}
