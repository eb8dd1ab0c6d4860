// Package wishwall is a shareable birthday-wall server built with Go, Echo,
// and templ. A page owner creates a wall, invitees post note/photo/video
// greetings and react with likes, and the owner moderates submissions via a
// secret admin link.
//
// Users provide their own templ components via the ViewFuncs struct;
// wishwall handles the handler logic, middleware, storage, and blob layout.
package wishwall

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/wishwall/logger"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home        func(csrfToken string) templ.Component
	Wall        func(page BirthdayPage, greetings []Greeting, reacted map[string]bool, shareURL, csrfToken string) templ.Component
	SubmitForm  func(page BirthdayPage, csrfToken string) templ.Component
	AdminPanel  func(page BirthdayPage, greetings []Greeting, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central wishwall application. It wires together the store,
// blob store, handlers, middleware, and user-provided templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Blobs  *BlobStore
	Views  ViewFuncs

	log          *logger.Logger
	customRoutes []func(*App)
}

// New creates a new wishwall App with the given configuration and view
// functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
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

// Bootstrap initializes the logger, store, blob store, middleware, and
// routes without starting the server. Start calls it; tests call it directly
// and drive the Echo instance through httptest.
func (a *App) Bootstrap() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("wishwall: SessionSecret is required")
	}

	if a.log == nil {
		log, err := logger.New(a.Config.LogMode)
		if err != nil {
			return fmt.Errorf("wishwall: init logger: %w", err)
		}
		a.log = log
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("wishwall: init store: %w", err)
	}
	a.Store = store

	a.Blobs = NewBlobStore(a.Config.StaticDir, a.log)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	return nil
}

// Start bootstraps the app and runs the HTTP server until it is stopped.
func (a *App) Start() error {
	if err := a.Bootstrap(); err != nil {
		return err
	}
	a.log.Info("listening", "addr", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ and fall through to the
	// deployment's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/wishwall.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/style.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// Static assets and uploaded blobs. Stored blob references are public
	// /uploads/... paths, so they get their own static mount.
	e.Static("/public", a.Config.StaticDir)
	e.Static("/uploads", filepath.Join(a.Config.StaticDir, uploadsSubdir))
	e.GET("/robots.txt", a.handleRobots)

	// HTML pages.
	e.GET("/", a.handleHome)
	e.GET("/b/:token/", a.handleWall)
	e.GET("/b/:token/submit/", a.handleSubmitForm)
	e.GET("/admin/:adminToken/", a.handleAdminPanel)

	// JSON API.
	e.POST("/api/birthday-pages", a.handleCreatePage)
	e.GET("/api/birthday-pages/:token", a.handleWallJSON)
	e.POST("/api/greetings/:token", a.handleSubmitGreeting)
	e.DELETE("/api/greetings/delete/:id", a.handleDeleteGreeting)
	e.POST("/api/greetings/react", a.handleReact)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
	}
	if a.log != nil {
		a.log.Sync()
	}
	return nil
}

// handleRobots keeps token-addressed walls and admin panels out of crawlers.
func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nDisallow: /b/\nDisallow: /admin/\n")
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
