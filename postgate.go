// Package postgate is a token-authenticated publishing gateway.
// It issues opaque bearer tokens, validates them on incoming API
// requests, and forwards authorized post-creation calls to a remote
// content host. Tokens are managed through a session-protected admin
// console backed by the same SQLite options store.
package postgate

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central postgate application. It wires together the
// options store, token store, content host client, middleware, and
// routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Tokens *TokenStore
	Host   ContentHost

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates a postgate App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, token store, host client, middleware,
// and routes, then starts the server.
func (a *App) Start() error {
	if err := a.bootstrap(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// bootstrap prepares everything short of binding the listen socket.
func (a *App) bootstrap() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("postgate: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("postgate: SessionSecret is required")
	}
	if a.Host == nil && a.Config.HostURL == "" {
		return fmt.Errorf("postgate: HostURL is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("postgate: init store: %w", err)
	}
	a.Store = store
	a.Tokens = NewTokenStore(store)

	if a.Host == nil {
		a.Host = NewHostClient(a.Config.HostURL, a.Config.HostToken, a.Config.HostTimeout)
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// API routes, every handler gated by the bearer authenticator.
	api := e.Group("/api/v1")
	api.POST("/posts", a.handleCreatePost, a.bearerAuth)
	api.GET("/validate", a.handleValidate, a.bearerAuth)

	// Admin console. Mutates the token store directly through
	// server-side forms and never passes through the API dispatcher.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/tokens/generate/", a.handleTokenGenerate)
	e.POST("/admin/tokens/revoke/", a.handleTokenRevoke)
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
		log.Fatalf("postgate: required environment variable %s is not set", key)
	}
	return v
}
