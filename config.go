package postgate

import "time"

// Config holds all configuration for a postgate deployment.
type Config struct {
	Name string // Brand name reported by the validate endpoint (default "Postgate")
	Addr string // Listen address (default ":3000")

	DatabasePath string // SQLite path for the options store (default "data/postgate.db")

	HostURL     string        // Required: content host base URL
	HostToken   string        // Optional service credential sent on host calls
	HostTimeout time.Duration // Bound on the host delegate call (default 10s)

	DefaultStatus string // Post status when the payload omits one (default "publish")
	DefaultAuthor int64  // Author id when absent or non-numeric (default 1)

	AdminPassword string // Required: console login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS deployments
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Postgate"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/postgate.db"
	}
	if c.HostTimeout == 0 {
		c.HostTimeout = 10 * time.Second
	}
	if c.DefaultStatus == "" {
		c.DefaultStatus = "publish"
	}
	if c.DefaultAuthor == 0 {
		c.DefaultAuthor = 1
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithContentHost replaces the HTTP host client with a custom
// implementation, e.g. a fake in tests.
func WithContentHost(h ContentHost) Option {
	return func(a *App) {
		a.Host = h
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
