package cattery

import "time"

// SiteConfig holds all configuration for a cattery site.
type SiteConfig struct {
	Name        string // Site name (default "Cattery")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Breeder     string // Breeder name for JSON-LD and the contract PDF

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/cattery.db")

	// StaticDir is the public content root on disk; it is served under
	// PublicPrefix and holds the upload directories. Handed to the image
	// service at construction, never read from package globals.
	StaticDir    string // default "static"
	PublicPrefix string // default "/static"

	// MirrorUploadsToDisk keeps the deprecated filesystem copies of
	// uploaded photos alongside the inline database storage.
	MirrorUploadsToDisk bool

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	ArticleCacheTTL   time.Duration // published-article cache TTL (default 5min)
	TempSweepInterval time.Duration // temp-file sweep interval (default 10min)
	TempMaxAge        time.Duration // temp-file age threshold (default 1h)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Cattery"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/cattery.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.PublicPrefix == "" {
		c.PublicPrefix = "/static"
	}
	if c.ArticleCacheTTL == 0 {
		c.ArticleCacheTTL = 5 * time.Minute
	}
	if c.TempSweepInterval == 0 {
		c.TempSweepInterval = 10 * time.Minute
	}
	if c.TempMaxAge == 0 {
		c.TempMaxAge = time.Hour
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
