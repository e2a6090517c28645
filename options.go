package conflicts

import (
	"io/fs"
	"log/slog"
)

// Option configures an App.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported; callers use the With* functions.
type resolvedOptions struct {
	port            int
	databaseURL     string
	logger          *slog.Logger
	version         string
	source          Source
	floor           float64
	highCutoff      float64
	middlewares     []Middleware
	extraMigrations []fs.FS
}

// WithPort overrides the TCP port from config (CONFLICTS_PORT env var).
func WithPort(port int) Option {
	return func(o *resolvedOptions) { o.port = port }
}

// WithDatabaseURL overrides the database connection string from config (DATABASE_URL env var).
func WithDatabaseURL(url string) Option {
	return func(o *resolvedOptions) { o.databaseURL = url }
}

// WithLogger sets the structured logger for the App.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithVersion sets the version string reported in the health endpoint and logs.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithSource replaces the Postgres-backed records with s. No database
// connection is made and migrations do not run.
func WithSource(s Source) Option {
	return func(o *resolvedOptions) { o.source = s }
}

// WithThresholds overrides the similarity floor and high-confidence cutoff
// from config (CONFLICTS_FUZZY_THRESHOLD, CONFLICTS_HIGH_CONFIDENCE).
func WithThresholds(floor, highCutoff float64) Option {
	return func(o *resolvedOptions) {
		o.floor = floor
		o.highCutoff = highCutoff
	}
}

// WithMiddleware registers an outermost HTTP middleware.
// Multiple middlewares may be registered. Applied in registration order:
// the first-registered middleware is outermost (called first by every request).
func WithMiddleware(mw Middleware) Option {
	return func(o *resolvedOptions) { o.middlewares = append(o.middlewares, mw) }
}

// WithExtraMigrations adds an SQL migration filesystem to run after the
// bundled migrations, for deployments that extend the schema.
// Multiple filesystems are applied in registration order. Applied files are
// tracked by name, so extra files must not reuse a bundled file name.
func WithExtraMigrations(dir fs.FS) Option {
	return func(o *resolvedOptions) { o.extraMigrations = append(o.extraMigrations, dir) }
}
