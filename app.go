// Package conflicts is the public API for embedding the conflict-of-interest
// search server.
//
// Firms that keep client records in their own practice-management system can
// run the server against those records without the bundled Postgres schema:
//
//	app, err := conflicts.New(
//	    conflicts.WithVersion(version),
//	    conflicts.WithLogger(logger),
//	    conflicts.WithSource(myRecords{}),
//	)
//	if err != nil { ... }
//	if err := app.Run(ctx); err != nil { ... }
//
// The root package imports internal/*, never the reverse. Public types
// (Client, Matter, RelatedParty) are standalone structs; conversion to the
// internal model lives here because this is the only file that sees both
// sides of the boundary.
package conflicts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/professional-hubs/conflicts/api"
	"github.com/professional-hubs/conflicts/internal/auth"
	"github.com/professional-hubs/conflicts/internal/config"
	engine "github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/mcp"
	"github.com/professional-hubs/conflicts/internal/model"
	"github.com/professional-hubs/conflicts/internal/ratelimit"
	"github.com/professional-hubs/conflicts/internal/server"
	"github.com/professional-hubs/conflicts/internal/storage"
	"github.com/professional-hubs/conflicts/internal/telemetry"
	"github.com/professional-hubs/conflicts/migrations"
)

// shutdownTimeout bounds the HTTP drain on shutdown.
const shutdownTimeout = 10 * time.Second

// App is the conflict search server lifecycle. Construct with New(), run with Run().
// App has no public fields; use New() options to configure it.
type App struct {
	cfg          config.Config
	db           *storage.DB // nil when a Source was supplied
	srv          *server.Server
	limiter      ratelimit.Limiter
	otelShutdown telemetry.Shutdown
	logger       *slog.Logger
	version      string
}

// New initialises the server. It connects to the database (unless WithSource
// was given), runs migrations, wires all subsystems, and returns a
// ready-to-run App. It does NOT accept HTTP connections; call Run().
func New(opts ...Option) (*App, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	// Load configuration (env vars), then apply option overrides.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.port != 0 {
		cfg.Port = o.port
	}
	if o.databaseURL != "" {
		cfg.DatabaseURL = o.databaseURL
	}
	if o.floor != 0 || o.highCutoff != 0 {
		cfg.FuzzyThreshold, cfg.HighConfidenceThreshold = o.floor, o.highCutoff
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	version := o.version
	if version == "" {
		version = "dev"
	}

	logger.Info("conflicts starting", "version", version, "port", cfg.Port)

	ctx := context.Background()
	otelShutdown, err := telemetry.Init(ctx, telemetry.Options{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	a := &App{cfg: cfg, otelShutdown: otelShutdown, logger: logger, version: version}

	var source engine.Source
	if o.source != nil {
		source = sourceAdapter{o.source}
		logger.Info("records: external source, database disabled")
	} else {
		if a.db, err = openStorage(ctx, cfg, o, logger); err != nil {
			_ = otelShutdown(context.Background())
			return nil, err
		}
		source = a.db
	}

	if err := a.wire(source, o); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func openStorage(ctx context.Context, cfg config.Config, o resolvedOptions, logger *slog.Logger) (*storage.DB, error) {
	db, err := storage.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if !cfg.RunMigrations {
		logger.Info("embedded migrations skipped by config")
		return db, nil
	}
	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	for _, extra := range o.extraMigrations {
		if err := db.RunMigrations(ctx, extra); err != nil {
			db.Close()
			return nil, fmt.Errorf("extra migrations: %w", err)
		}
	}
	return db, nil
}

// wire builds the checker, MCP server and HTTP server over source.
func (a *App) wire(source engine.Source, o resolvedOptions) error {
	cfg, logger := a.cfg, a.logger

	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTExpiration)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if cfg.JWTPrivateKeyPath == "" {
		logger.Warn("auth: using ephemeral signing keys; tokens will not survive a restart")
	}
	if !cfg.RequireAuth {
		logger.Warn("auth: not required; requests may name their firm with X-Firm-ID")
	}

	// Create the checker (shared by HTTP and MCP).
	checker := engine.NewChecker(source, engine.Thresholds{
		Floor:      cfg.FuzzyThreshold,
		HighCutoff: cfg.HighConfidenceThreshold,
	}, logger)

	var firms mcp.FirmLookup
	var pinger server.Pinger
	if a.db != nil {
		firms, pinger = a.db, a.db
	}
	mcpSrv := mcp.New(mcp.Deps{
		Checker:       checker,
		Firms:         firms,
		Logger:        logger,
		Version:       a.version,
		SearchTimeout: cfg.SearchTimeout,
	})

	a.limiter = ratelimit.New(cfg.RateLimitEnabled, cfg.RateLimitRPS, cfg.RateLimitBurst)
	if cfg.RateLimitEnabled {
		logger.Info("rate limiting: memory (in-process token bucket)",
			"rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	} else {
		logger.Info("rate limiting: disabled")
	}

	middlewares := make([]func(http.Handler) http.Handler, 0, len(o.middlewares))
	for _, mw := range o.middlewares {
		middlewares = append(middlewares, mw)
	}

	// HTTP server (MCP mounted at /mcp).
	a.srv = server.New(server.ServerConfig{
		Checker:             checker,
		Logger:              logger,
		DB:                  pinger,
		JWTMgr:              jwtMgr,
		Limiter:             a.limiter,
		MCPServer:           mcpSrv.MCPServer(),
		RequireAuth:         cfg.RequireAuth,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		SearchTimeout:       cfg.SearchTimeout,
		Version:             a.version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		OpenAPISpec:         api.OpenAPISpec,
		Middlewares:         middlewares,
	})
	return nil
}

// Handler returns the root HTTP handler, for tests and for mounting the
// server inside another http.Server.
func (a *App) Handler() http.Handler {
	return a.srv.Handler()
}

// Run starts the HTTP server, then blocks until ctx is cancelled or a fatal
// server error occurs. On return, Shutdown has been called; callers should
// not call it separately.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Block until signal or server error.
	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.close()
		return err
	}

	return a.Shutdown(context.Background())
}

// Shutdown stops accepting HTTP requests and drains in-flight ones, then
// closes the database pool, the rate limiter and the OTEL providers.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("conflicts shutting down")

	httpCtx, httpCancel := context.WithTimeout(ctx, shutdownTimeout)
	err := a.srv.Shutdown(httpCtx)
	httpCancel()
	if err != nil {
		a.logger.Error("http shutdown error", "error", err)
	}

	a.close()
	a.logger.Info("conflicts stopped")
	return err
}

func (a *App) close() {
	if a.limiter != nil {
		_ = a.limiter.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
}

// sourceAdapter exposes a public Source as the engine's Source. Statuses and
// relation types are validated; an unknown value fails the read rather than
// silently dropping the row.
type sourceAdapter struct {
	src Source
}

func (a sourceAdapter) ListActiveClients(ctx context.Context, firmID int64) ([]model.Client, error) {
	rows, err := a.src.ListActiveClients(ctx, firmID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Client, len(rows))
	for i, c := range rows {
		out[i] = model.Client{
			ID:            c.ID,
			FirmID:        c.FirmID,
			GivenName:     c.GivenName,
			FirstSurname:  c.FirstSurname,
			SecondSurname: c.SecondSurname,
			CompanyName:   c.CompanyName,
			IsActive:      true,
		}
	}
	return out, nil
}

func (a sourceAdapter) ListMatters(ctx context.Context, firmID int64) ([]model.Matter, error) {
	rows, err := a.src.ListMatters(ctx, firmID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Matter, len(rows))
	for i, m := range rows {
		status, err := model.ParseMatterStatus(m.Status)
		if err != nil {
			return nil, fmt.Errorf("matter %d: %w", m.ID, err)
		}
		out[i] = model.Matter{
			ID:       m.ID,
			ClientID: m.ClientID,
			FirmID:   m.FirmID,
			Name:     m.Name,
			Status:   status,
			OpenedOn: m.OpenedOn,
			IsActive: true,
		}
	}
	return out, nil
}

func (a sourceAdapter) ListRelatedParties(ctx context.Context, firmID int64) ([]model.RelatedParty, error) {
	rows, err := a.src.ListRelatedParties(ctx, firmID)
	if err != nil {
		return nil, err
	}
	out := make([]model.RelatedParty, len(rows))
	for i, p := range rows {
		rel, err := model.ParseRelationType(p.RelationType)
		if err != nil {
			return nil, fmt.Errorf("related party %d: %w", p.ID, err)
		}
		out[i] = model.RelatedParty{
			ID:           p.ID,
			MatterID:     p.MatterID,
			FirmID:       p.FirmID,
			Name:         p.Name,
			RelationType: rel,
			IsActive:     true,
		}
	}
	return out, nil
}
