package conflicts

import (
	"context"
	"net/http"
)

// Source supplies a firm's records when they live outside the bundled
// Postgres schema. When provided via WithSource, the App does not connect to
// a database. Every method must return only the given firm's active
// (not soft-deleted) rows; matters of every status are included.
type Source interface {
	ListActiveClients(ctx context.Context, firmID int64) ([]Client, error)
	ListMatters(ctx context.Context, firmID int64) ([]Matter, error)
	ListRelatedParties(ctx context.Context, firmID int64) ([]RelatedParty, error)
}

// Middleware wraps the root HTTP handler.
// Applied outermost (before routing), so it sees all requests including /health.
// Multiple middlewares are applied in registration order (first-registered = outermost).
type Middleware func(http.Handler) http.Handler
