package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/ctxutil"
	"github.com/professional-hubs/conflicts/internal/model"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	checker             *conflicts.Checker
	db                  Pinger
	logger              *slog.Logger
	startedAt           time.Time
	version             string
	searchTimeout       time.Duration
	maxRequestBodyBytes int64
	openapiSpec         []byte
}

// HandlersDeps holds all dependencies for constructing Handlers.
// Optional (nil-safe): DB, OpenAPISpec.
type HandlersDeps struct {
	Checker             *conflicts.Checker
	DB                  Pinger
	Logger              *slog.Logger
	Version             string
	SearchTimeout       time.Duration
	MaxRequestBodyBytes int64
	OpenAPISpec         []byte
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	return &Handlers{
		checker:             d.Checker,
		db:                  d.DB,
		logger:              d.Logger,
		startedAt:           time.Now(),
		version:             d.Version,
		searchTimeout:       d.SearchTimeout,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
		openapiSpec:         d.OpenAPISpec,
	}
}

// HandleCheckConflicts handles POST /v1/conflicts/check.
func (h *Handlers) HandleCheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req model.CheckConflictsRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := model.ValidateCheckRequest(req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	ctx := r.Context()
	if h.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.searchTimeout)
		defer cancel()
	}

	firmID := ctxutil.FirmIDFromContext(ctx)
	report, err := h.checker.Check(ctx, firmID, req.Query())
	if err != nil {
		h.writeCheckError(w, r, firmID, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// writeCheckError maps checker errors to responses. Driver details are
// logged, never returned.
func (h *Handlers) writeCheckError(w http.ResponseWriter, r *http.Request, firmID int64, err error) {
	var verr *conflicts.ValidationError
	var derr *conflicts.DataAccessError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, verr.Error())
	case errors.As(err, &derr):
		h.logger.Error("conflict check: data access failed",
			"firm_id", firmID, "op", derr.Op, "error", derr.Err,
			"request_id", ctxutil.RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeDataUnavailable,
			"firm records are temporarily unavailable")
	default:
		h.logger.Error("conflict check failed", "firm_id", firmID, "error", err,
			"request_id", ctxutil.RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "conflict check failed")
	}
}

// HandleStatus handles GET /v1/conflicts/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	th := h.checker.Thresholds()
	writeJSON(w, r, http.StatusOK, model.ServiceStatusResponse{
		Service: "conflicts",
		Status:  "operational",
		Version: h.version,
		Thresholds: model.Thresholds{
			Floor:      th.Floor,
			HighCutoff: th.HighCutoff,
		},
	})
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	pgStatus := "not configured"
	status := "healthy"
	httpStatus := http.StatusOK

	if h.db != nil {
		pgStatus = "connected"
		if err := h.db.Ping(r.Context()); err != nil {
			pgStatus = "disconnected"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, r, httpStatus, model.HealthResponse{
		Status:   status,
		Version:  h.version,
		Postgres: pgStatus,
		Uptime:   int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleOpenAPISpec serves the embedded OpenAPI specification.
func (h *Handlers) HandleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.openapiSpec) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapiSpec)
}
