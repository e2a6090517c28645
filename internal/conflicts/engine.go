// Package conflicts implements the conflict-of-interest search: it compares a
// prospective client or party against every client and related party a firm
// has on record and reports the matters that may be in conflict.
package conflicts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/professional-hubs/conflicts/internal/model"
	"github.com/professional-hubs/conflicts/internal/telemetry"
)

// Source is the read side of the firm's records. Implementations must scope
// every read to firmID and exclude soft-deleted rows. Matters include every
// status (closed and archived matters still conflict).
type Source interface {
	ListActiveClients(ctx context.Context, firmID int64) ([]model.Client, error)
	ListMatters(ctx context.Context, firmID int64) ([]model.Matter, error)
	ListRelatedParties(ctx context.Context, firmID int64) ([]model.RelatedParty, error)
}

var tracer = telemetry.Tracer("conflicts/engine")

// Checker runs conflict checks against a Source. It holds no per-search
// state and is safe for concurrent use.
type Checker struct {
	source     Source
	thresholds Thresholds
	logger     *slog.Logger

	searchDuration metric.Float64Histogram
	matchCount     metric.Int64Counter
}

// NewChecker creates a Checker. Zero thresholds fall back to the 70/90 defaults.
func NewChecker(source Source, thresholds Thresholds, logger *slog.Logger) *Checker {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	meter := telemetry.Meter("conflicts/engine")
	searchDur, _ := meter.Float64Histogram("conflicts.search.duration",
		metric.WithDescription("Time to run a conflict check (ms)"),
		metric.WithUnit("ms"),
	)
	matches, _ := meter.Int64Counter("conflicts.search.matches",
		metric.WithDescription("Potential conflicts reported, by confidence tier"),
	)
	return &Checker{
		source:         source,
		thresholds:     thresholds,
		logger:         logger,
		searchDuration: searchDur,
		matchCount:     matches,
	}
}

// Thresholds returns the cutoffs this checker classifies with.
func (c *Checker) Thresholds() Thresholds {
	return c.thresholds
}

// Check runs a conflict check for firmID and returns the ranked report.
// An empty query or a non-positive firm ID is a *ValidationError and no
// search is performed. A failed read is a *DataAccessError. Zero matches is
// a successful report.
func (c *Checker) Check(ctx context.Context, firmID int64, q model.ConflictQuery) (model.ConflictReport, error) {
	if firmID <= 0 {
		return model.ConflictReport{}, &ValidationError{Err: fmt.Errorf("conflicts: firm id must be positive, got %d", firmID)}
	}
	if q.IsEmpty() {
		return model.ConflictReport{}, &ValidationError{Err: ErrEmptyQuery}
	}

	ctx, span := tracer.Start(ctx, "conflicts.check")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("conflicts.firm_id", firmID),
		attribute.Bool("conflicts.person_query", q.PersonName() != ""),
		attribute.Bool("conflicts.company_query", q.Company() != ""),
	)

	start := time.Now()
	raw, err := c.Search(ctx, firmID, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return model.ConflictReport{}, err
	}
	report := Assemble(q, Dedupe(raw))
	elapsed := time.Since(start)

	c.searchDuration.Record(ctx, float64(elapsed.Milliseconds()))
	for _, m := range report.Matches {
		c.matchCount.Add(ctx, 1, metric.WithAttributes(attribute.String("confidence", string(m.Confidence))))
	}
	span.SetAttributes(
		attribute.Int("conflicts.raw_matches", len(raw)),
		attribute.Int("conflicts.total_matches", report.TotalMatches),
	)
	c.logger.Debug("conflict check complete",
		"firm_id", firmID,
		"raw_matches", len(raw),
		"total_matches", report.TotalMatches,
		"duration_ms", elapsed.Milliseconds(),
	)
	return report, nil
}

// Search runs every applicable pass and returns the raw, undeduplicated
// matches in pass order. An empty query yields no matches.
func (c *Checker) Search(ctx context.Context, firmID int64, q model.ConflictQuery) ([]model.ConflictMatch, error) {
	if q.IsEmpty() {
		return nil, nil
	}
	snap, err := c.loadSnapshot(ctx, firmID)
	if err != nil {
		return nil, err
	}

	var out []model.ConflictMatch
	for _, p := range passes {
		name := p.queryName(q)
		if name == "" {
			continue
		}
		out = c.runPass(out, p, prepare(name), snap)
	}
	return out, nil
}

func (c *Checker) runPass(out []model.ConflictMatch, p pass, query string, snap *snapshot) []model.ConflictMatch {
	for _, cand := range p.candidates(snap) {
		score := similarity(query, prepare(cand.name))
		tier, ok := c.thresholds.Classify(score)
		if !ok {
			continue
		}
		for _, m := range cand.matters {
			match := model.ConflictMatch{
				ClientID:     cand.client.ID,
				ClientName:   cand.client.DisplayName(),
				MatterID:     m.ID,
				MatterName:   m.Name,
				MatterStatus: m.Status,
				MatchKind:    p.kind,
				Score:        score,
				Confidence:   tier,
				MatchedField: p.describe(cand),
			}
			if cand.party != nil {
				match.RelationType = cand.party.RelationType
			}
			out = append(out, match)
		}
	}
	return out
}

// loadSnapshot reads the firm's clients, matters and related parties
// concurrently. Any failed read fails the whole load.
func (c *Checker) loadSnapshot(ctx context.Context, firmID int64) (*snapshot, error) {
	var (
		clients []model.Client
		matters []model.Matter
		parties []model.RelatedParty
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if clients, err = c.source.ListActiveClients(gctx, firmID); err != nil {
			return &DataAccessError{Op: "list clients", FirmID: firmID, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if matters, err = c.source.ListMatters(gctx, firmID); err != nil {
			return &DataAccessError{Op: "list matters", FirmID: firmID, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if parties, err = c.source.ListRelatedParties(gctx, firmID); err != nil {
			return &DataAccessError{Op: "list related parties", FirmID: firmID, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newSnapshot(firmID, clients, matters, parties), nil
}
