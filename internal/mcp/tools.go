package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/ctxutil"
	"github.com/professional-hubs/conflicts/internal/model"
)

func (s *Server) registerTools() {
	// conflicts_check runs a full conflict search for the session's firm.
	s.mcpServer.AddTool(
		mcplib.NewTool("conflicts_check",
			mcplib.WithDescription(`Search the firm's clients and related parties for a potential conflict of interest.

WHEN TO USE: before opening a new client or matter, and whenever a new
opposing party, spouse, parent company or co-defendant enters a matter.

Give a person's name parts, a company name, or both. Matching ignores
accents (except ñ), letter case and word order, and tolerates typos.

WHAT YOU GET BACK:
- total_matches and a one-line message
- matches, highest similarity first, each with the client, the matter,
  its status, how the name matched and a confidence of high or medium

Closed and archived matters are included on purpose: they still conflict.
A report with zero matches is a clean result, not an error.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("given_name", mcplib.Description("Given name(s) of the person")),
			mcplib.WithString("first_surname", mcplib.Description("First surname of the person")),
			mcplib.WithString("second_surname", mcplib.Description("Second surname of the person, if any")),
			mcplib.WithString("company_name", mcplib.Description("Company or organization name")),
		),
		s.handleCheck,
	)

	// conflicts_compare_names explains how two names score against each other.
	s.mcpServer.AddTool(
		mcplib.NewTool("conflicts_compare_names",
			mcplib.WithDescription(`Score two names the way the conflict search does and report the confidence tier.

WHEN TO USE: to explain to a reviewer why a match was reported, or to
check whether a spelling variant would be caught. Does not read any records.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("name_a", mcplib.Description("First name to compare"), mcplib.Required()),
			mcplib.WithString("name_b", mcplib.Description("Second name to compare"), mcplib.Required()),
		),
		s.handleCompareNames,
	)
}

func (s *Server) handleCheck(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	firmID := ctxutil.FirmIDFromContext(ctx)
	if firmID <= 0 {
		return errorResult("no firm is associated with this session; authenticate with a firm token"), nil
	}

	req := model.CheckConflictsRequest{
		GivenName:     request.GetString("given_name", ""),
		FirstSurname:  request.GetString("first_surname", ""),
		SecondSurname: request.GetString("second_surname", ""),
		CompanyName:   request.GetString("company_name", ""),
	}
	if err := model.ValidateCheckRequest(req); err != nil {
		return errorResult(err.Error()), nil
	}

	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	report, err := s.checker.Check(ctx, firmID, req.Query())
	if err != nil {
		var verr *conflicts.ValidationError
		if errors.As(err, &verr) {
			if errors.Is(err, conflicts.ErrEmptyQuery) {
				return errorResult("provide at least one of given_name, first_surname, second_surname or company_name"), nil
			}
			return errorResult(verr.Error()), nil
		}
		s.logger.Error("mcp: conflict check failed", "firm_id", firmID, "error", err)
		var derr *conflicts.DataAccessError
		if errors.As(err, &derr) {
			return errorResult("the firm's records are temporarily unavailable; try again shortly"), nil
		}
		return errorResult("conflict check failed"), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal report: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) handleCompareNames(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	a := request.GetString("name_a", "")
	b := request.GetString("name_b", "")
	if a == "" || b == "" {
		return errorResult("name_a and name_b are required"), nil
	}

	score := conflicts.Score(a, b)
	confidence := "below threshold"
	if tier, ok := s.checker.Thresholds().Classify(score); ok {
		confidence = string(tier)
	}

	data, err := json.MarshalIndent(map[string]any{
		"name_a":           a,
		"name_b":           b,
		"normalized_a":     conflicts.Normalize(a),
		"normalized_b":     conflicts.Normalize(b),
		"similarity_score": score,
		"edit_distance":    conflicts.EditDistance(a, b),
		"confidence":       confidence,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal comparison: %w", err)
	}
	return textResult(string(data)), nil
}
