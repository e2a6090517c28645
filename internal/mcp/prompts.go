package mcp

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	// conflict-intake walks an assistant through screening a new name.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("conflict-intake",
			mcplib.WithPromptDescription("Screen a prospective client or party for conflicts of interest before intake"),
			mcplib.WithArgument("name",
				mcplib.ArgumentDescription("Full name of the person or company to screen"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("kind",
				mcplib.ArgumentDescription("person or company (default: person)"),
			),
		),
		s.handleIntakePrompt,
	)
}

func (s *Server) handleIntakePrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	name := strings.TrimSpace(request.Params.Arguments["name"])
	if name == "" {
		return nil, fmt.Errorf("name argument is required")
	}
	kind := strings.ToLower(strings.TrimSpace(request.Params.Arguments["kind"]))
	if kind == "" {
		kind = "person"
	}
	if kind != "person" && kind != "company" {
		return nil, fmt.Errorf("kind must be person or company, got %q", kind)
	}

	call := `conflicts_check with company_name="` + name + `"`
	if kind == "person" {
		call = `conflicts_check with given_name, first_surname and (if present) second_surname split from "` + name + `"`
	}

	th := s.checker.Thresholds()
	text := fmt.Sprintf(`Screen %q for conflicts of interest before the firm takes on the engagement.

1. CALL %s.

2. REVIEW every match, highest score first:
   - high confidence (score >= %.0f): treat as a likely conflict.
   - medium confidence (score >= %.0f): a possible match that needs a human look.
   - Note the matter status. Closed and archived matters still count.
   - For related-party matches, note the relation (opposing party, spouse and so on).

3. SUMMARIZE for the responsible attorney: the matches that need review, or
   state plainly that no conflicts were found.

Do not clear a high-confidence match yourself. Escalate it.`,
		name, call, th.HighCutoff, th.Floor)

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Conflict screening for %s", name),
		Messages: []mcplib.PromptMessage{
			{
				Role:    mcplib.RoleUser,
				Content: mcplib.TextContent{Type: "text", Text: text},
			},
		},
	}, nil
}
