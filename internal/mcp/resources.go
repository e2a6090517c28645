package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/professional-hubs/conflicts/internal/ctxutil"
	"github.com/professional-hubs/conflicts/internal/model"
)

const (
	uriStatus = "conflicts://status"
	uriFirm   = "conflicts://firm"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			uriStatus,
			"Conflict Service Status",
			mcplib.WithResourceDescription("Service version and the similarity thresholds used to report and classify matches"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleStatus,
	)

	s.mcpServer.AddResource(
		mcplib.NewResource(
			uriFirm,
			"Current Firm",
			mcplib.WithResourceDescription("The firm whose records this session searches"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleFirm,
	)
}

func (s *Server) handleStatus(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	th := s.checker.Thresholds()
	return jsonResource(uriStatus, model.ServiceStatusResponse{
		Service: "conflicts",
		Status:  "operational",
		Version: s.version,
		Thresholds: model.Thresholds{
			Floor:      th.Floor,
			HighCutoff: th.HighCutoff,
		},
	})
}

func (s *Server) handleFirm(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	firmID := ctxutil.FirmIDFromContext(ctx)
	if firmID <= 0 {
		return nil, fmt.Errorf("mcp: no firm associated with this session")
	}
	firm := model.Firm{ID: firmID}
	if s.firms != nil {
		var err error
		if firm, err = s.firms.GetFirm(ctx, firmID); err != nil {
			return nil, fmt.Errorf("mcp: firm %d: %w", firmID, err)
		}
	}
	return jsonResource(uriFirm, firm)
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
