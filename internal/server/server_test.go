package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcptransport "github.com/mark3labs/mcp-go/client/transport"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/professional-hubs/conflicts/internal/auth"
	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/mcp"
	"github.com/professional-hubs/conflicts/internal/model"
	"github.com/professional-hubs/conflicts/internal/ratelimit"
	"github.com/professional-hubs/conflicts/internal/server"
)

// firmSource holds records for several firms and filters by firm like the
// database does.
type firmSource struct {
	clients []model.Client
	matters []model.Matter
	parties []model.RelatedParty
	err     error
}

func (s *firmSource) ListActiveClients(_ context.Context, firmID int64) ([]model.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Client
	for _, c := range s.clients {
		if c.FirmID == firmID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *firmSource) ListMatters(_ context.Context, firmID int64) ([]model.Matter, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Matter
	for _, m := range s.matters {
		if m.FirmID == firmID && m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *firmSource) ListRelatedParties(_ context.Context, firmID int64) ([]model.RelatedParty, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.RelatedParty
	for _, p := range s.parties {
		if p.FirmID == firmID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// twoFirms has firm 1 (García & Asociados) and firm 2 (Hernández), each with
// a client named in a way the other firm must never see.
func twoFirms() *firmSource {
	return &firmSource{
		clients: []model.Client{
			{ID: 1, FirmID: 1, GivenName: "Juan", FirstSurname: "García", SecondSurname: "López", IsActive: true},
			{ID: 2, FirmID: 1, CompanyName: "Constructora del Norte S.A.", IsActive: true},
			{ID: 3, FirmID: 2, GivenName: "Miguel", FirstSurname: "Hernández", IsActive: true},
		},
		matters: []model.Matter{
			{ID: 10, ClientID: 1, FirmID: 1, Name: "Divorcio García", Status: model.MatterStatusClosed, IsActive: true},
			{ID: 11, ClientID: 2, FirmID: 1, Name: "Contrato Obra Pública", Status: model.MatterStatusActive, IsActive: true},
			{ID: 20, ClientID: 3, FirmID: 2, Name: "Herencia Hernández", Status: model.MatterStatusPending, IsActive: true},
		},
		parties: []model.RelatedParty{
			{ID: 100, MatterID: 10, FirmID: 1, Name: "María Rodríguez", RelationType: model.RelationSpouse, IsActive: true},
			{ID: 101, MatterID: 11, FirmID: 1, Name: "Ayuntamiento de Monterrey", RelationType: model.RelationOpposingParty, IsActive: true},
		},
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type harness struct {
	srv    *httptest.Server
	jwtMgr *auth.JWTManager
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, src conflicts.Source, mutate func(*server.ServerConfig)) *harness {
	t.Helper()
	logger := testLogger()
	jwtMgr, err := auth.NewJWTManager("", "", time.Hour)
	require.NoError(t, err)

	checker := conflicts.NewChecker(src, conflicts.DefaultThresholds(), logger)
	mcpSrv := mcp.New(mcp.Deps{
		Checker:       checker,
		Logger:        logger,
		Version:       "test",
		SearchTimeout: 5 * time.Second,
	})

	cfg := server.ServerConfig{
		Checker:             checker,
		Logger:              logger,
		DB:                  pinger{},
		JWTMgr:              jwtMgr,
		Limiter:             ratelimit.NoopLimiter{},
		MCPServer:           mcpSrv.MCPServer(),
		RequireAuth:         true,
		SearchTimeout:       5 * time.Second,
		Version:             "test",
		MaxRequestBodyBytes: 1024,
		OpenAPISpec:         []byte("openapi: 3.1.0\n"),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	h := &harness{srv: httptest.NewServer(server.New(cfg).Handler()), jwtMgr: jwtMgr}
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) token(t *testing.T, firmID int64) string {
	t.Helper()
	tok, _, err := h.jwtMgr.IssueToken(firmID, "intake@firm.test")
	require.NoError(t, err)
	return tok
}

func (h *harness) check(t *testing.T, headers map[string]string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/v1/conflicts/check", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func decodeReport(t *testing.T, resp *http.Response) model.ConflictReport {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env struct {
		Data model.ConflictReport `json:"data"`
		Meta model.ResponseMeta   `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.NotEmpty(t, env.Meta.RequestID)
	return env.Data
}

func decodeError(t *testing.T, resp *http.Response) model.ErrorDetail {
	t.Helper()
	var env model.APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Error
}

func TestCheckConflicts_PersonMatch(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	resp := h.check(t, bearer(h.token(t, 1)), `{"given_name":"Juan","first_surname":"Garcia","second_surname":"Lopez"}`)
	report := decodeReport(t, resp)

	require.Equal(t, 1, report.TotalMatches)
	m := report.Matches[0]
	assert.Equal(t, int64(1), m.ClientID)
	assert.Equal(t, int64(10), m.MatterID)
	assert.Equal(t, model.MatterStatusClosed, m.MatterStatus)
	assert.Equal(t, model.ConfidenceHigh, m.Confidence)
	assert.Equal(t, "Juan Garcia Lopez", report.SearchTerm)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestCheckConflicts_CompanyAndRelatedParty(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	resp := h.check(t, bearer(h.token(t, 1)), `{"company_name":"Ayuntamiento de Monterey"}`)
	report := decodeReport(t, resp)

	require.Equal(t, 1, report.TotalMatches)
	assert.Equal(t, model.MatchKindRelatedParty, report.Matches[0].MatchKind)
	assert.Equal(t, model.RelationOpposingParty, report.Matches[0].RelationType)
	assert.Equal(t, int64(11), report.Matches[0].MatterID)
}

func TestCheckConflicts_NoConflicts(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	report := decodeReport(t, h.check(t, bearer(h.token(t, 1)), `{"company_name":"Zeta Holdings"}`))
	assert.Equal(t, 0, report.TotalMatches)
	assert.Empty(t, report.Matches)
	assert.Equal(t, "No conflicts of interest found", report.Message)
}

func TestCheckConflicts_FirmIsolation(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	// Miguel Hernández is firm 2's client; firm 1 must not see him.
	report := decodeReport(t, h.check(t, bearer(h.token(t, 1)), `{"given_name":"Miguel","first_surname":"Hernandez"}`))
	assert.Equal(t, 0, report.TotalMatches)

	report = decodeReport(t, h.check(t, bearer(h.token(t, 2)), `{"given_name":"Miguel","first_surname":"Hernandez"}`))
	require.Equal(t, 1, report.TotalMatches)
	assert.Equal(t, int64(20), report.Matches[0].MatterID)
}

func TestCheckConflicts_Validation(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)
	tok := h.token(t, 1)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty query", `{}`, http.StatusBadRequest},
		{"blank fields", `{"given_name":"  ","company_name":""}`, http.StatusBadRequest},
		{"unknown field", `{"name":"Juan"}`, http.StatusBadRequest},
		{"malformed", `{"given_name":`, http.StatusBadRequest},
		{"trailing data", `{"given_name":"Juan"}{}`, http.StatusBadRequest},
		{"too long", `{"given_name":"` + strings.Repeat("a", model.MaxPersonNamePartLen+1) + `"}`, http.StatusBadRequest},
		{"body too large", `{"company_name":"` + strings.Repeat("a", 2048) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.check(t, bearer(tok), tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, model.ErrCodeInvalidInput, decodeError(t, resp).Code)
		})
	}
}

func TestCheckConflicts_DataUnavailable(t *testing.T) {
	h := newHarness(t, &firmSource{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, nil)

	resp := h.check(t, bearer(h.token(t, 1)), `{"company_name":"Constructora del Norte"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	detail := decodeError(t, resp)
	assert.Equal(t, model.ErrCodeDataUnavailable, detail.Code)
	assert.NotContains(t, detail.Message, "10.0.0.5")
}

func TestCheckConflicts_Auth(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)
	body := `{"company_name":"Constructora del Norte"}`

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing", nil},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}},
		{"garbage token", bearer("not-a-jwt")},
		{"firm header ignored when auth required", map[string]string{"X-Firm-ID": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.check(t, tt.headers, body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, model.ErrCodeUnauthorized, decodeError(t, resp).Code)
		})
	}

	t.Run("foreign key", func(t *testing.T) {
		other, err := auth.NewJWTManager("", "", time.Hour)
		require.NoError(t, err)
		tok, _, err := other.IssueToken(1, "intake@firm.test")
		require.NoError(t, err)
		resp := h.check(t, bearer(tok), body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCheckConflicts_FirmHeaderWhenAuthOptional(t *testing.T) {
	h := newHarness(t, twoFirms(), func(cfg *server.ServerConfig) { cfg.RequireAuth = false })
	body := `{"company_name":"Constructora del Norte"}`

	report := decodeReport(t, h.check(t, map[string]string{"X-Firm-ID": "1"}, body))
	assert.Equal(t, 1, report.TotalMatches)

	resp := h.check(t, map[string]string{"X-Firm-ID": "abc"}, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.check(t, map[string]string{"X-Firm-ID": "0"}, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.check(t, nil, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A token still takes precedence over the header.
	report = decodeReport(t, h.check(t, map[string]string{
		"Authorization": "Bearer " + h.token(t, 2),
		"X-Firm-ID":     "1",
	}, body))
	assert.Equal(t, 0, report.TotalMatches)
}

func TestCheckConflicts_RateLimitedPerFirm(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(0.001, 1)
	t.Cleanup(func() { _ = limiter.Close() })
	h := newHarness(t, twoFirms(), func(cfg *server.ServerConfig) { cfg.Limiter = limiter })
	body := `{"company_name":"Zeta"}`

	assert.Equal(t, http.StatusOK, h.check(t, bearer(h.token(t, 1)), body).StatusCode)

	resp := h.check(t, bearer(h.token(t, 1)), body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, model.ErrCodeRateLimited, decodeError(t, resp).Code)

	// Firm 2 has its own bucket.
	assert.Equal(t, http.StatusOK, h.check(t, bearer(h.token(t, 2)), body).StatusCode)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	resp, err := http.Get(h.srv.URL + "/v1/conflicts/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data model.ServiceStatusResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "operational", env.Data.Status)
	assert.Equal(t, "test", env.Data.Version)
	assert.Equal(t, 70.0, env.Data.Thresholds.Floor)
	assert.Equal(t, 90.0, env.Data.Thresholds.HighCutoff)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       server.Pinger
		status   int
		postgres string
	}{
		{"connected", pinger{}, http.StatusOK, "connected"},
		{"disconnected", pinger{err: errors.New("down")}, http.StatusServiceUnavailable, "disconnected"},
		{"no database", nil, http.StatusOK, "not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, twoFirms(), func(cfg *server.ServerConfig) { cfg.DB = tt.db })

			resp, err := http.Get(h.srv.URL + "/health")
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)

			var env struct {
				Data model.HealthResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.Equal(t, tt.postgres, env.Data.Postgres)
		})
	}
}

func TestOpenAPISpec(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	resp, err := http.Get(h.srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("openapi:")))

	h = newHarness(t, twoFirms(), func(cfg *server.ServerConfig) { cfg.OpenAPISpec = nil })
	resp2, err := http.Get(h.srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestRequestIDPropagation(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "intake-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "intake-42", resp.Header.Get("X-Request-ID"))
}

// newMCPClient creates an MCP client that connects to the test server's /mcp
// endpoint with the given headers.
func newMCPClient(t *testing.T, h *harness, headers map[string]string) *mcpclient.Client {
	t.Helper()
	c, err := mcpclient.NewStreamableHttpClient(
		h.srv.URL+"/mcp",
		mcptransport.WithHTTPHeaders(headers),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func initialize(t *testing.T, c *mcpclient.Client) *mcplib.InitializeResult {
	t.Helper()
	res, err := c.Initialize(context.Background(), mcplib.InitializeRequest{
		Params: mcplib.InitializeParams{
			ClientInfo: mcplib.Implementation{Name: "test-client", Version: "1.0"},
		},
	})
	require.NoError(t, err)
	return res
}

func TestMCPInitializeAndListTools(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)
	c := newMCPClient(t, h, bearer(h.token(t, 1)))

	initResult := initialize(t, c)
	assert.Equal(t, "conflicts", initResult.ServerInfo.Name)
	assert.Equal(t, "test", initResult.ServerInfo.Version)

	toolsResult, err := c.ListTools(context.Background(), mcplib.ListToolsRequest{})
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range toolsResult.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["conflicts_check"], "expected conflicts_check tool")
	assert.True(t, names["conflicts_compare_names"], "expected conflicts_compare_names tool")
}

func TestMCPCheckIsFirmScoped(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)
	args := map[string]any{"given_name": "Miguel", "first_surname": "Hernandez"}

	for _, tc := range []struct {
		firm    int64
		matches int
	}{
		{1, 0},
		{2, 1},
	} {
		c := newMCPClient(t, h, bearer(h.token(t, tc.firm)))
		initialize(t, c)

		result, err := c.CallTool(context.Background(), mcplib.CallToolRequest{
			Params: mcplib.CallToolParams{Name: "conflicts_check", Arguments: args},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)
		require.NotEmpty(t, result.Content)
		text, ok := result.Content[0].(mcplib.TextContent)
		require.True(t, ok)

		var report model.ConflictReport
		require.NoError(t, json.Unmarshal([]byte(text.Text), &report))
		assert.Equal(t, tc.matches, report.TotalMatches, "firm %d", tc.firm)
	}
}

func TestMCPRequiresFirm(t *testing.T) {
	h := newHarness(t, twoFirms(), nil)

	resp, err := http.Post(h.srv.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
