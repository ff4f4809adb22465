package a2a

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/report"
	"github.com/hms-platform/hmstrack/status"
	"github.com/hms-platform/hmstrack/ticket"
)

func newTestHandler(t *testing.T) (*Handler, *ticket.Store) {
	t.Helper()

	root := t.TempDir()
	ticketStore := ticket.NewStore(filepath.Join(root, "work_tickets"))
	statusStore := status.NewStore(filepath.Join(root, "status"))
	tracker := status.NewTracker(statusStore,
		status.WithTicketSink(ticket.NewGenerator(ticketStore)),
	)
	reports := report.NewBuilder(statusStore, registry.New(""))

	handler := NewHandler(tracker, ticketStore, reports, filepath.Join(root, "summaries"))
	return handler, ticketStore
}

func request(t *testing.T, action Action, params any) *Request {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &Request{APIVersion: APIVersion, Action: action, Params: raw}
}

func TestHandleUnknownAction(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := handler.Handle(context.Background(), &Request{Action: "reticulate_splines"})

	assert.False(t, resp.Success)
	assert.Equal(t, "Unknown action: reticulate_splines", resp.Error)
	assert.Equal(t, APIVersion, resp.APIVersion)
	assert.Equal(t, Action("reticulate_splines"), resp.RequestAction)
	assert.NotZero(t, resp.Timestamp)
}

func TestHandleMissingParams(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		action  Action
		params  any
		wantErr string
	}{
		{ActionRecordComponentStart, map[string]any{"success": true}, "Missing required parameter: component"},
		{ActionRecordTestRun, map[string]any{}, "Missing required parameter: component"},
		{ActionGetComponentStatus, map[string]any{}, "Missing required parameter: component"},
		{ActionGenerateComponentSummary, map[string]any{}, "Missing required parameter: component"},
		{ActionUpdateWorkTicket, map[string]any{"updates": map[string]any{"status": "closed"}}, "Missing required parameter: ticket_id"},
		{ActionUpdateWorkTicket, map[string]any{"ticket_id": "WRK-1"}, "Missing required parameter: updates"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			resp := handler.Handle(ctx, request(t, tt.action, tt.params))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestHandleRecordAndGetStatus(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	resp := handler.Handle(ctx, request(t, ActionRecordComponentStart, map[string]any{
		"component": "HMS-API",
		"success":   true,
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	resp = handler.Handle(ctx, request(t, ActionRecordTestRun, map[string]any{
		"component": "HMS-API",
		"success":   true,
		"results":   map[string]any{"passed": 10, "failed": 0},
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	resp = handler.Handle(ctx, request(t, ActionGetComponentStatus, map[string]any{
		"component": "HMS-API",
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	data := resp.Data.(map[string]any)
	s := data["status"].(*status.ComponentStatus)
	assert.Equal(t, status.OperationalOK, s.Operational)
	assert.Equal(t, 1, s.Start.Successes)
	assert.Equal(t, 1, s.Tests.TotalPassed)
}

func TestHandleWorkTicketFlow(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	// A failed start with zero successes crosses the ticket threshold.
	resp := handler.Handle(ctx, request(t, ActionRecordComponentStart, map[string]any{
		"component": "HMS-API",
		"success":   false,
		"output":    "exit status 1",
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	resp = handler.Handle(ctx, request(t, ActionGetWorkTickets, map[string]any{
		"agent_id": "HMS-DEV",
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	tickets := resp.Data.(map[string]any)["tickets"].([]*ticket.WorkTicket)
	require.Len(t, tickets, 1)
	assert.Equal(t, "HMS-API", tickets[0].Component)
	assert.Equal(t, ticket.StatusOpen, tickets[0].Status)

	resp = handler.Handle(ctx, request(t, ActionUpdateWorkTicket, map[string]any{
		"ticket_id": tickets[0].ID,
		"updates":   map[string]any{"status": "closed"},
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	updated := resp.Data.(map[string]any)["ticket"].(*ticket.WorkTicket)
	assert.Equal(t, ticket.StatusClosed, updated.Status)

	// Closed tickets drop out of the default (open) listing.
	resp = handler.Handle(ctx, request(t, ActionGetWorkTickets, map[string]any{}))
	require.True(t, resp.Success)
	assert.Empty(t, resp.Data.(map[string]any)["tickets"])
}

func TestHandleGenerateSummary(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	resp := handler.Handle(ctx, request(t, ActionGenerateComponentSummary, map[string]any{
		"component": "HMS-API",
		"format":    "markdown",
	}))
	require.True(t, resp.Success, "error: %s", resp.Error)

	data := resp.Data.(map[string]any)
	md := data["markdown"].(string)
	assert.Contains(t, md, "# HMS-API Component Summary")
	assert.True(t, strings.HasSuffix(data["summary_path"].(string), ".md"))
}

func TestServeStdinLines(t *testing.T) {
	handler, _ := newTestHandler(t)

	input := strings.Join([]string{
		`{"api_version":"1.0","action":"record_component_start","params":{"component":"HMS-API","success":true}}`,
		`not json at all`,
		`{"api_version":"1.0","action":"get_component_status","params":{"component":"HMS-API"}}`,
	}, "\n")

	var out strings.Builder
	err := handler.Serve(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	var responses []Response
	for scanner.Scan() {
		var resp Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}

	require.Len(t, responses, 3)
	assert.True(t, responses[0].Success)
	assert.False(t, responses[1].Success)
	assert.Contains(t, responses[1].Error, "Invalid request")
	assert.True(t, responses[2].Success)
}

func TestRequestLogRedactsAuthToken(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "a2a_api.log")
	log := NewRequestLog(logPath)

	params, _ := json.Marshal(map[string]any{
		"component":  "HMS-API",
		"auth_token": "super-secret",
	})
	require.NoError(t, log.Record(ActionGetComponentStatus, params))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "super-secret")
	assert.Contains(t, string(data), `"auth_token":"***"`)
	assert.Contains(t, string(data), string(ActionGetComponentStatus))
}
