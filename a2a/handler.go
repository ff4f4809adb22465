package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hms-platform/hmstrack/report"
	"github.com/hms-platform/hmstrack/status"
	"github.com/hms-platform/hmstrack/ticket"
)

// Recorder counts handled requests. Implemented by metrics.Metrics.
type Recorder interface {
	RequestHandled(action string, success bool)
}

// handlerFunc processes decoded params and returns response data.
type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Handler dispatches protocol requests to the tracking subsystems. The
// dispatch table is keyed by action and fully populated at construction,
// so an unsupported action is the only non-handler path.
type Handler struct {
	tracker      *status.Tracker
	tickets      *ticket.Store
	reports      *report.Builder
	summariesDir string

	actions map[Action]handlerFunc
	log     *RequestLog
	metrics Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRequestLog sets the request audit log.
func WithRequestLog(log *RequestLog) HandlerOption {
	return func(h *Handler) { h.log = log }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) HandlerOption {
	return func(h *Handler) { h.metrics = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a handler over the tracking subsystems. summariesDir
// is where generate_component_summary writes its documents.
func NewHandler(tracker *status.Tracker, tickets *ticket.Store, reports *report.Builder, summariesDir string, opts ...HandlerOption) *Handler {
	h := &Handler{
		tracker:      tracker,
		tickets:      tickets,
		reports:      reports,
		summariesDir: summariesDir,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.actions = map[Action]handlerFunc{
		ActionRecordComponentStart:     h.recordComponentStart,
		ActionRecordTestRun:            h.recordTestRun,
		ActionGetComponentStatus:       h.getComponentStatus,
		ActionGenerateComponentSummary: h.generateComponentSummary,
		ActionGetWorkTickets:           h.getWorkTickets,
		ActionUpdateWorkTicket:         h.updateWorkTicket,
	}

	return h
}

// Handle processes one request and always returns a complete response
// envelope. Failures are reported in the envelope, never as Go errors.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	resp := &Response{
		APIVersion:    APIVersion,
		RequestAction: req.Action,
	}

	if h.log != nil {
		if err := h.log.Record(req.Action, req.Params); err != nil {
			h.logger.Warn("request log write failed", "error", err)
		}
	}

	fn, ok := h.actions[req.Action]
	if !ok {
		resp.Error = fmt.Sprintf("Unknown action: %s", req.Action)
		resp.Timestamp = unixSeconds(h.now())
		h.observe(req.Action, false)
		return resp
	}

	data, err := fn(ctx, req.Params)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Success = true
		resp.Data = data
	}
	resp.Timestamp = unixSeconds(h.now())

	h.observe(req.Action, resp.Success)
	return resp
}

func (h *Handler) observe(action Action, success bool) {
	if h.metrics != nil {
		h.metrics.RequestHandled(string(action), success)
	}
}

// missingParam is the error for an absent required parameter.
func missingParam(name string) error {
	return fmt.Errorf("Missing required parameter: %s", name)
}

func decodeParams(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}

type startParams struct {
	Component string `json:"component"`
	Success   bool   `json:"success"`
	Output    string `json:"output"`
}

func (h *Handler) recordComponentStart(ctx context.Context, raw json.RawMessage) (any, error) {
	var p startParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.Component == "" {
		return nil, missingParam("component")
	}

	s, err := h.tracker.RecordStart(ctx, p.Component, p.Success, p.Output)
	if err != nil {
		return nil, fmt.Errorf("Error recording component start: %w", err)
	}
	return map[string]any{"status": s}, nil
}

type testParams struct {
	Component string              `json:"component"`
	Success   bool                `json:"success"`
	Results   *status.TestResults `json:"results"`
}

func (h *Handler) recordTestRun(ctx context.Context, raw json.RawMessage) (any, error) {
	var p testParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.Component == "" {
		return nil, missingParam("component")
	}

	s, err := h.tracker.RecordTest(ctx, p.Component, p.Success, p.Results)
	if err != nil {
		return nil, fmt.Errorf("Error recording test run: %w", err)
	}
	return map[string]any{"status": s}, nil
}

type componentParams struct {
	Component string `json:"component"`
}

func (h *Handler) getComponentStatus(_ context.Context, raw json.RawMessage) (any, error) {
	var p componentParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.Component == "" {
		return nil, missingParam("component")
	}

	s, err := h.tracker.Store().Load(p.Component)
	if err != nil {
		return nil, fmt.Errorf("Error getting component status: %w", err)
	}
	return map[string]any{"status": s}, nil
}

type summaryParams struct {
	Component string `json:"component"`
	Format    string `json:"format"`
}

func (h *Handler) generateComponentSummary(_ context.Context, raw json.RawMessage) (any, error) {
	var p summaryParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.Component == "" {
		return nil, missingParam("component")
	}

	summary, err := h.reports.ComponentReport(p.Component)
	if err != nil {
		return nil, fmt.Errorf("Error generating component summary: %w", err)
	}

	path, err := summary.Save(h.summariesDir)
	if err != nil {
		return nil, fmt.Errorf("Error generating component summary: %w", err)
	}

	if strings.EqualFold(p.Format, "markdown") {
		return map[string]any{
			"summary_path": strings.TrimSuffix(path, ".json") + ".md",
			"markdown":     summary.Markdown(),
		}, nil
	}

	return map[string]any{
		"summary_path": path,
		"summary":      summary,
	}, nil
}

type ticketsParams struct {
	AgentID   string  `json:"agent_id"`
	Component string  `json:"component"`
	Status    *string `json:"status"`
}

func (h *Handler) getWorkTickets(_ context.Context, raw json.RawMessage) (any, error) {
	var p ticketsParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	// Status defaults to open; an explicit empty string disables the filter.
	statusFilter := string(ticket.StatusOpen)
	if p.Status != nil {
		statusFilter = *p.Status
	}

	tickets, err := h.tickets.List(ticket.Filter{
		AssignedTo: p.AgentID,
		Component:  p.Component,
		Status:     ticket.Status(statusFilter),
	})
	if err != nil {
		return nil, fmt.Errorf("Error getting work tickets: %w", err)
	}
	return map[string]any{"tickets": tickets}, nil
}

type updateParams struct {
	TicketID string         `json:"ticket_id"`
	Updates  map[string]any `json:"updates"`
}

func (h *Handler) updateWorkTicket(_ context.Context, raw json.RawMessage) (any, error) {
	var p updateParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.TicketID == "" {
		return nil, missingParam("ticket_id")
	}
	if len(p.Updates) == 0 {
		return nil, missingParam("updates")
	}

	updated, err := h.tickets.Update(p.TicketID, p.Updates)
	if err != nil {
		return nil, fmt.Errorf("Error updating work ticket: %w", err)
	}
	return map[string]any{"ticket": updated}, nil
}
