// Package a2a exposes status tracking and work ticket operations to other
// agents through a flat JSON request/response protocol.
package a2a

import (
	"encoding/json"
	"time"
)

// APIVersion is stamped on every response.
const APIVersion = "1.0"

// Action identifies a protocol operation.
type Action string

const (
	ActionRecordComponentStart     Action = "record_component_start"
	ActionRecordTestRun            Action = "record_test_run"
	ActionGetComponentStatus       Action = "get_component_status"
	ActionGenerateComponentSummary Action = "generate_component_summary"
	ActionGetWorkTickets           Action = "get_work_tickets"
	ActionUpdateWorkTicket         Action = "update_work_ticket"
)

// Actions lists every supported action.
func Actions() []Action {
	return []Action{
		ActionRecordComponentStart,
		ActionRecordTestRun,
		ActionGetComponentStatus,
		ActionGenerateComponentSummary,
		ActionGetWorkTickets,
		ActionUpdateWorkTicket,
	}
}

// Request is the inbound protocol envelope.
type Request struct {
	APIVersion string          `json:"api_version"`
	Action     Action          `json:"action"`
	Params     json.RawMessage `json:"params"`
	Timestamp  float64         `json:"timestamp,omitempty"`
}

// Response is the outbound protocol envelope. Every response carries the
// API version, a unix timestamp, and the action it answers.
type Response struct {
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
	Data          any     `json:"data,omitempty"`
	APIVersion    string  `json:"api_version"`
	Timestamp     float64 `json:"timestamp"`
	RequestAction Action  `json:"request_action"`
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
