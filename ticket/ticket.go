// Package ticket generates and stores work tickets for component
// failures. Each ticket is persisted as its own JSON file and assigned to
// the agent responsible for the failing component.
package ticket

import (
	"errors"
	"time"

	"github.com/hms-platform/hmstrack/status"
)

// Sentinel errors for ticket operations.
var (
	// ErrNotFound is returned when a referenced ticket does not exist.
	ErrNotFound = errors.New("work ticket not found")

	// ErrTicketIDRequired is returned when an operation is missing the
	// ticket identifier.
	ErrTicketIDRequired = errors.New("ticket id is required")
)

// Priority of a work ticket.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status of a work ticket. Tickets are created open; closing happens
// through an external update.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Details carries the human-facing context of a ticket.
type Details struct {
	Component        string       `json:"component"`
	Issue            status.Issue `json:"issue"`
	Description      string       `json:"description"`
	SuggestedActions []string     `json:"suggested_actions"`
}

// WorkTicket is an actionable record generated from an issue. It is
// loosely linked to the originating issue by IssueID; no referential
// integrity is enforced.
type WorkTicket struct {
	ID         string           `json:"id"`
	Component  string           `json:"component"`
	IssueID    string           `json:"issue_id"`
	IssueType  status.IssueType `json:"issue_type"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	AssignedTo string           `json:"assigned_to"`
	Status     Status           `json:"status"`
	Priority   Priority         `json:"priority"`
	Details    Details          `json:"details"`
}
