package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// TicketNotifySubjectPrefix is the subject prefix for ticket
// notifications; the assignee is appended as the final token.
const TicketNotifySubjectPrefix = "hms.ticket.notify"

// TicketNotification is the message published for each new ticket.
type TicketNotification struct {
	Assignee  string    `json:"assignee"`
	TicketID  string    `json:"ticket_id"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSNotifier publishes ticket notifications to the assignee's subject
// so agent processes can subscribe for their own work.
type NATSNotifier struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSNotifier creates a notifier publishing on the given connection.
// An empty subjectPrefix falls back to TicketNotifySubjectPrefix.
func NewNATSNotifier(nc *nats.Conn, subjectPrefix string) *NATSNotifier {
	if subjectPrefix == "" {
		subjectPrefix = TicketNotifySubjectPrefix
	}
	return &NATSNotifier{nc: nc, subjectPrefix: subjectPrefix}
}

// NotifyTicket publishes the notification to <prefix>.<assignee>.
func (n *NATSNotifier) NotifyTicket(ctx context.Context, assignee, ticketID, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := TicketNotification{
		Assignee:  assignee,
		TicketID:  ticketID,
		Summary:   summary,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", n.subjectPrefix, assignee)
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}
