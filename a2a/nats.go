package a2a

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// RequestSubject is the subject agents send protocol requests to.
const RequestSubject = "hms.a2a.request"

// ServeNATS subscribes to the request subject and answers each request
// on its reply inbox. It blocks until ctx is canceled. Requests without
// a reply inbox are handled for their side effects (the response is
// dropped), matching fire-and-forget publishers.
func (h *Handler) ServeNATS(ctx context.Context, nc *nats.Conn, subject string) error {
	if subject == "" {
		subject = RequestSubject
	}

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var resp *Response
		var req Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			resp = &Response{
				Error:      fmt.Sprintf("Invalid request: %v", err),
				APIVersion: APIVersion,
				Timestamp:  unixSeconds(h.now()),
			}
		} else {
			resp = h.Handle(ctx, &req)
		}

		if msg.Reply == "" {
			return
		}

		data, err := json.Marshal(resp)
		if err != nil {
			h.logger.Error("marshal response failed", "error", err)
			return
		}
		if err := msg.Respond(data); err != nil {
			h.logger.Error("respond failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	h.logger.Info("A2A handler listening", "subject", subject)

	<-ctx.Done()
	return ctx.Err()
}
