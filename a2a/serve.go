package a2a

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Serve reads newline-delimited JSON requests from r and writes one JSON
// response line per request to w. It returns when r is exhausted or ctx
// is canceled. Malformed lines produce an error response envelope instead
// of terminating the loop.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var resp *Response
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			resp = &Response{
				Error:      fmt.Sprintf("Invalid request: %v", err),
				APIVersion: APIVersion,
				Timestamp:  unixSeconds(h.now()),
			}
		} else {
			resp = h.Handle(ctx, &req)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	return scanner.Err()
}
