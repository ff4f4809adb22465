package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogNotifierAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notifications.log")
	n := NewLogNotifier(path)
	ctx := context.Background()

	if err := n.NotifyTicket(ctx, "HMS-DEV", "WRK-11111111", "HMS-API - start_failure"); err != nil {
		t.Fatalf("NotifyTicket() error = %v", err)
	}
	if err := n.NotifyTicket(ctx, "HMS-AGT-API", "WRK-22222222", "HMS-API - test_failure"); err != nil {
		t.Fatalf("NotifyTicket() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Notified HMS-DEV about WRK-11111111 (HMS-API - start_failure)") {
		t.Errorf("line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "HMS-AGT-API") {
		t.Errorf("line = %q", lines[1])
	}
}

type failingSink struct{ calls int }

func (f *failingSink) NotifyTicket(context.Context, string, string, string) error {
	f.calls++
	return errors.New("sink down")
}

type countingSink struct{ calls int }

func (c *countingSink) NotifyTicket(context.Context, string, string, string) error {
	c.calls++
	return nil
}

func TestMultiNotifierSwallowsFailures(t *testing.T) {
	failing := &failingSink{}
	counting := &countingSink{}
	multi := NewMultiNotifier(nil, failing, counting)

	if err := multi.NotifyTicket(context.Background(), "HMS-DEV", "WRK-1", "summary"); err != nil {
		t.Fatalf("NotifyTicket() error = %v, want nil", err)
	}

	// The failing sink must not stop delivery to the others.
	if failing.calls != 1 || counting.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", failing.calls, counting.calls)
	}
}
