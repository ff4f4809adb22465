package a2a

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RequestLog appends one JSON line per handled request to an audit file.
// Sensitive parameters are redacted before writing.
type RequestLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewRequestLog creates a request log writing to path.
func NewRequestLog(path string) *RequestLog {
	return &RequestLog{path: path, now: time.Now}
}

type logEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    Action         `json:"action"`
	Params    map[string]any `json:"params"`
}

// Record appends a log line for the request. Params that fail to decode
// are logged as an empty map rather than dropped.
func (l *RequestLog) Record(action Action, rawParams json.RawMessage) error {
	params := map[string]any{}
	if len(rawParams) > 0 {
		_ = json.Unmarshal(rawParams, &params)
	}
	if _, ok := params["auth_token"]; ok {
		params["auth_token"] = "***"
	}

	line, err := json.Marshal(logEntry{
		Timestamp: l.now(),
		Action:    action,
		Params:    params,
	})
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open request log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write request log: %w", err)
	}
	return nil
}
