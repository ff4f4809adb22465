package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Data.StatusDir != "status" {
		t.Errorf("StatusDir = %q", cfg.Data.StatusDir)
	}
	if cfg.Data.TicketsDir != "work_tickets" {
		t.Errorf("TicketsDir = %q", cfg.Data.TicketsDir)
	}
	if cfg.Simulate.StartSuccessRate != 0.9 || cfg.Simulate.TestSuccessRate != 0.8 {
		t.Errorf("Simulate = %+v", cfg.Simulate)
	}

	cfg.Data.Root = "/tmp/x"
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.Root = "/data/hms"

	if got := cfg.StatusPath(); got != filepath.Join("/data/hms", "status") {
		t.Errorf("StatusPath() = %q", got)
	}
	if got := cfg.NotificationLogPath(); got != filepath.Join("/data/hms", "logs", "notifications.log") {
		t.Errorf("NotificationLogPath() = %q", got)
	}
	if got := cfg.RequestLogPath(); got != filepath.Join("/data/hms", "logs", "a2a_api.log") {
		t.Errorf("RequestLogPath() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing status dir", func(c *Config) { c.Data.StatusDir = "" }, true},
		{"missing tickets dir", func(c *Config) { c.Data.TicketsDir = "" }, true},
		{"rate above one", func(c *Config) { c.Simulate.StartSuccessRate = 1.5 }, true},
		{"negative rate", func(c *Config) { c.Simulate.TestSuccessRate = -0.1 }, true},
		{"boundary rates", func(c *Config) {
			c.Simulate.StartSuccessRate = 0
			c.Simulate.TestSuccessRate = 1
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Data.Root = "/base"

	base.Merge(&Config{
		Data: DataConfig{Root: "/override", StatusDir: "state"},
		NATS: NATSConfig{URL: "nats://localhost:4222"},
	})

	if base.Data.Root != "/override" {
		t.Errorf("Root = %q", base.Data.Root)
	}
	if base.Data.StatusDir != "state" {
		t.Errorf("StatusDir = %q", base.Data.StatusDir)
	}
	// Unset fields keep their previous values.
	if base.Data.TicketsDir != "work_tickets" {
		t.Errorf("TicketsDir = %q", base.Data.TicketsDir)
	}
	if base.Simulate.StartSuccessRate != 0.9 {
		t.Errorf("StartSuccessRate = %v", base.Simulate.StartSuccessRate)
	}
	if base.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q", base.NATS.URL)
	}

	// Merging nil is a no-op.
	base.Merge(nil)
	if base.Data.Root != "/override" {
		t.Errorf("Root after nil merge = %q", base.Data.Root)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hmstrack.yaml")

	cfg := DefaultConfig()
	cfg.Data.Root = "/data/hms"
	cfg.NATS.URL = "nats://localhost:4222"
	cfg.Registry.ExtraComponents = []string{"HMS-CUSTOM"}

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Data.Root != "/data/hms" {
		t.Errorf("Root = %q", loaded.Data.Root)
	}
	if loaded.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q", loaded.NATS.URL)
	}
	if len(loaded.Registry.ExtraComponents) != 1 || loaded.Registry.ExtraComponents[0] != "HMS-CUSTOM" {
		t.Errorf("ExtraComponents = %v", loaded.Registry.ExtraComponents)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromFile on missing file: want error")
	}
}
