// Package config provides configuration loading and management for the
// HMS status tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tracker configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Registry RegistryConfig `yaml:"registry"`
	NATS     NATSConfig     `yaml:"nats"`
	Simulate SimulateConfig `yaml:"simulate"`
	Serve    ServeConfig    `yaml:"serve"`
}

// DataConfig locates the tracker's on-disk state. The subdirectory names
// are relative to Root.
type DataConfig struct {
	// Root is the base directory for all tracker state (resolved by the
	// Loader when empty).
	Root string `yaml:"root"`

	// StatusDir holds one status file per component.
	StatusDir string `yaml:"status_dir"`

	// TicketsDir holds one file per work ticket.
	TicketsDir string `yaml:"tickets_dir"`

	// LogsDir holds notification and request logs plus health reports.
	LogsDir string `yaml:"logs_dir"`

	// SummariesDir holds generated component summaries.
	SummariesDir string `yaml:"summaries_dir"`
}

// AnalysisConfig locates the repository analysis output consumed by the
// component registry.
type AnalysisConfig struct {
	// Dir is the repo analysis directory; empty disables discovery.
	Dir string `yaml:"dir"`
}

// RegistryConfig extends the built-in component catalog.
type RegistryConfig struct {
	// ExtraComponents are appended to the known component list.
	ExtraComponents []string `yaml:"extra_components"`
}

// NATSConfig configures the optional NATS integration for ticket
// notifications and the A2A request service.
type NATSConfig struct {
	// URL is the NATS server URL; empty disables NATS entirely.
	URL string `yaml:"url"`

	// NotifySubjectPrefix overrides the ticket notification subject
	// prefix.
	NotifySubjectPrefix string `yaml:"notify_subject_prefix"`

	// RequestSubject overrides the A2A request subject.
	RequestSubject string `yaml:"request_subject"`
}

// SimulateConfig tunes the simulated outcome source.
type SimulateConfig struct {
	// StartSuccessRate is the probability a simulated start succeeds.
	StartSuccessRate float64 `yaml:"start_success_rate"`

	// TestSuccessRate is the probability a simulated test run passes.
	TestSuccessRate float64 `yaml:"test_success_rate"`
}

// ServeConfig configures the A2A server mode.
type ServeConfig struct {
	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint; empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Root:         "", // Resolved by the Loader
			StatusDir:    "status",
			TicketsDir:   "work_tickets",
			LogsDir:      "logs",
			SummariesDir: "summaries",
		},
		Simulate: SimulateConfig{
			StartSuccessRate: 0.9,
			TestSuccessRate:  0.8,
		},
	}
}

// StatusPath returns the resolved status directory.
func (c *Config) StatusPath() string {
	return filepath.Join(c.Data.Root, c.Data.StatusDir)
}

// TicketsPath returns the resolved tickets directory.
func (c *Config) TicketsPath() string {
	return filepath.Join(c.Data.Root, c.Data.TicketsDir)
}

// LogsPath returns the resolved logs directory.
func (c *Config) LogsPath() string {
	return filepath.Join(c.Data.Root, c.Data.LogsDir)
}

// SummariesPath returns the resolved summaries directory.
func (c *Config) SummariesPath() string {
	return filepath.Join(c.Data.Root, c.Data.SummariesDir)
}

// NotificationLogPath returns the notification log file path.
func (c *Config) NotificationLogPath() string {
	return filepath.Join(c.LogsPath(), "notifications.log")
}

// RequestLogPath returns the A2A request log file path.
func (c *Config) RequestLogPath() string {
	return filepath.Join(c.LogsPath(), "a2a_api.log")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Data.StatusDir == "" {
		return fmt.Errorf("data.status_dir is required")
	}
	if c.Data.TicketsDir == "" {
		return fmt.Errorf("data.tickets_dir is required")
	}
	if c.Data.LogsDir == "" {
		return fmt.Errorf("data.logs_dir is required")
	}
	if c.Data.SummariesDir == "" {
		return fmt.Errorf("data.summaries_dir is required")
	}
	if c.Simulate.StartSuccessRate < 0 || c.Simulate.StartSuccessRate > 1 {
		return fmt.Errorf("simulate.start_success_rate must be between 0 and 1")
	}
	if c.Simulate.TestSuccessRate < 0 || c.Simulate.TestSuccessRate > 1 {
		return fmt.Errorf("simulate.test_success_rate must be between 0 and 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Data
	if other.Data.Root != "" {
		c.Data.Root = other.Data.Root
	}
	if other.Data.StatusDir != "" {
		c.Data.StatusDir = other.Data.StatusDir
	}
	if other.Data.TicketsDir != "" {
		c.Data.TicketsDir = other.Data.TicketsDir
	}
	if other.Data.LogsDir != "" {
		c.Data.LogsDir = other.Data.LogsDir
	}
	if other.Data.SummariesDir != "" {
		c.Data.SummariesDir = other.Data.SummariesDir
	}

	// Analysis
	if other.Analysis.Dir != "" {
		c.Analysis.Dir = other.Analysis.Dir
	}

	// Registry
	if len(other.Registry.ExtraComponents) > 0 {
		c.Registry.ExtraComponents = other.Registry.ExtraComponents
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.NotifySubjectPrefix != "" {
		c.NATS.NotifySubjectPrefix = other.NATS.NotifySubjectPrefix
	}
	if other.NATS.RequestSubject != "" {
		c.NATS.RequestSubject = other.NATS.RequestSubject
	}

	// Simulate
	if other.Simulate.StartSuccessRate != 0 {
		c.Simulate.StartSuccessRate = other.Simulate.StartSuccessRate
	}
	if other.Simulate.TestSuccessRate != 0 {
		c.Simulate.TestSuccessRate = other.Simulate.TestSuccessRate
	}

	// Serve
	if other.Serve.MetricsAddr != "" {
		c.Serve.MetricsAddr = other.Serve.MetricsAddr
	}
}
