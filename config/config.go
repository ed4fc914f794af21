// Package config loads the MCP server configuration from YAML. All settings
// are explicit values threaded through constructors; nothing reads process
// environment toggles at runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of the server configuration file.
type Config struct {
	// Server identifies the MCP server to clients.
	Server ServerConfig `yaml:"server"`
	// Tool configures the agent tool adapter.
	Tool ToolConfig `yaml:"tool"`
	// Log configures diagnostics output.
	Log LogConfig `yaml:"log"`
}

// ServerConfig names the MCP server.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ToolConfig configures the agent tool adapter.
type ToolConfig struct {
	// StreamMode is one of never, always, per_request.
	StreamMode string `yaml:"stream_mode"`
	// ErrorPolicy is one of abort_on_error, continue_on_error.
	ErrorPolicy string `yaml:"error_policy"`
	// IncludeFullResult keeps the raw agent output in single-shot results.
	IncludeFullResult *bool `yaml:"include_full_result"`
	// DefaultMaxSteps is the step budget for handles without one.
	DefaultMaxSteps int `yaml:"default_max_steps"`
	// StepDelayMS paces streamed events between steps.
	StepDelayMS int `yaml:"step_delay_ms"`
}

// LogConfig configures diagnostics output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the baseline configuration: streaming off, abort on
// action errors, full results kept, 80 steps, 100ms pacing, info text logs.
func Default() Config {
	keep := true
	return Config{
		Server: ServerConfig{Name: "openmanus", Version: "1.0.0"},
		Tool: ToolConfig{
			StreamMode:        "never",
			ErrorPolicy:       "abort_on_error",
			IncludeFullResult: &keep,
			DefaultMaxSteps:   80,
			StepDelayMS:       100,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and parses the configuration file, merging defaults for any
// unset field, then validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Name == "" {
		c.Server.Name = def.Server.Name
	}
	if c.Server.Version == "" {
		c.Server.Version = def.Server.Version
	}
	if c.Tool.StreamMode == "" {
		c.Tool.StreamMode = def.Tool.StreamMode
	}
	if c.Tool.ErrorPolicy == "" {
		c.Tool.ErrorPolicy = def.Tool.ErrorPolicy
	}
	if c.Tool.IncludeFullResult == nil {
		c.Tool.IncludeFullResult = def.Tool.IncludeFullResult
	}
	if c.Tool.DefaultMaxSteps == 0 {
		c.Tool.DefaultMaxSteps = def.Tool.DefaultMaxSteps
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks enum fields and numeric bounds.
func (c Config) Validate() error {
	switch c.Tool.StreamMode {
	case "never", "always", "per_request":
	default:
		return fmt.Errorf("invalid tool.stream_mode %q", c.Tool.StreamMode)
	}

	switch c.Tool.ErrorPolicy {
	case "abort_on_error", "continue_on_error":
	default:
		return fmt.Errorf("invalid tool.error_policy %q", c.Tool.ErrorPolicy)
	}

	if c.Tool.DefaultMaxSteps < 0 {
		return fmt.Errorf("tool.default_max_steps must not be negative")
	}
	if c.Tool.StepDelayMS < 0 {
		return fmt.Errorf("tool.step_delay_ms must not be negative")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	return nil
}

// StepDelay returns the pacing delay as a duration.
func (c ToolConfig) StepDelay() time.Duration {
	return time.Duration(c.StepDelayMS) * time.Millisecond
}
