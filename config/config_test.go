package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openmanus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  name: my-agent-server
  version: 2.1.0
tool:
  stream_mode: per_request
  error_policy: continue_on_error
  include_full_result: false
  default_max_steps: 40
  step_delay_ms: 250
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-agent-server", cfg.Server.Name)
	assert.Equal(t, "per_request", cfg.Tool.StreamMode)
	assert.Equal(t, "continue_on_error", cfg.Tool.ErrorPolicy)
	require.NotNil(t, cfg.Tool.IncludeFullResult)
	assert.False(t, *cfg.Tool.IncludeFullResult)
	assert.Equal(t, 40, cfg.Tool.DefaultMaxSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.Tool.StepDelay())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
tool:
  stream_mode: always
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "always", cfg.Tool.StreamMode)
	assert.Equal(t, "abort_on_error", cfg.Tool.ErrorPolicy)
	require.NotNil(t, cfg.Tool.IncludeFullResult)
	assert.True(t, *cfg.Tool.IncludeFullResult)
	assert.Equal(t, 80, cfg.Tool.DefaultMaxSteps)
	assert.Equal(t, "openmanus", cfg.Server.Name)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad stream mode", "tool:\n  stream_mode: sometimes\n"},
		{"bad error policy", "tool:\n  error_policy: explode\n"},
		{"negative delay", "tool:\n  step_delay_ms: -5\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"broken yaml", "tool: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
