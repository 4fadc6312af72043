package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Decision.ConfidenceLow, 0.001)
	assert.InDelta(t, 0.7, cfg.Decision.ConfidenceMedium, 0.001)
	assert.InDelta(t, 0.85, cfg.Decision.ConfidenceHigh, 0.001)
	assert.InDelta(t, 0.6, cfg.Decision.ConflictSeverityThreshold, 0.001)
	assert.Equal(t, 3600, cfg.Decision.TimeoutLowSecs)
	assert.Equal(t, 1800, cfg.Decision.TimeoutMediumSecs)
	assert.Equal(t, 900, cfg.Decision.TimeoutHighSecs)
	assert.Equal(t, 300, cfg.Decision.TimeoutCriticalSecs)
	assert.Equal(t, 300, cfg.Sweep.IntervalSecs)
	assert.Equal(t, 60, cfg.Sweep.RetrySecs)
	assert.Equal(t, "memory", cfg.Audit.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 5.0, cfg.Server.RespondRPS, 0.001)
	assert.Equal(t, 10, cfg.Server.RespondBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
decision:
  confidence_low: 0.4
  conflict_severity_threshold: 0.75
sweep:
  interval_secs: 30
audit:
  driver: sqlite
  sqlite_path: /tmp/audit.db
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.4, cfg.Decision.ConfidenceLow, 0.001)
	assert.InDelta(t, 0.75, cfg.Decision.ConflictSeverityThreshold, 0.001)
	// Untouched keys keep defaults.
	assert.InDelta(t, 0.7, cfg.Decision.ConfidenceMedium, 0.001)
	assert.Equal(t, 30, cfg.Sweep.IntervalSecs)
	assert.Equal(t, "sqlite", cfg.Audit.Driver)
	assert.Equal(t, "/tmp/audit.db", cfg.Audit.SQLitePath)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
