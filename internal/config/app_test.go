package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIBE_RUNTIME_PATH", dir)

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, dir, cfg.GetRuntimePath())
	assert.Equal(t, 30*24*time.Hour, cfg.GetRetention())
	assert.Equal(t, 24*time.Hour, cfg.GetSweepInterval())
	assert.Equal(t, filepath.Join(dir, "chat_storage", "topics_metadata.json"), cfg.GetRegistryPath())
	assert.Equal(t, 5, cfg.LogRetentionDays)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("SCRIBE_RUNTIME_PATH", t.TempDir())
	t.Setenv("SCRIBE_RETENTION_DAYS", "7")
	t.Setenv("SCRIBE_SWEEP_INTERVAL", "90m")

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, 7*24*time.Hour, cfg.GetRetention())
	assert.Equal(t, 90*time.Minute, cfg.GetSweepInterval())
}

func TestResolveRuntimePath_Relative(t *testing.T) {
	t.Setenv("HOME", "/home/scribe")

	assert.Equal(t, filepath.Join("/home/scribe", ".topicscribe"), resolveRuntimePath(""))
	assert.Equal(t, filepath.Join("/home/scribe", "data"), resolveRuntimePath("data"))
	assert.Equal(t, "/srv/scribe", resolveRuntimePath("/srv/scribe"))
}
