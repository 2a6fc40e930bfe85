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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: tccprot-test
lmstfy:
  host: localhost
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tccprot-test", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 7777, cfg.Lmstfy.Port)
	assert.Equal(t, "ai_task_queue", cfg.Queue.Name)
	assert.Equal(t, 3, cfg.Queue.MaxTries)
	assert.Equal(t, 45*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Callback.Timeout)
	assert.Equal(t, 1, cfg.Worker.Instances)
	assert.False(t, cfg.DedupEnabled())
}

func TestLoadReadsValues(t *testing.T) {
	path := writeConfig(t, `
app:
  name: tccprot
  log_level: debug
lmstfy:
  host: queue.internal
  port: 7778
  namespace: prod
queue:
  name: demands
  max_tries: 5
  ttr: 90s
redis:
  addr: localhost:6379
worker:
  instances: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "queue.internal", cfg.Lmstfy.Host)
	assert.Equal(t, 7778, cfg.Lmstfy.Port)
	assert.Equal(t, "demands", cfg.Queue.Name)
	assert.Equal(t, 5, cfg.Queue.MaxTries)
	assert.Equal(t, 90*time.Second, cfg.Queue.TTR)
	assert.Equal(t, 4, cfg.Worker.Instances)
	assert.True(t, cfg.DedupEnabled())
}

func TestLoadEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret-from-env")

	path := writeConfig(t, `
app:
  name: tccprot
lmstfy:
  host: localhost
gemini:
  api_key: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Gemini.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:    AppConfig{Name: "tccprot"},
			Lmstfy: LmstfyConfig{Host: "localhost"},
			Queue:  QueueConfig{Name: "tasks", MaxTries: 3},
			Worker: WorkerConfig{Instances: 1},
		}
	}

	require.NoError(t, base().Validate())

	noHost := base()
	noHost.Lmstfy.Host = ""
	assert.Error(t, noHost.Validate())

	noQueue := base()
	noQueue.Queue.Name = ""
	assert.Error(t, noQueue.Validate())

	badTries := base()
	badTries.Queue.MaxTries = 0
	assert.Error(t, badTries.Validate())
}
