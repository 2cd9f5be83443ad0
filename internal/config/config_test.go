package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)

	_, err = config.Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "turing.yaml", `
policy: permissive
max_steps: "5000"
window: 10
log:
  level: debug
  file: run.log
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 30m
server:
  addr: ":9090"
`)
	s, err := config.Load(path, true)
	require.NoError(t, err)

	policy, err := s.EnginePolicy()
	require.NoError(t, err)
	assert.Equal(t, engine.PolicyPermissive, policy)
	assert.Equal(t, uint64(5000), s.MaxSteps)
	assert.Equal(t, 10, s.Window)

	level, err := s.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, "run.log", s.Log.File)

	assert.Equal(t, config.BackendRedis, s.Store.Backend)
	assert.Equal(t, "redis:6379", s.Store.Redis.Addr)
	assert.Equal(t, 2, s.Store.Redis.DB)
	assert.Equal(t, 30*time.Minute, s.Store.Redis.TTL)
	assert.Equal(t, "turing:program:", s.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, ":9090", s.Server.Addr)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "turing.json", `{"store": {"backend": "memory"}, "max_steps": 7}`)
	s, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, s.Store.Backend)
	assert.Equal(t, uint64(7), s.MaxSteps)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: red\n",
		"bad policy":      "policy: lenient\n",
		"bad level":       "log:\n  level: loud\n",
		"bad backend":     "store:\n  backend: s3\n",
		"bad duration":    "store:\n  redis:\n    ttl: soon\n",
		"negative window": "window: -1\n",
		"huge window":     "window: 9223372036854775807\n",
		"not yaml":        "policy: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, "turing.yaml", content), true)
			assert.Error(t, err)
		})
	}
}
