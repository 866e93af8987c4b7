package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/ratexpr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RATEXPR_MAX_DEPTH", "RATEXPR_MAX_TOKENS", "RATEXPR_ADDR", "RATEXPR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ratexpr.DefaultMaxDepth, cfg.Limits.MaxDepth)
	assert.Equal(t, ratexpr.DefaultMaxTokens, cfg.Limits.MaxTokens)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ratexpr.yaml")
	data := `
limits:
  max_depth: 64
  max_tokens: 100
server:
  addr: 127.0.0.1:9000
  read_timeout: 3s
  workers: 2
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Limits.MaxDepth)
	assert.Equal(t, 100, cfg.Limits.MaxTokens)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2, cfg.Server.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 256, cfg.Server.MaxBatch)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [1, 2"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATEXPR_MAX_DEPTH", "7")
	t.Setenv("RATEXPR_MAX_TOKENS", "0")
	t.Setenv("RATEXPR_ADDR", ":1234")
	t.Setenv("RATEXPR_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Limits.MaxDepth)
	assert.Equal(t, 0, cfg.Limits.MaxTokens)
	assert.Equal(t, ":1234", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverrideInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATEXPR_MAX_DEPTH", "deep")
	_, err := Load("")
	assert.ErrorContains(t, err, "RATEXPR_MAX_DEPTH")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative depth", func(c *Config) { c.Limits.MaxDepth = -1 }, "max_depth"},
		{"negative tokens", func(c *Config) { c.Limits.MaxTokens = -1 }, "max_tokens"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"negative workers", func(c *Config) { c.Server.Workers = -2 }, "workers"},
		{"zero batch", func(c *Config) { c.Server.MaxBatch = 0 }, "max_batch"},
		{"zero body", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), c.want)
		})
	}
}

func TestParseOptions(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxDepth = 3
	// 1+2+3 builds a tree of height 3; one more term exceeds it.
	_, err := ratexpr.ParseString("1+2+3", cfg.ParseOptions()...)
	assert.NoError(t, err)
	_, err = ratexpr.ParseString("1+2+3+4", cfg.ParseOptions()...)
	var lim *ratexpr.LimitError
	require.ErrorAs(t, err, &lim)
	assert.Equal(t, "depth", lim.Limit)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.Log.Level = "bogus"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
