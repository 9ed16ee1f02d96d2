// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 验证服务器默认值
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, float64(100), cfg.Server.RateLimitRPS)
	assert.Equal(t, "*", cfg.Server.AllowedOrigin)

	// 验证编辑器默认值
	assert.Equal(t, 50, cfg.Editor.HistorySize)
	assert.Equal(t, 500, cfg.Editor.MaxNodes)
	assert.Equal(t, 2000, cfg.Editor.MaxEdges)
	assert.Equal(t, int64(4<<20), cfg.Editor.MaxImportBytes)

	// 验证认证默认值
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "flowcanvas", cfg.Auth.JWTIssuer)

	// 验证 Log 默认值
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// 验证遥测默认值
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "flowcanvas", cfg.Telemetry.ServiceName)
}

func TestDefaultConfig_Validates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	// 不指定配置文件，应该返回默认值
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 50, cfg.Editor.HistorySize)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	// 创建临时配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
  read_timeout: 60s
  allowed_origin: "https://editor.example.com"

editor:
  history_size: 10
  max_nodes: 100

auth:
  enabled: true
  api_keys:
    - key-one
    - key-two

log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://editor.example.com", cfg.Server.AllowedOrigin)
	assert.Equal(t, 10, cfg.Editor.HistorySize)
	assert.Equal(t, 100, cfg.Editor.MaxNodes)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
	assert.Equal(t, "debug", cfg.Log.Level)

	// 未覆盖的字段保持默认值
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 2000, cfg.Editor.MaxEdges)
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/config.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("FLOWCANVAS_SERVER_HTTP_PORT", "9000")
	t.Setenv("FLOWCANVAS_EDITOR_HISTORY_SIZE", "7")
	t.Setenv("FLOWCANVAS_AUTH_API_KEYS", "a, b ,c")
	t.Setenv("FLOWCANVAS_SERVER_READ_TIMEOUT", "45s")
	t.Setenv("FLOWCANVAS_TELEMETRY_ENABLED", "true")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 7, cfg.Editor.HistorySize)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Auth.APIKeys)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  http_port: 8888\n"), 0o644))

	t.Setenv("FLOWCANVAS_SERVER_HTTP_PORT", "9000")

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
}

func TestLoader_Validator(t *testing.T) {
	called := false
	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			called = true
			return nil
		}).
		Load()
	require.NoError(t, err)
	assert.True(t, called)
}

// --- Validate 测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults ok", func(c *Config) {}, false},
		{"bad http port", func(c *Config) { c.Server.HTTPPort = 0 }, true},
		{"negative rps", func(c *Config) { c.Server.RateLimitRPS = -1 }, true},
		{"zero max nodes", func(c *Config) { c.Editor.MaxNodes = 0 }, true},
		{"auth without credentials", func(c *Config) { c.Auth.Enabled = true }, true},
		{"auth with api key", func(c *Config) {
			c.Auth.Enabled = true
			c.Auth.APIKeys = []string{"k"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
