package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onreonA/kayseri-eihracat-platformu-sub003/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 测试默认配置
func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "eihracat", cfg.Database.DBName)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "company_id", cfg.Auth.CompanyClaim)
	// 开发环境日志默认值
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// TestLoad_FromFile 测试从配置文件加载
func TestLoad_FromFile(t *testing.T) {
	content := `
env: production
server:
  port: 9090
database:
  host: db.internal
  dbname: eihracat_prod
rate_limit:
  enabled: false
auth:
  enabled: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.True(t, config.IsProduction(cfg))
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "eihracat_prod", cfg.Database.DBName)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Auth.Enabled)
	// 文件未覆盖的键保留默认值
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

// TestLoad_EnvOverride 测试环境变量覆盖
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "7070")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

// TestLoad_MissingFile 测试配置文件不存在
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
