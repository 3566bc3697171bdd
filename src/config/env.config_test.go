package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "APP_PORT", "API_BASE_PATH", "CACHE_TTL", "REDIS_SENTINELS", "MINIO_USE_SSL"} {
		t.Setenv(key, "")
	}
	log, _ := test.NewNullLogger()

	cfg := Load(log)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "2000", cfg.Port)
	assert.Equal(t, "/theater", cfg.BasePath)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisSentinels)
	assert.False(t, cfg.MinioUseSSL)
	assert.Equal(t, "@daily", cfg.ExportSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_PATH", "/api/")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_SENTINELS", "a:26379, b:26379,")
	t.Setenv("MINIO_USE_SSL", "true")
	log, _ := test.NewNullLogger()

	cfg := Load(log)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"a:26379", "b:26379"}, cfg.RedisSentinels)
	assert.True(t, cfg.MinioUseSSL)
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("THEATER_BAD_DUR", "soon")
	t.Setenv("THEATER_BAD_BOOL", "maybe")
	assert.Equal(t, time.Second, envDur("THEATER_BAD_DUR", time.Second))
	assert.True(t, envBool("THEATER_BAD_BOOL", true))
}
