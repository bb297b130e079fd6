package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_ContainsAllSubConfigs(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.NotEqual(t, NodeConfig{}, cfg.Node)
	assert.NotEqual(t, LogConfig{}, cfg.Log)
	assert.NotEqual(t, RedisConfig{}, cfg.Redis)
	assert.NotEqual(t, DatabaseConfig{}, cfg.Database)
	assert.NotEqual(t, TelemetryConfig{}, cfg.Telemetry)
	assert.NotEqual(t, MetricsConfig{}, cfg.Metrics)
	assert.NotEmpty(t, cfg.Remote.Endpoint)
	assert.NotEmpty(t, cfg.Routes.Backend)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestDefaultNodeConfig(t *testing.T) {
	cfg := DefaultNodeConfig()
	assert.Equal(t, "AUTONOMOUS", cfg.Mode)
	assert.Empty(t, cfg.ID)
	assert.Zero(t, cfg.MaxGroupConcurrency)
}

func TestDefaultRemoteConfig(t *testing.T) {
	cfg := DefaultRemoteConfig()
	assert.Equal(t, "http://localhost:8082", cfg.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "dtfed", cfg.JWTIssuer)
	assert.Equal(t, 5*time.Minute, cfg.JWTTTL)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.NotNil(t, cfg.Endpoints)
}

func TestDefaultRoutesConfig(t *testing.T) {
	cfg := DefaultRoutesConfig()
	assert.Equal(t, RoutesBackendStatic, cfg.Backend)
	assert.Equal(t, "dtfed:", cfg.KeyPrefix)
	assert.False(t, cfg.Strict)
	assert.NotNil(t, cfg.Static)
}

func TestDefaultDatabaseConfig(t *testing.T) {
	cfg := DefaultDatabaseConfig()
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "dtfed.db", cfg.Name)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, cfg.ConnMaxIdleTime)
	assert.True(t, cfg.FeatureStoreEnabled())
}

func TestDefaultRedisConfig(t *testing.T) {
	cfg := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.False(t, cfg.TLSEnabled)
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestDefaultTelemetryConfig(t *testing.T) {
	cfg := DefaultTelemetryConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, "dtfed", cfg.ServiceName)
	assert.InDelta(t, 0.1, cfg.SampleRate, 0.001)
}

func TestDefaultMetricsConfig(t *testing.T) {
	cfg := DefaultMetricsConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "dtfed", cfg.Namespace)
	assert.Empty(t, cfg.PushURL)
}
