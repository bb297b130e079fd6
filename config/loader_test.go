package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dtfed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_DefaultValues(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "AUTONOMOUS", cfg.Node.Mode)
	assert.Equal(t, "http://localhost:8082", cfg.Remote.Endpoint)
	assert.Equal(t, RoutesBackendStatic, cfg.Routes.Backend)
}

func TestLoader_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := NewLoader().
		WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).
		Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Remote, cfg.Remote)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
node:
  id: center
  mode: CENTRALIZED
  max_group_concurrency: 4

remote:
  endpoint: "https://gateway.example.com"
  endpoints:
    bob: "https://bob.example.com"
  timeout: 3s
  jwt_secret: "s3cret"
  rate_limit: 20
  tls:
    ca_file: /etc/dtfed/ca.pem
    server_name: gateway

routes:
  backend: redis
  strict: true
  static:
    alice: center
    bob: bob

database:
  driver: postgres
  host: db.example.com
  port: 5432
  user: dtfed
  password: pw
  name: features
  ssl_mode: disable

redis:
  addr: "redis.example.com:6379"
  db: 2

log:
  level: debug
  format: json
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "center", cfg.Node.ID)
	assert.Equal(t, "CENTRALIZED", cfg.Node.Mode)
	assert.Equal(t, 4, cfg.Node.MaxGroupConcurrency)

	assert.Equal(t, "https://gateway.example.com", cfg.Remote.Endpoint)
	assert.Equal(t, "https://bob.example.com", cfg.Remote.Endpoints["bob"])
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "s3cret", cfg.Remote.JWTSecret)
	assert.Equal(t, float64(20), cfg.Remote.RateLimit)
	assert.Equal(t, "/etc/dtfed/ca.pem", cfg.Remote.TLS.CAFile)
	assert.Equal(t, "gateway", cfg.Remote.TLS.ServerName)
	// 未在文件中出现的字段保留默认值
	assert.Equal(t, 10, cfg.Remote.RateBurst)

	assert.Equal(t, RoutesBackendRedis, cfg.Routes.Backend)
	assert.True(t, cfg.Routes.Strict)
	assert.Equal(t, map[string]string{"alice": "center", "bob": "bob"}, cfg.Routes.Static)
	assert.Equal(t, "dtfed:", cfg.Routes.KeyPrefix)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis.example.com:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "node: [unclosed")
	_, err := NewLoader().WithConfigPath(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("DTFED_NODE_ID", "alice")
	t.Setenv("DTFED_NODE_MODE", "CENTRALIZED")
	t.Setenv("DTFED_REMOTE_TIMEOUT", "750ms")
	t.Setenv("DTFED_REMOTE_RATE_LIMIT", "2.5")
	t.Setenv("DTFED_REMOTE_TLS_CA_FILE", "/tmp/ca.pem")
	t.Setenv("DTFED_REMOTE_TLS_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("DTFED_REDIS_TLS_SERVER_NAME", "redis.internal")
	t.Setenv("DTFED_DATABASE_MAX_OPEN_CONNS", "40")
	t.Setenv("DTFED_LOG_OUTPUT_PATHS", "stdout, /var/log/dtfed.log")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Node.ID)
	assert.Equal(t, "CENTRALIZED", cfg.Node.Mode)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.Timeout)
	assert.Equal(t, 2.5, cfg.Remote.RateLimit)
	assert.Equal(t, "/tmp/ca.pem", cfg.Remote.TLS.CAFile)
	assert.True(t, cfg.Remote.TLS.InsecureSkipVerify)
	assert.Equal(t, "redis.internal", cfg.Redis.TLS.ServerName)
	assert.Equal(t, 40, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"stdout", "/var/log/dtfed.log"}, cfg.Log.OutputPaths)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
node:
  id: yaml-node
remote:
  endpoint: http://yaml:8082
`)
	t.Setenv("DTFED_NODE_ID", "env-node")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "env-node", cfg.Node.ID)
	assert.Equal(t, "http://yaml:8082", cfg.Remote.Endpoint)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_NODE_ID", "custom")

	cfg, err := NewLoader().WithEnvPrefix("MYAPP").Load()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Node.ID)
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	t.Setenv("DTFED_REMOTE_TIMEOUT", "soon")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DTFED_REMOTE_TIMEOUT")
}

func TestLoader_Validators(t *testing.T) {
	called := false
	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			called = true
			return nil
		}).
		WithValidator(func(c *Config) error {
			return errors.New("rejected")
		}).
		Load()

	assert.True(t, called)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed: rejected")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Node.Mode = "MESH" },
			wantErr: `unsupported node.mode "MESH"`,
		},
		{
			name:    "centralized without id",
			mutate:  func(c *Config) { c.Node.Mode = "centralized" },
			wantErr: "node.id is required in CENTRALIZED mode",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Node.MaxGroupConcurrency = -1 },
			wantErr: "node.max_group_concurrency cannot be negative",
		},
		{
			name:    "no endpoint",
			mutate:  func(c *Config) { c.Remote.Endpoint = "" },
			wantErr: "remote.endpoint or remote.endpoints is required",
		},
		{
			name: "per node endpoints only",
			mutate: func(c *Config) {
				c.Remote.Endpoint = ""
				c.Remote.Endpoints = map[string]string{"alice": "http://alice"}
			},
		},
		{
			name: "token and jwt",
			mutate: func(c *Config) {
				c.Remote.Token = "t"
				c.Remote.JWTSecret = "s"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Remote.RateLimit = -1 },
			wantErr: "remote.rate_limit cannot be negative",
		},
		{
			name: "redis routes without addr",
			mutate: func(c *Config) {
				c.Routes.Backend = RoutesBackendRedis
				c.Redis.Addr = ""
			},
			wantErr: "redis.addr is required",
		},
		{
			name:    "unknown routes backend",
			mutate:  func(c *Config) { c.Routes.Backend = "etcd" },
			wantErr: `unsupported routes.backend "etcd"`,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "oracle" },
			wantErr: `unsupported database.driver "oracle"`,
		},
		{
			name:   "feature store disabled",
			mutate: func(c *Config) { c.Database = DatabaseConfig{} },
		},
		{
			name:    "idle exceeds open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 100 },
			wantErr: "database.max_idle_conns cannot exceed",
		},
		{
			name:    "sample rate",
			mutate:  func(c *Config) { c.Telemetry.SampleRate = 1.5 },
			wantErr: "telemetry.sample_rate must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Node.Mode = "MESH"
	cfg.Remote.RateLimit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node.mode")
	assert.Contains(t, err.Error(), "remote.rate_limit")
}

func TestMustLoad_Panics(t *testing.T) {
	path := writeConfig(t, "remote: {timeout: never}")
	assert.Panics(t, func() { MustLoad(path) })
}

func TestDatabaseConfig_GormDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "explicit dsn",
			cfg:  DatabaseConfig{Driver: "postgres", DSN: "host=x"},
			want: "host=x",
		},
		{
			name: "postgres",
			cfg:  DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"},
			want: "host=db port=5432 user=u password=p dbname=n sslmode=disable",
		},
		{
			name: "mysql",
			cfg:  DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Name: "n"},
			want: "u:p@tcp(db:3306)/n?parseTime=true",
		},
		{
			name: "sqlite",
			cfg:  DatabaseConfig{Driver: "sqlite3", Name: "/data/dtfed.db"},
			want: "/data/dtfed.db",
		},
		{
			name: "unknown",
			cfg:  DatabaseConfig{Driver: "oracle"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GormDSN())
		})
	}
}
