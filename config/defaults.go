// =============================================================================
// 📦 dtfed 默认配置
// =============================================================================
// 提供所有配置项的默认值，单机 SQLite + 静态路由即可运行
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Node:      DefaultNodeConfig(),
		Remote:    DefaultRemoteConfig(),
		Routes:    DefaultRoutesConfig(),
		Database:  DefaultDatabaseConfig(),
		Redis:     DefaultRedisConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// DefaultNodeConfig 返回默认节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		ID:   "",
		Mode: "AUTONOMOUS",
	}
}

// DefaultRemoteConfig 返回默认网关配置
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Endpoint:  "http://localhost:8082",
		Endpoints: map[string]string{},
		Timeout:   10 * time.Second,
		JWTIssuer: "dtfed",
		JWTTTL:    5 * time.Minute,
		RateBurst: 10,
	}
}

// DefaultRoutesConfig 返回默认路由表配置
func DefaultRoutesConfig() RoutesConfig {
	return RoutesConfig{
		Backend:   RoutesBackendStatic,
		Static:    map[string]string{},
		KeyPrefix: "dtfed:",
	}
}

// DefaultDatabaseConfig 返回默认数据库配置
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "sqlite",
		Name:            "dtfed.db",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		EnableCaller:     false,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "dtfed",
		SampleRate:   0.1,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "dtfed",
		JobName:   "dtfed",
	}
}
