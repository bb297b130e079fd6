package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/config"
	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/featuretable"
	"github.com/BaSui01/dtfed/internal/cache"
	"github.com/BaSui01/dtfed/internal/database"
	"github.com/BaSui01/dtfed/internal/metrics"
	"github.com/BaSui01/dtfed/internal/telemetry"
	"github.com/BaSui01/dtfed/internal/tlsutil"
	"github.com/BaSui01/dtfed/noderoute"
	"github.com/BaSui01/dtfed/remote"
	"github.com/BaSui01/dtfed/types"
)

// shutdownTimeout 关闭阶段（推送指标、刷新遥测）的超时
const shutdownTimeout = 5 * time.Second

// app 持有一次命令执行所需的全部组件
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector
	telemetry *telemetry.Providers

	manager  *datatable.Manager
	routes   *noderoute.RedisStore
	features *featuretable.GormRepository

	redis *cache.Manager
	pool  *database.PoolManager
}

// appOptions 控制装配哪些组件
type appOptions struct {
	// 不装配解析引擎（route、feature 命令）
	skipManager bool
}

// newApp 按配置装配组件，失败时释放已创建的资源
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts appOptions) (_ *app, err error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.registry.MustRegister(collectors.NewGoCollector())
	a.collector = metrics.NewCollector(cfg.Metrics.Namespace, a.registry, logger)

	providers, telErr := telemetry.Init(ctx, cfg.Telemetry, cfg.Node.ID, logger)
	if telErr != nil {
		// 遥测不可用不影响解析
		logger.Warn("failed to initialize telemetry", zap.Error(telErr))
	}
	a.telemetry = providers

	if cfg.Routes.Backend == config.RoutesBackendRedis {
		a.redis, err = cache.NewManager(cacheConfig(cfg.Redis), logger)
		if err != nil {
			return nil, fmt.Errorf("connect route store: %w", err)
		}
		a.routes = noderoute.NewRedisStore(a.redis, logger,
			noderoute.WithKeyPrefix(cfg.Routes.KeyPrefix),
			noderoute.WithFallback(noderoute.NewStaticResolver(cfg.Routes.Static, cfg.Routes.Strict)),
			noderoute.WithMetrics(a.collector),
		)
	}

	if cfg.Database.FeatureStoreEnabled() {
		db, openErr := database.Open(cfg.Database.Driver, cfg.Database.GormDSN(), cfg.Database.Debug, logger)
		if openErr != nil {
			return nil, fmt.Errorf("open feature store: %w", openErr)
		}
		a.pool, err = database.NewPoolManager(db, poolConfig(cfg.Database), a.collector, logger)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, fmt.Errorf("configure feature store pool: %w", err)
		}
		a.features = featuretable.NewGormRepository(a.pool.DB(), a.collector, logger)
	}

	if opts.skipManager {
		return a, nil
	}

	mode, err := types.ParseTopologyMode(cfg.Node.Mode)
	if err != nil {
		return nil, err
	}
	client, err := remote.NewHTTPClient(remoteConfig(cfg.Remote), logger)
	if err != nil {
		return nil, fmt.Errorf("create remote client: %w", err)
	}

	var resolver datatable.TargetResolver = noderoute.NewStaticResolver(cfg.Routes.Static, cfg.Routes.Strict)
	if a.routes != nil {
		resolver = a.routes
	}
	var features datatable.FeatureTableRepository
	if a.features != nil {
		features = a.features
	}

	a.manager, err = datatable.NewManager(datatable.Config{
		Mode:                mode,
		LocalNodeID:         cfg.Node.ID,
		MaxGroupConcurrency: cfg.Node.MaxGroupConcurrency,
	}, remote.Instrument(client, a.collector), resolver, features, logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// close 推送指标并释放资源
func (a *app) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if a.cfg.Metrics.Enabled && a.cfg.Metrics.PushURL != "" {
		if err := a.pushMetrics(ctx); err != nil {
			a.logger.Warn("failed to push metrics", zap.Error(err))
		}
	}
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to shutdown telemetry", zap.Error(err))
	}
}

func (a *app) pushMetrics(ctx context.Context) error {
	pusher := push.New(a.cfg.Metrics.PushURL, a.cfg.Metrics.JobName).
		Gatherer(a.registry).
		Grouping("node", a.cfg.Node.ID)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push to %s: %w", a.cfg.Metrics.PushURL, err)
	}
	return nil
}

// requireRoutes 路由表命令需要 redis 后端
func (a *app) requireRoutes() (*noderoute.RedisStore, error) {
	if a.routes == nil {
		return nil, errors.New("route commands require routes.backend: redis")
	}
	return a.routes, nil
}

// requireFeatures 特征表命令需要配置数据库
func (a *app) requireFeatures() (*featuretable.GormRepository, error) {
	if a.features == nil {
		return nil, errors.New("feature commands require a database.driver")
	}
	return a.features, nil
}

// =============================================================================
// 配置映射
// =============================================================================

func tlsOptions(c config.TLSConfig) tlsutil.ClientOptions {
	return tlsutil.ClientOptions{
		CAFile:             c.CAFile,
		CertFile:           c.CertFile,
		KeyFile:            c.KeyFile,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

func remoteConfig(c config.RemoteConfig) remote.Config {
	return remote.Config{
		Endpoint:  c.Endpoint,
		Endpoints: c.Endpoints,
		Timeout:   c.Timeout,
		Token:     c.Token,
		JWT: remote.JWTConfig{
			Secret: c.JWTSecret,
			Issuer: c.JWTIssuer,
			TTL:    c.JWTTTL,
		},
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
		TLS:       tlsOptions(c.TLS),
	}
}

func cacheConfig(c config.RedisConfig) cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Addr = c.Addr
	cfg.Password = c.Password
	cfg.DB = c.DB
	cfg.MaxRetries = c.MaxRetries
	cfg.PoolSize = c.PoolSize
	cfg.MinIdleConns = c.MinIdleConns
	// 单次命令不需要后台健康检查
	cfg.HealthCheckInterval = 0
	cfg.TLSEnabled = c.TLSEnabled
	cfg.TLS = tlsOptions(c.TLS)
	return cfg
}

func poolConfig(c config.DatabaseConfig) database.PoolConfig {
	cfg := database.DefaultPoolConfig()
	cfg.MaxOpenConns = c.MaxOpenConns
	cfg.MaxIdleConns = c.MaxIdleConns
	cfg.ConnMaxLifetime = c.ConnMaxLifetime
	cfg.ConnMaxIdleTime = c.ConnMaxIdleTime
	cfg.HealthCheckInterval = 0
	return cfg
}
