package noderoute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/internal/cache"
	"github.com/BaSui01/dtfed/internal/metrics"
)

const (
	// DefaultKeyPrefix 路由表默认键前缀
	DefaultKeyPrefix = "dtfed:"

	resolverSource = "redis"
	cacheType      = "route"
)

// HashStore is the hash access RedisStore needs; *cache.Manager satisfies it.
type HashStore interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

var (
	_ HashStore                = (*cache.Manager)(nil)
	_ datatable.TargetResolver = (*RedisStore)(nil)
)

// RedisStore keeps the route table in a Redis hash: field = logical node,
// value = physical node. A non-empty hint selects the "<prefix>routes:<hint>"
// namespace, which falls back to the default table when the field is absent.
type RedisStore struct {
	store     HashStore
	keyPrefix string
	fallback  datatable.TargetResolver
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// RedisStoreOption 配置 RedisStore
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix 设置键前缀
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.keyPrefix = prefix }
}

// WithFallback 路由缺失时交给 fallback 解析，默认解析为自身
func WithFallback(fallback datatable.TargetResolver) RedisStoreOption {
	return func(s *RedisStore) { s.fallback = fallback }
}

// WithMetrics 记录解析与命中指标
func WithMetrics(c *metrics.Collector) RedisStoreOption {
	return func(s *RedisStore) { s.metrics = c }
}

// NewRedisStore creates a Redis-backed route table.
func NewRedisStore(store HashStore, logger *zap.Logger, opts ...RedisStoreOption) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RedisStore{
		store:     store,
		keyPrefix: DefaultKeyPrefix,
		logger:    logger.With(zap.String("component", "noderoute")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveTargetNode implements datatable.TargetResolver.
func (s *RedisStore) ResolveTargetNode(ctx context.Context, logicalNodeID, hint string) (string, error) {
	keys := []string{s.key(hint)}
	if hint != "" {
		keys = append(keys, s.key(""))
	}

	for _, key := range keys {
		target, err := s.store.HGet(ctx, key, logicalNodeID)
		if cache.IsCacheMiss(err) {
			continue
		}
		if err != nil {
			s.record(metrics.ResolveError)
			return "", fmt.Errorf("lookup route for %s: %w", logicalNodeID, err)
		}
		if target == "" {
			continue
		}
		s.record(metrics.ResolveHit)
		s.logger.Debug("route resolved",
			zap.String("logical_node_id", logicalNodeID),
			zap.String("target", target),
			zap.String("key", key),
		)
		return target, nil
	}

	if s.metrics != nil {
		s.metrics.RecordCacheMiss(cacheType)
	}
	if s.fallback != nil {
		target, err := s.fallback.ResolveTargetNode(ctx, logicalNodeID, hint)
		if err != nil {
			s.record(metrics.ResolveError)
			return "", err
		}
		s.record(metrics.ResolveFallback)
		return target, nil
	}
	s.record(metrics.ResolveIdentity)
	return logicalNodeID, nil
}

// SetRoute stores logical -> physical under hint's namespace.
func (s *RedisStore) SetRoute(ctx context.Context, hint, logicalNodeID, physicalNodeID string) error {
	if logicalNodeID == "" || physicalNodeID == "" {
		return fmt.Errorf("logical and physical node ids are required")
	}
	if err := s.store.HSet(ctx, s.key(hint), logicalNodeID, physicalNodeID); err != nil {
		return fmt.Errorf("set route for %s: %w", logicalNodeID, err)
	}
	s.logger.Info("route updated",
		zap.String("hint", hint),
		zap.String("logical_node_id", logicalNodeID),
		zap.String("target", physicalNodeID),
	)
	return nil
}

// DeleteRoute removes logical routes under hint's namespace.
func (s *RedisStore) DeleteRoute(ctx context.Context, hint string, logicalNodeIDs ...string) error {
	if err := s.store.HDel(ctx, s.key(hint), logicalNodeIDs...); err != nil {
		return fmt.Errorf("delete routes: %w", err)
	}
	return nil
}

// Routes returns the route table under hint's namespace.
func (s *RedisStore) Routes(ctx context.Context, hint string) (map[string]string, error) {
	routes, err := s.store.HGetAll(ctx, s.key(hint))
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

func (s *RedisStore) key(hint string) string {
	if hint == "" {
		return s.keyPrefix + "routes"
	}
	return s.keyPrefix + "routes:" + hint
}

func (s *RedisStore) record(result string) {
	if s.metrics == nil {
		return
	}
	if result == metrics.ResolveHit {
		s.metrics.RecordCacheHit(cacheType)
	}
	s.metrics.RecordResolution(resolverSource, result)
}
