package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollector("test", reg, zap.NewNop()), reg
}

func TestNewCollector(t *testing.T) {
	collector, _ := newTestCollector(t)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.remoteRequestsTotal)
	assert.NotNil(t, collector.remoteRequestDuration)
	assert.NotNil(t, collector.resolutionsTotal)
	assert.NotNil(t, collector.cacheHits)
	assert.NotNil(t, collector.dbQueryDuration)
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	// 同名 namespace 注册到不同 Registry 不冲突
	assert.NotPanics(t, func() {
		NewCollector("dtfed", prometheus.NewRegistry(), nil)
		NewCollector("dtfed", prometheus.NewRegistry(), nil)
	})
}

func TestCollector_RecordRemoteCall(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordRemoteCall("batch_query", "node-a", StatusOK, 20*time.Millisecond)
	collector.RecordRemoteCall("batch_query", "node-a", StatusOK, 30*time.Millisecond)
	collector.RecordRemoteCall("query", "node-b", StatusRemoteError, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.remoteRequestsTotal.WithLabelValues("batch_query", "node-a", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.remoteRequestsTotal.WithLabelValues("query", "node-b", StatusRemoteError)))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.remoteRequestDuration))
}

func TestCollector_RecordBatchSize(t *testing.T) {
	collector, reg := newTestCollector(t)

	collector.RecordBatchSize("batch_query", 5)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "test_remote_batch_size" {
			found = true
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestCollector_RecordResolution(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordResolution("redis", ResolveHit)
	collector.RecordResolution("redis", ResolveIdentity)
	collector.RecordResolution("redis", ResolveHit)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.resolutionsTotal.WithLabelValues("redis", ResolveHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.resolutionsTotal.WithLabelValues("redis", ResolveIdentity)))
}

func TestCollector_RecordCache(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordCacheHit("route")
	collector.RecordCacheHit("route")
	collector.RecordCacheMiss("route")

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.cacheHits.WithLabelValues("route")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.cacheMisses.WithLabelValues("route")))
}

func TestCollector_RecordDB(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordDBConnections("postgres", 10, 5)
	collector.RecordDBQuery("postgres", "select", 5*time.Millisecond)

	assert.Equal(t, 10.0, testutil.ToFloat64(collector.dbConnectionsOpen.WithLabelValues("postgres")))
	assert.Equal(t, 5.0, testutil.ToFloat64(collector.dbConnectionsIdle.WithLabelValues("postgres")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.dbQueryDuration))
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	collector, _ := newTestCollector(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				collector.RecordRemoteCall("list", "node-a", StatusOK, time.Millisecond)
				collector.RecordCacheHit("route")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, testutil.ToFloat64(collector.remoteRequestsTotal.WithLabelValues("list", "node-a", StatusOK)))
}
