package featuretable

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BaSui01/dtfed/internal/metrics"
	"github.com/BaSui01/dtfed/testutil/fixtures"
	"github.com/BaSui01/dtfed/types"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "feature.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FeatureTableDO{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGormRepository_SaveAndFind(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fixtures.FeatureTable("alice", "f1")))
	require.NoError(t, repo.Save(ctx, fixtures.FeatureTable("alice", "f2")))
	require.NoError(t, repo.Save(ctx, fixtures.FeatureTable("bob", "f3")))

	tables, err := repo.FindByNodeID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, fixtures.FeatureTable("alice", "f1"), tables[0])
	assert.Equal(t, "f2", tables[1].FeatureTableID)

	f, err := repo.FindByID(ctx, "bob", "f3")
	require.NoError(t, err)
	assert.Equal(t, "f3-feature", f.Name)
	assert.Equal(t, []types.TableColumn{
		{Name: "uid", Type: "str", Comment: "user id"},
		{Name: "score", Type: "float"},
	}, f.Columns)
}

func TestGormRepository_FindByNodeIDEmpty(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, nil)

	tables, err := repo.FindByNodeID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestGormRepository_SaveUpserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRepository(db, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fixtures.FeatureTable("alice", "f1")))

	updated := fixtures.FeatureTable("alice", "f1")
	updated.Name = "renamed"
	updated.Status = types.StatusUnavailable
	updated.Columns = []types.TableColumn{{Name: "only", Type: "int"}}
	require.NoError(t, repo.Save(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&FeatureTableDO{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	f, err := repo.FindByID(ctx, "alice", "f1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", f.Name)
	assert.Equal(t, types.StatusUnavailable, f.Status)
	assert.Equal(t, updated.Columns, f.Columns)
}

func TestGormRepository_SaveDefaultsStatus(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, nil)
	ctx := context.Background()

	f := fixtures.FeatureTable("alice", "f1")
	f.Status = ""
	require.NoError(t, repo.Save(ctx, f))

	got, err := repo.FindByID(ctx, "alice", "f1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAvailable, got.Status)
}

func TestGormRepository_SaveValidation(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, nil)

	err := repo.Save(context.Background(), types.FeatureTable{NodeID: "alice"})
	assert.Error(t, err)
}

func TestGormRepository_Delete(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fixtures.FeatureTable("alice", "f1")))
	require.NoError(t, repo.Delete(ctx, "alice", "f1"))

	_, err := repo.FindByID(ctx, "alice", "f1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "alice", "f1"), ErrNotFound)
}

func TestGormRepository_RecordsQueryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("test", reg, nil)
	repo := NewGormRepository(setupTestDB(t), collector, nil)

	_, err := repo.FindByNodeID(context.Background(), "alice")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var samples uint64
	for _, f := range families {
		if f.GetName() == "test_db_query_duration_seconds" {
			for _, m := range f.GetMetric() {
				samples += m.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, uint64(1), samples)
}

func TestGormRepository_CancelledContext(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByNodeID(ctx, "alice")
	assert.Error(t, err)
}
