package featuretable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/internal/metrics"
	"github.com/BaSui01/dtfed/types"
)

// ErrNotFound 特征表不存在
var ErrNotFound = errors.New("feature table not found")

var _ datatable.FeatureTableRepository = (*GormRepository)(nil)

// GormRepository 基于 GORM 的特征表仓库
type GormRepository struct {
	db      *gorm.DB
	metrics *metrics.Collector
	dbName  string
	logger  *zap.Logger
}

// NewGormRepository 创建特征表仓库。collector 可为 nil
func NewGormRepository(db *gorm.DB, collector *metrics.Collector, logger *zap.Logger) *GormRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormRepository{
		db:      db,
		metrics: collector,
		dbName:  db.Dialector.Name(),
		logger:  logger.With(zap.String("component", "featuretable")),
	}
}

// FindByNodeID 查询节点登记的全部特征表，按登记顺序返回
func (r *GormRepository) FindByNodeID(ctx context.Context, nodeID string) ([]types.FeatureTable, error) {
	defer r.observe("find_by_node", time.Now())

	var rows []FeatureTableDO
	if err := r.db.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query feature tables of %s: %w", nodeID, err)
	}

	out := make([]types.FeatureTable, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FindByID 读取单张特征表
func (r *GormRepository) FindByID(ctx context.Context, nodeID, featureTableID string) (*types.FeatureTable, error) {
	defer r.observe("find_by_id", time.Now())

	var row FeatureTableDO
	err := r.db.WithContext(ctx).
		Where("node_id = ? AND feature_table_id = ?", nodeID, featureTableID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query feature table %s/%s: %w", nodeID, featureTableID, err)
	}

	f := row.toDomain()
	return &f, nil
}

// Save 登记或更新特征表
func (r *GormRepository) Save(ctx context.Context, f types.FeatureTable) error {
	defer r.observe("save", time.Now())

	if f.NodeID == "" || f.FeatureTableID == "" {
		return fmt.Errorf("node id and feature table id are required")
	}

	row := fromDomain(f)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "node_id"}, {Name: "feature_table_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "url", "status", "columns", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save feature table %s/%s: %w", f.NodeID, f.FeatureTableID, err)
	}

	r.logger.Info("feature table saved",
		zap.String("node_id", f.NodeID),
		zap.String("feature_table_id", f.FeatureTableID),
	)
	return nil
}

// Delete 删除特征表，不存在时返回 ErrNotFound
func (r *GormRepository) Delete(ctx context.Context, nodeID, featureTableID string) error {
	defer r.observe("delete", time.Now())

	result := r.db.WithContext(ctx).
		Where("node_id = ? AND feature_table_id = ?", nodeID, featureTableID).
		Delete(&FeatureTableDO{})
	if result.Error != nil {
		return fmt.Errorf("delete feature table %s/%s: %w", nodeID, featureTableID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) observe(operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordDBQuery(r.dbName, operation, time.Since(start))
	}
}
