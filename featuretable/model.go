package featuretable

import (
	"time"

	"github.com/BaSui01/dtfed/types"
)

// FeatureTableDO 特征表数据库模型
type FeatureTableDO struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	NodeID         string              `gorm:"size:64;not null;uniqueIndex:idx_node_feature_table" json:"node_id"`
	FeatureTableID string              `gorm:"size:64;not null;uniqueIndex:idx_node_feature_table" json:"feature_table_id"`
	Name           string              `gorm:"size:255;not null" json:"name"`
	Description    string              `gorm:"type:text" json:"description"`
	URL            string              `gorm:"size:1024;not null" json:"url"`
	Status         string              `gorm:"size:32;not null;default:Available" json:"status"` // Available / Unavailable
	Columns        []types.TableColumn `gorm:"serializer:json;type:text" json:"columns"`         // 列定义（JSON）

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (FeatureTableDO) TableName() string {
	return "feature_tables"
}

func (d FeatureTableDO) toDomain() types.FeatureTable {
	return types.FeatureTable{
		NodeID:         d.NodeID,
		FeatureTableID: d.FeatureTableID,
		Name:           d.Name,
		Description:    d.Description,
		URL:            d.URL,
		Status:         d.Status,
		Columns:        d.Columns,
	}
}

func fromDomain(f types.FeatureTable) FeatureTableDO {
	status := f.Status
	if status == "" {
		status = types.StatusAvailable
	}
	return FeatureTableDO{
		NodeID:         f.NodeID,
		FeatureTableID: f.FeatureTableID,
		Name:           f.Name,
		Description:    f.Description,
		URL:            f.URL,
		Status:         status,
		Columns:        f.Columns,
	}
}
