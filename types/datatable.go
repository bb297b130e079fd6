package types

import (
	"fmt"
	"strings"
)

// TopologyMode 部署拓扑，进程启动时确定，运行期间不变。
type TopologyMode string

const (
	// TopologyCentralized 中心化部署：由控制面节点发起全部远端调用。
	TopologyCentralized TopologyMode = "CENTRALIZED"
	// TopologyAutonomous 自治联邦：每个逻辑节点都需先经目标节点解析。
	TopologyAutonomous TopologyMode = "AUTONOMOUS"
)

// ParseTopologyMode 解析拓扑模式，兼容 CENTER / AUTONOMY 别名。
func ParseTopologyMode(s string) (TopologyMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CENTRALIZED", "CENTER":
		return TopologyCentralized, nil
	case "AUTONOMOUS", "AUTONOMY":
		return TopologyAutonomous, nil
	default:
		return "", fmt.Errorf("unsupported topology mode: %q", s)
	}
}

// 数据表状态
const (
	StatusAvailable   = "Available"
	StatusUnavailable = "Unavailable"
)

// 数据源类型
const (
	DatasourceTypeLocal = "LOCAL"
	DatasourceTypeOSS   = "OSS"
	DatasourceTypeMySQL = "MYSQL"
	DatasourceTypeODPS  = "ODPS"
	DatasourceTypeHTTP  = "HTTP"
)

// 远端目录查询常量
const (
	DomainDataTypeTable = "table"
	VendorManual        = "manual"
)

// 特征表固定挂载在默认 HTTP 数据源上
const (
	DefaultHTTPDatasourceID   = "default-http-data-source"
	DefaultHTTPDatasourceName = "DefaultHttpDataSource"
	DatatableTypeHTTP         = "HTTP"
)

// NodeDatatableID identifies a datatable inside the federation.
type NodeDatatableID struct {
	NodeID      string `json:"node_id"`
	DatatableID string `json:"datatable_id"`
}

// String returns "node/table".
func (id NodeDatatableID) String() string {
	return id.NodeID + "/" + id.DatatableID
}

// TableColumn 数据表列描述
type TableColumn struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// Datatable is the normalized datatable descriptor.
type Datatable struct {
	NodeID         string            `json:"node_id"`
	DatatableID    string            `json:"datatable_id"`
	DatatableName  string            `json:"datatable_name"`
	DatasourceID   string            `json:"datasource_id,omitempty"`
	DatasourceType string            `json:"datasource_type,omitempty"`
	DatasourceName string            `json:"datasource_name,omitempty"`
	Type           string            `json:"type,omitempty"`
	RelativeURI    string            `json:"relative_uri,omitempty"`
	Status         string            `json:"status,omitempty"`
	Schema         []TableColumn     `json:"schema,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// Key returns the identity the datatable is indexed by.
func (d Datatable) Key() NodeDatatableID {
	return NodeDatatableID{NodeID: d.NodeID, DatatableID: d.DatatableID}
}

// DatatableList 列表查询结果
type DatatableList struct {
	Datatables []Datatable `json:"datatables"`
	Total      int         `json:"total"`
}

// DataColumn 远端目录中的列定义
type DataColumn struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// DomainData is a raw record from a node's metadata catalog.
type DomainData struct {
	DomainID       string            `json:"domain_id"`
	DomaindataID   string            `json:"domaindata_id"`
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	RelativeURI    string            `json:"relative_uri"`
	DatasourceID   string            `json:"datasource_id"`
	DatasourceType string            `json:"datasource_type,omitempty"`
	DatasourceName string            `json:"datasource_name,omitempty"`
	Vendor         string            `json:"vendor,omitempty"`
	Status         string            `json:"status,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	Columns        []DataColumn      `json:"columns,omitempty"`
}

// RemoteStatus 远端调用状态，Code == 0 表示成功。
type RemoteStatus struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// OK reports whether the remote call succeeded.
func (s RemoteStatus) OK() bool {
	return s.Code == 0
}

// ListQuery 远端目录列表查询条件，Vendor 为空表示不限。
type ListQuery struct {
	DomainID       string `json:"domain_id"`
	DomaindataType string `json:"domaindata_type"`
	Vendor         string `json:"domaindata_vendor,omitempty"`
}

// FeatureTable 本地登记的 HTTP 特征表
type FeatureTable struct {
	NodeID         string        `json:"node_id"`
	FeatureTableID string        `json:"feature_table_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	URL            string        `json:"url"`
	Status         string        `json:"status"`
	Columns        []TableColumn `json:"columns"`
}
