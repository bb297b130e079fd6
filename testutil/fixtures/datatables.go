// =============================================================================
// 📦 测试数据工厂 - 数据表测试数据
// =============================================================================
// 提供预定义的远端目录记录与本地特征表
// =============================================================================
package fixtures

import "github.com/BaSui01/dtfed/types"

// DomainData 返回一条可用的手工登记数据表记录
func DomainData(nodeID, tableID string) types.DomainData {
	return types.DomainData{
		DomainID:       nodeID,
		DomaindataID:   tableID,
		Name:           tableID + "-name",
		Type:           types.DomainDataTypeTable,
		RelativeURI:    nodeID + "/" + tableID + ".csv",
		DatasourceID:   "default-data-source",
		DatasourceType: types.DatasourceTypeLocal,
		DatasourceName: "DefaultDataSource",
		Vendor:         types.VendorManual,
		Status:         types.StatusAvailable,
		Attributes:     map[string]string{"owner": nodeID},
		Columns: []types.DataColumn{
			{Name: "id", Type: "str", Comment: "primary key"},
			{Name: "age", Type: "int"},
		},
	}
}

// DomainDataWith 在默认记录基础上修改字段
func DomainDataWith(nodeID, tableID string, mutate func(*types.DomainData)) types.DomainData {
	d := DomainData(nodeID, tableID)
	mutate(&d)
	return d
}

// FeatureTable 返回一张 HTTP 特征表
func FeatureTable(nodeID, tableID string) types.FeatureTable {
	return types.FeatureTable{
		NodeID:         nodeID,
		FeatureTableID: tableID,
		Name:           tableID + "-feature",
		URL:            "http://feature.example.com/" + tableID,
		Status:         types.StatusAvailable,
		Columns: []types.TableColumn{
			{Name: "uid", Type: "str", Comment: "user id"},
			{Name: "score", Type: "float"},
		},
	}
}

// Datatables 返回一组用于过滤测试的数据表
func Datatables() []types.Datatable {
	return []types.Datatable{
		{NodeID: "alice", DatatableID: "t1", DatatableName: "orders", Status: types.StatusAvailable, DatasourceType: types.DatasourceTypeLocal},
		{NodeID: "alice", DatatableID: "t2", DatatableName: "Orders_2024", Status: "unavailable", DatasourceType: types.DatasourceTypeOSS},
		{NodeID: "alice", DatatableID: "t3", DatatableName: "users", Status: "AVAILABLE", DatasourceType: types.DatasourceTypeHTTP},
		{NodeID: "alice", DatatableID: "t4", DatatableName: "user_orders", Status: "Archived", DatasourceType: types.DatasourceTypeMySQL},
	}
}
