package datatable

import "github.com/BaSui01/dtfed/types"

// FromDomainData converts a raw catalog record into a descriptor keyed by the
// record's own (domain, domaindata) ids.
func FromDomainData(d types.DomainData) types.Datatable {
	var schema []types.TableColumn
	if len(d.Columns) > 0 {
		schema = make([]types.TableColumn, 0, len(d.Columns))
		for _, c := range d.Columns {
			schema = append(schema, types.TableColumn{Name: c.Name, Type: c.Type, Comment: c.Comment})
		}
	}

	var attrs map[string]string
	if len(d.Attributes) > 0 {
		attrs = make(map[string]string, len(d.Attributes))
		for k, v := range d.Attributes {
			attrs[k] = v
		}
	}

	return types.Datatable{
		NodeID:         d.DomainID,
		DatatableID:    d.DomaindataID,
		DatatableName:  d.Name,
		DatasourceID:   d.DatasourceID,
		DatasourceType: d.DatasourceType,
		DatasourceName: d.DatasourceName,
		Type:           d.Type,
		RelativeURI:    d.RelativeURI,
		Status:         d.Status,
		Schema:         schema,
		Attributes:     attrs,
	}
}

// FromDomainDataList normalizes records preserving order.
func FromDomainDataList(list []types.DomainData) []types.Datatable {
	out := make([]types.Datatable, 0, len(list))
	for _, d := range list {
		out = append(out, FromDomainData(d))
	}
	return out
}

// FromFeatureTable converts a local feature table. Feature tables are local
// only, so the node id is always the querying node.
func FromFeatureTable(nodeID string, f types.FeatureTable) types.Datatable {
	schema := make([]types.TableColumn, len(f.Columns))
	copy(schema, f.Columns)

	return types.Datatable{
		NodeID:         nodeID,
		DatatableID:    f.FeatureTableID,
		DatatableName:  f.Name,
		DatasourceID:   types.DefaultHTTPDatasourceID,
		DatasourceType: types.DatasourceTypeHTTP,
		DatasourceName: types.DefaultHTTPDatasourceName,
		Type:           types.DatatableTypeHTTP,
		RelativeURI:    f.URL,
		Status:         f.Status,
		Schema:         schema,
	}
}
