package datatable

import (
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/types"
)

// ListFilter narrows a merged datatable list.
type ListFilter struct {
	// Status 仅识别 Available / Unavailable（忽略大小写），其他值不过滤
	Status string `json:"status,omitempty"`
	// Name 名称子串，区分大小写，为空不过滤
	Name string `json:"name,omitempty"`
	// SourceTypes 数据源类型白名单，为空不过滤
	SourceTypes []string `json:"source_types,omitempty"`
}

// Apply runs status, name and source-type filters in that order.
func (f ListFilter) Apply(list []types.Datatable) []types.Datatable {
	return f.apply(list, zap.NewNop())
}

// apply 固定过滤顺序，每一步记录过滤前的列表大小
func (f ListFilter) apply(list []types.Datatable, logger *zap.Logger) []types.Datatable {
	logger.Info("filter datatable list by status",
		zap.Int("size", len(list)),
		zap.String("status", f.Status),
	)
	list = FilterByStatus(list, f.Status)
	logger.Info("filter datatable list by name",
		zap.Int("size", len(list)),
		zap.String("name", f.Name),
	)
	list = FilterByName(list, f.Name)
	logger.Info("filter datatable list by datasource types",
		zap.Int("size", len(list)),
		zap.Strings("types", f.SourceTypes),
	)
	list = FilterBySourceTypes(list, f.SourceTypes)
	logger.Info("datatable list filtered", zap.Int("size", len(list)))
	return list
}

// FilterByStatus keeps descriptors whose status matches status ignoring case.
// Any value other than the two recognized status tokens is a no-op.
func FilterByStatus(list []types.Datatable, status string) []types.Datatable {
	if !strings.EqualFold(status, types.StatusAvailable) && !strings.EqualFold(status, types.StatusUnavailable) {
		return list
	}
	return filter(list, func(d types.Datatable) bool {
		return strings.EqualFold(d.Status, status)
	})
}

// FilterByName keeps descriptors whose display name contains name.
func FilterByName(list []types.Datatable, name string) []types.Datatable {
	if name == "" {
		return list
	}
	return filter(list, func(d types.Datatable) bool {
		return strings.Contains(d.DatatableName, name)
	})
}

// FilterBySourceTypes keeps descriptors whose datasource type is allowed.
func FilterBySourceTypes(list []types.Datatable, allowed []string) []types.Datatable {
	if len(allowed) == 0 {
		return list
	}
	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}
	return filter(list, func(d types.Datatable) bool {
		_, ok := set[d.DatasourceType]
		return ok
	})
}

func filter(list []types.Datatable, keep func(types.Datatable) bool) []types.Datatable {
	out := make([]types.Datatable, 0, len(list))
	for _, d := range list {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
