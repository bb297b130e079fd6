package noderoute

import (
	"context"
	"errors"
	"fmt"

	"github.com/BaSui01/dtfed/datatable"
)

// ErrRouteNotFound 严格模式下逻辑节点没有配置路由
var ErrRouteNotFound = errors.New("route not found")

var _ datatable.TargetResolver = (*StaticResolver)(nil)

// StaticResolver resolves logical nodes from a fixed route table. It is
// immutable after construction and safe for concurrent use.
type StaticResolver struct {
	routes map[string]string
	strict bool
}

// NewStaticResolver creates a resolver over a copy of routes. In strict mode
// an unmapped node fails with ErrRouteNotFound instead of resolving to itself.
func NewStaticResolver(routes map[string]string, strict bool) *StaticResolver {
	r := &StaticResolver{
		routes: make(map[string]string, len(routes)),
		strict: strict,
	}
	for logical, physical := range routes {
		r.routes[logical] = physical
	}
	return r
}

// ResolveTargetNode implements datatable.TargetResolver. hint is ignored.
func (r *StaticResolver) ResolveTargetNode(ctx context.Context, logicalNodeID, hint string) (string, error) {
	if target, ok := r.routes[logicalNodeID]; ok && target != "" {
		return target, nil
	}
	if r.strict {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, logicalNodeID)
	}
	return logicalNodeID, nil
}

// Len returns the number of configured routes.
func (r *StaticResolver) Len() int {
	return len(r.routes)
}
