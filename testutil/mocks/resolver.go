package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/BaSui01/dtfed/types"
)

// MockResolver 逻辑节点到物理节点的映射，未配置的节点解析为自身
type MockResolver struct {
	mu     sync.Mutex
	routes map[string]string
	errs   map[string]error
	calls  []string
}

// NewMockResolver 创建新的 MockResolver
func NewMockResolver(routes map[string]string) *MockResolver {
	r := &MockResolver{
		routes: make(map[string]string, len(routes)),
		errs:   make(map[string]error),
	}
	for k, v := range routes {
		r.routes[k] = v
	}
	return r
}

// WithError 解析指定逻辑节点时返回错误
func (r *MockResolver) WithError(logicalNodeID string, err error) *MockResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[logicalNodeID] = err
	return r
}

// ResolveTargetNode 实现 datatable.TargetResolver
func (r *MockResolver) ResolveTargetNode(ctx context.Context, logicalNodeID, hint string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, logicalNodeID)

	if err, ok := r.errs[logicalNodeID]; ok {
		return "", err
	}
	if target, ok := r.routes[logicalNodeID]; ok {
		return target, nil
	}
	return logicalNodeID, nil
}

// Calls 返回被解析的逻辑节点列表
func (r *MockResolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// MockFeatureTableRepository 内存特征表仓库
type MockFeatureTableRepository struct {
	mu     sync.Mutex
	tables map[string][]types.FeatureTable
	err    error
}

// NewMockFeatureTableRepository 创建新的 MockFeatureTableRepository
func NewMockFeatureTableRepository(tables ...types.FeatureTable) *MockFeatureTableRepository {
	r := &MockFeatureTableRepository{tables: make(map[string][]types.FeatureTable)}
	for _, t := range tables {
		r.tables[t.NodeID] = append(r.tables[t.NodeID], t)
	}
	return r
}

// WithError 注入查询错误
func (r *MockFeatureTableRepository) WithError(err error) *MockFeatureTableRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

// FindByNodeID 实现 datatable.FeatureTableRepository
func (r *MockFeatureTableRepository) FindByNodeID(ctx context.Context, nodeID string) ([]types.FeatureTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, fmt.Errorf("feature table store: %w", r.err)
	}
	return append([]types.FeatureTable(nil), r.tables[nodeID]...), nil
}
