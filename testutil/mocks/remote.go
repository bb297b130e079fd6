// =============================================================================
// 🌐 MockRemoteClient - 节点目录模拟实现
// =============================================================================
// 用于测试的远端元数据目录，支持调用记录、状态码与错误注入
//
// 使用方法:
//
//	remote := mocks.NewMockRemoteClient().
//	    WithDomainData(fixtures.DomainData("alice", "t1")).
//	    WithStatus(mocks.OpQuery, "", types.RemoteStatus{Code: 3, Message: "not found"})
// =============================================================================
package mocks

import (
	"context"
	"sync"

	"github.com/BaSui01/dtfed/types"
)

// Op 远端操作类型
type Op string

const (
	OpQuery        Op = "query"
	OpBatchQuery   Op = "batch_query"
	OpList         Op = "list"
	OpDelete       Op = "delete"
	OpIsRegistered Op = "is_registered"
)

// Call 一次远端调用记录
type Call struct {
	Op     Op
	Target string
	Refs   []types.NodeDatatableID
	Query  types.ListQuery
}

type injectKey struct {
	op     Op
	target string
}

// MockRemoteClient 是远端目录的模拟实现，并发安全
type MockRemoteClient struct {
	mu sync.Mutex

	// 目录存储（保持插入顺序）
	order   []types.NodeDatatableID
	catalog map[types.NodeDatatableID]types.DomainData

	// 未注册节点
	unregistered map[string]bool

	// 状态码与错误注入，target 为空表示任意节点
	statuses map[injectKey]types.RemoteStatus
	errs     map[injectKey]error

	// 调用记录
	calls []Call
}

// NewMockRemoteClient 创建新的 MockRemoteClient
func NewMockRemoteClient() *MockRemoteClient {
	return &MockRemoteClient{
		catalog:      make(map[types.NodeDatatableID]types.DomainData),
		unregistered: make(map[string]bool),
		statuses:     make(map[injectKey]types.RemoteStatus),
		errs:         make(map[injectKey]error),
	}
}

// WithDomainData 向目录加入记录，按 (DomainID, DomaindataID) 索引
func (m *MockRemoteClient) WithDomainData(records ...types.DomainData) *MockRemoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		key := types.NodeDatatableID{NodeID: r.DomainID, DatatableID: r.DomaindataID}
		if _, ok := m.catalog[key]; !ok {
			m.order = append(m.order, key)
		}
		m.catalog[key] = r
	}
	return m
}

// WithUnregistered 标记节点为未注册
func (m *MockRemoteClient) WithUnregistered(nodeIDs ...string) *MockRemoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range nodeIDs {
		m.unregistered[id] = true
	}
	return m
}

// WithStatus 注入非零状态码
func (m *MockRemoteClient) WithStatus(op Op, target string, status types.RemoteStatus) *MockRemoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[injectKey{op, target}] = status
	return m
}

// WithError 注入传输错误
func (m *MockRemoteClient) WithError(op Op, target string, err error) *MockRemoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[injectKey{op, target}] = err
	return m
}

// Calls 返回全部调用记录的副本
func (m *MockRemoteClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor 返回指定操作的调用记录
func (m *MockRemoteClient) CallsFor(op Op) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset 清空调用记录
func (m *MockRemoteClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// =============================================================================
// 🎯 RemoteClient 实现
// =============================================================================

// QueryDomainData 查询单条记录
func (m *MockRemoteClient) QueryDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (*types.DomainData, types.RemoteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpQuery, Target: target, Refs: []types.NodeDatatableID{ref}})

	if inj, ok := m.injected(OpQuery, target); ok {
		return nil, inj.status, inj.err
	}
	d, ok := m.catalog[ref]
	if !ok {
		return nil, types.RemoteStatus{}, nil
	}
	return &d, types.RemoteStatus{}, nil
}

// BatchQueryDomainData 批量查询，缺失的 id 直接跳过
func (m *MockRemoteClient) BatchQueryDomainData(ctx context.Context, target string, refs []types.NodeDatatableID) ([]types.DomainData, types.RemoteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpBatchQuery, Target: target, Refs: append([]types.NodeDatatableID(nil), refs...)})

	if inj, ok := m.injected(OpBatchQuery, target); ok {
		return nil, inj.status, inj.err
	}
	var out []types.DomainData
	for _, ref := range refs {
		if d, ok := m.catalog[ref]; ok {
			out = append(out, d)
		}
	}
	return out, types.RemoteStatus{}, nil
}

// ListDomainData 按节点、类型与 vendor 列出记录
func (m *MockRemoteClient) ListDomainData(ctx context.Context, target string, query types.ListQuery) ([]types.DomainData, types.RemoteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpList, Target: target, Query: query})

	if inj, ok := m.injected(OpList, target); ok {
		return nil, inj.status, inj.err
	}
	out := []types.DomainData{}
	for _, key := range m.order {
		d := m.catalog[key]
		if d.DomainID != query.DomainID {
			continue
		}
		if query.DomaindataType != "" && d.Type != query.DomaindataType {
			continue
		}
		if query.Vendor != "" && d.Vendor != query.Vendor {
			continue
		}
		out = append(out, d)
	}
	return out, types.RemoteStatus{}, nil
}

// DeleteDomainData 删除记录
func (m *MockRemoteClient) DeleteDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (types.RemoteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpDelete, Target: target, Refs: []types.NodeDatatableID{ref}})

	if inj, ok := m.injected(OpDelete, target); ok {
		return inj.status, inj.err
	}
	if _, ok := m.catalog[ref]; !ok {
		return types.RemoteStatus{Code: 11100, Message: "domaindata not exist"}, nil
	}
	delete(m.catalog, ref)
	for i, key := range m.order {
		if key == ref {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return types.RemoteStatus{}, nil
}

// IsDomainRegistered 判断节点是否注册
func (m *MockRemoteClient) IsDomainRegistered(ctx context.Context, nodeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: OpIsRegistered, Target: nodeID})
	return !m.unregistered[nodeID]
}

type injection struct {
	status types.RemoteStatus
	err    error
}

func (m *MockRemoteClient) injected(op Op, target string) (injection, bool) {
	// 同一 key 可同时注入状态码与传输错误
	for _, key := range []injectKey{{op, target}, {op, ""}} {
		err, hasErr := m.errs[key]
		status, hasStatus := m.statuses[key]
		if hasErr || hasStatus {
			return injection{status: status, err: err}, true
		}
	}
	return injection{}, false
}
