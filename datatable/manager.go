package datatable

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/dtfed/types"
)

const tracerName = "github.com/BaSui01/dtfed/datatable"

// Config is the process-wide resolution configuration, fixed at startup.
type Config struct {
	Mode types.TopologyMode `yaml:"mode" json:"mode"`
	// LocalNodeID 当前实例所属节点，中心化模式下列表查询经由该节点发起
	LocalNodeID string `yaml:"local_node_id" json:"local_node_id"`
	// MaxGroupConcurrency 分组批量查询的最大并发，<= 0 表示每个物理节点一个并发
	MaxGroupConcurrency int `yaml:"max_group_concurrency" json:"max_group_concurrency"`
}

// Validate checks the configuration against the available collaborators.
func (c Config) Validate(hasResolver bool) error {
	switch c.Mode {
	case types.TopologyCentralized:
		if c.LocalNodeID == "" {
			return types.NewError(types.ErrInvalidConfig, "local node id is required in CENTRALIZED mode")
		}
	case types.TopologyAutonomous:
		if !hasResolver {
			return types.NewError(types.ErrInvalidConfig, "target resolver is required in AUTONOMOUS mode")
		}
	default:
		return types.NewError(types.ErrInvalidConfig, fmt.Sprintf("unsupported topology mode %q", c.Mode))
	}
	return nil
}

// Manager resolves datatable identifiers into metadata across node boundaries.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	config   Config
	topology *Topology
	remote   RemoteClient
	features FeatureTableRepository
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewManager creates a Manager. features may be nil when no feature table
// store is deployed; resolver may be nil in CENTRALIZED mode.
func NewManager(config Config, remote RemoteClient, resolver TargetResolver, features FeatureTableRepository, logger *zap.Logger) (*Manager, error) {
	if remote == nil {
		return nil, types.NewError(types.ErrInvalidConfig, "remote client is required")
	}
	if err := config.Validate(resolver != nil); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		config:   config,
		topology: NewTopology(config.Mode, config.LocalNodeID, resolver),
		remote:   remote,
		features: features,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With(zap.String("component", "datatable")),
	}, nil
}

// Topology returns the topology strategy in use.
func (m *Manager) Topology() *Topology {
	return m.topology
}

// FindByID looks up a single datatable. Exactly one remote call is issued.
func (m *Manager) FindByID(ctx context.Context, ref types.NodeDatatableID) (_ *types.Datatable, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByID", trace.WithAttributes(
		attribute.String("node_id", ref.NodeID),
		attribute.String("datatable_id", ref.DatatableID),
	))
	defer func() { endSpan(span, err) }()

	target, err := m.topology.LookupTarget(ctx, ref)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("target", target))

	data, status, err := m.remote.QueryDomainData(ctx, target, ref)
	if err := m.checkRemote(types.ErrQueryDatatableFailed, "query datatable failed", target, status, err, ref); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, types.NewError(types.ErrDatatableNotFound, "datatable not found").
			WithNode(target).
			WithRequest(ref)
	}

	d := FromDomainData(*data)
	return &d, nil
}

// FindByIDs looks up a batch with one ungrouped remote call sent to the node
// of the first ref. In AUTONOMOUS mode every ref must share the first ref's
// logical node; callers mixing nodes must use FindByIDsFromProjectConfig.
func (m *Manager) FindByIDs(ctx context.Context, refs []types.NodeDatatableID) (_ map[types.NodeDatatableID]types.Datatable, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByIDs", trace.WithAttributes(
		attribute.Int("request_size", len(refs)),
	))
	defer func() { endSpan(span, err) }()

	if len(refs) == 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "datatable id list is empty")
	}

	if m.topology.Autonomous() {
		first := refs[0].NodeID
		for _, ref := range refs[1:] {
			if ref.NodeID != first {
				return nil, types.NewError(types.ErrInvalidRequest, "batch spans multiple logical nodes").
					WithRequest(refs)
			}
		}
	}
	target, err := m.topology.LookupTarget(ctx, refs[0])
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("target", target))

	records, err := m.batchQuery(ctx, target, refs)
	if err != nil {
		return nil, err
	}

	result := toMap(records)
	m.logger.Info("request table size and response table size",
		zap.Int("request_size", len(refs)),
		zap.Int("response_size", len(result)),
	)
	return result, nil
}

// FindByIDGroup rewrites every ref to its physical node, partitions the
// rewritten refs by node and issues one batch call per node. The returned
// records are concatenated in ascending target order. In CENTRALIZED mode a
// single ungrouped batch call is sent to the node of the first ref instead.
func (m *Manager) FindByIDGroup(ctx context.Context, refs []types.NodeDatatableID) (_ []types.DomainData, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByIDGroup", trace.WithAttributes(
		attribute.Int("request_size", len(refs)),
	))
	defer func() { endSpan(span, err) }()

	if len(refs) == 0 {
		return nil, types.NewError(types.ErrInvalidRequest, "datatable id list is empty")
	}

	// 中心化模式不分组，整批发往首个 ref 的节点
	if !m.topology.Autonomous() {
		target, err := m.topology.LookupTarget(ctx, refs[0])
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("target", target))
		return m.batchQuery(ctx, target, refs)
	}

	rewritten, err := m.topology.Rewrite(ctx, refs)
	if err != nil {
		return nil, err
	}
	groups := Partition(rewritten)
	span.SetAttributes(attribute.Int("group_count", len(groups)))

	limit := m.config.MaxGroupConcurrency
	if limit <= 0 {
		limit = len(groups)
	}

	results := make([][]types.DomainData, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, group := range groups {
		g.Go(func() error {
			records, err := m.batchQuery(gctx, group.Target, group.Refs)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []types.DomainData
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged, nil
}

// FindByIDsFromProjectConfig resolves refs that may span several instances of
// a project. Nodes a1, a2, b1 and b2 sharing a project are visible to each
// other through routes a1<->b1 and a2<->b2: from instance a, b1 and b2 are
// queried through a1 and a2. The result is keyed by post-resolution identity.
func (m *Manager) FindByIDsFromProjectConfig(ctx context.Context, refs []types.NodeDatatableID) (_ map[types.NodeDatatableID]types.Datatable, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByIDsFromProjectConfig", trace.WithAttributes(
		attribute.Int("request_size", len(refs)),
	))
	defer func() { endSpan(span, err) }()

	records, err := m.FindByIDGroup(ctx, refs)
	if err != nil {
		return nil, err
	}

	result := toMap(records)
	m.logger.Info("request table size and response table size",
		zap.Int("request_size", len(refs)),
		zap.Int("response_size", len(result)),
	)
	span.SetAttributes(attribute.Int("response_size", len(result)))
	return result, nil
}

// FindByNodeID lists the manually registered catalog of nodeID together with
// the node's local feature tables, then applies filter. Feature tables are
// appended without de-duplication. An unregistered node yields an empty list.
func (m *Manager) FindByNodeID(ctx context.Context, nodeID string, filter ListFilter) (_ *types.DatatableList, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByNodeID", trace.WithAttributes(
		attribute.String("node_id", nodeID),
	))
	defer func() { endSpan(span, err) }()

	m.logger.Info("find datatable by node, filter by manual vendor", zap.String("node_id", nodeID))

	list, registered, err := m.listCatalog(ctx, nodeID, types.VendorManual)
	if err != nil {
		return nil, err
	}
	if !registered {
		return &types.DatatableList{Datatables: []types.Datatable{}, Total: 0}, nil
	}

	features, err := m.featureTables(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	list = append(list, features...)

	list = filter.apply(list, m.logger)

	span.SetAttributes(attribute.Int("result_size", len(list)))
	return &types.DatatableList{Datatables: list, Total: len(list)}, nil
}

// FindAllByNodeID returns feature tables followed by the manually registered
// catalog of nodeID, unfiltered.
func (m *Manager) FindAllByNodeID(ctx context.Context, nodeID string) (_ []types.Datatable, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindAllByNodeID", trace.WithAttributes(
		attribute.String("node_id", nodeID),
	))
	defer func() { endSpan(span, err) }()

	list, registered, err := m.listCatalog(ctx, nodeID, types.VendorManual)
	if err != nil {
		return nil, err
	}
	if !registered {
		return []types.Datatable{}, nil
	}

	features, err := m.featureTables(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	return append(features, list...), nil
}

// FindByNodeVendor lists the remote catalog of nodeID restricted to vendor.
// An empty vendor lists every vendor.
func (m *Manager) FindByNodeVendor(ctx context.Context, nodeID, vendor string) (_ []types.Datatable, err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.FindByNodeVendor", trace.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.String("vendor", vendor),
	))
	defer func() { endSpan(span, err) }()

	list, _, err := m.listCatalog(ctx, nodeID, vendor)
	return list, err
}

// Delete removes a single datatable from the catalog of its node. There is no
// compensating rollback.
func (m *Manager) Delete(ctx context.Context, ref types.NodeDatatableID) (err error) {
	ctx, span := m.tracer.Start(ctx, "datatable.Delete", trace.WithAttributes(
		attribute.String("node_id", ref.NodeID),
		attribute.String("datatable_id", ref.DatatableID),
	))
	defer func() { endSpan(span, err) }()

	target, err := m.topology.LookupTarget(ctx, ref)
	if err != nil {
		return err
	}

	status, err := m.remote.DeleteDomainData(ctx, target, ref)
	return m.checkRemote(types.ErrDeleteDatatableFailed, "delete datatable failed", target, status, err, ref)
}

func (m *Manager) listCatalog(ctx context.Context, nodeID, vendor string) ([]types.Datatable, bool, error) {
	target := m.topology.ListTarget(nodeID)

	// 未注册节点直接返回空结果
	if !m.remote.IsDomainRegistered(ctx, target) {
		m.logger.Warn("domain not registered", zap.String("node_id", nodeID), zap.String("target", target))
		return []types.Datatable{}, false, nil
	}

	query := types.ListQuery{
		DomainID:       nodeID,
		DomaindataType: types.DomainDataTypeTable,
		Vendor:         vendor,
	}
	records, status, err := m.remote.ListDomainData(ctx, target, query)
	if err := m.checkRemote(types.ErrQueryDatatableFailed, "list datatable failed", target, status, err, query); err != nil {
		return nil, true, err
	}
	return FromDomainDataList(records), true, nil
}

func (m *Manager) featureTables(ctx context.Context, nodeID string) ([]types.Datatable, error) {
	if m.features == nil {
		return nil, nil
	}
	tables, err := m.features.FindByNodeID(ctx, nodeID)
	if err != nil {
		return nil, types.NewError(types.ErrQueryFeatureTable, "query feature tables failed").
			WithNode(nodeID).
			WithCause(err)
	}
	out := make([]types.Datatable, 0, len(tables))
	for _, f := range tables {
		out = append(out, FromFeatureTable(nodeID, f))
	}
	return out, nil
}

func (m *Manager) batchQuery(ctx context.Context, target string, refs []types.NodeDatatableID) ([]types.DomainData, error) {
	records, status, err := m.remote.BatchQueryDomainData(ctx, target, refs)
	if err := m.checkRemote(types.ErrQueryDatatableFailed, "batch query datatable failed", target, status, err, refs); err != nil {
		return nil, err
	}
	m.logger.Debug("batch query datatable",
		zap.String("target", target),
		zap.Int("request_size", len(refs)),
		zap.Int("response_size", len(records)),
	)
	return records, nil
}

// checkRemote turns a transport error or a non-zero status into a structured
// error carrying the target, remote status and original request.
func (m *Manager) checkRemote(code types.ErrorCode, msg, target string, status types.RemoteStatus, cause error, req any) error {
	if cause == nil && status.OK() {
		return nil
	}

	m.logger.Error(msg,
		zap.String("target", target),
		zap.Int32("code", status.Code),
		zap.String("message", status.Message),
		zap.Any("request", req),
		zap.Error(cause),
	)

	e := types.NewError(code, msg).WithNode(target).WithRequest(req)
	if !status.OK() {
		e = e.WithRemoteStatus(status)
	}
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}

// toMap keys records by their own identity; the first record wins on collision.
func toMap(records []types.DomainData) map[types.NodeDatatableID]types.Datatable {
	result := make(map[types.NodeDatatableID]types.Datatable, len(records))
	for _, r := range records {
		d := FromDomainData(r)
		if _, exists := result[d.Key()]; exists {
			continue
		}
		result[d.Key()] = d
	}
	return result
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
