package datatable

import (
	"context"
	"sort"

	"github.com/BaSui01/dtfed/types"
)

// Topology decides which physical node(s) an operation must contact.
type Topology struct {
	mode        types.TopologyMode
	localNodeID string
	resolver    TargetResolver
}

// NewTopology creates a topology strategy. resolver may be nil in CENTRALIZED mode.
func NewTopology(mode types.TopologyMode, localNodeID string, resolver TargetResolver) *Topology {
	return &Topology{mode: mode, localNodeID: localNodeID, resolver: resolver}
}

// Mode returns the configured topology mode.
func (t *Topology) Mode() types.TopologyMode {
	return t.mode
}

// Autonomous reports whether every logical node must be translated first.
func (t *Topology) Autonomous() bool {
	return t.mode == types.TopologyAutonomous
}

// LookupTarget returns the node a point lookup or delete for ref is sent to.
func (t *Topology) LookupTarget(ctx context.Context, ref types.NodeDatatableID) (string, error) {
	if !t.Autonomous() {
		return ref.NodeID, nil
	}
	return t.resolve(ctx, ref.NodeID)
}

// ListTarget returns the node a catalog listing for nodeID is sent to. The
// centralized control plane lists through its own node.
func (t *Topology) ListTarget(nodeID string) string {
	if t.Autonomous() {
		return nodeID
	}
	return t.localNodeID
}

// Rewrite returns copies of refs carrying their resolved physical node id.
// The input slice is never modified; on failure nothing is returned.
func (t *Topology) Rewrite(ctx context.Context, refs []types.NodeDatatableID) ([]types.NodeDatatableID, error) {
	out := make([]types.NodeDatatableID, len(refs))
	copy(out, refs)
	if !t.Autonomous() {
		return out, nil
	}

	// 同一逻辑节点只解析一次
	resolved := make(map[string]string)
	for i, ref := range out {
		target, ok := resolved[ref.NodeID]
		if !ok {
			var err error
			target, err = t.resolve(ctx, ref.NodeID)
			if err != nil {
				return nil, err
			}
			resolved[ref.NodeID] = target
		}
		out[i].NodeID = target
	}
	return out, nil
}

// Group is the set of refs sent to one physical node.
type Group struct {
	Target string
	Refs   []types.NodeDatatableID
}

// Partition groups refs by node id, one group per distinct node. Groups are
// returned in ascending target order; refs keep their relative order.
func Partition(refs []types.NodeDatatableID) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, ref := range refs {
		i, ok := index[ref.NodeID]
		if !ok {
			i = len(groups)
			index[ref.NodeID] = i
			groups = append(groups, Group{Target: ref.NodeID})
		}
		groups[i].Refs = append(groups[i].Refs, ref)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Target < groups[j].Target })
	return groups
}

func (t *Topology) resolve(ctx context.Context, logicalNodeID string) (string, error) {
	if t.resolver == nil {
		return "", types.NewError(types.ErrTargetNodeResolve, "no target resolver configured").
			WithNode(logicalNodeID)
	}
	target, err := t.resolver.ResolveTargetNode(ctx, logicalNodeID, "")
	if err != nil {
		return "", types.NewError(types.ErrTargetNodeResolve, "resolve target node failed").
			WithNode(logicalNodeID).
			WithCause(err)
	}
	if target == "" {
		return "", types.NewError(types.ErrTargetNodeResolve, "resolver returned empty target").
			WithNode(logicalNodeID)
	}
	return target, nil
}
