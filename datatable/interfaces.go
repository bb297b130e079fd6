package datatable

import (
	"context"

	"github.com/BaSui01/dtfed/types"
)

// RemoteClient is the node metadata catalog. A transport error and a non-zero
// RemoteStatus are both treated as hard failures by the Manager.
type RemoteClient interface {
	QueryDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (*types.DomainData, types.RemoteStatus, error)
	BatchQueryDomainData(ctx context.Context, target string, refs []types.NodeDatatableID) ([]types.DomainData, types.RemoteStatus, error)
	ListDomainData(ctx context.Context, target string, query types.ListQuery) ([]types.DomainData, types.RemoteStatus, error)
	DeleteDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (types.RemoteStatus, error)
	IsDomainRegistered(ctx context.Context, nodeID string) bool
}

// TargetResolver maps a logical node id to the node that must physically be
// contacted under the current federation topology.
type TargetResolver interface {
	ResolveTargetNode(ctx context.Context, logicalNodeID, hint string) (string, error)
}

// FeatureTableRepository lists feature tables registered outside the node catalog.
type FeatureTableRepository interface {
	FindByNodeID(ctx context.Context, nodeID string) ([]types.FeatureTable, error)
}
