package datatable

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/BaSui01/dtfed/testutil/fixtures"
	"github.com/BaSui01/dtfed/testutil/mocks"
	"github.com/BaSui01/dtfed/types"
)

// TestProperty_GroupedLookup_OneCallPerPhysicalNode 分组查询：N 个不同物理节点恰好产生 N 次批量调用，
// 每次调用只包含指向该节点的改写后 id，调用方输入保持不变。
func TestProperty_GroupedLookup_OneCallPerPhysicalNode(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numLogical := rapid.IntRange(1, 8).Draw(rt, "numLogical")
		numPhysical := rapid.IntRange(1, numLogical).Draw(rt, "numPhysical")

		routes := make(map[string]string, numLogical)
		for i := 0; i < numLogical; i++ {
			// 前 numPhysical 个逻辑节点保证覆盖全部物理节点
			p := i
			if i >= numPhysical {
				p = rapid.IntRange(0, numPhysical-1).Draw(rt, fmt.Sprintf("route_%d", i))
			}
			routes[fmt.Sprintf("logical-%d", i)] = fmt.Sprintf("physical-%d", p)
		}

		remote := mocks.NewMockRemoteClient()
		var refs []types.NodeDatatableID
		for i := 0; i < numLogical; i++ {
			node := fmt.Sprintf("logical-%d", i)
			tables := rapid.IntRange(1, 3).Draw(rt, fmt.Sprintf("tables_%d", i))
			for j := 0; j < tables; j++ {
				table := fmt.Sprintf("t-%d-%d", i, j)
				refs = append(refs, types.NodeDatatableID{NodeID: node, DatatableID: table})
				remote.WithDomainData(fixtures.DomainData(routes[node], table))
			}
		}
		input := append([]types.NodeDatatableID(nil), refs...)

		mgr, err := NewManager(Config{Mode: types.TopologyAutonomous, LocalNodeID: "logical-0"},
			remote, mocks.NewMockResolver(routes), nil, zap.NewNop())
		require.NoError(rt, err)

		records, err := mgr.FindByIDGroup(context.Background(), refs)
		require.NoError(rt, err)
		assert.Len(rt, records, len(refs))
		assert.Equal(rt, input, refs, "caller refs must not be mutated")

		calls := remote.CallsFor(mocks.OpBatchQuery)
		assert.Len(rt, calls, numPhysical)

		seen := make(map[string]bool)
		total := 0
		for _, c := range calls {
			assert.False(rt, seen[c.Target], "target %s called twice", c.Target)
			seen[c.Target] = true
			for _, r := range c.Refs {
				assert.Equal(rt, c.Target, r.NodeID)
			}
			total += len(c.Refs)
		}
		assert.Equal(rt, len(refs), total)
	})
}

// TestProperty_BatchLookup_MatchesPointLookups 批量查询结果与目标节点均等价于逐条查询（缺失的 id 不出现）。
func TestProperty_BatchLookup_MatchesPointLookups(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(rt, "n")

		remote := mocks.NewMockRemoteClient()
		var refs []types.NodeDatatableID
		for i := 0; i < n; i++ {
			table := fmt.Sprintf("t%d", i)
			refs = append(refs, types.NodeDatatableID{NodeID: "alice", DatatableID: table})
			if rapid.Bool().Draw(rt, fmt.Sprintf("present_%d", i)) {
				remote.WithDomainData(fixtures.DomainData("alice", table))
			}
		}

		mgr, err := NewManager(Config{Mode: types.TopologyCentralized, LocalNodeID: "center"},
			remote, nil, nil, zap.NewNop())
		require.NoError(rt, err)
		ctx := context.Background()

		batch, err := mgr.FindByIDs(ctx, refs)
		require.NoError(rt, err)

		for _, r := range refs {
			one, err := mgr.FindByID(ctx, r)
			if types.IsNotFound(err) {
				assert.NotContains(rt, batch, r)
				continue
			}
			require.NoError(rt, err)
			assert.Equal(rt, *one, batch[r])
		}

		// 批量与逐条查询必须发往同一物理节点
		batchCalls := remote.CallsFor(mocks.OpBatchQuery)
		require.Len(rt, batchCalls, 1)
		for _, c := range remote.CallsFor(mocks.OpQuery) {
			assert.Equal(rt, batchCalls[0].Target, c.Target)
		}
	})
}

// TestProperty_FilterIdempotent 过滤结果满足幂等性，且结果始终是输入的子集。
func TestProperty_FilterIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	statuses := []interface{}{"", "Available", "available", "UNAVAILABLE", "Unavailable", "archived"}
	sourceTypes := []string{types.DatasourceTypeLocal, types.DatasourceTypeOSS, types.DatasourceTypeHTTP, types.DatasourceTypeMySQL}

	genDatatable := gen.Struct(reflect.TypeOf(types.Datatable{}), map[string]gopter.Gen{
		"NodeID":         gen.Const("alice"),
		"DatatableID":    gen.Identifier(),
		"DatatableName":  gen.AlphaString(),
		"Status":         gen.OneConstOf("Available", "available", "Unavailable", "Archived", ""),
		"DatasourceType": gen.OneConstOf(types.DatasourceTypeLocal, types.DatasourceTypeOSS, types.DatasourceTypeHTTP, types.DatasourceTypeMySQL),
	})

	properties.Property("applying a filter twice equals applying it once", prop.ForAll(
		func(list []types.Datatable, status string, name string, typeMask uint8) bool {
			var allowed []string
			for i, st := range sourceTypes {
				if typeMask&(1<<i) != 0 {
					allowed = append(allowed, st)
				}
			}
			f := ListFilter{Status: status, Name: name, SourceTypes: allowed}

			once := f.Apply(list)
			twice := f.Apply(once)
			if len(once) != len(twice) {
				t.Logf("idempotency broken: %d vs %d", len(once), len(twice))
				return false
			}
			for i := range once {
				if once[i].DatatableID != twice[i].DatatableID {
					return false
				}
			}
			return len(once) <= len(list) && isSubsequence(once, list)
		},
		gen.SliceOf(genDatatable),
		gen.OneConstOf(statuses...),
		gen.OneConstOf("", "a", "b", "ab"),
		gen.UInt8Range(0, 15),
	))

	properties.TestingRun(t)
}

func isSubsequence(sub, list []types.Datatable) bool {
	keys := make([]string, 0, len(list))
	for _, d := range list {
		keys = append(keys, d.DatatableID)
	}
	j := 0
	for _, d := range sub {
		for j < len(keys) && keys[j] != d.DatatableID {
			j++
		}
		if j == len(keys) {
			return false
		}
		j++
	}
	return true
}
