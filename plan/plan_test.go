package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/types"
)

func TestSeqScanNodeIsNotAPipelineBreaker(t *testing.T) {
	schema := Schema{{Name: "id", Type: types.NewRegistry().SqlIntegerType()}}
	scan := NewSeqScanNode("orders", schema, []Predicate{{Column: "id", Op: "=", Literal: int64(1)}})
	require.False(t, scan.IsPipelineBreaker())
	require.Empty(t, scan.Children())
	require.Equal(t, schema, scan.Schema())
}

func TestHashJoinNodeIsAPipelineBreakerOverBothChildren(t *testing.T) {
	reg := types.NewRegistry()
	schema := Schema{{Name: "id", Type: reg.SqlIntegerType()}}
	build := NewSeqScanNode("left", schema, nil)
	probe := NewSeqScanNode("right", schema, nil)
	join := NewHashJoinNode(build, probe, "id", "id", schema)

	require.True(t, join.IsPipelineBreaker())
	require.Equal(t, []Node{build, probe}, join.Children())
}

func TestAggregationAndSortNodesAreBreakersFilterIsNot(t *testing.T) {
	reg := types.NewRegistry()
	schema := Schema{{Name: "id", Type: reg.SqlIntegerType()}}
	scan := NewSeqScanNode("orders", schema, nil)

	filter := NewFilterNode(scan, []Predicate{{Column: "id", Op: "!=", Literal: int64(0)}})
	require.False(t, filter.IsPipelineBreaker())
	require.Equal(t, []Node{scan}, filter.Children())

	agg := NewAggregationNode(filter, schema, []string{"id"}, []AggExpr{{Kind: types.SumAggregate, Column: "id"}})
	require.True(t, agg.IsPipelineBreaker())

	sort := NewSortNode(agg, []SortKey{{Column: "id"}}, 10)
	require.True(t, sort.IsPipelineBreaker())
	require.Equal(t, 10, sort.TopK)

	out := NewOutputNode(sort)
	require.False(t, out.IsPipelineBreaker())
	require.Equal(t, schema, out.Schema())
}

func TestProjectionNodeNarrowsSchema(t *testing.T) {
	reg := types.NewRegistry()
	wide := Schema{{Name: "id", Type: reg.SqlIntegerType()}, {Name: "name", Type: reg.SqlStringValType()}}
	scan := NewSeqScanNode("orders", wide, nil)

	narrow := Schema{{Name: "name", Type: reg.SqlStringValType()}}
	proj := NewProjectionNode(scan, narrow, []string{"name"})
	require.Equal(t, narrow, proj.Schema())
	require.Equal(t, []string{"name"}, proj.Columns)
}
