package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
	"github.com/parsec0re/terrier/types"
)

func TestPipelineBreakersWalksBottomUpChildrenFirst(t *testing.T) {
	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}}
	scan := plan.NewSeqScanNode("t", schema, nil)
	agg := plan.NewAggregationNode(scan, schema, []string{"id"}, []plan.AggExpr{{Kind: types.CountAggregate, Column: "id"}})
	sortNode := plan.NewSortNode(agg, []plan.SortKey{{Column: "id"}}, 0)
	out := plan.NewOutputNode(sortNode)

	breakers := PipelineBreakers(out)
	require.Equal(t, []plan.Node{agg, sortNode}, breakers)
}

func TestPipelineBreakersOverHashJoinOrdersBothBuildSides(t *testing.T) {
	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}}
	leftScan := plan.NewSeqScanNode("left", schema, nil)
	leftAgg := plan.NewAggregationNode(leftScan, schema, []string{"id"}, nil)
	rightScan := plan.NewSeqScanNode("right", schema, nil)
	join := plan.NewHashJoinNode(leftAgg, rightScan, "id", "id", schema)

	breakers := PipelineBreakers(join)
	require.Equal(t, []plan.Node{leftAgg, join}, breakers)
}

func TestDriverRunsSeqScanFilterOutputChainEndToEnd(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0, 1})
	tbl.Insert(storage.Row{int64(1), "a"})
	tbl.Insert(storage.Row{int64(2), "b"})
	tbl.Insert(storage.Row{int64(3), "c"})

	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}, {Name: "label", Type: reg.SqlStringValType()}}
	scanNode := plan.NewSeqScanNode("orders", schema, nil)
	filterNode := plan.NewFilterNode(scanNode, []plan.Predicate{{Column: "id", Op: "!=", Literal: int64(2)}})
	outNode := plan.NewOutputNode(filterNode)

	scan := NewSeqScanTranslator(scanNode, tbl, []storage.ColumnID{0, 1})
	filter := NewFilterTranslator(filterNode, scan, map[string]int{"id": 0, "label": 1})

	var flushed [][][]interface{}
	out := NewOutputTranslator(outNode, filter, 10, func(tuples [][]interface{}, n, size int) {
		flushed = append(flushed, tuples)
	})

	driver := NewDriver([]Translator{scan, filter, out}, out)
	ec := runtime.NewExecutionContext(nil, memengine.NewPool(), 1)
	require.NoError(t, driver.Run(context.Background(), ec))

	require.Equal(t, 2, out.TotalTuples())
	require.Len(t, flushed, 1)
	require.Equal(t, "a", flushed[0][0][1])
	require.Equal(t, "c", flushed[0][1][1])
}
