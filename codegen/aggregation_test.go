package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
	"github.com/parsec0re/terrier/types"
)

func TestAggregationTranslatorGroupsAndComputesSumAndCount(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{
		{"a", int64(10)},
		{"a", int64(5)},
		{"b", int64(7)},
	}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "g"}, {Name: "v"}}, nil)
	node := plan.NewAggregationNode(scanNode, nil, []string{"g"}, []plan.AggExpr{
		{Kind: types.SumAggregate, Column: "v"},
		{Kind: types.CountAggregate, Column: "v"},
	})
	agg := NewAggregationTranslator(node, child, []int{0}, []int{1, 1})

	type totals struct {
		sum   int64
		count int64
	}
	results := map[string]totals{}
	agg.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		key := agg.GetOutput(0).(string)
		results[key] = totals{sum: agg.GetOutput(1).(int64), count: agg.GetOutput(2).(int64)}
		return nil
	})

	require.NoError(t, agg.Produce(context.Background(), runtime.NewExecutionContext(nil, nil, 1)))
	require.Equal(t, map[string]totals{"a": {15, 2}, "b": {7, 1}}, results)
}

func TestAggregationTranslatorComputesAvgPerGroup(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{
		{"a", int64(10)},
		{"a", int64(4)},
		{"b", int64(7)},
	}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "g"}, {Name: "v"}}, nil)
	node := plan.NewAggregationNode(scanNode, nil, []string{"g"}, []plan.AggExpr{
		{Kind: types.AvgAggregate, Column: "v"},
	})
	agg := NewAggregationTranslator(node, child, []int{0}, []int{1})

	results := map[string]float64{}
	agg.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		results[agg.GetOutput(0).(string)] = agg.GetOutput(1).(float64)
		return nil
	})

	require.NoError(t, agg.Produce(context.Background(), runtime.NewExecutionContext(nil, nil, 1)))
	require.Equal(t, map[string]float64{"a": 7, "b": 7}, results)
}

func TestAggregationTranslatorIsAMaterializerWithoutPointerFlavor(t *testing.T) {
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "g"}}, nil)
	node := plan.NewAggregationNode(scanNode, nil, []string{"g"}, nil)
	agg := NewAggregationTranslator(node, &rowsTranslator{}, []int{0}, nil)

	materializes, isPtr := agg.IsMaterializer()
	require.True(t, materializes)
	require.False(t, isPtr)
}
