package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

func TestFilterTranslatorGatesOnPredicate(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{{int64(1)}, {int64(5)}, {int64(9)}}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "id"}}, nil)
	node := plan.NewFilterNode(scanNode, []plan.Predicate{{Column: "id", Op: ">=", Literal: int64(5)}})
	f := NewFilterTranslator(node, child, map[string]int{"id": 0})

	var seen []int64
	f.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		seen = append(seen, f.GetOutput(0).(int64))
		return nil
	})
	require.NoError(t, f.Produce(context.Background(), runtime.NewExecutionContext(nil, nil, 1)))
	require.Equal(t, []int64{5, 9}, seen)
}

func TestFilterTranslatorSkipsPredicateOnUnknownColumn(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{{int64(1)}}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "id"}}, nil)
	node := plan.NewFilterNode(scanNode, []plan.Predicate{{Column: "missing", Op: "=", Literal: int64(9)}})
	f := NewFilterTranslator(node, child, map[string]int{"id": 0})

	var calls int
	f.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		calls++
		return nil
	})
	require.NoError(t, f.Produce(context.Background(), runtime.NewExecutionContext(nil, nil, 1)))
	require.Equal(t, 1, calls)
}

func TestFilterTranslatorGetOutputPassesThroughToChild(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{{int64(42), "x"}}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "id"}}, nil)
	node := plan.NewFilterNode(scanNode, nil)
	f := NewFilterTranslator(node, child, nil)

	f.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error { return nil })
	require.NoError(t, f.Produce(context.Background(), runtime.NewExecutionContext(nil, nil, 1)))
	require.Equal(t, "x", f.GetOutput(1))
}
