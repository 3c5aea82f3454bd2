package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/types"
)

// AggregationTranslator implements spec.md §4.2's Aggregation contract:
// a pipeline breaker whose build phase hashes each input row's group-by
// key, looks it up via AggHashTableLookup, runs AggInit on a miss and
// AggAdvance on every row, and whose result phase iterates
// AggHashTableIter* projecting each group's payload to output.
type AggregationTranslator struct {
	base
	node     *plan.AggregationNode
	child    Translator
	groupIdx []int
	aggIdx   []int // child attribute each aggregate reads
	ht       *runtime.AggregationHashTable
	it       *runtime.AggregationHashTableIter
	current  *runtime.AggPayload
}

// NewAggregationTranslator builds aggregation over child, grouping by
// groupIdx (child attribute indices) and computing node.Aggregates, each
// reading aggIdx[i] of the child's output.
func NewAggregationTranslator(node *plan.AggregationNode, child Translator, groupIdx, aggIdx []int) *AggregationTranslator {
	return &AggregationTranslator{node: node, child: child, groupIdx: groupIdx, aggIdx: aggIdx, ht: runtime.NewAggregationHashTable()}
}

func (t *AggregationTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *AggregationTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *AggregationTranslator) groupKey() []interface{} {
	key := make([]interface{}, len(t.groupIdx))
	for i, idx := range t.groupIdx {
		key[i] = t.child.GetOutput(idx)
	}
	return key
}

func (t *AggregationTranslator) groupHash() uint64 {
	var h uint64
	for _, idx := range t.groupIdx {
		h = runtime.HashCombine(h, t.child.GetOutput(idx))
	}
	return h
}

func (t *AggregationTranslator) newPayload() *runtime.AggPayload {
	return &runtime.AggPayload{Key: t.groupKey(), Aggregates: make([]interface{}, len(t.node.Aggregates))}
}

// Produce drains the build phase first, then iterates finalized groups,
// emitting one consumer call per group.
func (t *AggregationTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		h := t.groupHash()
		p, hit := t.ht.AggHashTableLookup(h, t.newPayload)
		for i, agg := range t.node.Aggregates {
			v := t.child.GetOutput(t.aggIdx[i])
			if !hit {
				p.Aggregates[i] = aggInit(agg.Kind)
			}
			p.Aggregates[i] = aggAdvance(agg.Kind, p.Aggregates[i], v)
		}
		return nil
	})
	if err := t.child.Produce(ctx, ec); err != nil {
		return err
	}
	t.it = t.ht.AggHashTableIterInit()
	for t.it.AggHashTableIterHasNext() {
		if ec.Canceled() {
			return nil
		}
		t.it.AggHashTableIterAdvance()
		t.current = t.it.AggHashTableIterGetRow()
		if err := t.emit(ctx, ec); err != nil {
			return err
		}
	}
	return nil
}

// avgAccumulator tracks the running sum and count an AvgAggregate needs to
// divide at read time; AggAdvance only ever grows it, the division happens
// in GetOutput once the group is finalized.
type avgAccumulator struct {
	sum   int64
	count int64
}

func aggInit(kind types.Kind) interface{} {
	switch kind {
	case types.CountAggregate:
		return int64(0)
	case types.SumAggregate:
		return int64(0)
	case types.AvgAggregate:
		return &avgAccumulator{}
	case types.MinAggregate, types.MaxAggregate:
		return nil
	default:
		return nil
	}
}

func aggAdvance(kind types.Kind, acc interface{}, v interface{}) interface{} {
	switch kind {
	case types.CountAggregate:
		n, _ := acc.(int64)
		return n + 1
	case types.SumAggregate:
		n, _ := acc.(int64)
		x, _ := v.(int64)
		return n + x
	case types.AvgAggregate:
		a, _ := acc.(*avgAccumulator)
		x, ok := v.(int64)
		if !ok {
			return a
		}
		a.sum += x
		a.count++
		return a
	case types.MinAggregate:
		x, ok := v.(int64)
		if !ok {
			return acc
		}
		cur, curOK := acc.(int64)
		if !curOK || x < cur {
			return x
		}
		return acc
	case types.MaxAggregate:
		x, ok := v.(int64)
		if !ok {
			return acc
		}
		cur, curOK := acc.(int64)
		if !curOK || x > cur {
			return x
		}
		return acc
	default:
		return acc
	}
}

// GetOutput resolves output column attrIdx: group-by columns first, then
// aggregate results, matching node.Schema()'s layout convention. AvgAggregate
// divides its accumulated (sum, count) here, returning nil (SQL NULL) for an
// empty group rather than dividing by zero.
func (t *AggregationTranslator) GetOutput(attrIdx int) interface{} {
	if attrIdx < len(t.groupIdx) {
		return t.current.Key[attrIdx]
	}
	aggIdx := attrIdx - len(t.groupIdx)
	v := t.current.Aggregates[aggIdx]
	if t.node.Aggregates[aggIdx].Kind == types.AvgAggregate {
		a, ok := v.(*avgAccumulator)
		if !ok || a.count == 0 {
			return nil
		}
		return float64(a.sum) / float64(a.count)
	}
	return v
}

// IsMaterializer reports true: Aggregation is a pipeline breaker.
func (t *AggregationTranslator) IsMaterializer() (bool, bool) { return true, false }
