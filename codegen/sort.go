package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// SortTranslator implements spec.md §4.2's Sort contract: a pipeline
// breaker whose Sorter, ordered by a comparator over node.Keys, is
// created by its constructor. It inserts every input row, finalizes
// with the single-threaded SorterSort, then iterates the sorted run
// with SorterIterInit/HasNext/Advance in its result phase. It never
// calls SorterSortParallel or SorterSortTopKParallel; node.TopK only
// stops the iteration after TopK rows of the fully sorted run.
type SortTranslator struct {
	base
	node    *plan.SortNode
	child   Translator
	keyIdx  []int
	sorter  *runtime.Sorter
	it      *runtime.SorterIter
	current storage.Row
}

// NewSortTranslator sorts child's output by node.Keys, each resolved
// against child's output schema via keyIdx.
func NewSortTranslator(node *plan.SortNode, child Translator, keyIdx []int) *SortTranslator {
	t := &SortTranslator{node: node, child: child, keyIdx: keyIdx}
	t.sorter = runtime.NewSorter(t.less)
	return t
}

func (t *SortTranslator) less(a, b storage.Row) bool {
	for i, k := range t.node.Keys {
		idx := t.keyIdx[i]
		av, bv := a[idx], b[idx]
		cmp := compareValues(av, bv)
		if cmp == 0 {
			continue
		}
		if k.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareValues(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func (t *SortTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *SortTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

// Produce drains the build phase, sorts, then iterates the sorted run.
func (t *SortTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		_, isPtr := t.child.IsMaterializer()
		if isPtr {
			t.sorter.SorterInsert(t.child.GetMaterializedTuple())
			return nil
		}
		row := make(storage.Row, len(t.keyIdx))
		for i := range row {
			row[i] = t.child.GetOutput(i)
		}
		t.sorter.SorterInsert(row)
		return nil
	})
	if err := t.child.Produce(ctx, ec); err != nil {
		return err
	}
	t.sorter.SorterSort()
	t.it = t.sorter.SorterIterInit()
	emitted := 0
	for t.it.SorterIterHasNext() {
		if t.node.TopK > 0 && emitted >= t.node.TopK {
			return nil
		}
		if ec.Canceled() {
			return nil
		}
		t.it.SorterIterAdvance()
		t.current = t.it.SorterIterGetRow()
		if err := t.emit(ctx, ec); err != nil {
			return err
		}
		emitted++
	}
	return nil
}

// GetOutput resolves attribute attrIdx of the current sorted row.
func (t *SortTranslator) GetOutput(attrIdx int) interface{} { return t.current[attrIdx] }

// IsMaterializer reports true: Sort is a pipeline breaker.
func (t *SortTranslator) IsMaterializer() (bool, bool) { return true, true }

// GetMaterializedTuple returns the current sorted row.
func (t *SortTranslator) GetMaterializedTuple() storage.Row { return t.current }
