package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
)

// FilterTranslator implements spec.md §4.2's Filter contract: no
// materialization, just wraps the child's body in an `if(cond) { ... }`.
// Here that means SetConsumer on the child wraps the parent's consumer
// with a predicate check.
type FilterTranslator struct {
	base
	node  *plan.FilterNode
	child Translator
	cols  map[string]int
}

// NewFilterTranslator wraps child, evaluating node.Predicates against
// values resolved through schemaIndex (column name -> the column's
// position in child's output schema).
func NewFilterTranslator(node *plan.FilterNode, child Translator, schemaIndex map[string]int) *FilterTranslator {
	return &FilterTranslator{node: node, child: child, cols: schemaIndex}
}

func (t *FilterTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *FilterTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

// Produce installs a gating consumer on the child and then drives it.
func (t *FilterTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		if !t.passes() {
			return nil
		}
		return t.emit(ctx, ec)
	})
	return t.child.Produce(ctx, ec)
}

func (t *FilterTranslator) passes() bool {
	for _, p := range t.node.Predicates {
		idx, ok := t.cols[p.Column]
		if !ok {
			continue
		}
		if !comparator(p)(t.child.GetOutput(idx)) {
			return false
		}
	}
	return true
}

// GetOutput passes through to the child untouched.
func (t *FilterTranslator) GetOutput(attrIdx int) interface{} { return t.child.GetOutput(attrIdx) }
