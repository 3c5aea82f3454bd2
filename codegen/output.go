package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
)

// OutputTranslator implements spec.md §4.2's Output contract: for each
// tuple calls OutputAlloc then copies columns, OutputSetNull(idx) for
// nulls, OutputAdvance; at pipeline end calls OutputFinalize. Always the
// plan tree's root translator.
type OutputTranslator struct {
	base
	node  *plan.OutputNode
	child Translator
	buf   *runtime.OutputBuffer
}

// NewOutputTranslator wraps child, flushing batches of batchSize tuples
// to callback.
func NewOutputTranslator(node *plan.OutputNode, child Translator, batchSize int, callback runtime.OutputCallback) *OutputTranslator {
	return &OutputTranslator{
		node:  node,
		child: child,
		buf:   runtime.NewOutputBuffer(len(node.Schema()), batchSize, callback),
	}
}

func (t *OutputTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

// InitializeTeardown flushes any partially-filled final batch.
func (t *OutputTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.buf.OutputFinalize()
	return nil
}

// Produce drives the child, materializing each of its rows into the
// output buffer.
func (t *OutputTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	n := len(t.node.Schema())
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		t.buf.OutputAlloc()
		for i := 0; i < n; i++ {
			v := t.child.GetOutput(i)
			if v == nil {
				t.buf.OutputSetNull(i)
			} else {
				t.buf.Set(i, v)
			}
		}
		t.buf.OutputAdvance()
		return nil
	})
	return t.child.Produce(ctx, ec)
}

// TotalTuples reports how many tuples this output has accepted so far.
func (t *OutputTranslator) TotalTuples() int { return t.buf.TotalTuples() }

// GetOutput is unused at the root but implemented to satisfy Translator.
func (t *OutputTranslator) GetOutput(attrIdx int) interface{} { return t.child.GetOutput(attrIdx) }
