package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
)

// ProjectionTranslator implements spec.md §4.2's Projection contract: no
// materialization, just reorders GetOutput lookups against the child's
// schema.
type ProjectionTranslator struct {
	base
	child   Translator
	mapping []int // mapping[i] = child attribute index feeding output column i
}

// NewProjectionTranslator projects child through mapping.
func NewProjectionTranslator(node *plan.ProjectionNode, child Translator, mapping []int) *ProjectionTranslator {
	return &ProjectionTranslator{child: child, mapping: mapping}
}

func (t *ProjectionTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *ProjectionTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

// Produce simply drives the child, pushing straight through to the
// parent's consumer - reordering only happens in GetOutput.
func (t *ProjectionTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		return t.emit(ctx, ec)
	})
	return t.child.Produce(ctx, ec)
}

// GetOutput resolves output column attrIdx from the mapped child
// attribute.
func (t *ProjectionTranslator) GetOutput(attrIdx int) interface{} {
	return t.child.GetOutput(t.mapping[attrIdx])
}
