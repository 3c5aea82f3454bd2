package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
)

// PipelineBreakers walks node's plan tree bottom-up and returns every
// node plan.Node.IsPipelineBreaker reports true for, in the order their
// materialization must complete - children's breakers before their
// parents' - per spec.md §4.3 ("splits the plan tree into maximal
// pipelines separated by pipeline breakers"). Each breaker's
// materialization (hash table, sorter run) is how state crosses from one
// pipeline into the next; within a pipeline, a translator tree built
// from the Node* constructors shares one Produce call as its iteration
// driver.
func PipelineBreakers(node plan.Node) []plan.Node {
	var out []plan.Node
	var walk func(n plan.Node)
	walk = func(n plan.Node) {
		for _, c := range n.Children() {
			walk(c)
		}
		if n.IsPipelineBreaker() {
			out = append(out, n)
		}
	}
	walk(node)
	return out
}

// Driver runs one full plan tree's translators: InitializeStateFields/
// Structs/HelperFunctions over every translator, InitializeSetup in
// leaf-to-root order, a single root.Produce call, then
// InitializeTeardown in root-to-leaf order. translators must list every
// translator in the tree in the same leaf-to-root order they were
// constructed (each Translator's constructor already requires its
// children to exist first, so construction order is a valid setup
// order).
type Driver struct {
	translators []Translator
	root        Translator
}

// NewDriver wires a Driver over translators (leaf-to-root order), whose
// last element is root.
func NewDriver(translators []Translator, root Translator) *Driver {
	return &Driver{translators: translators, root: root}
}

// Run executes the full pipeline chain once.
func (d *Driver) Run(ctx context.Context, ec *runtime.ExecutionContext) error {
	for _, t := range d.translators {
		t.InitializeStateFields()
		t.InitializeStructs()
		t.InitializeHelperFunctions()
	}
	for _, t := range d.translators {
		if err := t.InitializeSetup(ctx, ec); err != nil {
			return err
		}
	}
	runErr := d.root.Produce(ctx, ec)
	for i := len(d.translators) - 1; i >= 0; i-- {
		if err := d.translators[i].InitializeTeardown(ctx, ec); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}
