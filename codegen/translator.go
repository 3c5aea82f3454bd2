// Package codegen implements the operator translator pipeline spec.md
// §4.2-4.3 describes: each plan.Node type has a matching Translator that
// drives the runtime bridges in package runtime to produce its rows and
// push them to its parent. There is no textual code generation or JIT
// here - "Produce" directly walks the plan using the same push-based,
// top-down-per-tuple discipline spec.md §5 requires of generated code,
// which is the idiomatic Go rendering of a translator whose output would
// otherwise be emitted source text.
package codegen

import (
	"context"

	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// Consumer is invoked once per qualifying row a translator produces; the
// parent reads the row's columns back out via GetOutput/GetChildOutput
// while the child's "current row" state is live, mirroring the emitted
// code's nested-loop body shape from spec.md §4.2.
type Consumer func(ctx context.Context, ec *runtime.ExecutionContext) error

// Translator is the interface every plan.Node maps to, per spec.md
// §4.2's enumerated method set.
type Translator interface {
	// InitializeStateFields declares the translator's persistent state
	// (iterators, hash tables, sorters) before Produce runs.
	InitializeStateFields()
	// InitializeStructs declares any payload/tuple shapes this
	// translator materializes.
	InitializeStructs()
	// InitializeHelperFunctions wires comparator/hash closures (e.g. a
	// join's equality function, a sort's comparator) ahead of Produce.
	InitializeHelperFunctions()
	// InitializeSetup runs once per pipeline before the first tuple,
	// opening iterators and allocating runtime structures.
	InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error
	// InitializeTeardown runs once per pipeline after the last tuple,
	// releasing whatever InitializeSetup allocated.
	InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error
	// Produce drives this translator's rows through to its parent's
	// consumer, set via SetConsumer.
	Produce(ctx context.Context, ec *runtime.ExecutionContext) error
	// SetConsumer wires the downstream callback invoked per output row.
	SetConsumer(next Consumer)
	// GetOutput resolves attribute attrIdx of this translator's own
	// current row.
	GetOutput(attrIdx int) interface{}
	// GetChildOutput resolves attribute attrIdx of child childIdx's
	// current row, as seen from this translator (used by operators with
	// more than one child, e.g. HashJoin's probe side reading the
	// matched build-side row).
	GetChildOutput(childIdx, attrIdx int) interface{}
	// IsMaterializer reports whether this translator materializes tuples
	// (the scans, and the pipeline breakers Aggregation, Sort and the
	// HashJoin build side, report true), and whether its current tuple
	// is handed downstream by pointer through GetMaterializedTuple.
	IsMaterializer() (materializes bool, isPtr bool)
	// GetMaterializedTuple returns the tuple a materializer translator
	// is currently positioned on, valid only when IsMaterializer
	// reports isPtr true.
	GetMaterializedTuple() storage.Row
}

// base embeds the SetConsumer bookkeeping and the no-op defaults most
// translators share; operator-specific files override what they need.
type base struct {
	consumer Consumer
}

func (b *base) SetConsumer(next Consumer) { b.consumer = next }

func (b *base) emit(ctx context.Context, ec *runtime.ExecutionContext) error {
	if b.consumer == nil {
		return nil
	}
	return b.consumer(ctx, ec)
}

func (b *base) InitializeStateFields()      {}
func (b *base) InitializeStructs()          {}
func (b *base) InitializeHelperFunctions()  {}
func (b *base) GetChildOutput(childIdx, attrIdx int) interface{} { return nil }
func (b *base) IsMaterializer() (bool, bool)                     { return false, false }
func (b *base) GetMaterializedTuple() storage.Row                { return nil }
