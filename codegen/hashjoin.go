package codegen

import (
	"context"

	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// HashJoinBuildTranslator implements spec.md §4.2's HashJoin build-side
// contract: a pipeline breaker whose hash table is created by its
// constructor, with per-tuple JoinHashTableInsert keyed by the build
// key's hash and JoinHashTableBuild in InitializeTeardown. It does not
// use the parallel build.
type HashJoinBuildTranslator struct {
	base
	child     Translator
	keyIdx    int
	table     *runtime.JoinHashTable
}

// NewHashJoinBuildTranslator builds a JoinHashTable over child, hashing
// attribute keyIdx of child's output per row.
func NewHashJoinBuildTranslator(child Translator, keyIdx int) *HashJoinBuildTranslator {
	return &HashJoinBuildTranslator{child: child, keyIdx: keyIdx, table: runtime.NewJoinHashTable()}
}

func (t *HashJoinBuildTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *HashJoinBuildTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.table.JoinHashTableBuild()
	return nil
}

// Produce drains the build child into the hash table; this translator
// itself emits nothing downstream (the probe side pulls from Table()).
func (t *HashJoinBuildTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.child.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		key := t.child.GetOutput(t.keyIdx)
		_, isPtr := t.child.IsMaterializer()
		var row storage.Row
		if isPtr {
			row = t.child.GetMaterializedTuple()
		}
		t.table.JoinHashTableInsert(runtime.Hash(key), row)
		return nil
	})
	return t.child.Produce(ctx, ec)
}

// Table exposes the built hash table to the paired probe translator.
func (t *HashJoinBuildTranslator) Table() *runtime.JoinHashTable { return t.table }

// GetOutput is never called on the build side - its rows only ever feed
// JoinHashTableInsert - but is implemented to satisfy Translator.
func (t *HashJoinBuildTranslator) GetOutput(attrIdx int) interface{} { return nil }

// IsMaterializer reports true: the build side is a pipeline breaker.
func (t *HashJoinBuildTranslator) IsMaterializer() (bool, bool) { return true, false }

// HashJoinProbeTranslator implements spec.md §4.2's HashJoin probe-side
// contract: for each probe row, computes the hash of the probe key,
// opens a JoinHashTableIter, and pulls matches via
// JoinHashTableIterHasNext/GetRow.
type HashJoinProbeTranslator struct {
	base
	probe      Translator
	build      *HashJoinBuildTranslator
	probeKeyIdx int
	buildKeyOff int // offset of the build key within the materialized build row
	buildWidth  int
	current     storage.Row
}

// NewHashJoinProbeTranslator pairs probe against an already-built
// HashJoinBuildTranslator, equating probe's probeKeyIdx attribute with
// buildKeyOff of the build side's materialized row.
func NewHashJoinProbeTranslator(probe Translator, build *HashJoinBuildTranslator, probeKeyIdx, buildKeyOff, buildWidth int) *HashJoinProbeTranslator {
	return &HashJoinProbeTranslator{probe: probe, build: build, probeKeyIdx: probeKeyIdx, buildKeyOff: buildKeyOff, buildWidth: buildWidth}
}

func (t *HashJoinProbeTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (t *HashJoinProbeTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

// Produce drives the probe child, and for each of its rows walks every
// matching build-side row, emitting one consumer call per match.
func (t *HashJoinProbeTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.probe.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		probeKey := t.probe.GetOutput(t.probeKeyIdx)
		it := t.build.Table().JoinHashTableIterInit(runtime.Hash(probeKey))
		for it.JoinHashTableIterHasNext(func(build storage.Row) bool {
			return build[t.buildKeyOff] == probeKey
		}) {
			if ec.Canceled() {
				return nil
			}
			t.current = it.JoinHashTableIterGetRow()
			if err := t.emit(ctx, ec); err != nil {
				return err
			}
		}
		return nil
	})
	return t.probe.Produce(ctx, ec)
}

// GetOutput resolves either the matched build-side row (attrIdx <
// buildWidth) or the probe side (attrIdx >= buildWidth), per the caller's
// schema layout convention of build columns followed by probe columns.
func (t *HashJoinProbeTranslator) GetOutput(attrIdx int) interface{} {
	if attrIdx < t.buildWidth {
		return t.current[attrIdx]
	}
	return t.probe.GetOutput(attrIdx - t.buildWidth)
}

// GetChildOutput resolves attribute attrIdx of the matched build row
// (childIdx 0) or the live probe row (childIdx 1).
func (t *HashJoinProbeTranslator) GetChildOutput(childIdx, attrIdx int) interface{} {
	if childIdx == 0 {
		return t.current[attrIdx]
	}
	return t.probe.GetOutput(attrIdx)
}
