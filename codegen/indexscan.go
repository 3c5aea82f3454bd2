package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// IndexScanTranslator implements spec.md §4.2's IndexScan contract:
// opens an IndexIterator, builds a scan key from node.Predicates, calls
// IndexIteratorScanKey, and iterates matching tuples, applying any
// residual scan-condition filter inline.
type IndexScanTranslator struct {
	base
	node     *plan.IndexScanNode
	it       *runtime.IndexIterator
	cols     []storage.ColumnID
	colIndex map[string]int
	residual []plan.Predicate
}

// NewIndexScanTranslator constructs a translator over index, projecting
// cols in schema order.
func NewIndexScanTranslator(node *plan.IndexScanNode, index storage.Index, table storage.SqlTable, cols []storage.ColumnID) *IndexScanTranslator {
	t := &IndexScanTranslator{node: node, it: runtime.NewIndexIterator(index, table, cols), cols: cols, colIndex: make(map[string]int, len(cols))}
	for i, c := range node.Schema() {
		t.colIndex[c.Name] = i
	}
	for _, p := range node.Predicates {
		if p.Op != "=" {
			t.residual = append(t.residual, p)
		}
	}
	return t
}

// InitializeSetup allocates the iterator's aligned buffers and stages
// the equality scan key from node.Predicates.
func (t *IndexScanTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	if err := t.it.IndexIteratorInit(ec.Pool, t.cols); err != nil {
		return err
	}
	for i, p := range t.node.Predicates {
		if p.Op == "=" {
			t.it.SetKeyValue(i, p.Literal)
		}
	}
	return t.it.IndexIteratorScanKey(ctx, ec.Txn)
}

// InitializeTeardown releases the iterator's aligned buffers.
func (t *IndexScanTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return t.it.Close(ctx)
}

// Produce pulls matching rows from the index iterator, applying any
// residual non-equality predicate, and emits one consumer call per
// surviving row.
func (t *IndexScanTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	for {
		ok, err := t.it.Advance(ctx, ec.Txn)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if ec.Canceled() {
			return nil
		}
		if !t.passesResidual() {
			continue
		}
		if err := t.emit(ctx, ec); err != nil {
			return err
		}
	}
}

func (t *IndexScanTranslator) passesResidual() bool {
	row := t.it.CurrentRow()
	for _, p := range t.residual {
		idx, ok := t.colIndex[p.Column]
		if !ok {
			continue
		}
		if !comparator(p)(row[idx]) {
			return false
		}
	}
	return true
}

// GetOutput resolves attribute attrIdx of the current matched row.
func (t *IndexScanTranslator) GetOutput(attrIdx int) interface{} {
	return t.it.CurrentRow()[attrIdx]
}

// IsMaterializer reports true (pointer flavor), mirroring SeqScan.
func (t *IndexScanTranslator) IsMaterializer() (bool, bool) { return true, true }

// GetMaterializedTuple returns the current matched row.
func (t *IndexScanTranslator) GetMaterializedTuple() storage.Row { return t.it.CurrentRow() }
