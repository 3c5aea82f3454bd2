package codegen

import (
	"context"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// SeqScanTranslator implements spec.md §4.2's SeqScan contract: opens a
// TableVectorIterator, drives its outer loop with TableIterAdvance and
// its inner loop over the PCI with PCIHasNext/PCIAdvance, classifying
// each conjunct of node.Predicates as vectorizable (becomes a
// FilterManagerInsertFilter call) or scalar (becomes an inline check).
// It is a materializer: GetMaterializedTuple exposes the current PCI row
// by pointer.
type SeqScanTranslator struct {
	base
	node       *plan.SeqScanNode
	table      storage.SqlTable
	cols       []storage.ColumnID
	colIndex   map[string]int
	scalarPred []plan.Predicate
	filters    *runtime.FilterManager
	tvi        *runtime.TableVectorIterator
	pci        *runtime.ProjectedColumnsIterator
}

// NewSeqScanTranslator constructs a translator over table, projecting
// cols in schema order (cols[i] must correspond to node.Schema()[i]).
func NewSeqScanTranslator(node *plan.SeqScanNode, table storage.SqlTable, cols []storage.ColumnID) *SeqScanTranslator {
	t := &SeqScanTranslator{node: node, table: table, cols: cols, colIndex: make(map[string]int, len(cols))}
	for i, c := range node.Schema() {
		t.colIndex[c.Name] = i
	}
	t.filters = runtime.NewFilterManager()
	for _, p := range node.Predicates {
		if vectorizable(p) {
			idx, ok := t.colIndex[p.Column]
			if !ok {
				continue
			}
			t.filters.FilterManagerInsertFilter(cols[idx], comparator(p))
		} else {
			t.scalarPred = append(t.scalarPred, p)
		}
	}
	return t
}

func vectorizable(p plan.Predicate) bool {
	switch p.Op {
	case "=", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

func comparator(p plan.Predicate) func(interface{}) bool {
	rhs, _ := p.Literal.(int64)
	switch p.Op {
	case "=":
		return runtime.EqInt(rhs)
	case "!=":
		return runtime.NeInt(rhs)
	case "<":
		return runtime.LtInt(rhs)
	case "<=":
		return runtime.LeInt(rhs)
	case ">":
		return runtime.GtInt(rhs)
	case ">=":
		return runtime.GeInt(rhs)
	default:
		return func(interface{}) bool { return true }
	}
}

// InitializeSetup opens the table-vector iterator.
func (t *SeqScanTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	t.tvi = runtime.NewTableVectorIterator(t.cols, runtime.VectorSize)
	return t.tvi.TableIterInit(ctx, ec.Txn, t.table)
}

// InitializeTeardown closes the table-vector iterator.
func (t *SeqScanTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return t.tvi.TableIterClose(ctx)
}

// Produce drives TableIterAdvance/PCIAdvance and emits one consumer call
// per surviving row.
func (t *SeqScanTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	for {
		ok, err := t.tvi.TableIterAdvance(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		t.pci = t.tvi.PCI()
		matches := t.filters.RunFilters(t.pci)
		runtime.ApplyTo(matches, t.pci)
		for t.pci.PCIHasNext() {
			if ec.Canceled() {
				return nil
			}
			t.pci.PCIAdvance()
			if !t.passesScalar() {
				continue
			}
			if err := t.emit(ctx, ec); err != nil {
				return err
			}
		}
	}
}

func (t *SeqScanTranslator) passesScalar() bool {
	for _, p := range t.scalarPred {
		idx, ok := t.colIndex[p.Column]
		if !ok {
			continue
		}
		if !comparator(p)(t.pci.PCIGet(t.cols[idx])) {
			return false
		}
	}
	return true
}

// GetOutput resolves attribute attrIdx of the current PCI row.
func (t *SeqScanTranslator) GetOutput(attrIdx int) interface{} {
	return t.pci.PCIGet(t.cols[attrIdx])
}

// IsMaterializer reports true (pointer flavor), per spec.md §4.2.
func (t *SeqScanTranslator) IsMaterializer() (bool, bool) { return true, true }

// GetMaterializedTuple returns the PCI's current full row.
func (t *SeqScanTranslator) GetMaterializedTuple() storage.Row { return t.pci.CurrentRow() }
