package runtime

import (
	"github.com/pilosa/pilosa/roaring"

	"github.com/parsec0re/terrier/storage"
)

// filterPredicate is a single vectorizable conjunct SeqScan's translator
// classifies per spec.md §4.2: "(column ref, constant literal)" compared
// via one of {=,≠,<,≤,>,≥}.
type filterPredicate struct {
	col  storage.ColumnID
	cmp  func(v interface{}) bool
}

// FilterManager accumulates vectorizable predicates and evaluates them
// against a PCI's rows in one pass, row by row, recording the positions
// of rows that satisfy every predicate in a roaring bitmap - the
// same roaring-bitmap representation github.com/pilosa/pilosa uses for
// its column/row set selections, here repurposed as the per-vector match
// set a FilterManagerInsertFilter/RunFilters pair operates on.
type FilterManager struct {
	predicates []filterPredicate
}

// NewFilterManager returns an empty FilterManager.
func NewFilterManager() *FilterManager { return &FilterManager{} }

// FilterManagerInsertFilter registers one vectorizable conjunct.
func (fm *FilterManager) FilterManagerInsertFilter(col storage.ColumnID, cmp func(v interface{}) bool) {
	fm.predicates = append(fm.predicates, filterPredicate{col: col, cmp: cmp})
}

// RunFilters evaluates every registered predicate against pci's current
// vector, returning the bitmap of row positions (0-based within the
// vector) that satisfy every predicate.
func (fm *FilterManager) RunFilters(pci *ProjectedColumnsIterator) *roaring.Bitmap {
	matches := roaring.NewBitmap()
	for i := 0; i < len(pci.rows); i++ {
		pci.pos = i
		ok := true
		for _, p := range fm.predicates {
			if !p.cmp(pci.PCIGet(p.col)) {
				ok = false
				break
			}
		}
		if ok {
			matches.Add(uint64(i))
		}
	}
	pci.pos = -1
	return matches
}

// ApplyTo narrows pci's validity bitmap to exactly the positions present
// in matches, so the rest of the pipeline's PCIHasNext/PCIAdvance loop
// only visits surviving rows.
func ApplyTo(matches *roaring.Bitmap, pci *ProjectedColumnsIterator) {
	for i := range pci.valid {
		pci.valid[i] = matches.Contains(uint64(i))
	}
}

// Comparators used by SeqScan/IndexScan translators to build
// filterPredicate.cmp closures for each of the {=,≠,<,≤,>,≥} operators
// over the int64 (SqlInteger) representation.
func EqInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i == rhs } }
func NeInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i != rhs } }
func LtInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i < rhs } }
func LeInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i <= rhs } }
func GtInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i > rhs } }
func GeInt(rhs int64) func(interface{}) bool { return func(v interface{}) bool { i, _ := v.(int64); return i >= rhs } }
