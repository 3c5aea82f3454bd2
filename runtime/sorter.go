package runtime

import (
	"sort"

	"github.com/parsec0re/terrier/storage"
)

// Sorter is the pipeline-breaker structure Sort's translator drives with
// SorterInit/per-row SorterInsert, finalizing with SorterSort (or a
// parallel/top-k variant), per spec.md §4.2.
type Sorter struct {
	less func(a, b storage.Row) bool
	rows []storage.Row
}

// NewSorter (SorterInit) constructs a Sorter ordered by less, the
// user-supplied comparator the translator compiles from the plan's sort
// key list.
func NewSorter(less func(a, b storage.Row) bool) *Sorter {
	return &Sorter{less: less}
}

// SorterInsert appends one row to the unsorted run.
func (s *Sorter) SorterInsert(row storage.Row) { s.rows = append(s.rows, row) }

// SorterSort sorts the run in place, single-threaded.
func (s *Sorter) SorterSort() {
	sort.SliceStable(s.rows, func(i, j int) bool { return s.less(s.rows[i], s.rows[j]) })
}

// SorterSortParallel merges every thread-local Sorter's run (each
// already locally sorted by SorterSort) into one globally sorted run via
// a k-way merge, per spec.md §5's "sorters produce a totally ordered
// run" guarantee even across parallel partitions.
func (s *Sorter) SorterSortParallel(threads *ThreadStateContainer) {
	var runs [][]storage.Row
	threads.ForEach(func(i int, state interface{}) {
		if part, ok := state.(*Sorter); ok {
			part.SorterSort()
			runs = append(runs, part.rows)
		}
	})
	s.rows = mergeRuns(runs, s.less)
}

// SorterSortTopKParallel behaves like SorterSortParallel but truncates
// the merged run to its first k rows, for LIMIT-style top-k sorts.
func (s *Sorter) SorterSortTopKParallel(threads *ThreadStateContainer, k int) {
	s.SorterSortParallel(threads)
	if k < len(s.rows) {
		s.rows = s.rows[:k]
	}
}

func mergeRuns(runs [][]storage.Row, less func(a, b storage.Row) bool) []storage.Row {
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	out := make([]storage.Row, 0, total)
	idx := make([]int, len(runs))
	for {
		best := -1
		for i, r := range runs {
			if idx[i] >= len(r) {
				continue
			}
			if best == -1 || less(r[idx[i]], runs[best][idx[best]]) {
				best = i
			}
		}
		if best == -1 {
			return out
		}
		out = append(out, runs[best][idx[best]])
		idx[best]++
	}
}

// SorterIter walks a finalized run in sorted order.
type SorterIter struct {
	rows []storage.Row
	pos  int
}

// SorterIterInit opens an iterator over s's sorted run.
func (s *Sorter) SorterIterInit() *SorterIter { return &SorterIter{rows: s.rows, pos: -1} }

// SorterIterHasNext reports whether another row remains.
func (it *SorterIter) SorterIterHasNext() bool { return it.pos+1 < len(it.rows) }

// SorterIterAdvance moves to the next row.
func (it *SorterIter) SorterIterAdvance() { it.pos++ }

// SorterIterGetRow returns the row the iterator currently sits on.
func (it *SorterIter) SorterIterGetRow() storage.Row {
	if it.pos < 0 || it.pos >= len(it.rows) {
		return nil
	}
	return it.rows[it.pos]
}

// Len reports how many rows are currently buffered in the run.
func (s *Sorter) Len() int { return len(s.rows) }
