package memengine

import (
	"context"
	"sync"

	"github.com/parsec0re/terrier/storage"
)

// Table is a slice-backed storage.SqlTable: every row lives in memory for
// the lifetime of the process, visible to every transaction (this engine
// does not implement MVCC visibility - it exists to drive the operator
// translators and the online index build coordinator end to end, not to
// stand in for a real buffer pool).
type Table struct {
	mu      sync.RWMutex
	oid     storage.OID
	name    string
	columns []storage.ColumnID
	rows    []storage.Row
}

// NewTable returns an empty Table with the given columns.
func NewTable(oid storage.OID, name string, columns []storage.ColumnID) *Table {
	return &Table{oid: oid, name: name, columns: append([]storage.ColumnID(nil), columns...)}
}

func (t *Table) OID() storage.OID            { return t.oid }
func (t *Table) Name() string                { return t.name }
func (t *Table) Columns() []storage.ColumnID { return t.columns }

// Insert appends row, returning its physical slot.
func (t *Table) Insert(row storage.Row) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
	return uint64(len(t.rows) - 1)
}

func (t *Table) colIndex(col storage.ColumnID) int {
	for i, c := range t.columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (t *Table) project(row storage.Row, projection []storage.ColumnID) storage.Row {
	out := make(storage.Row, len(projection))
	for i, col := range projection {
		if idx := t.colIndex(col); idx >= 0 {
			out[i] = row[idx]
		}
	}
	return out
}

// Select returns the projected row at slot, or ok=false if slot is out of
// range.
func (t *Table) Select(ctx context.Context, txn storage.Txn, slot uint64, projection []storage.ColumnID) (storage.Row, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if slot >= uint64(len(t.rows)) {
		return nil, false, nil
	}
	return t.project(t.rows[slot], projection), true, nil
}

// Scan opens a RowIter over every row currently in the table, projecting
// the requested columns. It snapshots the row count at open time so a
// concurrent Insert (as the online index build's T2 performs while other
// transactions run) cannot be observed mid-scan - matching the "new
// transactions are the only ones that must maintain the index" invariant
// spec.md §4.6 relies on.
func (t *Table) Scan(ctx context.Context, txn storage.Txn, projection []storage.ColumnID) (storage.RowIter, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := make([]storage.Row, len(t.rows))
	copy(snapshot, t.rows)
	return &tableIter{table: t, rows: snapshot, projection: projection, idx: -1}, nil
}

type tableIter struct {
	table      *Table
	rows       []storage.Row
	projection []storage.ColumnID
	idx        int
}

func (it *tableIter) Next(ctx context.Context) (storage.Row, bool, error) {
	it.idx++
	if it.idx >= len(it.rows) {
		return nil, false, nil
	}
	return it.table.project(it.rows[it.idx], it.projection), true, nil
}

func (it *tableIter) Close(ctx context.Context) error { return nil }

// Slot returns the physical slot of the row Next last returned.
func (it *tableIter) Slot() uint64 { return uint64(it.idx) }

// SlotOf returns the physical slot of the idx'th row inserted, handed back
// so callers (notably the index build scan) can pair a key with the slot
// Index.Insert expects.
func (t *Table) SlotOf(idx int) uint64 { return uint64(idx) }

// RowCount returns the number of rows currently stored.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
