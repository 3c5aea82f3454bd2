package runtime

import (
	"context"

	"github.com/pkg/errors"

	"github.com/parsec0re/terrier/storage"
)

// ErrEmptyColumnOids is returned by Init when the iterator's column-oids
// list is empty, per spec.md §4.7 ("a column-oids list that must be
// non-empty before Init").
var ErrEmptyColumnOids = errors.New("runtime: IndexIterator requires a non-empty column-oids list")

// IndexIterator owns two aligned projected-row buffers - one sized to the
// index's key schema, one to the base table's schema - allocated on
// Init and released on Close, per spec.md §4.7. IndexScan's translator
// opens one per pipeline with IndexIteratorInit, builds a scan key into
// the key buffer, calls IndexIteratorScanKey to open the index scan, and
// then calls Advance to pull matching base table rows into the table
// buffer.
type IndexIterator struct {
	index      storage.Index
	table      storage.SqlTable
	keyCols    []storage.ColumnID
	tableCols  []storage.ColumnID
	keyBuf     storage.Row
	tableBuf   storage.Row
	pool       storage.MemoryPool
	keyAlloc   []byte
	tableAlloc []byte
	matches    storage.RowIter
	current    storage.Row
}

// NewIndexIterator constructs an unopened IndexIterator over index,
// resolving matches against table.
func NewIndexIterator(index storage.Index, table storage.SqlTable, tableCols []storage.ColumnID) *IndexIterator {
	return &IndexIterator{index: index, table: table, keyCols: index.KeyColumns(), tableCols: tableCols}
}

// IndexIteratorInit allocates the two aligned row buffers from pool.
// columnOids must be non-empty (the base table's projection list).
func (it *IndexIterator) IndexIteratorInit(pool storage.MemoryPool, columnOids []storage.ColumnID) error {
	if len(columnOids) == 0 {
		return ErrEmptyColumnOids
	}
	it.pool = pool
	var err error
	it.keyAlloc, err = pool.AllocateAligned(len(it.keyCols)*8, 8)
	if err != nil {
		return errors.Wrap(err, "runtime: allocating index key buffer")
	}
	it.tableAlloc, err = pool.AllocateAligned(len(columnOids)*8, 8)
	if err != nil {
		return errors.Wrap(err, "runtime: allocating index table buffer")
	}
	it.keyBuf = make(storage.Row, len(it.keyCols))
	it.tableBuf = make(storage.Row, len(columnOids))
	return nil
}

// SetKeyValue stages one value of the scan key before ScanKey is called.
func (it *IndexIterator) SetKeyValue(i int, v interface{}) { it.keyBuf[i] = v }

// IndexIteratorScanKey opens the index scan for the staged key buffer;
// Advance then resolves each matching slot against the base table.
func (it *IndexIterator) IndexIteratorScanKey(ctx context.Context, txn storage.Txn) error {
	matches, err := it.index.Scan(ctx, txn, it.keyBuf)
	if err != nil {
		return errors.Wrap(err, "runtime: scanning index")
	}
	it.matches = matches
	return nil
}

// Advance pulls the next matching base-table row into the table buffer.
// Returns false once the index scan is exhausted.
func (it *IndexIterator) Advance(ctx context.Context, txn storage.Txn) (bool, error) {
	for {
		slotRow, ok, err := it.matches.Next(ctx)
		if err != nil {
			return false, errors.Wrap(err, "runtime: advancing index scan")
		}
		if !ok {
			return false, nil
		}
		slot, _ := slotRow[0].(uint64)
		row, ok, err := it.table.Select(ctx, txn, slot, it.tableCols)
		if err != nil {
			return false, errors.Wrap(err, "runtime: resolving index match")
		}
		if !ok {
			continue
		}
		it.tableBuf = row
		it.current = row
		return true, nil
	}
}

// CurrentRow returns the base-table row most recently resolved.
func (it *IndexIterator) CurrentRow() storage.Row { return it.current }

// Close frees both aligned buffers and the underlying match cursor.
func (it *IndexIterator) Close(ctx context.Context) error {
	if it.pool != nil {
		it.pool.Free(it.keyAlloc)
		it.pool.Free(it.tableAlloc)
	}
	if it.matches != nil {
		return it.matches.Close(ctx)
	}
	return nil
}
