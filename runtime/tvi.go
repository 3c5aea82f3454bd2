package runtime

import (
	"context"

	"github.com/pkg/errors"

	"github.com/parsec0re/terrier/storage"
)

// TableVectorIterator wraps a storage.RowIter scan cursor and buffers
// rows into fixed-width vectors, per spec.md §4.7 ("wraps a storage scan
// cursor; yields PCIs sized to a fixed vector width"). SeqScan's
// translator opens one per pipeline with TableIterInit and drives its
// outer loop with TableIterAdvance.
type TableVectorIterator struct {
	cursor     storage.RowIter
	cols       []storage.ColumnID
	vectorSize int
	current    *ProjectedColumnsIterator
	closed     bool
}

// NewTableVectorIterator constructs an (unopened) TableVectorIterator
// over table, projecting cols, batching vectorSize rows per PCI.
func NewTableVectorIterator(cols []storage.ColumnID, vectorSize int) *TableVectorIterator {
	if vectorSize <= 0 {
		vectorSize = VectorSize
	}
	return &TableVectorIterator{cols: cols, vectorSize: vectorSize}
}

// TableIterInit opens the scan cursor against table, per the given
// transaction.
func (tvi *TableVectorIterator) TableIterInit(ctx context.Context, txn storage.Txn, table storage.SqlTable) error {
	cursor, err := table.Scan(ctx, txn, tvi.cols)
	if err != nil {
		return errors.Wrap(err, "runtime: opening table scan")
	}
	tvi.cursor = cursor
	return nil
}

// TableIterAdvance fills the next vector of up to vectorSize rows,
// exposing it via PCI. Returns false once the cursor is exhausted.
func (tvi *TableVectorIterator) TableIterAdvance(ctx context.Context) (bool, error) {
	rows := make([]storage.Row, 0, tvi.vectorSize)
	for len(rows) < tvi.vectorSize {
		row, ok, err := tvi.cursor.Next(ctx)
		if err != nil {
			return false, errors.Wrap(err, "runtime: scanning table")
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return false, nil
	}
	tvi.current = NewProjectedColumnsIterator(tvi.cols, rows)
	return true, nil
}

// PCI returns the current vector's ProjectedColumnsIterator.
func (tvi *TableVectorIterator) PCI() *ProjectedColumnsIterator { return tvi.current }

// TableIterClose releases the underlying scan cursor.
func (tvi *TableVectorIterator) TableIterClose(ctx context.Context) error {
	if tvi.closed || tvi.cursor == nil {
		return nil
	}
	tvi.closed = true
	return tvi.cursor.Close(ctx)
}
