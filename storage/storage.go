// Package storage declares the narrow contracts this module consumes from
// collaborators spec.md §1 puts out of scope: the MVCC transaction
// manager, the record/projected-row storage, and the catalog's identifier
// allocator. Nothing in this package implements storage; package memengine
// provides a minimal in-memory implementation used by tests and by the
// end-to-end scenarios in spec.md §8.
package storage

import "context"

// Timestamp is an opaque, monotonically-assigned transaction timestamp.
type Timestamp uint64

// OID is a globally-unique catalog object identifier.
type OID uint32

// Txn is the subset of the (out-of-scope) MVCC transaction manager's
// handle this module needs: enough to begin/commit/abort and to read the
// timestamp a commit was assigned.
type Txn interface {
	ID() OID
	StartTS() Timestamp
	// Aborted reports whether Abort has been called on this transaction.
	Aborted() bool
}

// PostCommitFunc runs after a transaction's commit has been made durable.
// TxnManager.Commit accepts a list of these, matching spec.md §6's
// "Commit takes an optional post-commit callback list."
type PostCommitFunc func()

// PreActionFunc runs atomically as part of a transaction's begin, before
// any caller code observes the new Txn. Used by the online index build
// coordinator's T2 to flip `building := true` inside the same atomic step
// that establishes the transaction (spec.md §4.6).
type PreActionFunc func(Txn)

// TxnManager is the contract consumed from the (out-of-scope) MVCC
// transaction manager, per spec.md §6.
type TxnManager interface {
	Begin(ctx context.Context) (Txn, error)
	BeginWithAction(ctx context.Context, action PreActionFunc) (Txn, error)
	Commit(ctx context.Context, txn Txn, postCommit ...PostCommitFunc) (Timestamp, error)
	Abort(ctx context.Context, txn Txn) error
	// OldestActiveStartTS is the minimum start timestamp among all
	// in-flight transactions; monotonic non-decreasing as old
	// transactions end (GLOSSARY).
	OldestActiveStartTS() Timestamp
}

// Row is a decoded projected row: one value per projected column, in
// projection order. Encoding/decoding to bytes is the storage engine's
// concern and stays out of scope; this module only ever sees the decoded
// form.
type Row []interface{}

// RowIter iterates rows produced by a table scan or an index scan.
type RowIter interface {
	Next(ctx context.Context) (Row, bool, error)
	Close(ctx context.Context) error
}

// ColumnID identifies one column of a relation, independent of the subset
// a particular projected row chooses to carry.
type ColumnID uint32

// SqlTable is the contract consumed from the (out-of-scope) record/buffer
// pool storage layer, per spec.md §6.
type SqlTable interface {
	OID() OID
	Name() string
	// Columns lists every column the table owns, in catalog order.
	Columns() []ColumnID
	// Scan opens a RowIter projecting exactly the given columns.
	Scan(ctx context.Context, txn Txn, projection []ColumnID) (RowIter, error)
	// Select fetches one row by physical slot, projecting the given
	// columns; ok is false if the slot is not visible to txn.
	Select(ctx context.Context, txn Txn, slot uint64, projection []ColumnID) (row Row, ok bool, err error)
}

// Index is the contract consumed from the (out-of-scope) B+tree/BwTree
// index implementation, per spec.md §6.
type Index interface {
	OID() OID
	// KeyColumns lists the base-table columns the index is built over, in
	// key order.
	KeyColumns() []ColumnID
	Unique() bool
	Insert(ctx context.Context, txn Txn, key Row, slot uint64) (bool, error)
	InsertUnique(ctx context.Context, txn Txn, key Row, slot uint64) (bool, error)
	// Scan returns every slot whose key exactly matches key.
	Scan(ctx context.Context, txn Txn, key Row) (RowIter, error)
}

// MemoryPool is the contract consumed from the (out-of-scope) execution
// memory allocator, per spec.md §6/§4.7.
type MemoryPool interface {
	AllocateAligned(size, alignment int) ([]byte, error)
	Free([]byte)
}
