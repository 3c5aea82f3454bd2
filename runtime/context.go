// Package runtime provides the bridges an emitted pipeline function runs
// against: the execution context, thread-local state container, table and
// index iterators, the output buffer, the vectorized filter manager, and
// the hash/join/aggregation/sort runtime structures the operator
// translators in package codegen target, per spec.md §4.7.
package runtime

import (
	"sync/atomic"

	"github.com/parsec0re/terrier/storage"
)

// ExecutionContext is the pointer handed to every emitted plan function,
// per spec.md §6 ("Downstream: an ExecutionContext pointer handed to
// every emitted plan"). It threads the transaction, memory pool, and
// cancellation flag through a pipeline's generated code.
type ExecutionContext struct {
	Txn      storage.Txn
	Pool     storage.MemoryPool
	Threads  *ThreadStateContainer
	canceled int32
}

// NewExecutionContext wires an ExecutionContext for a single query over
// txn, allocating thread-local state for numThreads worker-pool threads.
func NewExecutionContext(txn storage.Txn, pool storage.MemoryPool, numThreads int) *ExecutionContext {
	return &ExecutionContext{
		Txn:     txn,
		Pool:    pool,
		Threads: NewThreadStateContainer(numThreads),
	}
}

// Cancel flips the cancellation flag; emitted loops re-check it at
// pipeline boundaries (spec.md §5).
func (ec *ExecutionContext) Cancel() { atomic.StoreInt32(&ec.canceled, 1) }

// Canceled reports whether Cancel has been called.
func (ec *ExecutionContext) Canceled() bool { return atomic.LoadInt32(&ec.canceled) != 0 }
