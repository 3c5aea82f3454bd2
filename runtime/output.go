package runtime

// OutputCallback is invoked once per finalized output batch, per
// spec.md §6 ("an OutputCallback(bytes, n_tuples, tuple_size) invoked
// per output batch"). A real engine serializes to a contiguous byte
// buffer; this module hands the decoded tuple slice straight through,
// leaving wire-format encoding to the (out-of-scope) storage layer.
type OutputCallback func(tuples [][]interface{}, numTuples int, tupleSize int)

// OutputBuffer is the runtime bridge backing each Output translator's
// Alloc/Advance/SetNull/Finalize calls, per spec.md §4.7 ("backed by a
// growable contiguous buffer in the execution context"). Tuples
// accumulate in memory-resident batches; each batch is handed to the
// callback as soon as it fills, and Finalize hands over the last
// partial batch, if any.
type OutputBuffer struct {
	schema     []int
	batchSize  int
	callback   OutputCallback
	batch      [][]interface{}
	current    []interface{}
	totalTuples int
}

// NewOutputBuffer constructs an OutputBuffer whose tuples carry
// len(schema) columns, flushing every batchSize tuples to callback.
func NewOutputBuffer(numColumns int, batchSize int, callback OutputCallback) *OutputBuffer {
	schema := make([]int, numColumns)
	return &OutputBuffer{schema: schema, batchSize: batchSize, callback: callback}
}

// OutputAlloc starts a new output tuple.
func (ob *OutputBuffer) OutputAlloc() {
	ob.current = make([]interface{}, len(ob.schema))
}

// Set assigns column idx of the tuple being built.
func (ob *OutputBuffer) Set(idx int, v interface{}) { ob.current[idx] = v }

// OutputSetNull marks column idx of the tuple being built as SQL NULL.
func (ob *OutputBuffer) OutputSetNull(idx int) { ob.current[idx] = nil }

// OutputAdvance appends the tuple being built to the current batch,
// flushing to the callback once the batch reaches batchSize.
func (ob *OutputBuffer) OutputAdvance() {
	ob.batch = append(ob.batch, ob.current)
	ob.current = nil
	ob.totalTuples++
	if len(ob.batch) >= ob.batchSize {
		ob.flush()
	}
}

func (ob *OutputBuffer) flush() {
	if len(ob.batch) == 0 {
		return
	}
	ob.callback(ob.batch, len(ob.batch), len(ob.schema))
	ob.batch = nil
}

// OutputFinalize flushes any partially-filled batch. Matches spec.md
// §8's "Output.Finalize has emitted exactly Σ batches of num_tuples
// tuples" invariant: totalTuples is the authoritative count a checker
// framework cross-verifies against processed batches.
func (ob *OutputBuffer) OutputFinalize() {
	ob.flush()
}

// TotalTuples reports how many tuples OutputAdvance has accepted so far.
func (ob *OutputBuffer) TotalTuples() int { return ob.totalTuples }
