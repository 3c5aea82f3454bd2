// Package checker implements the output checker framework of spec.md
// §4.4: a Checker capability that validates a query's emitted output
// batches against an expected shape, plus an OutputStore bridging the
// runtime's raw (bytes, num_tuples, tuple_size) callback into typed SQL
// values a Checker can inspect.
package checker

import "github.com/parsec0re/terrier/types"

// Row is one decoded output tuple, one value per output column.
type Row []interface{}

// Checker is the capability every checker variant implements, per
// spec.md §4.4.
type Checker interface {
	// ProcessBatch folds one output batch into the checker's running
	// state.
	ProcessBatch(rows []Row)
	// CheckCorrectness reports whether every batch seen so far (and any
	// finalize-time accumulator) satisfies the checker's property.
	CheckCorrectness() error
}

// ColumnType names the SQL type an OutputStore decodes a tuple column
// into, per spec.md §4.4's INTEGER/BIGINT/SMALLINT/TINYINT ->
// SqlInteger, BOOLEAN -> SqlBool, DECIMAL -> SqlReal, DATE -> SqlDate,
// VARCHAR -> SqlStringVal mapping.
type ColumnType int

const (
	ColInteger ColumnType = iota
	ColBool
	ColReal
	ColDate
	ColStringVal
)

// kindForColumnType resolves the types.Kind an OutputStore column
// decodes to, used when a checker wants to cross-check a column's
// static type against the plan's declared output schema.
func kindForColumnType(c ColumnType) types.Kind {
	switch c {
	case ColInteger:
		return types.SqlInteger
	case ColBool:
		return types.SqlBool
	case ColReal:
		return types.SqlReal
	case ColDate:
		return types.SqlDate
	case ColStringVal:
		return types.SqlStringVal
	default:
		return types.Invalid
	}
}
