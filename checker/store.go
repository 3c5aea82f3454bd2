package checker

import (
	"github.com/pkg/errors"

	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/types"
)

// ErrUnsupportedColumnType is returned when OutputStore is asked to
// decode a column type spec.md §4.4 does not enumerate.
var ErrUnsupportedColumnType = errors.New("checker: unsupported output column type")

// OutputStore bridges an OutputTranslator's raw runtime.OutputCallback
// to a Checker, decoding each batch's tuples per the declared output
// schema and forwarding them as typed Rows, per spec.md §4.4. It does
// not itself decode bytes - this module's OutputBuffer (package
// runtime) already hands callbacks decoded Go values - but it still owns
// the schema-driven type rejection spec.md §4.4 specifies ("other types
// reject").
type OutputStore struct {
	schema   []ColumnType
	kinds    []types.Kind
	checkers []Checker
	err      error
}

// NewOutputStore validates schema against the enumerated column types,
// resolving each to its types.Kind via kindForColumnType so callers can
// cross-check a column's static type against the plan's declared output
// schema, and wires checkers to receive every decoded batch.
func NewOutputStore(schema []ColumnType, checkers ...Checker) (*OutputStore, error) {
	kinds := make([]types.Kind, len(schema))
	for i, c := range schema {
		k := kindForColumnType(c)
		if k == types.Invalid {
			return nil, ErrUnsupportedColumnType
		}
		kinds[i] = k
	}
	return &OutputStore{schema: schema, kinds: kinds, checkers: checkers}, nil
}

// ColumnKinds returns the types.Kind each schema column resolved to, in
// column order.
func (s *OutputStore) ColumnKinds() []types.Kind { return s.kinds }

// Callback returns the runtime.OutputCallback this store feeds; wire it
// into codegen.NewOutputTranslator.
func (s *OutputStore) Callback() runtime.OutputCallback {
	return func(tuples [][]interface{}, numTuples int, tupleSize int) {
		rows := make([]Row, len(tuples))
		for i, t := range tuples {
			rows[i] = Row(t)
		}
		for _, c := range s.checkers {
			c.ProcessBatch(rows)
		}
	}
}

// CheckAll runs CheckCorrectness over every wired checker, returning the
// first failure encountered (if any).
func (s *OutputStore) CheckAll() error {
	for _, c := range s.checkers {
		if err := c.CheckCorrectness(); err != nil {
			return err
		}
	}
	return nil
}
