// Package types implements the closed intrinsic type universe that the
// semantic analyzer and operator translators share: native Go-shaped
// primitives, the opaque SQL value/container kinds the DSL's intrinsics
// operate on, and the pointer/function/array derivations built on top of
// them.
package types

// Kind tags one member of the closed intrinsic type family described in
// spec.md §3. Two Types with the same Kind (and, for the derived kinds,
// the same structural makeup) are always the same *Type pointer - see
// Registry.
type Kind int

const (
	Invalid Kind = iota

	// Native kinds.
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Nil
	String

	// SQL value kinds - each one is a *SQL value type* per the glossary.
	SqlBool
	SqlInteger
	SqlReal
	SqlStringVal
	SqlDate

	// Aggregator kinds, one per supported aggregate.
	CountAggregate
	SumAggregate
	AvgAggregate
	MinAggregate
	MaxAggregate

	// Opaque engine container kinds.
	ProjectedColumnsIterator
	TableVectorIterator
	IndexIterator
	JoinHashTable
	JoinHashTableIterator
	AggregationHashTable
	AggregationHashTableIterator
	AggOverflowPartIter
	Sorter
	SorterIterator
	FilterManager
	MemoryPool
	ThreadStateContainer
	ExecutionContext

	// Derived kinds; a Type of one of these carries extra structural
	// fields (Pointee, Elem, Params/Return) alongside its Kind.
	Pointer
	Function
	Array
	StringLiteral
)

var kindNames = map[Kind]string{
	Invalid:                      "<invalid>",
	Bool:                         "bool",
	Int8:                         "int8",
	Int16:                        "int16",
	Int32:                        "int32",
	Int64:                        "int64",
	Uint8:                        "uint8",
	Uint16:                       "uint16",
	Uint32:                       "uint32",
	Uint64:                       "uint64",
	Float32:                      "float32",
	Float64:                      "float64",
	Nil:                          "nil",
	String:                       "string",
	SqlBool:                      "SqlBool",
	SqlInteger:                   "SqlInteger",
	SqlReal:                      "SqlReal",
	SqlStringVal:                 "SqlStringVal",
	SqlDate:                      "SqlDate",
	CountAggregate:               "CountAggregate",
	SumAggregate:                 "SumAggregate",
	AvgAggregate:                 "AvgAggregate",
	MinAggregate:                 "MinAggregate",
	MaxAggregate:                 "MaxAggregate",
	ProjectedColumnsIterator:     "ProjectedColumnsIterator",
	TableVectorIterator:          "TableVectorIterator",
	IndexIterator:                "IndexIterator",
	JoinHashTable:                "JoinHashTable",
	JoinHashTableIterator:        "JoinHashTableIterator",
	AggregationHashTable:         "AggregationHashTable",
	AggregationHashTableIterator: "AggregationHashTableIterator",
	AggOverflowPartIter:          "AggOverflowPartIter",
	Sorter:                       "Sorter",
	SorterIterator:               "SorterIterator",
	FilterManager:                "FilterManager",
	MemoryPool:                   "MemoryPool",
	ThreadStateContainer:         "ThreadStateContainer",
	ExecutionContext:             "ExecutionContext",
	Pointer:                      "*",
	Function:                     "func",
	Array:                        "[]",
	StringLiteral:                "string-literal",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "<unknown-kind>"
}

// sqlValueKinds and sqlAggregatorKinds back IsSqlValueType/IsSqlAggregatorType.
var sqlValueKinds = map[Kind]bool{
	SqlBool:      true,
	SqlInteger:   true,
	SqlReal:      true,
	SqlStringVal: true,
	SqlDate:      true,
}

var sqlAggregatorKinds = map[Kind]bool{
	CountAggregate: true,
	SumAggregate:   true,
	AvgAggregate:   true,
	MinAggregate:   true,
	MaxAggregate:   true,
}

var integerKinds = map[Kind]bool{
	Int8: true, Int16: true, Int32: true, Int64: true,
	Uint8: true, Uint16: true, Uint32: true, Uint64: true,
}

var floatKinds = map[Kind]bool{
	Float32: true, Float64: true,
}
