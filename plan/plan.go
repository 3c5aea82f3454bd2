// Package plan declares the immutable physical-plan node tree the
// operator translators in package codegen consume, per spec.md §4.2-4.3.
// Plan nodes are built once by a (out-of-scope) optimizer/planner and
// never mutated afterward; each carries the output schema its parent
// expects to read via GetOutput/GetChildOutput.
package plan

import "github.com/parsec0re/terrier/types"

// Column describes one attribute of a node's output schema: the catalog
// column it projects (or derives) and the SQL type a reader must expect.
type Column struct {
	Name string
	Type *types.Type
}

// Schema is a node's output column list, in output order.
type Schema []Column

// Node is the common shape of every plan tree node: its output schema
// and its children, in execution order.
type Node interface {
	Schema() Schema
	Children() []Node
	// IsPipelineBreaker reports whether this node materializes its
	// entire input before producing any output, per spec.md §4.3 -
	// HashJoin's build side, Aggregation, and Sort all are.
	IsPipelineBreaker() bool
}

type base struct {
	schema   Schema
	children []Node
	breaker  bool
}

func (b *base) Schema() Schema          { return b.schema }
func (b *base) Children() []Node        { return b.children }
func (b *base) IsPipelineBreaker() bool { return b.breaker }

// Predicate is a conjunct of a scan or filter node's WHERE clause.
// Op is one of "=", "!=", "<", "<=", ">", ">="; Column/Literal describe a
// (column ref, constant) comparand pair - the shape SeqScan's translator
// classifies as vectorizable per spec.md §4.2.
type Predicate struct {
	Column  string
	Op      string
	Literal interface{}
}

// SeqScanNode scans a base table, optionally filtering it inline.
type SeqScanNode struct {
	base
	Table      string
	Predicates []Predicate
}

// NewSeqScanNode constructs a sequential scan over table, projecting
// schema and applying predicates (each must be vectorizable per §4.2 to
// become a FilterManagerInsertFilter call; translators demote the rest
// to scalar ifs).
func NewSeqScanNode(table string, schema Schema, predicates []Predicate) *SeqScanNode {
	return &SeqScanNode{base: base{schema: schema}, Table: table, Predicates: predicates}
}

// IndexScanNode scans via a named index using an equality/range scan key.
type IndexScanNode struct {
	base
	Table      string
	Index      string
	Predicates []Predicate
}

// NewIndexScanNode constructs an index scan.
func NewIndexScanNode(table, index string, schema Schema, predicates []Predicate) *IndexScanNode {
	return &IndexScanNode{base: base{schema: schema}, Table: table, Index: index, Predicates: predicates}
}

// FilterNode re-evaluates a non-vectorizable predicate over its child's
// rows; it is never a materializer.
type FilterNode struct {
	base
	Predicates []Predicate
}

// NewFilterNode wraps child, filtering by predicates.
func NewFilterNode(child Node, predicates []Predicate) *FilterNode {
	return &FilterNode{base: base{schema: child.Schema(), children: []Node{child}}, Predicates: predicates}
}

// ProjectionNode reorders/narrows its child's output columns.
type ProjectionNode struct {
	base
	Columns []string
}

// NewProjectionNode projects child down to columns, in the given order.
func NewProjectionNode(child Node, schema Schema, columns []string) *ProjectionNode {
	return &ProjectionNode{base: base{schema: schema, children: []Node{child}}, Columns: columns}
}

// HashJoinNode equi-joins its two children on a build/probe key column
// pair. It is a pipeline breaker on the build side.
type HashJoinNode struct {
	base
	BuildKey string
	ProbeKey string
}

// NewHashJoinNode joins build and probe on equality of buildKey/probeKey.
func NewHashJoinNode(build, probe Node, buildKey, probeKey string, schema Schema) *HashJoinNode {
	return &HashJoinNode{base: base{schema: schema, children: []Node{build, probe}, breaker: true}, BuildKey: buildKey, ProbeKey: probeKey}
}

// AggExpr is one aggregate expression of an AggregationNode's output.
type AggExpr struct {
	Kind   types.Kind
	Column string
}

// AggregationNode groups its child's rows by GroupBy and computes
// Aggregates per group. Always a pipeline breaker.
type AggregationNode struct {
	base
	GroupBy    []string
	Aggregates []AggExpr
}

// NewAggregationNode groups child by groupBy, computing aggregates.
func NewAggregationNode(child Node, schema Schema, groupBy []string, aggregates []AggExpr) *AggregationNode {
	return &AggregationNode{base: base{schema: schema, children: []Node{child}, breaker: true}, GroupBy: groupBy, Aggregates: aggregates}
}

// SortKey is one ORDER BY term.
type SortKey struct {
	Column     string
	Descending bool
}

// SortNode totally orders its child's rows by Keys. Always a pipeline
// breaker. TopK, when > 0, truncates the sorted run (LIMIT pushdown).
type SortNode struct {
	base
	Keys []SortKey
	TopK int
}

// NewSortNode sorts child by keys.
func NewSortNode(child Node, keys []SortKey, topK int) *SortNode {
	return &SortNode{base: base{schema: child.Schema(), children: []Node{child}, breaker: true}, Keys: keys, TopK: topK}
}

// OutputNode is always the plan tree's root; it materializes its child's
// rows into the query's OutputCallback.
type OutputNode struct {
	base
}

// NewOutputNode wraps child as the plan root.
func NewOutputNode(child Node) *OutputNode {
	return &OutputNode{base: base{schema: child.Schema(), children: []Node{child}}}
}
