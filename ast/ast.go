// Package ast defines the small expression-node family the semantic
// analyzer type-checks. The operator translators (package codegen) build
// these nodes when they emit DSL fragments; the analyzer (package sema)
// walks them read-only and annotates each Call with its resolved type.
package ast

import "github.com/parsec0re/terrier/types"

// Position locates a node in the (out-of-scope) source the DSL was parsed
// or generated from. Translators stamp every node they emit with the plan
// node's own position so diagnostics can be attributed back to a SQL
// statement.
type Position struct {
	Line   int
	Column int
}

// Expr is any node the analyzer can resolve a type for.
type Expr interface {
	Pos() Position
	// ResolvedType returns the type last recorded by the analyzer, or nil
	// if the node has not been resolved (either not yet visited, or
	// poisoned by an earlier error - see sema.Checker).
	ResolvedType() *types.Type
	setResolvedType(*types.Type)
}

type base struct {
	pos      Position
	resolved *types.Type
}

func (b *base) Pos() Position                   { return b.pos }
func (b *base) ResolvedType() *types.Type       { return b.resolved }
func (b *base) setResolvedType(t *types.Type)   { b.resolved = t }

// SetResolvedType is the analyzer's only write path onto an Expr; kept as
// a free function (rather than exported method) so nothing outside sema
// mutates a node's resolved type.
func SetResolvedType(e Expr, t *types.Type) { e.setResolvedType(t) }

// Ident names a value already bound in the enclosing generated function
// (a loop-local PCI, a parameter, ...). Its type is supplied at
// construction time because idents stand for values whose type the
// translator that declared them already knows.
type Ident struct {
	base
	Name string
	Type *types.Type

	// Hint optionally carries extra static information a translator
	// knows about the value an Ident stands for that the type system
	// itself cannot express - e.g. the SQL type of the column a
	// pointer-to-aggregator was built over, consulted by AggResult's
	// contract (spec.md §9).
	Hint *types.Type
}

func NewIdent(pos Position, name string, t *types.Type) *Ident {
	i := &Ident{base: base{pos: pos}, Name: name, Type: t}
	i.resolved = t
	return i
}

// IntLit is a native integer literal.
type IntLit struct {
	base
	Value int64
	Width types.Kind // one of Int8/16/32/64/Uint8/16/32/64
}

func NewIntLit(pos Position, v int64, width types.Kind) *IntLit {
	return &IntLit{base: base{pos: pos}, Value: v, Width: width}
}

// BoolLit is a native bool literal.
type BoolLit struct {
	base
	Value bool
}

func NewBoolLit(pos Position, v bool) *BoolLit { return &BoolLit{base: base{pos: pos}, Value: v} }

// FloatLit is a native float literal.
type FloatLit struct {
	base
	Value float64
	Width types.Kind // Float32 or Float64
}

func NewFloatLit(pos Position, v float64, width types.Kind) *FloatLit {
	return &FloatLit{base: base{pos: pos}, Value: v, Width: width}
}

// StringLit is a string literal (table names, index names, ...).
type StringLit struct {
	base
	Value string
}

func NewStringLit(pos Position, v string) *StringLit { return &StringLit{base: base{pos: pos}, Value: v} }

// NilLit is the literal nil.
type NilLit struct{ base }

func NewNilLit(pos Position) *NilLit { return &NilLit{base: base{pos: pos}} }

// Deref represents `*expr`. The grammar the analyzer sits behind cannot
// tell a type expression from a value expression at a call site, so a
// pointer-cast's first argument always parses as a Deref; Checker rewrites
// it into a TypeExpr before resolving (spec.md §4.1).
type Deref struct {
	base
	Operand Expr
}

func NewDeref(pos Position, operand Expr) *Deref { return &Deref{base: base{pos: pos}, Operand: operand} }

// TypeExpr names a type directly, used only as PtrCast's rewritten first
// argument and as SizeOf's argument.
type TypeExpr struct {
	base
	Type *types.Type
}

func NewTypeExpr(pos Position, t *types.Type) *TypeExpr {
	e := &TypeExpr{base: base{pos: pos}, Type: t}
	e.resolved = t
	return e
}

// FuncLit describes a function value passed as an intrinsic argument
// (comparator, equality tester, filter predicate, parallel-scan body).
// Per spec.md §4.1's rationale, these are checked only structurally -
// arity and parameter/return shape - never by inspecting a body, because
// the body lives in user-written DSL outside this analyzer's reach.
type FuncLit struct {
	base
	Params []*types.Type
	Return *types.Type // nil means "no result"
}

func NewFuncLit(pos Position, params []*types.Type, ret *types.Type) *FuncLit {
	return &FuncLit{base: base{pos: pos}, Params: params, Return: ret}
}

// Call is a call to a named callee - for this analyzer, always one of the
// recognized intrinsics (spec.md §4.1's contract table). UnknownBuiltin is
// reported for any other callee.
type Call struct {
	base
	Callee string
	Args   []Expr
}

func NewCall(pos Position, callee string, args []Expr) *Call {
	return &Call{base: base{pos: pos}, Callee: callee, Args: args}
}
