package sema

import (
	"github.com/parsec0re/terrier/ast"
	"github.com/parsec0re/terrier/types"
)

// argSpec names what a fixed-position argument must be, for the family of
// intrinsics whose contract is "exactly these types in this order"
// (checkFixed below). It is either a bare Kind match or a "pointer to
// Kind" match.
type argSpec struct {
	pointer bool
	k       types.Kind
}

func kind(k types.Kind) argSpec    { return argSpec{k: k} }
func ptrKind(k types.Kind) argSpec { return argSpec{pointer: true, k: k} }

func (s argSpec) describe() string {
	if s.pointer {
		return "pointer to " + s.k.String()
	}
	return s.k.String()
}

func (s argSpec) matches(t *types.Type) bool {
	if s.pointer {
		return types.IsPointerToSpecificBuiltin(t, s.k)
	}
	return types.IsSpecificBuiltin(t, s.k)
}

// checkFixed is the workhorse for intrinsics whose contract is a fixed
// list of exact-kind argument specs and a fixed result type.
func (c *Checker) checkFixed(call *ast.Call, specs []argSpec, result *types.Type) *types.Type {
	if !c.checkArity(call, len(specs)) {
		return nil
	}
	ok := true
	for i, spec := range specs {
		t := call.Args[i].ResolvedType()
		if !spec.matches(t) {
			c.fail(call, ErrBadArgType.New(i, call.Callee, spec.describe(), argTypeName(t)))
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return result
}

// checkSpecificBuiltinArg handles the very common "(pointer to exactly
// one builtin kind) -> result" shape: TableIterAdvance, PCIHasNext,
// OutputAlloc, and the like.
func (c *Checker) checkSpecificBuiltinArg(call *ast.Call, argKind types.Kind, result *types.Type) *types.Type {
	return c.checkFixed(call, []argSpec{ptrKind(argKind)}, result)
}

// checkConvertToSql handles BoolToSql/IntToSql/FloatToSql: one native-kind
// argument, converted to the matching SQL value type.
func (c *Checker) checkConvertToSql(call *ast.Call, pred func(*types.Type) bool, result *types.Type) *types.Type {
	if !c.checkArity(call, 1) {
		return nil
	}
	t := call.Args[0].ResolvedType()
	if !pred(t) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "native bool/int/float", argTypeName(t)))
		return nil
	}
	return result
}

// checkFilterComparison handles FilterEq/Ne/Lt/Le/Gt/Ge: (pointer to PCI,
// Int32 column index, value) -> Int32 matched count.
func (c *Checker) checkFilterComparison(call *ast.Call) *types.Type {
	if !c.checkArity(call, 3) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.ProjectedColumnsIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to ProjectedColumnsIterator", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !types.IsSpecificBuiltin(call.Args[1].ResolvedType(), types.Int32) {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "Int32", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !call.Args[2].ResolvedType().IsSqlValueType() {
		c.fail(call, ErrNotASqlValue.New(2, call.Callee, argTypeName(call.Args[2].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return c.reg.Int32Type()
}

func (c *Checker) checkTableIterInit(call *ast.Call) *types.Type {
	if !c.checkArity(call, 3) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.TableVectorIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to TableVectorIterator", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if _, isLit := call.Args[1].(*ast.StringLit); !isLit {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "string literal", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[2].ResolvedType(), types.ExecutionContext) {
		c.fail(call, ErrBadArgType.New(2, call.Callee, "pointer to ExecutionContext", argTypeName(call.Args[2].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkTableIterParallel(call *ast.Call) *types.Type {
	if !c.checkArity(call, 4) {
		return nil
	}
	ok := true
	if _, isLit := call.Args[0].(*ast.StringLit); !isLit {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "string literal", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !call.Args[1].ResolvedType().IsPointerType() {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "opaque pointer", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[2].ResolvedType(), types.ThreadStateContainer) {
		c.fail(call, ErrBadArgType.New(2, call.Callee, "pointer to ThreadStateContainer", argTypeName(call.Args[2].ResolvedType())))
		ok = false
	}
	fn, isFn := call.Args[3].(*ast.FuncLit)
	if !isFn {
		c.fail(call, ErrBadParallelScanFunction.New(3, call.Callee, "expected a function literal"))
		ok = false
	} else if len(fn.Params) != 3 || !fn.Params[0].IsPointerType() || !fn.Params[1].IsPointerType() ||
		!types.IsPointerToSpecificBuiltin(fn.Params[2], types.TableVectorIterator) {
		c.fail(call, ErrBadParallelScanFunction.New(3, call.Callee, "expected (opaque*, opaque*, *TableVectorIterator) -> ?"))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkPCIGetter(call *ast.Call, result *types.Type) *types.Type {
	if !c.checkArityAtLeast(call, 1) || len(call.Args) > 2 {
		if len(call.Args) > 2 {
			c.fail(call, ErrMismatchedArgCount.New(call.Callee, "1 or 2", len(call.Args)))
		}
		return nil
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.ProjectedColumnsIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to ProjectedColumnsIterator", argTypeName(call.Args[0].ResolvedType())))
		return nil
	}
	if len(call.Args) == 2 && !types.IsSpecificBuiltin(call.Args[1].ResolvedType(), types.Int32) {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "Int32", argTypeName(call.Args[1].ResolvedType())))
		return nil
	}
	return result
}

// checkPCIMatch implicitly coerces a SqlBool second argument to native
// bool by inserting a SqlToBool cast node, per spec.md §4.1.
func (c *Checker) checkPCIMatch(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.ProjectedColumnsIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to ProjectedColumnsIterator", argTypeName(call.Args[0].ResolvedType())))
		return nil
	}
	arg1 := call.Args[1]
	t := arg1.ResolvedType()
	if types.IsSpecificBuiltin(t, types.SqlBool) {
		cast := ast.NewCall(arg1.Pos(), "SqlToBool", []ast.Expr{arg1})
		ast.SetResolvedType(cast, c.reg.BoolType())
		call.Args[1] = cast
		t = c.reg.BoolType()
	}
	if !t.IsBoolType() {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "bool (or SqlBool, implicitly cast)", argTypeName(t)))
		return nil
	}
	return nil
}

func (c *Checker) checkHash(call *ast.Call) *types.Type {
	if !c.checkArityAtLeast(call, 1) {
		return nil
	}
	ok := true
	for i, a := range call.Args {
		if !a.ResolvedType().IsSqlValueType() {
			c.fail(call, ErrNotASqlValue.New(i, call.Callee, argTypeName(a.ResolvedType())))
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return c.reg.Uint64Type()
}

func (c *Checker) checkFilterManagerInsertFilter(call *ast.Call) *types.Type {
	if !c.checkArityAtLeast(call, 2) {
		return nil
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.FilterManager) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to FilterManager", argTypeName(call.Args[0].ResolvedType())))
		return nil
	}
	ok := true
	for i := 1; i < len(call.Args); i++ {
		fn, isFn := call.Args[i].(*ast.FuncLit)
		if !isFn || len(fn.Params) != 1 || !types.IsPointerToSpecificBuiltin(fn.Params[0], types.ProjectedColumnsIterator) ||
			fn.Return == nil || !fn.Return.IsIntegerType() {
			c.fail(call, ErrBadFunctionShape.New(i, call.Callee, "expected (*ProjectedColumnsIterator) -> Int*"))
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkAggHashTableLookup(call *ast.Call) *types.Type {
	if !c.checkArity(call, 4) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.AggregationHashTable) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to AggregationHashTable", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !types.IsSpecificBuiltin(call.Args[1].ResolvedType(), types.Uint64) {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "Uint64", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if _, isFn := call.Args[2].(*ast.FuncLit); !isFn {
		c.fail(call, ErrBadFunctionShape.New(2, call.Callee, "expected a key-equality function"))
		ok = false
	}
	if !call.Args[3].ResolvedType().IsPointerType() {
		c.fail(call, ErrBadArgType.New(3, call.Callee, "probe pointer", argTypeName(call.Args[3].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return c.reg.PointerTo(c.reg.Uint8Type())
}

// checkAggHashTableProcessBatch resolves spec.md §9's clarified intent for
// argument 1: it must be **ProjectedColumnsIterator (a pointer to a
// pointer to PCI), not *ProjectedColumnsIterator - the source's inverted
// condition is not carried forward.
func (c *Checker) checkAggHashTableProcessBatch(call *ast.Call) *types.Type {
	if !c.checkArity(call, 7) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.AggregationHashTable) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to AggregationHashTable", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	pciPtr := c.reg.PointerTo(c.reg.Get(types.ProjectedColumnsIterator))
	wantArg1 := c.reg.PointerTo(pciPtr)
	if call.Args[1].ResolvedType() != wantArg1 {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "**ProjectedColumnsIterator", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	for i := 2; i <= 5; i++ {
		if _, isFn := call.Args[i].(*ast.FuncLit); !isFn {
			c.fail(call, ErrBadFunctionShape.New(i, call.Callee, "expected a function literal"))
			ok = false
		}
	}
	if !call.Args[6].ResolvedType().IsBoolType() {
		c.fail(call, ErrBadArgType.New(6, call.Callee, "bool", argTypeName(call.Args[6].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) isAggregatorPtr(t *types.Type) bool {
	base, ok := types.GetPointeeType(t)
	return ok && base.IsSqlAggregatorType()
}

func (c *Checker) checkAggInitReset(call *ast.Call) *types.Type {
	if !c.checkArityAtLeast(call, 1) {
		return nil
	}
	ok := true
	for i, a := range call.Args {
		if !c.isAggregatorPtr(a.ResolvedType()) {
			c.fail(call, ErrNotAnAggregator.New(i, call.Callee, argTypeName(a.ResolvedType())))
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkAggAdvance(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	ok := true
	if !c.isAggregatorPtr(call.Args[0].ResolvedType()) {
		c.fail(call, ErrNotAnAggregator.New(0, call.Callee, argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	base, isPtr := types.GetPointeeType(call.Args[1].ResolvedType())
	if !isPtr || !base.IsSqlValueType() {
		c.fail(call, ErrNotASqlValue.New(1, call.Callee, argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkAggMerge(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	ok := true
	for i := 0; i < 2; i++ {
		if !c.isAggregatorPtr(call.Args[i].ResolvedType()) {
			c.fail(call, ErrNotAnAggregator.New(i, call.Callee, argTypeName(call.Args[i].ResolvedType())))
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return nil
}

// checkAggResult resolves spec.md §9's open question: rather than always
// returning SqlInteger, it returns the SQL type of the column the
// aggregator was built over, when that hint is available (see
// ast.Ident.Hint, set by the aggregation translator), falling back to
// SqlInteger only for COUNT or when no hint was threaded through.
func (c *Checker) checkAggResult(call *ast.Call) *types.Type {
	if !c.checkArity(call, 1) {
		return nil
	}
	base, isPtr := types.GetPointeeType(call.Args[0].ResolvedType())
	if !isPtr || !base.IsSqlAggregatorType() {
		c.fail(call, ErrNotAnAggregator.New(0, call.Callee, argTypeName(call.Args[0].ResolvedType())))
		return nil
	}
	var hint *types.Type
	if ident, ok := call.Args[0].(*ast.Ident); ok {
		hint = ident.Hint
	}
	return types.AggResultType(c.reg, base.Kind(), hint)
}

func (c *Checker) checkJoinHashTableIterHasNext(call *ast.Call) *types.Type {
	if !c.checkArity(call, 4) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.JoinHashTableIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to JoinHashTableIterator", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	fn, isFn := call.Args[1].(*ast.FuncLit)
	if !isFn || len(fn.Params) != 3 || fn.Return == nil || !fn.Return.IsBoolType() {
		c.fail(call, ErrBadFunctionShape.New(1, call.Callee, "expected (*?, *?, *?) -> bool"))
		ok = false
	}
	if !call.Args[2].ResolvedType().IsPointerType() {
		c.fail(call, ErrBadArgType.New(2, call.Callee, "opaque pointer", argTypeName(call.Args[2].ResolvedType())))
		ok = false
	}
	if !call.Args[3].ResolvedType().IsPointerType() {
		c.fail(call, ErrBadArgType.New(3, call.Callee, "opaque pointer", argTypeName(call.Args[3].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return c.reg.BoolType()
}

func (c *Checker) checkSorterInit(call *ast.Call) *types.Type {
	if !c.checkArity(call, 4) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.Sorter) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to Sorter", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[1].ResolvedType(), types.MemoryPool) {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "pointer to MemoryPool", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	fn, isFn := call.Args[2].(*ast.FuncLit)
	if !isFn || len(fn.Params) != 2 || fn.Return == nil || !types.IsSpecificBuiltin(fn.Return, types.Int32) {
		c.fail(call, ErrBadFunctionShape.New(2, call.Callee, "expected (*?, *?) -> Int32"))
		ok = false
	}
	if !types.IsSpecificBuiltin(call.Args[3].ResolvedType(), types.Uint32) {
		c.fail(call, ErrBadArgType.New(3, call.Callee, "Uint32", argTypeName(call.Args[3].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkOutputSetNull(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.ExecutionContext) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to ExecutionContext", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !call.Args[1].ResolvedType().IsIntegerType() {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "integer column index", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkIndexIteratorInit(call *ast.Call) *types.Type {
	if !c.checkArity(call, 3) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.IndexIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to IndexIterator", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if _, isLit := call.Args[1].(*ast.StringLit); !isLit {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "string literal", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[2].ResolvedType(), types.ExecutionContext) {
		c.fail(call, ErrBadArgType.New(2, call.Callee, "pointer to ExecutionContext", argTypeName(call.Args[2].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

func (c *Checker) checkIndexIteratorScanKey(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	ok := true
	if !types.IsPointerToSpecificBuiltin(call.Args[0].ResolvedType(), types.IndexIterator) {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "pointer to IndexIterator", argTypeName(call.Args[0].ResolvedType())))
		ok = false
	}
	if !types.IsPointerToSpecificBuiltin(call.Args[1].ResolvedType(), types.Int8) {
		c.fail(call, ErrBadArgType.New(1, call.Callee, "pointer to Int8 byte buffer", argTypeName(call.Args[1].ResolvedType())))
		ok = false
	}
	if !ok {
		return nil
	}
	return nil
}

// checkPtrCast rewrites argument 0 from its parsed Deref shape into a
// pointer-type representation, then requires both resolved arguments to
// be pointers. Result is the (rewritten) type of argument 0.
func (c *Checker) checkPtrCast(call *ast.Call) *types.Type {
	if !c.checkArity(call, 2) {
		return nil
	}
	deref, isDeref := call.Args[0].(*ast.Deref)
	if !isDeref {
		c.fail(call, ErrBadPointerCast.New("first argument must parse as a dereference expression"))
		return nil
	}
	pointeeType := deref.Operand.ResolvedType()
	if pointeeType == nil {
		if typeExpr, ok := deref.Operand.(*ast.TypeExpr); ok {
			pointeeType = typeExpr.Type
		}
	}
	if pointeeType == nil {
		c.fail(call, ErrBadPointerCast.New("could not resolve the target type named by the first argument"))
		return nil
	}
	ptrType := c.reg.PointerTo(pointeeType)
	call.Args[0] = ast.NewTypeExpr(deref.Pos(), ptrType)

	c.resolveArg(call.Args[1])
	if !call.Args[1].ResolvedType().IsPointerType() {
		c.fail(call, ErrBadPointerCast.New("second argument must resolve to a pointer type"))
		return nil
	}
	ast.SetResolvedType(call, ptrType)
	return ptrType
}

// checkSizeOf accepts any type argument and returns Uint32.
func (c *Checker) checkSizeOf(call *ast.Call) *types.Type {
	if !c.checkArity(call, 1) {
		return nil
	}
	if _, isType := call.Args[0].(*ast.TypeExpr); !isType {
		c.fail(call, ErrBadArgType.New(0, call.Callee, "a type", argTypeName(call.Args[0].ResolvedType())))
		return nil
	}
	result := c.reg.Uint32Type()
	ast.SetResolvedType(call, result)
	return result
}
