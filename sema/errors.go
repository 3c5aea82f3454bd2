package sema

import errors "gopkg.in/src-d/go-errors.v1"

// Compile-time diagnostic kinds, matching spec.md §7's taxonomy verbatim.
// Each is a typed sentinel via gopkg.in/src-d/go-errors.v1's Kind: a
// parameterized error family constructed once with NewKind and instantiated
// per-occurrence with New(args...), so callers test identity with
// Kind.Is(err) rather than string-matching a message.
var (
	ErrBadArgType = errors.NewKind(
		"argument %d to %s: expected %s, got %s")
	ErrMismatchedArgCount = errors.NewKind(
		"%s: expected %s arguments, got %d")
	ErrUnknownBuiltin = errors.NewKind(
		"unknown builtin %q")
	ErrNotASqlValue = errors.NewKind(
		"argument %d to %s: expected a SQL value type, got %s")
	ErrNotAnAggregator = errors.NewKind(
		"argument %d to %s: expected a pointer to an aggregator, got %s")
	ErrBadFunctionShape = errors.NewKind(
		"argument %d to %s: %s")
	ErrBadPointerCast = errors.NewKind(
		"PtrCast: %s")
	ErrBadParallelScanFunction = errors.NewKind(
		"argument %d to %s: bad parallel scan function: %s")

	// ErrUnreachableIntrinsic is the "Fatal (unreachable)" case from
	// spec.md §7: Check recognized call.Callee as a registered
	// intrinsic name but the dispatch switch has no case for it. That can
	// only happen if the intrinsic registry and the switch have drifted
	// out of sync - an analyzer bug, not a user error - so this is raised
	// as a panic rather than accumulated as a diagnostic.
	ErrUnreachableIntrinsic = errors.NewKind(
		"unreachable: intrinsic %q is registered but not handled by the checker")
)
