package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryScalarsAreUnique(t *testing.T) {
	reg := NewRegistry()
	require.Same(t, reg.Get(SqlInteger), reg.Get(SqlInteger))
	require.NotSame(t, reg.Get(SqlInteger), reg.Get(SqlReal))
}

func TestPointerToIsUniqued(t *testing.T) {
	reg := NewRegistry()
	base := reg.Get(SqlInteger)
	p1 := reg.PointerTo(base)
	p2 := reg.PointerTo(base)
	require.Same(t, p1, p2)
	require.True(t, p1.IsPointerType())
	require.Same(t, base, p1.Pointee())
}

func TestArrayOfIsUniqued(t *testing.T) {
	reg := NewRegistry()
	elem := reg.Get(Int32)
	a1 := reg.ArrayOf(elem)
	a2 := reg.ArrayOf(elem)
	require.Same(t, a1, a2)
}

func TestFunctionTypeIsUniquedByShape(t *testing.T) {
	reg := NewRegistry()
	i64 := reg.Get(Int64)
	b := reg.Get(Bool)
	f1 := reg.FunctionType([]*Type{i64, i64}, b)
	f2 := reg.FunctionType([]*Type{i64, i64}, b)
	require.Same(t, f1, f2)
	require.True(t, f1.IsFunctionType())
}

func TestIsSpecificBuiltin(t *testing.T) {
	reg := NewRegistry()
	require.True(t, IsSpecificBuiltin(reg.Get(SqlBool), SqlBool))
	require.False(t, IsSpecificBuiltin(reg.Get(SqlBool), SqlInteger))
}

func TestIsPointerToSpecificBuiltin(t *testing.T) {
	reg := NewRegistry()
	p := reg.PointerTo(reg.Get(ProjectedColumnsIterator))
	require.True(t, IsPointerToSpecificBuiltin(p, ProjectedColumnsIterator))
	require.False(t, IsPointerToSpecificBuiltin(reg.Get(ProjectedColumnsIterator), ProjectedColumnsIterator))
}
