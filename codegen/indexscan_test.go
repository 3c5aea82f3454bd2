package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
	"github.com/parsec0re/terrier/types"
)

func TestIndexScanTranslatorAppliesResidualPredicateAfterEqualityLookup(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0, 1})
	tbl.Insert(storage.Row{int64(7), int64(100)})
	tbl.Insert(storage.Row{int64(7), int64(200)})
	tbl.Insert(storage.Row{int64(9), int64(300)})

	idx := memengine.NewIndex(1, []storage.ColumnID{0}, false)
	ctx := context.Background()
	_, err := idx.Insert(ctx, nil, storage.Row{int64(7)}, 0)
	require.NoError(t, err)
	_, err = idx.Insert(ctx, nil, storage.Row{int64(7)}, 1)
	require.NoError(t, err)
	_, err = idx.Insert(ctx, nil, storage.Row{int64(9)}, 2)
	require.NoError(t, err)

	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}, {Name: "amount", Type: reg.SqlIntegerType()}}
	node := plan.NewIndexScanNode("orders", "idx_id", schema, []plan.Predicate{
		{Column: "id", Op: "=", Literal: int64(7)},
		{Column: "amount", Op: ">", Literal: int64(150)},
	})

	it := NewIndexScanTranslator(node, idx, tbl, []storage.ColumnID{0, 1})
	ec := runtime.NewExecutionContext(nil, memengine.NewPool(), 1)
	require.NoError(t, it.InitializeSetup(ctx, ec))
	defer it.InitializeTeardown(ctx, ec)

	var amounts []int64
	it.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error {
		amounts = append(amounts, it.GetOutput(1).(int64))
		return nil
	})
	require.NoError(t, it.Produce(ctx, ec))
	require.Equal(t, []int64{200}, amounts)
}

func TestIndexScanTranslatorIsAPointerMaterializer(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0})
	tbl.Insert(storage.Row{int64(3)})
	idx := memengine.NewIndex(1, []storage.ColumnID{0}, false)
	ctx := context.Background()
	_, err := idx.Insert(ctx, nil, storage.Row{int64(3)}, 0)
	require.NoError(t, err)

	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}}
	node := plan.NewIndexScanNode("orders", "idx_id", schema, []plan.Predicate{{Column: "id", Op: "=", Literal: int64(3)}})
	it := NewIndexScanTranslator(node, idx, tbl, []storage.ColumnID{0})

	materializes, isPtr := it.IsMaterializer()
	require.True(t, materializes)
	require.True(t, isPtr)

	ec := runtime.NewExecutionContext(nil, memengine.NewPool(), 1)
	require.NoError(t, it.InitializeSetup(ctx, ec))
	defer it.InitializeTeardown(ctx, ec)

	it.SetConsumer(func(ctx context.Context, ec *runtime.ExecutionContext) error { return nil })
	require.NoError(t, it.Produce(ctx, ec))
	require.Equal(t, storage.Row{int64(3)}, it.GetMaterializedTuple())
}
