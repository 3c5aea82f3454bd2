package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/storage"
)

func TestIndexIteratorScansMatchingRows(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0, 1})
	tbl.Insert(storage.Row{int64(7), "alice"})
	tbl.Insert(storage.Row{int64(7), "bob"})
	tbl.Insert(storage.Row{int64(9), "carol"})

	idx := memengine.NewIndex(1, []storage.ColumnID{0}, false)
	ctx := context.Background()
	idx.Insert(ctx, nil, storage.Row{int64(7)}, 0)
	idx.Insert(ctx, nil, storage.Row{int64(7)}, 1)
	idx.Insert(ctx, nil, storage.Row{int64(9)}, 2)

	it := NewIndexIterator(idx, tbl, []storage.ColumnID{0, 1})
	pool := memengine.NewPool()
	require.NoError(t, it.IndexIteratorInit(pool, []storage.ColumnID{0, 1}))
	defer it.Close(ctx)

	it.SetKeyValue(0, int64(7))
	require.NoError(t, it.IndexIteratorScanKey(ctx, nil))

	var names []string
	for {
		ok, err := it.Advance(ctx, nil)
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, it.CurrentRow()[1].(string))
	}
	require.Equal(t, []string{"alice", "bob"}, names)
}

func TestIndexIteratorInitRejectsEmptyColumnOids(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0})
	idx := memengine.NewIndex(1, []storage.ColumnID{0}, false)
	it := NewIndexIterator(idx, tbl, []storage.ColumnID{0})

	err := it.IndexIteratorInit(memengine.NewPool(), nil)
	require.Equal(t, ErrEmptyColumnOids, err)
}
