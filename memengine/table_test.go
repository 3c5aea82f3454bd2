package memengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/storage"
)

func TestTableInsertAndSelect(t *testing.T) {
	tbl := NewTable(1, "widgets", []storage.ColumnID{0, 1})
	slot := tbl.Insert(storage.Row{int64(1), "gizmo"})
	require.Equal(t, uint64(0), slot)

	row, ok, err := tbl.Select(context.Background(), nil, slot, []storage.ColumnID{0, 1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, storage.Row{int64(1), "gizmo"}, row)
}

func TestTableSelectOutOfRangeSlot(t *testing.T) {
	tbl := NewTable(1, "widgets", []storage.ColumnID{0})
	_, ok, err := tbl.Select(context.Background(), nil, 5, []storage.ColumnID{0})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTableScanProjectsAndSnapshotsRows(t *testing.T) {
	tbl := NewTable(1, "widgets", []storage.ColumnID{0, 1})
	tbl.Insert(storage.Row{int64(1), "a"})
	tbl.Insert(storage.Row{int64(2), "b"})

	it, err := tbl.Scan(context.Background(), nil, []storage.ColumnID{1})
	require.NoError(t, err)
	defer it.Close(context.Background())

	var got []string
	for {
		row, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, row[0].(string))
	}
	require.Equal(t, []string{"a", "b"}, got)
}

func TestTableRowCount(t *testing.T) {
	tbl := NewTable(1, "widgets", []storage.ColumnID{0})
	require.Equal(t, 0, tbl.RowCount())
	tbl.Insert(storage.Row{int64(1)})
	tbl.Insert(storage.Row{int64(2)})
	require.Equal(t, 2, tbl.RowCount())
}
