package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/storage"
)

func TestTableVectorIteratorBatchesByVectorSize(t *testing.T) {
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0})
	for i := int64(0); i < 5; i++ {
		tbl.Insert(storage.Row{i})
	}

	tvi := NewTableVectorIterator([]storage.ColumnID{0}, 2)
	ctx := context.Background()
	require.NoError(t, tvi.TableIterInit(ctx, nil, tbl))
	defer tvi.TableIterClose(ctx)

	var batches [][]int64
	for {
		ok, err := tvi.TableIterAdvance(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		var batch []int64
		pci := tvi.PCI()
		for pci.PCIHasNext() {
			pci.PCIAdvance()
			batch = append(batch, pci.PCIGetInt(0))
		}
		batches = append(batches, batch)
	}

	require.Equal(t, [][]int64{{0, 1}, {2, 3}, {4}}, batches)
}

func TestTableVectorIteratorDefaultsVectorSize(t *testing.T) {
	tvi := NewTableVectorIterator([]storage.ColumnID{0}, 0)
	require.Equal(t, VectorSize, tvi.vectorSize)
}

func TestTableVectorIteratorEmptyTableAdvancesFalse(t *testing.T) {
	tbl := memengine.NewTable(1, "empty", []storage.ColumnID{0})
	tvi := NewTableVectorIterator([]storage.ColumnID{0}, 10)
	ctx := context.Background()
	require.NoError(t, tvi.TableIterInit(ctx, nil, tbl))
	defer tvi.TableIterClose(ctx)

	ok, err := tvi.TableIterAdvance(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
