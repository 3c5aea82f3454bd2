package indexbuild

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/catalog"
	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/storage"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *catalog.Catalog, *memengine.TxnManager) {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cat := catalog.NewCatalog(store, catalog.NewAtomicOidAllocator(100))
	require.NoError(t, cat.Bootstrap())

	txns := memengine.NewTxnManager()
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0, 1})
	tbl.Insert(storage.Row{int64(1), "a"})
	tbl.Insert(storage.Row{int64(2), "b"})
	tbl.Insert(storage.Row{int64(3), "c"})

	coord := NewCoordinator(cat, txns, map[string]storage.SqlTable{"orders": tbl})
	return coord, cat, txns
}

func TestBuildCreatesAValidIndexOverExistingRows(t *testing.T) {
	coord, cat, _ := newTestCoordinator(t)
	oid, err := coord.Build(context.Background(), "orders", "idx_orders_id", []storage.ColumnID{0}, false)
	require.NoError(t, err)

	entry, ok, err := cat.Indexes.GetIndexEntry(nil, oid)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, entry.Bool(catalog.IndexValidCol))
	require.False(t, entry.Bool(catalog.IndexReadyCol))
}

func TestBuildUniqueIndexOverDuplicateKeysLeavesIndexInvalid(t *testing.T) {
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	cat := catalog.NewCatalog(store, catalog.NewAtomicOidAllocator(100))
	require.NoError(t, cat.Bootstrap())

	txns := memengine.NewTxnManager()
	tbl := memengine.NewTable(1, "orders", []storage.ColumnID{0})
	tbl.Insert(storage.Row{int64(1)})
	tbl.Insert(storage.Row{int64(1)})

	coord := NewCoordinator(cat, txns, map[string]storage.SqlTable{"orders": tbl})
	oid, err := coord.Build(context.Background(), "orders", "idx_orders_id_unique", []storage.ColumnID{0}, true)
	require.NoError(t, err)

	entry, ok, err := cat.Indexes.GetIndexEntry(nil, oid)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, entry.Bool(catalog.IndexValidCol))
}

func TestBuildReturnsErrorForUnknownTable(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	_, err := coord.Build(context.Background(), "missing", "idx", []storage.ColumnID{0}, false)
	require.True(t, ErrTableNotFound.Is(err))
}

func TestDropMarksIndexNotLiveThenDeletesTheEntry(t *testing.T) {
	coord, cat, _ := newTestCoordinator(t)
	oid, err := coord.Build(context.Background(), "orders", "idx_orders_id", []storage.ColumnID{0}, false)
	require.NoError(t, err)

	require.NoError(t, coord.Drop(context.Background(), "idx_orders_id", oid))

	_, ok, err := cat.Indexes.GetIndexEntry(nil, oid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDropReturnsErrorForUnknownIndex(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	err := coord.Drop(context.Background(), "missing_index", 9999)
	require.True(t, ErrIndexNotFound.Is(err))
}

func TestBuildWaitsForActiveTransactionsOlderThanT1Commit(t *testing.T) {
	coord, _, txns := newTestCoordinator(t)

	// Hold a transaction open that began before Build starts; the barrier
	// must not return while it is still active.
	blocker, err := txns.Begin(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, buildErr := coord.Build(context.Background(), "orders", "idx_orders_id", []storage.ColumnID{0}, false)
		require.NoError(t, buildErr)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Build must not finish while an older transaction is still active")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, txns.Abort(context.Background(), blocker))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Build did not finish after the blocking transaction aborted")
	}
}
