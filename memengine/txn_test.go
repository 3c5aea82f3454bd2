package memengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/storage"
)

func TestBeginAssignsIncreasingTimestamps(t *testing.T) {
	m := NewTxnManager()
	t1, err := m.Begin(context.Background())
	require.NoError(t, err)
	t2, err := m.Begin(context.Background())
	require.NoError(t, err)
	require.Less(t, t1.StartTS(), t2.StartTS())
}

func TestCommitAdvancesOldestActiveStartTS(t *testing.T) {
	m := NewTxnManager()
	ctx := context.Background()
	t1, _ := m.Begin(ctx)
	t2, _ := m.Begin(ctx)
	require.Equal(t, t1.StartTS(), m.OldestActiveStartTS())

	_, err := m.Commit(ctx, t1)
	require.NoError(t, err)
	require.Equal(t, t2.StartTS(), m.OldestActiveStartTS())
}

func TestOldestActiveStartTSWithNoneActiveIsAheadOfEveryCommit(t *testing.T) {
	m := NewTxnManager()
	ctx := context.Background()
	t1, _ := m.Begin(ctx)
	commitTS, err := m.Commit(ctx, t1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.OldestActiveStartTS(), commitTS)
}

func TestCommitOnAbortedTxnFails(t *testing.T) {
	m := NewTxnManager()
	ctx := context.Background()
	txn, _ := m.Begin(ctx)
	require.NoError(t, m.Abort(ctx, txn))

	_, err := m.Commit(ctx, txn)
	require.Equal(t, ErrAborted, err)
}

func TestBeginWithActionRunsBeforeCallerObservesTxn(t *testing.T) {
	m := NewTxnManager()
	ran := false
	txn, err := m.BeginWithAction(context.Background(), func(storage.Txn) { ran = true })
	require.NoError(t, err)
	require.True(t, ran)
	require.False(t, txn.Aborted())
}

func TestCommitRunsPostCommitCallbacksInOrder(t *testing.T) {
	m := NewTxnManager()
	ctx := context.Background()
	txn, _ := m.Begin(ctx)

	var order []int
	_, err := m.Commit(ctx, txn,
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, order)
}
