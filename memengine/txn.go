// Package memengine is a minimal in-memory implementation of the storage
// contracts (package storage) this module consumes from its out-of-scope
// collaborators. It exists so the end-to-end scenarios in spec.md §8 and
// the online index build coordinator (package indexbuild) have something
// concrete to run against in tests; it is not a storage engine.
package memengine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/parsec0re/terrier/storage"
)

// ErrAborted is returned by Commit when the transaction was already
// aborted.
var ErrAborted = errors.New("memengine: transaction already aborted")

type txn struct {
	id       storage.OID
	startTS  storage.Timestamp
	aborted  int32
}

func (t *txn) ID() storage.OID             { return t.id }
func (t *txn) StartTS() storage.Timestamp  { return t.startTS }
func (t *txn) Aborted() bool               { return atomic.LoadInt32(&t.aborted) != 0 }

// TxnManager is a single-process, serializable-enough stand-in for the
// MVCC transaction manager spec.md §6 puts out of scope: every Commit
// hands out the next timestamp and every Begin records the caller as
// "active" until Commit or Abort removes it, which is all the online
// index build coordinator's quiescence barrier (spec.md §4.6) needs to
// observe.
type TxnManager struct {
	mu      sync.Mutex
	nextID  storage.OID
	nextTS  storage.Timestamp
	active  map[storage.OID]storage.Timestamp
}

// NewTxnManager returns an empty TxnManager.
func NewTxnManager() *TxnManager {
	return &TxnManager{active: make(map[storage.OID]storage.Timestamp)}
}

func (m *TxnManager) begin() *txn {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.nextTS++
	t := &txn{id: m.nextID, startTS: m.nextTS}
	m.active[t.id] = t.startTS
	return t
}

// Begin starts a new transaction.
func (m *TxnManager) Begin(ctx context.Context) (storage.Txn, error) {
	return m.begin(), nil
}

// BeginWithAction starts a new transaction and runs action atomically
// before any other goroutine can observe it as committed or aborted -
// spec.md §4.6's T2 uses this to flip `building := true` at begin time.
func (m *TxnManager) BeginWithAction(ctx context.Context, action storage.PreActionFunc) (storage.Txn, error) {
	t := m.begin()
	if action != nil {
		action(t)
	}
	return t, nil
}

// Commit finalizes txn, assigns it a commit timestamp, removes it from
// the active set (advancing OldestActiveStartTS), and finally runs every
// post-commit callback in order.
func (m *TxnManager) Commit(ctx context.Context, t storage.Txn, postCommit ...storage.PostCommitFunc) (storage.Timestamp, error) {
	mt, ok := t.(*txn)
	if !ok {
		return 0, errors.New("memengine: foreign transaction handle")
	}
	if mt.Aborted() {
		return 0, ErrAborted
	}
	m.mu.Lock()
	m.nextTS++
	commitTS := m.nextTS
	delete(m.active, mt.id)
	m.mu.Unlock()

	for _, fn := range postCommit {
		fn()
	}
	return commitTS, nil
}

// Abort marks txn aborted and removes it from the active set without
// assigning a commit timestamp.
func (m *TxnManager) Abort(ctx context.Context, t storage.Txn) error {
	mt, ok := t.(*txn)
	if !ok {
		return errors.New("memengine: foreign transaction handle")
	}
	atomic.StoreInt32(&mt.aborted, 1)
	m.mu.Lock()
	delete(m.active, mt.id)
	m.mu.Unlock()
	return nil
}

// OldestActiveStartTS returns the minimum start timestamp among all
// in-flight transactions, or the most recently assigned start or commit
// timestamp if none are active (meaning: nothing older could possibly
// still be running).
func (m *TxnManager) OldestActiveStartTS() storage.Timestamp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.active) == 0 {
		return m.nextTS
	}
	oldest := storage.Timestamp(1<<63 - 1)
	for _, ts := range m.active {
		if ts < oldest {
			oldest = ts
		}
	}
	return oldest
}
