package memengine

import (
	"context"
	"fmt"
	"sync"

	"github.com/parsec0re/terrier/storage"
)

// Index is a map-backed storage.Index. A real engine builds this over a
// B+tree/BwTree (out of scope per spec.md §1); this stands in with a
// Go map keyed by the encoded key tuple, which is all the online index
// build coordinator and the translator pipeline's IndexScan path need to
// exercise against.
type Index struct {
	mu      sync.RWMutex
	oid     storage.OID
	keyCols []storage.ColumnID
	unique  bool
	entries map[string][]uint64
}

// NewIndex returns an empty Index over the given key columns.
func NewIndex(oid storage.OID, keyCols []storage.ColumnID, unique bool) *Index {
	return &Index{
		oid:     oid,
		keyCols: append([]storage.ColumnID(nil), keyCols...),
		unique:  unique,
		entries: make(map[string][]uint64),
	}
}

func (ix *Index) OID() storage.OID                { return ix.oid }
func (ix *Index) KeyColumns() []storage.ColumnID  { return ix.keyCols }
func (ix *Index) Unique() bool                    { return ix.unique }

func encodeKey(key storage.Row) string { return fmt.Sprintf("%v", []interface{}(key)) }

// Insert adds (key -> slot), permitting duplicate keys.
func (ix *Index) Insert(ctx context.Context, txn storage.Txn, key storage.Row, slot uint64) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	k := encodeKey(key)
	ix.entries[k] = append(ix.entries[k], slot)
	return true, nil
}

// InsertUnique adds (key -> slot), failing if key already has an entry.
func (ix *Index) InsertUnique(ctx context.Context, txn storage.Txn, key storage.Row, slot uint64) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	k := encodeKey(key)
	if len(ix.entries[k]) > 0 {
		return false, nil
	}
	ix.entries[k] = append(ix.entries[k], slot)
	return true, nil
}

// Scan returns every slot whose key exactly matches key.
func (ix *Index) Scan(ctx context.Context, txn storage.Txn, key storage.Row) (storage.RowIter, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	slots := append([]uint64(nil), ix.entries[encodeKey(key)]...)
	return &indexIter{slots: slots, idx: -1}, nil
}

// EntryCount reports the number of (key, slot) entries currently indexed,
// counting every slot under a duplicated key - used by
// tests asserting that PopulateIndex preserved the source table's row
// count (spec.md §8).
func (ix *Index) EntryCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n := 0
	for _, slots := range ix.entries {
		n += len(slots)
	}
	return n
}

type indexIter struct {
	slots []uint64
	idx   int
}

func (it *indexIter) Next(ctx context.Context) (storage.Row, bool, error) {
	it.idx++
	if it.idx >= len(it.slots) {
		return nil, false, nil
	}
	return storage.Row{it.slots[it.idx]}, true, nil
}

func (it *indexIter) Close(ctx context.Context) error { return nil }
