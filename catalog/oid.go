package catalog

import "github.com/parsec0re/terrier/storage"

// OidAllocator hands out fresh, globally-unique catalog object ids, per
// spec.md §6 ("GetNextOid allocates a fresh, globally-unique identifier").
// It is an interface, not a concrete counter, so a Catalog can be backed
// by a persisted oid sequence in production and a plain in-memory counter
// in tests.
type OidAllocator interface {
	GetNextOid() storage.OID
}

// AtomicOidAllocator is the in-memory OidAllocator used by tests and by
// Catalog when no persisted sequence is configured. It counts up from the
// start value its caller supplies and does not skip DefaultDatabaseOid or
// DefaultTablespaceOid; a start below those oids can hand them out again.
type AtomicOidAllocator struct {
	next storage.OID
}

// NewAtomicOidAllocator returns an allocator whose first GetNextOid call
// returns start.
func NewAtomicOidAllocator(start storage.OID) *AtomicOidAllocator {
	return &AtomicOidAllocator{next: start}
}

// GetNextOid returns the next oid in sequence.
func (a *AtomicOidAllocator) GetNextOid() storage.OID {
	oid := a.next
	a.next++
	return oid
}
