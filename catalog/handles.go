package catalog

import (
	"github.com/parsec0re/terrier/storage"
)

var (
	databaseCols  = []storage.ColumnID{DatabaseOidCol, DatabaseTablespaceCol, DatabaseNameCol}
	namespaceCols = []storage.ColumnID{NamespaceOidCol, NamespaceDatabaseCol, NamespaceNameCol}
	classCols     = []storage.ColumnID{ClassOidCol, ClassNamespaceCol, ClassNameCol, ClassTablespaceCol}
	attributeCols = []storage.ColumnID{AttributeOidCol, AttributeClassCol, AttributeNameCol, AttributeSqlTypeCol, AttributeNumCol}
	indexCols     = []storage.ColumnID{
		IndexOidCol, IndexClassCol, IndexNamespaceCol, IndexNameCol, IndexReadyCol,
		IndexValidCol, IndexPrimaryCol, IndexLiveCol, IndexUniqueCol, IndexBuildGenCol,
	}
)

// Catalog is the top-level handle factory over the five catalog tables,
// per spec.md §4.5 ("catalog handles are typed accessors over the
// catalog tables"). It owns the backing Store and the OidAllocator new
// catalog objects draw from.
type Catalog struct {
	store *Store
	oids  OidAllocator

	Databases  *DatabaseHandle
	Namespaces *NamespaceHandle
	Classes    *ClassHandle
	Attributes *AttributeHandle
	Indexes    *IndexHandle
}

// NewCatalog wires a Catalog over store, allocating new oids from oids.
func NewCatalog(store *Store, oids OidAllocator) *Catalog {
	c := &Catalog{store: store, oids: oids}
	c.Databases = &DatabaseHandle{store: store}
	c.Namespaces = &NamespaceHandle{store: store}
	c.Classes = &ClassHandle{store: store}
	c.Attributes = &AttributeHandle{store: store}
	c.Indexes = &IndexHandle{store: store}
	return c
}

// NextOid allocates a fresh catalog object id.
func (c *Catalog) NextOid() storage.OID { return c.oids.GetNextOid() }

// DatabaseHandle is the typed accessor over pg_database.
type DatabaseHandle struct{ store *Store }

// CreateDatabaseEntry inserts a new pg_database row.
func (h *DatabaseHandle) CreateDatabaseEntry(oid storage.OID, tablespace storage.OID, name string) error {
	row := storage.Row{oid, tablespace, name}
	return h.store.put(bucketDatabase, oid, name, row)
}

// GetDatabaseEntry looks up a database row by oid.
func (h *DatabaseHandle) GetDatabaseEntry(txn storage.Txn, oid storage.OID) (Entry, bool, error) {
	return h.store.getByOID(bucketDatabase, databaseCols, oid)
}

// GetDatabaseEntryByName looks up a database row by name.
func (h *DatabaseHandle) GetDatabaseEntryByName(txn storage.Txn, name string) (Entry, bool, error) {
	return h.store.getByName(bucketDatabase, databaseCols, name)
}

// NamespaceHandle is the typed accessor over pg_namespace.
type NamespaceHandle struct{ store *Store }

// CreateNamespaceEntry inserts a new pg_namespace row under database db.
func (h *NamespaceHandle) CreateNamespaceEntry(oid storage.OID, db storage.OID, name string) error {
	row := storage.Row{oid, db, name}
	return h.store.put(bucketNamespace, oid, name, row)
}

func (h *NamespaceHandle) GetNamespaceEntry(txn storage.Txn, oid storage.OID) (Entry, bool, error) {
	return h.store.getByOID(bucketNamespace, namespaceCols, oid)
}

func (h *NamespaceHandle) GetNamespaceEntryByName(txn storage.Txn, name string) (Entry, bool, error) {
	return h.store.getByName(bucketNamespace, namespaceCols, name)
}

// GetDatabase navigates a namespace entry up to its owning database oid.
func (h *NamespaceHandle) GetDatabase(e Entry) storage.OID { return e.OID(NamespaceDatabaseCol) }

// ClassHandle is the typed accessor over pg_class (tables/relations).
type ClassHandle struct{ store *Store }

// CreateClassEntry inserts a new pg_class row under namespace ns.
func (h *ClassHandle) CreateClassEntry(oid storage.OID, ns storage.OID, name string, tablespace storage.OID) error {
	row := storage.Row{oid, ns, name, tablespace}
	return h.store.put(bucketClass, oid, name, row)
}

func (h *ClassHandle) GetClassEntry(txn storage.Txn, oid storage.OID) (Entry, bool, error) {
	return h.store.getByOID(bucketClass, classCols, oid)
}

func (h *ClassHandle) GetClassEntryByName(txn storage.Txn, name string) (Entry, bool, error) {
	return h.store.getByName(bucketClass, classCols, name)
}

// GetNamespace navigates a class entry up to its owning namespace oid.
func (h *ClassHandle) GetNamespace(e Entry) storage.OID { return e.OID(ClassNamespaceCol) }

// AttributeHandle is the typed accessor over pg_attribute (columns).
type AttributeHandle struct{ store *Store }

// CreateAttributeEntry inserts a new pg_attribute row describing column
// attrNum of class cls. sqlType is the attribute's SQL type kind name
// (e.g. "SqlInteger"), stored as a string so no import cycle back to
// package types is needed.
func (h *AttributeHandle) CreateAttributeEntry(oid storage.OID, cls storage.OID, name string, sqlType string, attrNum int64) error {
	row := storage.Row{oid, cls, name, sqlType, attrNum}
	return h.store.put(bucketAttribute, oid, name, row)
}

func (h *AttributeHandle) GetAttributeEntry(txn storage.Txn, oid storage.OID) (Entry, bool, error) {
	return h.store.getByOID(bucketAttribute, attributeCols, oid)
}

func (h *AttributeHandle) GetAttributeEntryByName(txn storage.Txn, name string) (Entry, bool, error) {
	return h.store.getByName(bucketAttribute, attributeCols, name)
}

// GetClass navigates an attribute entry up to its owning class oid.
func (h *AttributeHandle) GetClass(e Entry) storage.OID { return e.OID(AttributeClassCol) }

// IndexHandle is the typed accessor over pg_index, including the
// ready/valid/live flags the online index build protocol (package
// indexbuild) flips across its two transactions, per spec.md §4.6.
type IndexHandle struct{ store *Store }

// CreateIndexEntry inserts a new pg_index row with the caller-supplied
// ready/valid/live flags - spec.md §4.6's T1 step inserts
// ready=true, valid=false, live=false, leaving the flag transitions that
// follow (T2 flipping ready/valid) to SetReady/SetValid.
func (h *IndexHandle) CreateIndexEntry(oid, cls, ns storage.OID, name string, ready, valid, primary, live, unique bool, buildGen string) error {
	row := storage.Row{oid, cls, ns, name, ready, valid, primary, live, unique, buildGen}
	return h.store.put(bucketIndex, oid, name, row)
}

func (h *IndexHandle) GetIndexEntry(txn storage.Txn, oid storage.OID) (Entry, bool, error) {
	return h.store.getByOID(bucketIndex, indexCols, oid)
}

func (h *IndexHandle) GetIndexEntryByName(txn storage.Txn, name string) (Entry, bool, error) {
	return h.store.getByName(bucketIndex, indexCols, name)
}

// GetClass navigates an index entry up to the class (table) it indexes.
func (h *IndexHandle) GetClass(e Entry) storage.OID { return e.OID(IndexClassCol) }

// SetReady rewrites the ready flag. The online build protocol inserts the
// entry with ready=true in T1 and calls SetReady(false) in T2.
func (h *IndexHandle) SetReady(oid storage.OID, name string, e Entry, ready bool) error {
	row := storage.Row{
		e.OID(IndexOidCol), e.OID(IndexClassCol), e.OID(IndexNamespaceCol), e.String(IndexNameCol),
		ready, e.Bool(IndexValidCol), e.Bool(IndexPrimaryCol), e.Bool(IndexLiveCol), e.Bool(IndexUniqueCol),
		e.String(IndexBuildGenCol),
	}
	return h.store.put(bucketIndex, oid, name, row)
}

// SetValid flips the valid flag, marking the index as safe for the
// planner to choose for reads (T2's commit in the online build protocol).
func (h *IndexHandle) SetValid(oid storage.OID, name string, e Entry, valid bool) error {
	row := storage.Row{
		e.OID(IndexOidCol), e.OID(IndexClassCol), e.OID(IndexNamespaceCol), e.String(IndexNameCol),
		e.Bool(IndexReadyCol), valid, e.Bool(IndexPrimaryCol), e.Bool(IndexLiveCol), e.Bool(IndexUniqueCol),
		e.String(IndexBuildGenCol),
	}
	return h.store.put(bucketIndex, oid, name, row)
}

// SetLive flips the live flag off, marking the index as logically
// dropped (DROP INDEX's first phase) pending physical reclamation.
func (h *IndexHandle) SetLive(oid storage.OID, name string, e Entry, live bool) error {
	row := storage.Row{
		e.OID(IndexOidCol), e.OID(IndexClassCol), e.OID(IndexNamespaceCol), e.String(IndexNameCol),
		e.Bool(IndexReadyCol), e.Bool(IndexValidCol), e.Bool(IndexPrimaryCol), live, e.Bool(IndexUniqueCol),
		e.String(IndexBuildGenCol),
	}
	return h.store.put(bucketIndex, oid, name, row)
}

// DeleteIndexEntry physically removes a pg_index row. The DROP INDEX
// protocol (indexbuild.Coordinator.Drop) calls it once the index has been
// marked !live, that change committed, and the quiescence barrier passed.
func (h *IndexHandle) DeleteIndexEntry(oid storage.OID, name string) error {
	return h.store.delete(bucketIndex, oid, name)
}
