// Package catalog implements typed accessors over the catalog tables -
// databases, namespaces, classes (tables), attributes (columns), and
// indexes - per spec.md §4.5. Catalog rows are persisted in a set of
// boltdb buckets (package github.com/boltdb/bolt), since spec.md §6 names
// "the catalog rows are the only durable artifacts of the execution
// engine" as in-scope, unlike the row/B+tree storage layer itself.
package catalog

import "github.com/parsec0re/terrier/storage"

// Column ids follow the real Postgres convention of numbering catalog
// columns from a fixed base per table, rather than 0-up per row shape;
// spec.md §8's scenario 6 pins this down for pg_database (columns 5001,
// 5002), so the bases below are chosen to match that scenario exactly and
// extended with the same stride for the other catalog tables.
const (
	DatabaseOidCol        storage.ColumnID = 5001
	DatabaseTablespaceCol storage.ColumnID = 5002
	DatabaseNameCol       storage.ColumnID = 5003

	NamespaceOidCol      storage.ColumnID = 5101
	NamespaceDatabaseCol storage.ColumnID = 5102
	NamespaceNameCol     storage.ColumnID = 5103

	ClassOidCol        storage.ColumnID = 5201
	ClassNamespaceCol  storage.ColumnID = 5202
	ClassNameCol       storage.ColumnID = 5203
	ClassTablespaceCol storage.ColumnID = 5204

	AttributeOidCol      storage.ColumnID = 5301
	AttributeClassCol    storage.ColumnID = 5302
	AttributeNameCol     storage.ColumnID = 5303
	AttributeSqlTypeCol  storage.ColumnID = 5304
	AttributeNumCol      storage.ColumnID = 5305

	IndexOidCol       storage.ColumnID = 5401
	IndexClassCol     storage.ColumnID = 5402
	IndexNamespaceCol storage.ColumnID = 5403
	IndexNameCol      storage.ColumnID = 5404
	IndexReadyCol     storage.ColumnID = 5405
	IndexValidCol     storage.ColumnID = 5406
	IndexPrimaryCol   storage.ColumnID = 5407
	IndexLiveCol      storage.ColumnID = 5408
	IndexUniqueCol    storage.ColumnID = 5409
	IndexBuildGenCol  storage.ColumnID = 5410

	// DefaultTablespaceOid mirrors Postgres's pg_default tablespace oid
	// (1663 in real Postgres; spec.md §8 scenario 6 pins the test value
	// to 15721, the oid a template database's pg_default tablespace
	// carries in a freshly initdb'd cluster - kept verbatim so the
	// scenario's literal expectation holds).
	DefaultTablespaceOid = 15721
	// DefaultDatabaseOid is the oid spec.md §8 scenario 6 looks up.
	DefaultDatabaseOid storage.OID = 828
)
