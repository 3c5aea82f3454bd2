// Package indexbuild implements the online index build coordinator of
// spec.md §4.6: the two-transaction CREATE INDEX protocol with its
// quiescence barrier, and the DROP INDEX protocol.
package indexbuild

import (
	"context"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"

	"github.com/parsec0re/terrier/catalog"
	"github.com/parsec0re/terrier/memengine"
	"github.com/parsec0re/terrier/storage"
)

var log = logrus.WithField("component", "indexbuild")

// QuiescencePollInterval is how often the barrier re-checks
// OldestActiveStartTS while spinning. A production build replaces the
// busy-wait with a condition variable per spec.md §9; this stands in for
// that, parameterized so tests don't actually sleep for long.
var QuiescencePollInterval = time.Millisecond

// Coordinator drives the online CREATE/DROP INDEX protocol over a
// catalog and a transaction manager, per spec.md §4.6.
type Coordinator struct {
	Catalog *catalog.Catalog
	Txns    storage.TxnManager
	Tables  map[string]storage.SqlTable
}

// NewCoordinator wires a Coordinator over cat and txns, resolving table
// names against tables.
func NewCoordinator(cat *catalog.Catalog, txns storage.TxnManager, tables map[string]storage.SqlTable) *Coordinator {
	return &Coordinator{Catalog: cat, Txns: txns, Tables: tables}
}

// waitForQuiescence spins until oldest_active_start_ts() >= commitTS,
// per spec.md §4.6 step 2. The whole wait is traced as one opentracing
// span so a slow build's barrier time is visible separately from T1/T2.
func (c *Coordinator) waitForQuiescence(ctx context.Context, commitTS storage.Timestamp) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "indexbuild.quiesce")
	defer span.Finish()
	for c.Txns.OldestActiveStartTS() < commitTS {
		time.Sleep(QuiescencePollInterval)
	}
}

// Build runs the full online CREATE INDEX protocol for a new index named
// indexName over table tableName's keyCols, returning the new index's
// oid once T2 has committed (regardless of whether the build succeeded -
// callers should consult the index entry's valid flag).
func (c *Coordinator) Build(ctx context.Context, tableName, indexName string, keyCols []storage.ColumnID, unique bool) (storage.OID, error) {
	buildID, err := uuid.NewV4()
	if err != nil {
		return 0, errors.Wrap(err, "indexbuild: generating build generation id")
	}
	buildGen := buildID.String()
	log := log.WithFields(logrus.Fields{"table": tableName, "index": indexName, "build_gen": buildGen})
	span, ctx := opentracing.StartSpanFromContext(ctx, "indexbuild.create")
	defer span.Finish()

	table, ok := c.Tables[tableName]
	if !ok {
		return 0, ErrTableNotFound.New(tableName)
	}

	// T1: allocate the index, insert its catalog entry as ready but not
	// yet valid or live for readers.
	txn1, err := c.Txns.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "indexbuild: beginning T1")
	}
	indexOid := c.Catalog.NextOid()
	index := memengine.NewIndex(indexOid, keyCols, unique)
	if err := c.Catalog.Indexes.CreateIndexEntry(indexOid, table.OID(), 0, indexName, true, false, false, false, unique, buildGen); err != nil {
		c.Txns.Abort(ctx, txn1)
		return 0, errors.Wrap(err, "indexbuild: inserting index entry")
	}
	commitTS, err := c.Txns.Commit(ctx, txn1)
	if err != nil {
		return 0, errors.Wrap(err, "indexbuild: committing T1")
	}
	log.WithField("commit_ts", commitTS).Debug("indexbuild: T1 committed, index entry visible")

	// Quiescence barrier: any transaction still active at this point
	// started before the index entry existed and must be gone before T2
	// can safely assume every writer maintains the index.
	c.waitForQuiescence(ctx, commitTS)

	// T2: flip building=true atomically at begin, scan the base table,
	// populate the index, then flip ready=false and valid per outcome.
	building := false
	txn2, err := c.Txns.BeginWithAction(ctx, func(storage.Txn) { building = true })
	if err != nil {
		return indexOid, errors.Wrap(err, "indexbuild: beginning T2")
	}

	entry, ok, err := c.Catalog.Indexes.GetIndexEntry(txn2, indexOid)
	if err != nil || !ok {
		c.Txns.Abort(ctx, txn2)
		return indexOid, errors.Wrap(err, "indexbuild: re-reading index entry in T2")
	}
	if err := c.Catalog.Indexes.SetReady(indexOid, indexName, entry, false); err != nil {
		c.Txns.Abort(ctx, txn2)
		return indexOid, errors.Wrap(err, "indexbuild: flipping indisready")
	}

	valid, buildErr := c.populate(ctx, txn2, table, index, keyCols, unique)

	entry, _, _ = c.Catalog.Indexes.GetIndexEntry(txn2, indexOid)
	if err := c.Catalog.Indexes.SetValid(indexOid, indexName, entry, valid); err != nil {
		c.Txns.Abort(ctx, txn2)
		return indexOid, errors.Wrap(err, "indexbuild: flipping indisvalid")
	}

	if _, err := c.Txns.Commit(ctx, txn2, func() { building = false }); err != nil {
		return indexOid, errors.Wrap(err, "indexbuild: committing T2")
	}
	log.WithField("building", building).Debug("indexbuild: T2 committed")

	if buildErr != nil {
		log.WithError(buildErr).Warn("indexbuild: build finished with a violation, index left invalid")
	} else {
		log.Info("indexbuild: build succeeded, index now valid")
	}
	return indexOid, nil
}

// populate implements spec.md §4.6 step 3's scan-and-insert: "PopulateIndex
// preserves the source table's row count in the unique case on success,
// or fails-fast on the first uniqueness violation" (spec.md §8). Returns
// whether the build succeeded (valid=true) and, on a uniqueness
// violation, the violation itself (not fatal - it just leaves the index
// invalid).
func (c *Coordinator) populate(ctx context.Context, txn storage.Txn, table storage.SqlTable, index *memengine.Index, keyCols []storage.ColumnID, unique bool) (bool, error) {
	rowIter, err := table.Scan(ctx, txn, keyCols)
	if err != nil {
		return false, errors.Wrap(err, "indexbuild: scanning base table")
	}
	defer rowIter.Close(ctx)

	slot := uint64(0)
	for {
		row, ok, err := rowIter.Next(ctx)
		if err != nil {
			return false, errors.Wrap(err, "indexbuild: reading base table row")
		}
		if !ok {
			return true, nil
		}
		if unique {
			inserted, err := index.InsertUnique(ctx, txn, row, slot)
			if err != nil {
				return false, err
			}
			if !inserted {
				return false, ErrUniqueViolation.New(index.OID(), slot)
			}
		} else if _, err := index.Insert(ctx, txn, row, slot); err != nil {
			return false, err
		}
		slot++
	}
}

// Drop runs the DROP INDEX protocol, per spec.md §4.6's Protocol (DROP).
func (c *Coordinator) Drop(ctx context.Context, indexName string, oid storage.OID) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "indexbuild.drop")
	defer span.Finish()

	txn, err := c.Txns.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "indexbuild: beginning drop transaction")
	}
	entry, ok, err := c.Catalog.Indexes.GetIndexEntry(txn, oid)
	if err != nil {
		c.Txns.Abort(ctx, txn)
		return errors.Wrap(err, "indexbuild: reading index entry")
	}
	if !ok {
		c.Txns.Abort(ctx, txn)
		return ErrIndexNotFound.New(indexName)
	}
	if err := c.Catalog.Indexes.SetLive(oid, indexName, entry, false); err != nil {
		c.Txns.Abort(ctx, txn)
		return errors.Wrap(err, "indexbuild: marking index not live")
	}
	commitTS, err := c.Txns.Commit(ctx, txn)
	if err != nil {
		return errors.Wrap(err, "indexbuild: committing drop")
	}

	c.waitForQuiescence(ctx, commitTS)

	if err := c.Catalog.Indexes.DeleteIndexEntry(oid, indexName); err != nil {
		return errors.Wrap(err, "indexbuild: deleting index entry")
	}
	log.WithFields(logrus.Fields{"index": indexName, "oid": oid}).Info("indexbuild: index dropped")
	return nil
}
