package catalog

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/parsec0re/terrier/storage"
)

var log = logrus.WithField("component", "catalog")

var (
	bucketDatabase  = []byte("pg_database")
	bucketNamespace = []byte("pg_namespace")
	bucketClass     = []byte("pg_class")
	bucketAttribute = []byte("pg_attribute")
	bucketIndex     = []byte("pg_index")

	allBuckets = [][]byte{bucketDatabase, bucketNamespace, bucketClass, bucketAttribute, bucketIndex}
)

// Store is the boltdb-backed persistence layer underneath every catalog
// handle. One row is one bolt key (the row's oid, big-endian) mapping to
// its json-encoded column values, plus a secondary "<bucket>_by_name"
// index from name to oid for the GetXxxEntry(txn, name) lookup path
// spec.md §4.5 requires alongside the oid path.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a Store backed by the bolt file at
// path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "catalog: opening bolt store")
	}
	s := &Store{db: db}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
			if _, err := tx.CreateBucketIfNotExists(append(append([]byte(nil), b...), "_by_name"...)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "catalog: initializing buckets")
	}
	return s, nil
}

// Close releases the underlying bolt file.
func (s *Store) Close() error { return s.db.Close() }

func oidKey(oid storage.OID) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(oid))
	return b
}

func nameBucket(b []byte) []byte { return append(append([]byte(nil), b...), "_by_name"...) }

// put writes one row keyed by oid, plus its name -> oid index entry.
func (s *Store) put(bucket []byte, oid storage.OID, name string, row storage.Row) error {
	raw, err := json.Marshal([]interface{}(row))
	if err != nil {
		return errors.Wrap(err, "catalog: encoding row")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucket).Put(oidKey(oid), raw); err != nil {
			return err
		}
		return tx.Bucket(nameBucket(bucket)).Put([]byte(name), oidKey(oid))
	})
	if err != nil {
		return errors.Wrap(err, "catalog: writing row")
	}
	log.WithFields(logrus.Fields{"bucket": string(bucket), "oid": oid, "name": name}).Debug("catalog: wrote row")
	return nil
}

// delete removes a row and its name index entry.
func (s *Store) delete(bucket []byte, oid storage.OID, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucket).Delete(oidKey(oid)); err != nil {
			return err
		}
		return tx.Bucket(nameBucket(bucket)).Delete([]byte(name))
	})
}

// getByOID decodes the row stored under oid, if any.
func (s *Store) getByOID(bucket []byte, colOrder []storage.ColumnID, oid storage.OID) (Entry, bool, error) {
	var row storage.Row
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get(oidKey(oid))
		if raw == nil {
			return nil
		}
		var decoded []interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		row = storage.Row(decoded)
		found = true
		return nil
	})
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "catalog: decoding row")
	}
	if !found {
		return Entry{}, false, nil
	}
	return newEntry(row, colOrder), true, nil
}

// getByName resolves name to an oid via the secondary index, then defers
// to getByOID.
func (s *Store) getByName(bucket []byte, colOrder []storage.ColumnID, name string) (Entry, bool, error) {
	var oid storage.OID
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(nameBucket(bucket)).Get([]byte(name))
		if raw == nil {
			return nil
		}
		oid = storage.OID(binary.BigEndian.Uint32(raw))
		found = true
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	if !found {
		return Entry{}, false, nil
	}
	return s.getByOID(bucket, colOrder, oid)
}
