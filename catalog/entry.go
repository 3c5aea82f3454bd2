package catalog

import (
	"github.com/spf13/cast"

	"github.com/parsec0re/terrier/storage"
)

// Entry wraps one catalog row: the decoded projected row plus the
// column-id -> offset map that says where in the row each column landed,
// per spec.md §4.5 ("Entries wrap the returned projected row plus the
// column-id -> offset map"). Entries borrow the row from the backing
// Store; they never cache past the transaction that read them, matching
// spec.md §5's "Catalog entries ... handles never cache."
type Entry struct {
	row     storage.Row
	offsets map[storage.ColumnID]int
}

func newEntry(row storage.Row, colOrder []storage.ColumnID) Entry {
	offsets := make(map[storage.ColumnID]int, len(colOrder))
	for i, c := range colOrder {
		offsets[c] = i
	}
	return Entry{row: row, offsets: offsets}
}

// Raw returns the raw decoded value for col, or nil if col is not part of
// this entry's projection.
func (e Entry) Raw(col storage.ColumnID) interface{} {
	idx, ok := e.offsets[col]
	if !ok || idx >= len(e.row) {
		return nil
	}
	return e.row[idx]
}

// Int64 best-effort coerces column col to int64 via spf13/cast, the same
// lenient-coercion idiom used for CLI-flag/struct decoding across the
// example corpus - here it bridges boltdb's json-decoded interface{}
// values (a float64 once round-tripped) back to the integer Go type a
// catalog caller expects.
func (e Entry) Int64(col storage.ColumnID) int64 { return cast.ToInt64(e.Raw(col)) }

// String coerces column col to string.
func (e Entry) String(col storage.ColumnID) string { return cast.ToString(e.Raw(col)) }

// Bool coerces column col to bool.
func (e Entry) Bool(col storage.ColumnID) bool { return cast.ToBool(e.Raw(col)) }

// OID coerces column col to a storage.OID.
func (e Entry) OID(col storage.ColumnID) storage.OID { return storage.OID(cast.ToUint32(e.Raw(col))) }
