package runtime

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
)

// Hash implements the `Hash` intrinsic sema.checker resolves to
// Uint64Type(): a 64-bit digest of a SQL value's underlying
// representation, grounded on github.com/cespare/xxhash - the same
// non-cryptographic hash family the join/aggregation hash tables below
// use to bucket build-side keys. Accepts the Go types PCIGet* surfaces
// (int64, float64, bool, string) plus []byte for pre-encoded keys.
func Hash(v interface{}) uint64 {
	switch t := v.(type) {
	case nil:
		return 0
	case []byte:
		return xxhash.Sum64(t)
	case string:
		return xxhash.Sum64String(t)
	case int64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(t))
		return xxhash.Sum64(buf[:])
	case float64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(t))
		return xxhash.Sum64(buf[:])
	case bool:
		if t {
			return xxhash.Sum64([]byte{1})
		}
		return xxhash.Sum64([]byte{0})
	default:
		return 0
	}
}

// HashCombine folds an additional key component into an existing digest,
// used when a join or group-by key spans more than one column.
func HashCombine(seed uint64, v interface{}) uint64 {
	h := Hash(v)
	// boost::hash_combine's constant, a standard way to mix a running
	// hash with each additional component without it washing out.
	return seed ^ (h + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}
