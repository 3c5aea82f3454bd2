package indexbuild

import errs "gopkg.in/src-d/go-errors.v1"

// ErrTableNotFound is the protocol error spec.md §7 names: "missing user
// table during CREATE/DROP index -> the transaction aborts; no partial
// state leaks."
var ErrTableNotFound = errs.NewKind("indexbuild: table %q not found in catalog")

// ErrUniqueViolation is what the population step of Build stops with when
// it hits a duplicate key for a unique index, per spec.md §8's
// "PopulateIndex ... fails-fast on the first uniqueness violation." Build
// itself does not return it: it logs it, commits T2 with valid=false, and
// returns a nil error.
var ErrUniqueViolation = errs.NewKind("indexbuild: unique index %q: duplicate key at table slot %d")

// ErrIndexNotFound is returned by Drop when the target index entry does
// not exist.
var ErrIndexNotFound = errs.NewKind("indexbuild: index %q not found in catalog")
