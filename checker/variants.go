package checker

import "github.com/pkg/errors"

// NumChecker verifies an exact expected total row count, per spec.md
// §4.4's Num variant.
type NumChecker struct {
	Expected int
	seen     int
}

// NewNumChecker expects exactly n total rows across every batch.
func NewNumChecker(n int) *NumChecker { return &NumChecker{Expected: n} }

func (c *NumChecker) ProcessBatch(rows []Row) { c.seen += len(rows) }

func (c *NumChecker) CheckCorrectness() error {
	if c.seen != c.Expected {
		return errors.Errorf("checker: expected %d rows, saw %d", c.Expected, c.seen)
	}
	return nil
}

// SingleIntComparison verifies cmp(row[col], rhs) holds for every row,
// per spec.md §4.4.
type SingleIntComparison struct {
	Col  int
	Cmp  func(v, rhs int64) bool
	Rhs  int64
	fail error
}

// NewSingleIntComparison checks cmp(row[col], rhs) for every row.
func NewSingleIntComparison(col int, cmp func(v, rhs int64) bool, rhs int64) *SingleIntComparison {
	return &SingleIntComparison{Col: col, Cmp: cmp, Rhs: rhs}
}

func (c *SingleIntComparison) ProcessBatch(rows []Row) {
	if c.fail != nil {
		return
	}
	for i, r := range rows {
		v, ok := r[c.Col].(int64)
		if !ok {
			c.fail = errors.Errorf("checker: row %d column %d is not an integer", i, c.Col)
			return
		}
		if !c.Cmp(v, c.Rhs) {
			c.fail = errors.Errorf("checker: row %d column %d value %d failed comparison against %d", i, c.Col, v, c.Rhs)
			return
		}
	}
}

func (c *SingleIntComparison) CheckCorrectness() error { return c.fail }

// SingleIntJoin verifies row[col1] == row[col2] for every row, per
// spec.md §4.4.
type SingleIntJoin struct {
	Col1, Col2 int
	fail       error
}

// NewSingleIntJoin checks row[col1] == row[col2] for every row.
func NewSingleIntJoin(col1, col2 int) *SingleIntJoin { return &SingleIntJoin{Col1: col1, Col2: col2} }

func (c *SingleIntJoin) ProcessBatch(rows []Row) {
	if c.fail != nil {
		return
	}
	for i, r := range rows {
		a, _ := r[c.Col1].(int64)
		b, _ := r[c.Col2].(int64)
		if a != b {
			c.fail = errors.Errorf("checker: row %d column %d (%d) != column %d (%d)", i, c.Col1, a, c.Col2, b)
			return
		}
	}
}

func (c *SingleIntJoin) CheckCorrectness() error { return c.fail }

// SingleIntSum accumulates non-null values in one column, comparing the
// running total against an expected value at finalize, per spec.md
// §4.4.
type SingleIntSum struct {
	Col      int
	Expected int64
	sum      int64
}

// NewSingleIntSum expects column col to sum to expected across every row.
func NewSingleIntSum(col int, expected int64) *SingleIntSum {
	return &SingleIntSum{Col: col, Expected: expected}
}

func (c *SingleIntSum) ProcessBatch(rows []Row) {
	for _, r := range rows {
		if r[c.Col] == nil {
			continue
		}
		v, _ := r[c.Col].(int64)
		c.sum += v
	}
}

func (c *SingleIntSum) CheckCorrectness() error {
	if c.sum != c.Expected {
		return errors.Errorf("checker: column %d summed to %d, expected %d", c.Col, c.sum, c.Expected)
	}
	return nil
}

// SingleIntSort verifies one column is monotone nondecreasing across
// batches; nulls compare equal only to nulls, per spec.md §4.4. Per
// spec.md §9's open-question resolution, the column index used is
// always the constructor argument - not hardcoded to 0.
type SingleIntSort struct {
	col      int
	hasPrev  bool
	prevNull bool
	prev     int64
	fail     error
}

// NewSingleIntSort checks column col is sorted nondecreasing.
func NewSingleIntSort(col int) *SingleIntSort { return &SingleIntSort{col: col} }

func (c *SingleIntSort) ProcessBatch(rows []Row) {
	if c.fail != nil {
		return
	}
	for i, r := range rows {
		isNull := r[c.col] == nil
		// Nulls compare equal only to nulls: a null/non-null adjacency
		// never triggers the numeric comparison below.
		if c.hasPrev && !c.prevNull && !isNull {
			v, _ := r[c.col].(int64)
			if v < c.prev {
				c.fail = errors.Errorf("checker: row %d column %d value %d out of order after %d", i, c.col, v, c.prev)
				return
			}
		}
		c.hasPrev = true
		c.prevNull = isNull
		if !isNull {
			c.prev, _ = r[c.col].(int64)
		}
	}
}

func (c *SingleIntSort) CheckCorrectness() error { return c.fail }

// GenericChecker wraps a user-supplied per-row predicate and an optional
// finalize predicate, per spec.md §4.4's Generic variant.
type GenericChecker struct {
	PerRow   func(row Row) error
	Finalize func() error
	fail     error
}

// NewGenericChecker wires perRow (may be nil) and finalize (may be nil).
func NewGenericChecker(perRow func(row Row) error, finalize func() error) *GenericChecker {
	return &GenericChecker{PerRow: perRow, Finalize: finalize}
}

func (c *GenericChecker) ProcessBatch(rows []Row) {
	if c.fail != nil || c.PerRow == nil {
		return
	}
	for _, r := range rows {
		if err := c.PerRow(r); err != nil {
			c.fail = err
			return
		}
	}
}

func (c *GenericChecker) CheckCorrectness() error {
	if c.fail != nil {
		return c.fail
	}
	if c.Finalize != nil {
		return c.Finalize()
	}
	return nil
}

// MultiChecker fans out every batch to a list of child checkers, per
// spec.md §4.4's Multi variant.
type MultiChecker struct {
	Children []Checker
}

// NewMultiChecker fans out to children.
func NewMultiChecker(children ...Checker) *MultiChecker { return &MultiChecker{Children: children} }

func (c *MultiChecker) ProcessBatch(rows []Row) {
	for _, ch := range c.Children {
		ch.ProcessBatch(rows)
	}
}

func (c *MultiChecker) CheckCorrectness() error {
	for _, ch := range c.Children {
		if err := ch.CheckCorrectness(); err != nil {
			return err
		}
	}
	return nil
}
