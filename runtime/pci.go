package runtime

import "github.com/parsec0re/terrier/storage"

// VectorSize is the default number of rows a ProjectedColumnsIterator
// batches per vector, mirroring the vectorized-execution width a
// TableVectorIterator yields (spec.md §4.7). SeqScan's translator always
// uses this value.
const VectorSize = 2048

// ProjectedColumnsIterator (PCI) is a vector of rows already projected
// to a fixed column list, plus a per-row validity bitmap the vectorized
// filter manager narrows. SeqScan's inner loop iterates a PCI with
// PCIHasNext/PCIAdvance, per spec.md §4.2.
type ProjectedColumnsIterator struct {
	rows  []storage.Row
	valid []bool
	cols  []storage.ColumnID
	pos   int
}

// NewProjectedColumnsIterator wraps rows, all valid until a filter
// narrows them.
func NewProjectedColumnsIterator(cols []storage.ColumnID, rows []storage.Row) *ProjectedColumnsIterator {
	valid := make([]bool, len(rows))
	for i := range valid {
		valid[i] = true
	}
	return &ProjectedColumnsIterator{rows: rows, valid: valid, cols: cols, pos: -1}
}

// PCIHasNext reports whether any valid row remains starting at or after
// the current position.
func (p *ProjectedColumnsIterator) PCIHasNext() bool {
	for i := p.pos + 1; i < len(p.rows); i++ {
		if p.valid[i] {
			return true
		}
	}
	return false
}

// PCIAdvance moves to the next valid row.
func (p *ProjectedColumnsIterator) PCIAdvance() {
	p.pos++
	for p.pos < len(p.rows) && !p.valid[p.pos] {
		p.pos++
	}
}

// PCIMatch marks the current row invalid when ok is false; this is the
// synthetic cast target sema.checkPCIMatch wires a bool-valued filter
// predicate into.
func (p *ProjectedColumnsIterator) PCIMatch(ok bool) {
	if p.pos >= 0 && p.pos < len(p.valid) {
		p.valid[p.pos] = ok
	}
}

// NumSelected counts rows still marked valid.
func (p *ProjectedColumnsIterator) NumSelected() int {
	n := 0
	for _, v := range p.valid {
		if v {
			n++
		}
	}
	return n
}

func (p *ProjectedColumnsIterator) colIndex(col storage.ColumnID) int {
	for i, c := range p.cols {
		if c == col {
			return i
		}
	}
	return -1
}

// PCIGet fetches the raw value of col in the current row.
func (p *ProjectedColumnsIterator) PCIGet(col storage.ColumnID) interface{} {
	idx := p.colIndex(col)
	if idx < 0 || p.pos < 0 || p.pos >= len(p.rows) {
		return nil
	}
	return p.rows[p.pos][idx]
}

// PCIGetInt fetches the current row's col as an int64, SqlInteger's
// underlying representation.
func (p *ProjectedColumnsIterator) PCIGetInt(col storage.ColumnID) int64 {
	v, _ := p.PCIGet(col).(int64)
	return v
}

// PCIGetBool fetches the current row's col as a bool, SqlBool's
// underlying representation.
func (p *ProjectedColumnsIterator) PCIGetBool(col storage.ColumnID) bool {
	v, _ := p.PCIGet(col).(bool)
	return v
}

// PCIGetReal fetches the current row's col as a float64, SqlReal's
// underlying representation.
func (p *ProjectedColumnsIterator) PCIGetReal(col storage.ColumnID) float64 {
	v, _ := p.PCIGet(col).(float64)
	return v
}

// PCIGetString fetches the current row's col as a string, both
// SqlStringVal's and SqlDate's underlying representation.
func (p *ProjectedColumnsIterator) PCIGetString(col storage.ColumnID) string {
	v, _ := p.PCIGet(col).(string)
	return v
}

// Reset rewinds the PCI to before its first row, for a fresh pass (e.g.
// the hash-join probe side re-scanning after a build-phase snapshot).
func (p *ProjectedColumnsIterator) Reset() { p.pos = -1 }

// CurrentRow exposes the whole current row, used by translators building
// payload copies (e.g. output materialization, hash key extraction).
func (p *ProjectedColumnsIterator) CurrentRow() storage.Row {
	if p.pos < 0 || p.pos >= len(p.rows) {
		return nil
	}
	return p.rows[p.pos]
}

// CurrentSlot reports the current row's 0-based position within this
// PCI's vector (-1 before the first PCIAdvance).
func (p *ProjectedColumnsIterator) CurrentSlot() int { return p.pos }
