package sema

import (
	"github.com/hashicorp/go-multierror"

	"github.com/parsec0re/terrier/ast"
)

// Diagnostic is one positioned, structured failure. spec.md §7: "Each
// failure emits one diagnostic keyed by the call position and stops
// checking this call."
type Diagnostic struct {
	Pos    ast.Position
	Callee string
	Err    error
}

// Reporter accumulates diagnostics for one compilation. The analyzer never
// throws: every failure path reports through a Reporter and returns,
// leaving the offending call's type unresolved.
type Reporter struct {
	diags []Diagnostic
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter { return &Reporter{} }

// Report records one diagnostic.
func (r *Reporter) Report(pos ast.Position, callee string, err error) {
	r.diags = append(r.diags, Diagnostic{Pos: pos, Callee: callee, Err: err})
}

// Diagnostics returns the itemized, positioned list spec.md §7 requires
// user-visible compile errors to surface as.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }

// HasErrors reports whether any diagnostic was recorded. spec.md §7:
// "compilation yields no code if any diagnostic was emitted."
func (r *Reporter) HasErrors() bool { return len(r.diags) > 0 }

// Err folds every diagnostic into one error via hashicorp/go-multierror,
// for callers that want a single error to test rather than walk
// Diagnostics() themselves. Returns nil when there are no diagnostics.
func (r *Reporter) Err() error {
	if len(r.diags) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, d := range r.diags {
		merr = multierror.Append(merr, d.Err)
	}
	return merr
}
