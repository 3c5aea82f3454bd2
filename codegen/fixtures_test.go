package codegen

import (
	"context"

	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
)

// rowsTranslator is a minimal Translator stub that feeds a fixed set of rows
// to whatever consumer is wired on top of it, used to test one operator
// translator in isolation from a real SeqScan/IndexScan.
type rowsTranslator struct {
	base
	rows    []storage.Row
	current storage.Row
	matPtr  bool
}

func (r *rowsTranslator) InitializeSetup(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (r *rowsTranslator) InitializeTeardown(ctx context.Context, ec *runtime.ExecutionContext) error {
	return nil
}

func (r *rowsTranslator) Produce(ctx context.Context, ec *runtime.ExecutionContext) error {
	for _, row := range r.rows {
		r.current = row
		if err := r.emit(ctx, ec); err != nil {
			return err
		}
	}
	return nil
}

func (r *rowsTranslator) GetOutput(attrIdx int) interface{} { return r.current[attrIdx] }
func (r *rowsTranslator) IsMaterializer() (bool, bool)      { return true, r.matPtr }
func (r *rowsTranslator) GetMaterializedTuple() storage.Row { return r.current }
