package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/plan"
	"github.com/parsec0re/terrier/runtime"
	"github.com/parsec0re/terrier/storage"
	"github.com/parsec0re/terrier/types"
)

func TestOutputTranslatorFlushesBatchesAndTracksNulls(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{
		{int64(1), nil},
		{int64(2), "b"},
		{int64(3), "c"},
	}}
	reg := types.NewRegistry()
	schema := plan.Schema{{Name: "id", Type: reg.SqlIntegerType()}, {Name: "label", Type: reg.SqlStringValType()}}
	scanNode := plan.NewSeqScanNode("t", schema, nil)
	outNode := plan.NewOutputNode(scanNode)

	var flushed [][][]interface{}
	out := NewOutputTranslator(outNode, child, 2, func(tuples [][]interface{}, n, size int) {
		flushed = append(flushed, tuples)
	})

	ctx := context.Background()
	ec := runtime.NewExecutionContext(nil, nil, 1)
	require.NoError(t, out.Produce(ctx, ec))

	require.Len(t, flushed, 1)
	require.Len(t, flushed[0], 2)
	require.Nil(t, flushed[0][0][1])
	require.Equal(t, int64(1), flushed[0][0][0])

	require.NoError(t, out.InitializeTeardown(ctx, ec))
	require.Len(t, flushed, 2)
	require.Len(t, flushed[1], 1)
	require.Equal(t, "c", flushed[1][0][1])
	require.Equal(t, 3, out.TotalTuples())
}

func TestOutputTranslatorGetOutputPassesThroughToChild(t *testing.T) {
	child := &rowsTranslator{rows: []storage.Row{{int64(7)}}}
	scanNode := plan.NewSeqScanNode("t", plan.Schema{{Name: "id"}}, nil)
	outNode := plan.NewOutputNode(scanNode)
	out := NewOutputTranslator(outNode, child, 10, func(tuples [][]interface{}, n, size int) {})

	ctx := context.Background()
	ec := runtime.NewExecutionContext(nil, nil, 1)
	require.NoError(t, out.Produce(ctx, ec))
	require.Equal(t, int64(7), out.GetOutput(0))
}
