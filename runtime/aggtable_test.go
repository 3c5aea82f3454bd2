package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsec0re/terrier/storage"
)

func TestAggHashTableLookupMissThenHit(t *testing.T) {
	ht := NewAggregationHashTable()
	newPayload := func() *AggPayload { return &AggPayload{Aggregates: []interface{}{int64(0)}} }

	p1, hit := ht.AggHashTableLookup(1, newPayload)
	require.False(t, hit)
	p1.Aggregates[0] = int64(5)

	p2, hit := ht.AggHashTableLookup(1, newPayload)
	require.True(t, hit)
	require.Same(t, p1, p2)
	require.Equal(t, int64(5), p2.Aggregates[0])
}

func TestAggHashTableProcessBatchGroupsRows(t *testing.T) {
	ht := NewAggregationHashTable()
	cols := []storage.ColumnID{0, 1}
	rows := []storage.Row{
		{"a", int64(1)},
		{"b", int64(2)},
		{"a", int64(3)},
	}
	pci := NewProjectedColumnsIterator(cols, rows)

	groupHash := func(it *ProjectedColumnsIterator) uint64 { return Hash(it.PCIGetString(0)) }
	newPayload := func() *AggPayload { return &AggPayload{Aggregates: []interface{}{int64(0)}} }
	process := func(p *AggPayload, row *ProjectedColumnsIterator, hit bool) {
		sum, _ := p.Aggregates[0].(int64)
		p.Aggregates[0] = sum + row.PCIGetInt(1)
	}

	ht.AggHashTableProcessBatch(&pci, groupHash, newPayload, process)

	require.Len(t, ht.groups, 2)
	aSum, _ := ht.groups[Hash("a")].Aggregates[0].(int64)
	bSum, _ := ht.groups[Hash("b")].Aggregates[0].(int64)
	require.Equal(t, int64(4), aSum)
	require.Equal(t, int64(2), bSum)
}

func TestAggregationHashTableIterVisitsEveryGroup(t *testing.T) {
	ht := NewAggregationHashTable()
	ht.AggHashTableLookup(1, func() *AggPayload { return &AggPayload{Key: []interface{}{"a"}} })
	ht.AggHashTableLookup(2, func() *AggPayload { return &AggPayload{Key: []interface{}{"b"}} })

	it := ht.AggHashTableIterInit()
	seen := map[string]bool{}
	for it.AggHashTableIterHasNext() {
		it.AggHashTableIterAdvance()
		seen[it.AggHashTableIterGetRow().Key[0].(string)] = true
	}
	require.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

func TestMergePartitionsCombinesAcrossThreadsViaMergeFunc(t *testing.T) {
	ht := NewAggregationHashTable()
	threads := NewThreadStateContainer(2)
	for i := 0; i < 2; i++ {
		part := threads.StateFor(i, func() interface{} { return NewAggregationHashTable() }).(*AggregationHashTable)
		part.AggHashTableLookup(1, func() *AggPayload { return &AggPayload{Aggregates: []interface{}{int64(1)}} })
	}

	merge := func(dst, src *AggPayload) {
		d, _ := dst.Aggregates[0].(int64)
		s, _ := src.Aggregates[0].(int64)
		dst.Aggregates[0] = d + s
	}
	ht.MergePartitions(threads, merge)

	it := ht.AggHashTableIterInit()
	require.True(t, it.AggHashTableIterHasNext())
	it.AggHashTableIterAdvance()
	require.Equal(t, int64(2), it.AggHashTableIterGetRow().Aggregates[0])
	require.False(t, it.AggHashTableIterHasNext())
}
