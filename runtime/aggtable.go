package runtime

import "sync"

// AggPayload is one group's accumulator state: the group key values
// followed by one slot per aggregator the Aggregation translator builds
// (COUNT/SUM/AVG/MIN/MAX), addressed by the emitted AggInit/AggAdvance/
// AggMerge/AggResult calls.
type AggPayload struct {
	Key        []interface{}
	Aggregates []interface{}
}

// AggregationHashTable is the build-side structure Aggregation's build
// phase drives with AggHashTableLookup per input row, per spec.md §4.2.
// On a lookup miss the translator allocates a fresh AggPayload, runs
// AggInit over its aggregator fields, then AggAdvance; on a hit it runs
// AggAdvance (same-partition) or AggMerge (cross-partition, parallel
// build).
type AggregationHashTable struct {
	mu       sync.Mutex
	groups   map[uint64]*AggPayload
}

// NewAggregationHashTable returns an empty AggregationHashTable.
func NewAggregationHashTable() *AggregationHashTable {
	return &AggregationHashTable{groups: make(map[uint64]*AggPayload)}
}

// AggHashTableLookup returns the payload for groupHash, and whether it
// already existed (a hit) versus was just allocated via newPayload (a
// miss).
func (ht *AggregationHashTable) AggHashTableLookup(groupHash uint64, newPayload func() *AggPayload) (*AggPayload, bool) {
	ht.mu.Lock()
	defer ht.mu.Unlock()
	p, hit := ht.groups[groupHash]
	if !hit {
		p = newPayload()
		ht.groups[groupHash] = p
	}
	return p, hit
}

// AggHashTableProcessBatch drains every row surviving in pci (per
// spec.md §9's resolution of the AggHashTableProcessBatch contract:
// pci's concrete type is **ProjectedColumnsIterator at the call site,
// dereferenced once here), hashing groupKeyCols to bucket each row and
// invoking process for the matched-or-new payload.
func (ht *AggregationHashTable) AggHashTableProcessBatch(pci **ProjectedColumnsIterator, groupHash func(*ProjectedColumnsIterator) uint64, newPayload func() *AggPayload, process func(p *AggPayload, row *ProjectedColumnsIterator, hit bool)) {
	it := *pci
	for it.PCIHasNext() {
		it.PCIAdvance()
		h := groupHash(it)
		p, hit := ht.AggHashTableLookup(h, newPayload)
		process(p, it, hit)
	}
}

// AggregationHashTableIter walks every finalized group.
type AggregationHashTableIter struct {
	payloads []*AggPayload
	pos      int
}

// AggHashTableIterInit opens an iterator over every group in ht.
func (ht *AggregationHashTable) AggHashTableIterInit() *AggregationHashTableIter {
	ht.mu.Lock()
	defer ht.mu.Unlock()
	payloads := make([]*AggPayload, 0, len(ht.groups))
	for _, p := range ht.groups {
		payloads = append(payloads, p)
	}
	return &AggregationHashTableIter{payloads: payloads, pos: -1}
}

// AggHashTableIterHasNext reports whether another group remains.
func (it *AggregationHashTableIter) AggHashTableIterHasNext() bool {
	return it.pos+1 < len(it.payloads)
}

// AggHashTableIterAdvance moves to the next group.
func (it *AggregationHashTableIter) AggHashTableIterAdvance() { it.pos++ }

// AggHashTableIterGetRow returns the group the iterator currently sits
// on.
func (it *AggregationHashTableIter) AggHashTableIterGetRow() *AggPayload {
	if it.pos < 0 || it.pos >= len(it.payloads) {
		return nil
	}
	return it.payloads[it.pos]
}

// MergePartitions folds every thread-local AggregationHashTable built
// during a parallel build phase into ht, merging colliding groups via
// merge (an AggMerge invocation per translator semantics).
func (ht *AggregationHashTable) MergePartitions(threads *ThreadStateContainer, merge func(dst, src *AggPayload)) {
	threads.MovePartitions(func(state interface{}) {
		part, ok := state.(*AggregationHashTable)
		if !ok {
			return
		}
		ht.mu.Lock()
		for h, src := range part.groups {
			if dst, hit := ht.groups[h]; hit {
				merge(dst, src)
			} else {
				ht.groups[h] = src
			}
		}
		ht.mu.Unlock()
	})
}
