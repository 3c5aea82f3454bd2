package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateForInitializesOnce(t *testing.T) {
	c := NewThreadStateContainer(2)
	calls := 0
	init := func() interface{} { calls++; return calls }
	first := c.StateFor(0, init)
	second := c.StateFor(0, init)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestMovePartitionsClearsAfterMerge(t *testing.T) {
	c := NewThreadStateContainer(3)
	c.StateFor(0, func() interface{} { return 10 })
	c.StateFor(2, func() interface{} { return 30 })

	var merged []int
	c.MovePartitions(func(state interface{}) { merged = append(merged, state.(int)) })
	require.ElementsMatch(t, []int{10, 30}, merged)

	var remaining []int
	c.ForEach(func(i int, state interface{}) { remaining = append(remaining, state.(int)) })
	require.Empty(t, remaining)
}

func TestParallelPartitionedScanRunsEveryPartition(t *testing.T) {
	n := 8
	seen := make([]int32, n)
	ParallelPartitionedScan(n, func(p int) { seen[p] = 1 })
	for _, v := range seen {
		require.Equal(t, int32(1), v)
	}
}
