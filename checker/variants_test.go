package checker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumCheckerCountsAcrossBatches(t *testing.T) {
	c := NewNumChecker(3)
	c.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	require.Error(t, c.CheckCorrectness())
	c.ProcessBatch([]Row{{int64(3)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestSingleIntComparisonFailsOnFirstViolation(t *testing.T) {
	c := NewSingleIntComparison(0, func(v, rhs int64) bool { return v > rhs }, 5)
	c.ProcessBatch([]Row{{int64(6)}, {int64(3)}, {int64(9)}})
	err := c.CheckCorrectness()
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 1")
}

func TestSingleIntComparisonPassesWhenEveryRowSatisfies(t *testing.T) {
	c := NewSingleIntComparison(0, func(v, rhs int64) bool { return v >= rhs }, 5)
	c.ProcessBatch([]Row{{int64(5)}, {int64(10)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestSingleIntComparisonRejectsNonIntegerColumn(t *testing.T) {
	c := NewSingleIntComparison(0, func(v, rhs int64) bool { return true }, 0)
	c.ProcessBatch([]Row{{"not an int"}})
	require.Error(t, c.CheckCorrectness())
}

func TestSingleIntJoinVerifiesEqualityAcrossColumns(t *testing.T) {
	c := NewSingleIntJoin(0, 1)
	c.ProcessBatch([]Row{{int64(1), int64(1)}, {int64(2), int64(2)}})
	require.NoError(t, c.CheckCorrectness())

	c2 := NewSingleIntJoin(0, 1)
	c2.ProcessBatch([]Row{{int64(1), int64(2)}})
	require.Error(t, c2.CheckCorrectness())
}

func TestSingleIntSumAccumulatesAndSkipsNulls(t *testing.T) {
	c := NewSingleIntSum(0, 15)
	c.ProcessBatch([]Row{{int64(5)}, {nil}, {int64(10)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestSingleIntSumFailsOnMismatch(t *testing.T) {
	c := NewSingleIntSum(0, 100)
	c.ProcessBatch([]Row{{int64(1)}})
	require.Error(t, c.CheckCorrectness())
}

func TestSingleIntSortAcceptsNondecreasingAcrossBatches(t *testing.T) {
	c := NewSingleIntSort(0)
	c.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	c.ProcessBatch([]Row{{int64(2)}, {int64(5)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestSingleIntSortRejectsOutOfOrderValue(t *testing.T) {
	c := NewSingleIntSort(0)
	c.ProcessBatch([]Row{{int64(5)}, {int64(1)}})
	require.Error(t, c.CheckCorrectness())
}

func TestSingleIntSortNullsOnlyCompareEqualToNulls(t *testing.T) {
	c := NewSingleIntSort(0)
	c.ProcessBatch([]Row{{nil}, {nil}, {int64(3)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestSingleIntSortUsesConfiguredColumnNotColumnZero(t *testing.T) {
	c := NewSingleIntSort(1)
	c.ProcessBatch([]Row{{int64(99), int64(1)}, {int64(0), int64(2)}})
	require.NoError(t, c.CheckCorrectness())
}

func TestGenericCheckerRunsPerRowThenFinalize(t *testing.T) {
	var seen []int64
	finalizeCalled := false
	c := NewGenericChecker(
		func(row Row) error { seen = append(seen, row[0].(int64)); return nil },
		func() error { finalizeCalled = true; return nil },
	)
	c.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	require.NoError(t, c.CheckCorrectness())
	require.Equal(t, []int64{1, 2}, seen)
	require.True(t, finalizeCalled)
}

func TestGenericCheckerStopsAtFirstPerRowError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	c := NewGenericChecker(func(row Row) error {
		calls++
		return boom
	}, nil)
	c.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	require.Equal(t, 1, calls)
	require.Equal(t, boom, c.CheckCorrectness())
}

func TestMultiCheckerFansOutToEveryChild(t *testing.T) {
	num := NewNumChecker(2)
	sum := NewSingleIntSum(0, 3)
	m := NewMultiChecker(num, sum)
	m.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	require.NoError(t, m.CheckCorrectness())
}

func TestMultiCheckerReportsFirstChildFailure(t *testing.T) {
	num := NewNumChecker(5)
	sum := NewSingleIntSum(0, 3)
	m := NewMultiChecker(num, sum)
	m.ProcessBatch([]Row{{int64(1)}, {int64(2)}})
	require.Error(t, m.CheckCorrectness())
}
