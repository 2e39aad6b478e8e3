package dataflow

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaziness(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	env := NewEnvironment()
	d := Map(FromSlice([]int{1, 2, 3}), func(i int) int {
		calls.Add(1)
		return i * 2
	})

	var out []int
	Output(env, d, &out)
	assert.Zero(t, calls.Load(), "nothing runs before Execute")
	assert.Empty(t, out)

	require.NoError(t, env.Execute(context.Background()))
	assert.Equal(t, []int{2, 4, 6}, out)
	assert.Equal(t, int64(3), calls.Load())
}

func TestSharedUpstreamRunsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	env := NewEnvironment()
	base := Map(FromSlice([]int{1, 2, 3, 4}), func(i int) int {
		calls.Add(1)
		return i
	})

	var evens, odds []int
	Output(env, Filter(base, func(i int) bool { return i%2 == 0 }), &evens)
	Output(env, Filter(base, func(i int) bool { return i%2 == 1 }), &odds)

	require.NoError(t, env.Execute(context.Background()))
	assert.Equal(t, []int{2, 4}, evens)
	assert.Equal(t, []int{1, 3}, odds)
	assert.Equal(t, int64(4), calls.Load(), "the shared upstream is materialized once")
}

func TestGroupByReduceGroup(t *testing.T) {
	t.Parallel()

	words := FromSlice([]string{"apple", "avocado", "banana", "cherry", "citrus"})
	counts := ReduceGroup(
		GroupBy(words, func(w string) string { return w[:1] }),
		func(initial string, group []string) string {
			return initial + ":" + intToString(len(group))
		},
	)

	env := NewEnvironment()
	var out []string
	Output(env, counts, &out)
	require.NoError(t, env.Execute(context.Background()))

	sort.Strings(out)
	assert.Equal(t, []string{"a:2", "b:1", "c:2"}, out)
}

func intToString(i int) string {
	return string(rune('0' + i))
}

func TestReduce(t *testing.T) {
	t.Parallel()

	t.Run("folds the dataset", func(t *testing.T) {
		t.Parallel()
		sum := Reduce(FromSlice([]int{1, 2, 3, 4}), func(a, b int) int { return a + b })
		env := NewEnvironment()
		var out []int
		Output(env, sum, &out)
		require.NoError(t, env.Execute(context.Background()))
		assert.Equal(t, []int{10}, out)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()
		sum := Reduce(FromSlice[int](nil), func(a, b int) int { return a + b })
		env := NewEnvironment()
		var out []int
		Output(env, sum, &out)
		require.NoError(t, env.Execute(context.Background()))
		assert.Empty(t, out)
	})
}

func TestCombine(t *testing.T) {
	t.Parallel()

	left := FromSlice([]string{"a", "b"})
	right := FromSlice([]int{1, 2})
	crossed := Combine(left, right, func(ls []string, rs []int) []string {
		var out []string
		for _, l := range ls {
			for _, r := range rs {
				out = append(out, l+intToString(r))
			}
		}
		return out
	})

	env := NewEnvironment()
	var out []string
	Output(env, crossed, &out)
	require.NoError(t, env.Execute(context.Background()))
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, out)
}

func TestFlatMap(t *testing.T) {
	t.Parallel()

	letters := FlatMap(FromSlice([]string{"ab", "c"}), func(s string) []string {
		return strings.Split(s, "")
	})
	env := NewEnvironment()
	var out []string
	Output(env, letters, &out)
	require.NoError(t, env.Execute(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestExecuteFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := newDataset(func(context.Context) ([]int, error) { return nil, boom })

	env := NewEnvironment()
	var out []int
	Output(env, Map(failing, func(i int) int { return i }), &out)

	err := env.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out, "sink targets stay untouched on failure")
}

func TestExecuteRespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := NewEnvironment()
	var out []int
	Output(env, FromSlice([]int{1}), &out)

	err := env.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
