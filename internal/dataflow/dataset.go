// Package dataflow is a small, lazy, in-process dataset engine. A
// Dataset is only a description of work; nothing runs until the
// environment's single Execute call, which materializes every registered
// sink atomically. Shared upstream datasets are evaluated exactly once.
package dataflow

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Environment collects sinks for one pipeline and triggers them with a
// single Execute call. An environment is built per request and never
// reused.
type Environment struct {
	mu    sync.Mutex
	sinks []func(ctx context.Context) error
}

// NewEnvironment creates an empty execution environment.
func NewEnvironment() *Environment {
	return &Environment{}
}

// Execute runs all pending sinks. Sinks run concurrently; the first
// failure cancels the rest and is returned. After Execute returns, every
// sink target is either fully populated or the whole run has failed.
func (env *Environment) Execute(ctx context.Context) error {
	env.mu.Lock()
	sinks := env.sinks
	env.sinks = nil
	env.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		sink := sink
		g.Go(func() error { return sink(ctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("pipeline execution: %w", err)
	}
	return nil
}

func (env *Environment) addSink(sink func(ctx context.Context) error) {
	env.mu.Lock()
	env.sinks = append(env.sinks, sink)
	env.mu.Unlock()
}

// Dataset is a deferred computation producing a slice of T. Datasets are
// immutable descriptions; combinators return new datasets.
type Dataset[T any] struct {
	once    sync.Once
	compute func(ctx context.Context) ([]T, error)
	result  []T
	err     error
}

func newDataset[T any](compute func(ctx context.Context) ([]T, error)) *Dataset[T] {
	return &Dataset[T]{compute: compute}
}

// materialize evaluates the dataset at most once, caching the outcome so
// diamond-shaped pipelines share upstream work.
func (d *Dataset[T]) materialize(ctx context.Context) ([]T, error) {
	d.once.Do(func() {
		d.result, d.err = d.compute(ctx)
	})
	return d.result, d.err
}

// FromSlice wraps an in-memory slice as a dataset source.
func FromSlice[T any](items []T) *Dataset[T] {
	return newDataset(func(context.Context) ([]T, error) {
		return items, nil
	})
}

// Map applies f to every element.
func Map[T, U any](d *Dataset[T], f func(T) U) *Dataset[U] {
	return newDataset(func(ctx context.Context) ([]U, error) {
		in, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]U, len(in))
		for i, item := range in {
			out[i] = f(item)
		}
		return out, nil
	})
}

// Filter keeps the elements for which pred is true.
func Filter[T any](d *Dataset[T], pred func(T) bool) *Dataset[T] {
	return newDataset(func(ctx context.Context) ([]T, error) {
		in, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(in))
		for _, item := range in {
			if pred(item) {
				out = append(out, item)
			}
		}
		return out, nil
	})
}

// FlatMap applies f to every element and concatenates the results.
func FlatMap[T, U any](d *Dataset[T], f func(T) []U) *Dataset[U] {
	return newDataset(func(ctx context.Context) ([]U, error) {
		in, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		var out []U
		for _, item := range in {
			out = append(out, f(item)...)
		}
		return out, nil
	})
}

// Grouped is a dataset partitioned by a comparable key, pending a group
// reduction.
type Grouped[K comparable, T any] struct {
	source *Dataset[T]
	key    func(T) K
}

// GroupBy partitions a dataset by key. Elements within a group keep no
// ordering guarantee; downstream reducers must be order-independent.
func GroupBy[K comparable, T any](d *Dataset[T], key func(T) K) *Grouped[K, T] {
	return &Grouped[K, T]{source: d, key: key}
}

// ReduceGroup collapses each partition to a single element.
func ReduceGroup[K comparable, T, U any](g *Grouped[K, T], f func(K, []T) U) *Dataset[U] {
	return newDataset(func(ctx context.Context) ([]U, error) {
		in, err := g.source.materialize(ctx)
		if err != nil {
			return nil, err
		}
		groups := make(map[K][]T)
		order := make([]K, 0)
		for _, item := range in {
			k := g.key(item)
			if _, seen := groups[k]; !seen {
				order = append(order, k)
			}
			groups[k] = append(groups[k], item)
		}
		out := make([]U, 0, len(order))
		for _, k := range order {
			out = append(out, f(k, groups[k]))
		}
		return out, nil
	})
}

// Reduce folds the whole dataset pairwise with an associative,
// commutative function. An empty dataset yields an empty result.
func Reduce[T any](d *Dataset[T], f func(T, T) T) *Dataset[T] {
	return newDataset(func(ctx context.Context) ([]T, error) {
		in, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		if len(in) == 0 {
			return nil, nil
		}
		acc := in[0]
		for _, item := range in[1:] {
			acc = f(acc, item)
		}
		return []T{acc}, nil
	})
}

// Combine joins two fully materialized datasets through f. It is the
// engine's stand-in for broadcast joins: f sees both inputs at once.
func Combine[A, B, C any](a *Dataset[A], b *Dataset[B], f func([]A, []B) []C) *Dataset[C] {
	return newDataset(func(ctx context.Context) ([]C, error) {
		left, err := a.materialize(ctx)
		if err != nil {
			return nil, err
		}
		right, err := b.materialize(ctx)
		if err != nil {
			return nil, err
		}
		return f(left, right), nil
	})
}

// Output registers a sink copying the dataset into dest when the
// environment executes. No data is produced before Execute.
func Output[T any](env *Environment, d *Dataset[T], dest *[]T) {
	env.addSink(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := d.materialize(ctx)
		if err != nil {
			return err
		}
		*dest = append([]T(nil), result...)
		return nil
	})
}
