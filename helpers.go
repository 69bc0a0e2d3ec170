package parx

import (
	"context"
	"slices"

	"github.com/baxromumarov/parx/internal/errors"
)

type attempt[R any] struct {
	idx int
	r   R
	err error
}

// MapSlice calls fn for each item concurrently and returns the results in
// the same order as items, whatever the iteration order. It uses
// [FailFast] by default; pass [WithPolicy]([CollectErrors]) to run every
// item and get every error.
//
// On error, MapSlice returns nil and the error.
//
//	prices, err := parx.MapSlice(ctx, products, func(ctx context.Context, p Product) (float64, error) {
//	    return fetchPrice(ctx, p)
//	}, parx.WithNumThreads(8))
func MapSlice[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), opts ...Option) ([]R, error) {
	cfg := buildConfig(opts)
	p := FromRange(0, len(items)).WithParams(cfg.params).WithOrchestrator(cfg.orch).WithContext(ctx)

	var tries []attempt[R]
	var err error
	if cfg.policy == FailFast {
		tries, err = TryMap(p, func(i int) (attempt[R], error) {
			r, err := fn(ctx, items[i])
			return attempt[R]{idx: i, r: r}, err
		}).Collect()
	} else {
		tries, err = Map(p, func(i int) attempt[R] {
			r, err := fn(ctx, items[i])
			return attempt[R]{idx: i, r: r, err: err}
		}).Collect()
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tries, func(a, b attempt[R]) int { return a.idx - b.idx })

	var errs *errors.MultiError
	results := make([]R, len(items))
	for _, t := range tries {
		if t.err != nil {
			errs = errs.Append(t.err)
			continue
		}
		results[t.idx] = t.r
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return results, nil
}

// ForEachSlice calls fn for each item concurrently. Error handling follows
// the configured [Policy].
//
//	err := parx.ForEachSlice(ctx, urls, func(ctx context.Context, u string) error {
//	    return fetch(ctx, u)
//	}, parx.WithNumThreads(10))
func ForEachSlice[T any](ctx context.Context, items []T, fn func(ctx context.Context, item T) error, opts ...Option) error {
	_, err := MapSlice(ctx, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	}, opts...)
	return err
}
