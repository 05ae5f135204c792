package dataflow

import (
	"context"
	"sync"
	"time"
)

// Stream is a read-only channel of messages.
type Stream[T any] <-chan T

// From creates a stream from a slice of items.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

// Map transforms the stream using the provided function.
// Supports parallelism via WithWorkers and retries via WithRetry.
// Items whose final attempt fails are dropped unless an error handler
// says otherwise; ordering across workers is not preserved.
func Map[I, O any](ctx context.Context, input Stream[I], fn func(I) (O, error), opts ...Option) Stream[O] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	out := make(chan O, cfg.bufferSize)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				res, err := attempt(ctx, cfg, func() (O, error) { return fn(msg) })
				if err != nil {
					if cfg.errorHandler != nil {
						cfg.errorHandler(err)
					}
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Filter keeps items where fn returns true.
func Filter[T any](ctx context.Context, input Stream[T], fn func(T) bool, opts ...Option) Stream[T] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	out := make(chan T, cfg.bufferSize)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				if !fn(msg) {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- msg:
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// ForEach executes an action for every item in the stream.
// It blocks until the stream is exhausted or the context is cancelled,
// and returns the first unhandled error encountered.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(T) error, opts ...Option) error {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				_, err := attempt(ctx, cfg, func() (struct{}, error) { return struct{}{}, fn(msg) })
				if err != nil {
					if cfg.errorHandler != nil && cfg.errorHandler(err) {
						continue
					}
					errOnce.Do(func() { firstErr = err })
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}

// Collect drains the stream into a slice.
func Collect[T any](ctx context.Context, input Stream[T]) []T {
	var items []T
	for {
		select {
		case <-ctx.Done():
			return items
		case msg, ok := <-input:
			if !ok {
				return items
			}
			items = append(items, msg)
		}
	}
}

// attempt runs fn once plus up to cfg.maxRetries retries with backoff.
func attempt[T any](ctx context.Context, cfg *config, fn func() (T, error)) (T, error) {
	res, err := fn()
	if err == nil || cfg.maxRetries == 0 {
		return res, err
	}

	for i := 1; i <= cfg.maxRetries; i++ {
		if cfg.backoff != nil {
			select {
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			case <-time.After(cfg.backoff(i)):
			}
		}
		res, err = fn()
		if err == nil {
			break
		}
	}
	return res, err
}
