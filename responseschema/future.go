package responseschema

import (
	"context"
	"fmt"
	"reflect"
)

// Future is a handler result computed on another goroutine. A handler that
// declares *Future[T] as its result is awaited before its payload is wrapped;
// the route is documented with T as its model.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine and returns its Future. A panic in fn is
// returned as an error from Await.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("responseschema: deferred handler panic: %v", r)
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Await blocks until the result is ready or ctx is done. Context errors are
// returned as they are.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) await(ctx context.Context) (any, error) {
	if f == nil {
		return nil, nil
	}
	v, err := f.Await(ctx)
	return v, err
}

func (*Future[T]) responseModel() reflect.Type {
	return ResponseModel(reflect.TypeFor[T]())
}

type deferred interface {
	await(ctx context.Context) (any, error)
}

// resolve waits for deferred results and returns immediate ones unchanged.
func resolve(ctx context.Context, out any) (any, error) {
	if d, ok := out.(deferred); ok {
		return d.await(ctx)
	}
	return out, nil
}
