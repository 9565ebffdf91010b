package afile

import "context"

// Runner is the worker-pool collaborator that executes backend units of work:
// blocking syscalls for the local backend, network round trips for the remote
// ones.
//
// Contract: a nil return from Run guarantees fn executes exactly once, even
// if the submitting operation is later abandoned; a non-nil return guarantees
// fn never ran and never will.
type Runner interface {
	Run(ctx context.Context, pri Priority, fn func()) error
}

// Offload schedules fn on r and waits for its result, honoring ctx while
// waiting.
//
// If scheduling is rejected, rejected (when non-nil) is called so the backend
// can restore any possession it checked out, and the rejection error is
// returned. If ctx expires while waiting, ctx.Err() is returned and fn keeps
// running to completion in the background; fn is responsible for checking its
// resources back in, which is what keeps an abandoned operation from
// corrupting the handle.
func Offload[T any](ctx context.Context, r Runner, pri Priority, rejected func(), fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	if err := r.Run(ctx, pri, func() {
		v, err := fn()
		done <- outcome{v: v, err: err}
	}); err != nil {
		if rejected != nil {
			rejected()
		}
		var zero T
		return zero, err
	}
	select {
	case out := <-done:
		return out.v, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
