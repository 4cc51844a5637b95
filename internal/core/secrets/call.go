package secrets

import (
	"context"
)

// UpdateCallback receives the outcome of an asynchronous secret update.
type UpdateCallback func(data map[string]string, err error)

// Call is a handle on an in-flight asynchronous backend request.
type Call struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel asks the backend to abandon the request. The callback still fires.
func (c *Call) Cancel() {
	c.cancel()
}

// Done is closed once the callback has returned.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// RunAsync runs op on its own goroutine and reports the result to callback.
// The operation context is detached from ctx's cancellation so that a request
// ending does not abort a backend write halfway; use Call.Cancel instead.
func RunAsync(ctx context.Context, op func(ctx context.Context) (map[string]string, error), callback UpdateCallback) *Call {
	opCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	call := &Call{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(call.done)
		defer cancel()

		data, err := op(opCtx)
		callback(data, err)
	}()

	return call
}
