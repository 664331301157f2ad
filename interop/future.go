// Copyright 2026 The aplusgo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package interop bridges the promise core to platform-native futures and
// coroutine-like computations.
//
// A Future is the native completion handle of this module: a one-shot
// (value, error) pair with a done channel and completion callbacks.
// A Coroutine is a suspended computation that can be scheduled onto a
// task runner, producing a Future.
package interop

import (
	"context"
	"sync"
)

// Future is a one-shot completion handle.
// It settles exactly once, through SetResult or SetError; later calls are
// ignored.
type Future struct {
	done chan struct{}

	// mu guards the fields below, and the close of the done channel.
	mu        sync.Mutex
	settled   bool
	value     any
	err       error
	callbacks []func(val any, err error)
}

// NewFuture returns a pending Future.
func NewFuture() *Future {
	return &Future{
		done: make(chan struct{}),
	}
}

func (f *Future) settle(v any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	// callbacks run outside the critical section, in registration order
	for _, cb := range callbacks {
		cb(v, err)
	}
}

// SetResult settles the future successfully with v.
func (f *Future) SetResult(v any) {
	f.settle(v, nil)
}

// SetError settles the future with the failure err.
func (f *Future) SetError(err error) {
	if err == nil {
		panic("interop: the provided error is nil")
	}
	f.settle(nil, err)
}

// AddDoneCallback registers fn to run once the future settles.
// If the future is already settled, fn is invoked immediately, on the
// calling goroutine.
func (f *Future) AddDoneCallback(fn func(val any, err error)) {
	if fn == nil {
		panic("interop: the provided callback is nil")
	}

	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()

	fn(v, err)
}

// Done returns a channel that's closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
// It could be wrong the moment the method returns.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the future's outcome.
// It must not be called before the done channel is closed.
func (f *Future) Result() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Await blocks until the future settles or ctx is done, and returns the
// outcome, letting a promise be consumed incrementally by a cooperative
// scheduler external to the core.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Coroutine is a suspended computation: it runs to completion when called,
// producing a value or a failure.
type Coroutine func() (any, error)

// Runner schedules zero-argument tasks for deferred execution.
// The promise core's scheduler satisfies it.
type Runner interface {
	Invoke(task func())
}

// EnsureFuture schedules the coroutine co onto r and returns a Future
// holding its eventual outcome.
func EnsureFuture(co Coroutine, r Runner) *Future {
	if co == nil {
		panic("interop: the provided coroutine is nil")
	}

	f := NewFuture()
	r.Invoke(func() {
		v, err := co()
		if err != nil {
			f.SetError(err)
		} else {
			f.SetResult(v)
		}
	})
	return f
}
