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

package promise

import (
	"fmt"
	"sync"

	"github.com/aplusgo/promise/internal/status"
	"github.com/aplusgo/promise/interop"
	"github.com/aplusgo/promise/trace"
)

// State is the observable state of a promise.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Fulfilled:
		return "Fulfilled"
	case Rejected:
		return "Rejected"
	default:
		return "<UnknownState>"
	}
}

// Promise is a value that starts undetermined and is eventually settled
// exactly once, either fulfilled with a value or rejected with an error.
//
// The zero value is not usable, use New or one of the factories.
type Promise struct {
	sched Scheduler

	// trace is the diagnostic context snapshotted at creation time.
	trace *trace.Context

	// mu guards all fields below.
	// the callback store is mutated under it, and the value/reason slots
	// are written under it before the status transition is published, so
	// readers that observed a settled status read a complete result.
	mu sync.Mutex

	// holds the success value, present only once fulfilled.
	value any

	// holds the failure reason, present only once rejected.
	reason error

	// followee is the promise this one delegates its outcome to, set only
	// while the status carries the Following flag.
	followee *Promise

	// the callback store: an inline slot for the first subscriber, an
	// overflow map for the rest, and the count of active subscribers.
	sub0     subscriber
	subs     map[int]subscriber
	subCount int

	// future is the lazily-created backing platform-future handle.
	// created once, cached.
	future *interop.Future

	// hold the state and the behavior flags of the promise.
	// refer to the docs of the PromStatus type for more info.
	status status.PromStatus
}

// New creates a promise and runs executor with its resolve and reject
// entry points, inside a diagnostic context scope.
// A panic raised by the executor rejects the promise.
// A nil executor creates a plain pending promise.
func New(executor func(resolve func(val any), reject func(reason error))) *Promise {
	p := newPromise(nil)
	if executor != nil {
		p.resolveFromExecutor(executor)
	}
	return p
}

func newPromise(s Scheduler) *Promise {
	if s == nil {
		s = DefaultScheduler()
	}
	return &Promise{
		sched: s,
		trace: trace.Peek(),
	}
}

// Then registers callbacks on this promise and returns a dependent
// promise holding their eventual result.
//
// Either callback may be nil, meaning no action is taken on that path,
// and the value or reason passes through to the returned promise
// unchanged.
// The value returned from a callback feeds the dependent promise's
// resolution, so returning another promise, or any thenable, chains
// transparently.
// A non-nil error returned from a callback, or a panic raised inside it,
// rejects the dependent promise.
func (p *Promise) Then(onFulfilled OnFulfilled, onRejected OnRejected) *Promise {
	return p.then(onFulfilled, onRejected)
}

// Catch registers a rejection callback only.
// It behaves the same as calling Then(nil, onRejected).
func (p *Promise) Catch(onRejected OnRejected) *Promise {
	if onRejected == nil {
		panic(nilCallbackPanicMsg)
	}
	return p.then(nil, onRejected)
}

// Done registers callbacks on this promise as a terminal leaf of the
// chain: no dependent promise is returned, and a rejection reaching the
// leaf with no rejection callback is escalated to the scheduler's fatal
// sink.
func (p *Promise) Done(onFulfilled OnFulfilled, onRejected OnRejected) {
	dep := newPromise(p.sched)
	// the flag must be in place before registration, the promise may
	// already be settled and notify during it
	dep.status.SetFinal()
	p.subscribe(subscriber{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		promise:     dep,
	})
}

// ThenAll calls Then for each handler pair provided, and returns the
// dependent promises, in order.
func (p *Promise) ThenAll(handlers []Handlers) []*Promise {
	if len(handlers) == 0 {
		return nil
	}

	proms := make([]*Promise, 0, len(handlers))
	for _, h := range handlers {
		proms = append(proms, p.then(h.Fulfilled, h.Rejected))
	}
	return proms
}

// DoneAll calls Done for each handler pair provided.
func (p *Promise) DoneAll(handlers []Handlers) {
	for _, h := range handlers {
		p.Done(h.Fulfilled, h.Rejected)
	}
}

// then implements callback registration for all the chaining calls.
// the registration lands on the ultimate target of the following-chain,
// so the dependent promise reacts to the outcome this promise will adopt.
func (p *Promise) then(onFulfilled OnFulfilled, onRejected OnRejected) *Promise {
	dep := newPromise(p.sched)
	p.subscribe(subscriber{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		promise:     dep,
	})
	return dep
}

// State returns the state of the promise, walking to the ultimate
// followee when the promise delegates its outcome.
// It could be wrong the moment the method returns.
func (p *Promise) State() State {
	t := p.target()
	s := t.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		return Fulfilled
	case status.IsStateRejected(s):
		return Rejected
	default:
		return Pending
	}
}

// IsPending reports whether the promise is still pending.
// It could be wrong the moment the method returns.
func (p *Promise) IsPending() bool {
	return p.State() == Pending
}

// IsFulfilled reports whether the promise has been fulfilled.
func (p *Promise) IsFulfilled() bool {
	return p.State() == Fulfilled
}

// IsRejected reports whether the promise has been rejected.
func (p *Promise) IsRejected() bool {
	return p.State() == Rejected
}

// Value returns the success value, or nil if the promise isn't fulfilled.
func (p *Promise) Value() any {
	t := p.target()
	if !status.IsStateFulfilled(t.status.Load()) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Reason returns the failure reason, or nil if the promise isn't rejected.
func (p *Promise) Reason() error {
	t := p.target()
	if !status.IsStateRejected(t.status.Load()) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// Future returns the backing platform-future handle of this promise,
// creating and caching it on the first call.
// The future settles when the promise does.
func (p *Promise) Future() *interop.Future {
	p.mu.Lock()
	f := p.future
	created := false
	if f == nil {
		f = interop.NewFuture()
		p.future = f
		created = true
	}
	p.mu.Unlock()

	if created {
		fut := f
		p.then(
			func(val any) (any, error) {
				fut.SetResult(val)
				return nil, nil
			},
			func(reason error) (any, error) {
				fut.SetError(reason)
				return nil, nil
			},
		)
	}
	return f
}

func (p *Promise) String() string {
	t := p.target()
	s := t.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		t.mu.Lock()
		defer t.mu.Unlock()
		return fmt.Sprintf("<Promise at %p fulfilled with %v>", p, t.value)
	case status.IsStateRejected(s):
		t.mu.Lock()
		defer t.mu.Unlock()
		return fmt.Sprintf("<Promise at %p rejected with %v>", p, t.reason)
	default:
		return fmt.Sprintf("<Promise at %p pending>", p)
	}
}
