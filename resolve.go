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
	"github.com/aplusgo/promise/internal/status"
	"github.com/aplusgo/promise/trace"
)

// resolveFromExecutor runs the executor with this promise's resolve and
// reject entry points, inside a diagnostic context scope.
func (p *Promise) resolveFromExecutor(executor func(resolve func(val any), reject func(reason error))) {
	var panicErr error

	trace.With(func() {
		defer func() {
			if v := recover(); v != nil {
				if isContractPanic(v) {
					panic(v)
				}
				panicErr = asError(v)
			}
		}()
		executor(p.resolveWith, p.rejectChecked)
	})

	if panicErr != nil {
		p.rejectChecked(panicErr)
	}
}

// resolveWith is the resolution algorithm: it inspects the incoming value
// to decide between immediate settlement, delegation to a followee, or
// adoption of another thenable's eventual outcome.
func (p *Promise) resolveWith(value any) {
	// a promise never ends up resolved with itself
	if sp, ok := value.(*Promise); ok && sp == p {
		p.reject(ErrSelfResolution)
		return
	}

	// not a thenable, settle immediately
	conv, ok := tryConvert(value)
	if !ok {
		p.fulfill(value)
		return
	}

	// collapse the incoming promise's following-chain to its ultimate
	// target, so the followee relation stays flat.
	// this also catches indirect cycles: a chain that leads back here
	// collapses to this promise, and is rejected like direct
	// self-resolution.
	target := conv.target()
	if target == p {
		p.reject(ErrSelfResolution)
		return
	}

	s := target.status.Load()
	switch {
	case status.IsStatePending(s):
		p.followTarget(target)
	case status.IsStateFulfilled(s):
		target.mu.Lock()
		v := target.value
		target.mu.Unlock()
		p.fulfill(v)
	default:
		target.mu.Lock()
		r := target.reason
		target.mu.Unlock()
		p.reject(r)
	}
}

// target resolves the ultimate promise of this promise's following-chain.
// the walk is cycle-safe: chains are collapsed before they are stored, so
// following links always lead to a non-following promise.
func (p *Promise) target() *Promise {
	ret := p
	for status.IsFollowing(ret.status.Load()) {
		ret.mu.Lock()
		f := ret.followee
		ret.mu.Unlock()
		if f == nil {
			break
		}
		ret = f
	}
	return ret
}

// followTarget makes this promise a follower of target: its own
// subscribers are migrated onto target, in registration order, and its
// store is cleared, so the local promise holds nothing but the followee
// reference.
func (p *Promise) followTarget(target *Promise) {
	p.mu.Lock()
	set, _ := p.status.SetFollowing()
	if !set {
		// already following, or already settled
		p.mu.Unlock()
		return
	}
	migrated := p.takeCallbacks()
	p.followee = target
	p.mu.Unlock()

	// inline slot first, then overflow slots in index order
	for _, sub := range migrated {
		target.subscribe(sub)
	}
}

// subscribe registers a subscriber on the ultimate target of this
// promise's following-chain.
// The status check and the store append happen under the same lock at
// each hop, so a promise that turns into a follower concurrently cannot
// strand the subscriber in its abandoned store, the registration is
// re-routed to the new followee instead.
// If the target is already settled, the subscriber is notified through
// the scheduler instead of being stored; that notification runs inside a
// scheduler task, so the dependent carries the async-guaranteed hint.
func (p *Promise) subscribe(sub subscriber) {
	t := p
	for {
		t.mu.Lock()
		s := t.status.Load()
		if status.IsFollowing(s) {
			next := t.followee
			t.mu.Unlock()
			t = next
			continue
		}

		if status.IsStatePending(s) {
			t.addCallbacks(sub.onFulfilled, sub.onRejected, sub.promise)
			t.mu.Unlock()
			return
		}

		rejected := status.IsStateRejected(s)
		value, reason := t.value, t.reason
		t.mu.Unlock()

		t.sched.Invoke(func() {
			t.settleSubscriber(sub, value, reason, rejected, true)
		})
		return
	}
}

// fulfill stores the value and transitions the promise to Fulfilled,
// notifying subscribers if any are registered.
func (p *Promise) fulfill(value any) {
	if sp, ok := value.(*Promise); ok && sp == p {
		p.reject(ErrSelfResolution)
		return
	}

	p.mu.Lock()
	set, s := p.status.SetFulfilled()
	if !set {
		// the transition out of Pending happens at most once
		p.mu.Unlock()
		return
	}
	p.value = value
	n := p.subCount
	p.mu.Unlock()

	if n > 0 {
		if status.IsAsyncGuaranteed(s) {
			// settlement is already happening inside the scheduler,
			// re-scheduling would be redundant
			p.runSubscribers()
		} else {
			p.sched.SettlePromises(p)
		}
	}
}

// reject stores the reason and transitions the promise to Rejected.
// A rejection reaching a final promise with no subscribers is escalated
// to the scheduler's fatal sink; otherwise subscribers are notified the
// same way as fulfillment.
func (p *Promise) reject(reason error) {
	p.mu.Lock()
	set, s := p.status.SetRejected()
	if !set {
		p.mu.Unlock()
		return
	}
	p.reason = reason
	n := p.subCount
	p.mu.Unlock()

	if status.IsFinal(s) && n == 0 {
		p.sched.Fatal(reason)
		return
	}

	if n > 0 {
		if status.IsAsyncGuaranteed(s) {
			p.runSubscribers()
		} else {
			p.sched.SettlePromises(p)
		}
	} else {
		p.possiblyUnhandledRejection()
	}
}

// rejectChecked is the checked rejection entry point: rejecting with a
// nil error is a programming contract violation, asserted rather than
// laundered.
func (p *Promise) rejectChecked(reason error) {
	if reason == nil {
		panic(nilReasonPanicMsg)
	}
	p.reject(reason)
}

// possiblyUnhandledRejection is the hook for non-terminal rejections with
// no subscribers.
// Unhandled-rejection detection is intentionally absent: only rejections
// reaching a final promise escalate, everything else stays recoverable by
// a later Catch.
func (p *Promise) possiblyUnhandledRejection() {}

// runSubscribers notifies the registered subscribers of a settled
// promise, strictly in registration order.
// Each subscriber's storage is cleared before its handlers run, so every
// slot is single-use.
func (p *Promise) runSubscribers() {
	p.mu.Lock()
	s := p.status.Load()
	if status.IsStatePending(s) {
		p.mu.Unlock()
		return
	}
	rejected := status.IsStateRejected(s)
	asyncGuaranteed := status.IsAsyncGuaranteed(s)
	value, reason := p.value, p.reason
	subs := p.takeCallbacks()
	p.mu.Unlock()

	for _, sub := range subs {
		p.settleSubscriber(sub, value, reason, rejected, asyncGuaranteed)
	}
}

// settleSubscriber propagates a settled outcome into one subscriber: the
// relevant handler runs inside a captured-failure scope and its result
// feeds the dependent promise, or, with no handler on the relevant path,
// the outcome passes through to the dependent unchanged.
func (p *Promise) settleSubscriber(
	sub subscriber,
	value any,
	reason error,
	rejected bool,
	asyncGuaranteed bool,
) {
	dep := sub.promise

	var invoke func() (any, error)
	if rejected {
		if sub.onRejected != nil {
			invoke = func() (any, error) { return sub.onRejected(reason) }
		}
	} else {
		if sub.onFulfilled != nil {
			invoke = func() (any, error) { return sub.onFulfilled(value) }
		}
	}

	if invoke == nil {
		// pass-through
		if dep == nil {
			return
		}
		if asyncGuaranteed {
			dep.status.SetAsyncGuaranteed()
		}
		if rejected {
			dep.reject(reason)
		} else {
			dep.fulfill(value)
		}
		return
	}

	if dep == nil {
		// no dependent promise, run the handler for its effects only.
		// a failure raised by it has nowhere to propagate, and must not
		// escape to the notifier.
		trace.With(func() { _, _ = tryCatch(invoke) })
		return
	}

	if asyncGuaranteed {
		dep.status.SetAsyncGuaranteed()
	}
	settleFromHandler(dep, invoke)
}

// settleFromHandler runs a handler and feeds its outcome into the
// dependent promise: a captured failure becomes the rejection reason,
// any other result goes through the dependent's own resolution, allowing
// handler results, including other thenables, to chain transparently.
func settleFromHandler(dep *Promise, invoke func() (any, error)) {
	var val any
	var err error
	trace.With(func() {
		val, err = tryCatch(invoke)
	})

	if err != nil {
		dep.rejectChecked(err)
	} else {
		dep.resolveWith(val)
	}
}
