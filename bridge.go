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
	"sync"
	"time"

	"github.com/aplusgo/promise/internal/status"
)

// Get returns the promise's outcome, by default blocking until it
// settles.
// With wait false it returns immediately, reporting ErrNotSettled if the
// promise is still pending.
func (p *Promise) Get(wait bool) (val any, err error) {
	if wait {
		p.wait(0, false)
	}
	return p.settledValue()
}

// GetWithTimeout blocks for at most timeout waiting for the promise to
// settle, then returns its outcome.
// On timeout it returns ErrNotSettled, and the promise stays usable: it
// can still settle, and be waited on again.
func (p *Promise) GetWithTimeout(timeout time.Duration) (val any, err error) {
	p.wait(timeout, true)
	return p.settledValue()
}

// Wait blocks until the promise settles, discarding the outcome.
func (p *Promise) Wait() {
	p.wait(0, false)
}

// wait blocks the calling goroutine until this promise settles, or until
// the timeout elapses when timed is true.
//
// A waited-on follower is unhooked from its followee and re-subscribed
// as a plain dependent, so its own settlement is observable locally.
// Any work deferred on the promise's diagnostic context is drained
// before blocking, since a blocked goroutine cannot drain it later.
func (p *Promise) wait(timeout time.Duration, timed bool) {
	target := p.target()

	if status.IsStatePending(p.status.Load()) {
		done := make(chan struct{})
		var once sync.Once
		signal := func() { once.Do(func() { close(done) }) }

		if target != p {
			p.mu.Lock()
			p.status.ClearFollowing()
			p.followee = nil
			p.mu.Unlock()
		}
		target.then(
			func(v any) (any, error) {
				p.resolveWith(v)
				signal()
				return nil, nil
			},
			func(reason error) (any, error) {
				p.rejectChecked(reason)
				signal()
				return nil, nil
			},
		)

		if p.trace != nil {
			p.trace.DrainQueue()
		}

		if status.IsStatePending(p.status.Load()) {
			p.status.SetWaiting()
			if timed {
				timer := time.NewTimer(timeout)
				defer timer.Stop()
				select {
				case <-done:
				case <-timer.C:
					p.status.ClearWaiting()
					return
				}
			} else {
				<-done
			}
			p.status.ClearWaiting()
		}
	}
}

// settledValue reads this promise's local outcome without following the
// chain.
func (p *Promise) settledValue() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		return p.value, nil
	case status.IsStateRejected(s):
		return nil, p.reason
	default:
		return nil, ErrNotSettled
	}
}
