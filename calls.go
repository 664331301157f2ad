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

	"github.com/aplusgo/promise/sched"
)

// Scheduler abstracts how settlement work is dispatched.
// Implementations must run tasks submitted to the same scheduler in
// submission order.
type Scheduler interface {
	// Invoke submits a single task for execution.
	Invoke(task func())

	// SettlePromises submits the subscriber notification of a settled
	// promise.
	SettlePromises(p *Promise)

	// Fatal reports a rejection that reached a terminal promise with no
	// one left to handle it.
	Fatal(err error)
}

// trampolineScheduler adapts the flat task queue to the Scheduler
// interface.
type trampolineScheduler struct {
	t *sched.Trampoline
}

func (s trampolineScheduler) Invoke(task func())       { s.t.Invoke(task) }
func (s trampolineScheduler) SettlePromises(p *Promise) { s.t.Invoke(p.runSubscribers) }
func (s trampolineScheduler) Fatal(err error)          { s.t.Fatal(err) }

// NewTrampolineScheduler returns a Scheduler backed by a flat task
// queue, with the trampoline configured through c.
// If c is omitted or nil, the trampoline's defaults are used.
func NewTrampolineScheduler(c ...*sched.Config) Scheduler {
	return trampolineScheduler{t: sched.New(c...)}
}

var (
	defSchedMu sync.RWMutex
	defSched   Scheduler = NewTrampolineScheduler()
)

// DefaultScheduler returns the Scheduler used by promises created
// without an explicit one.
func DefaultScheduler() Scheduler {
	defSchedMu.RLock()
	defer defSchedMu.RUnlock()
	return defSched
}

// SetDefaultScheduler replaces the default Scheduler.
// It should be called before any promises are created, and panics if s
// is nil.
func SetDefaultScheduler(s Scheduler) {
	if s == nil {
		panic(nilSchedulerPanicMsg)
	}
	defSchedMu.Lock()
	defSched = s
	defSchedMu.Unlock()
}

// Resolve returns a promise resolved with val.
// If val is itself a promise or another recognized thenable, the
// returned promise adopts its outcome, so resolving with a promise never
// nests.
func Resolve(val any) *Promise {
	if conv, ok := tryConvert(val); ok {
		return conv
	}
	p := newPromise(nil)
	p.value = val
	p.status.SetFulfilledSync()
	return p
}

// Reject returns a promise rejected with reason.
// It panics if reason is nil.
func Reject(reason error) *Promise {
	if reason == nil {
		panic(nilReasonPanicMsg)
	}
	p := newPromise(nil)
	p.reason = reason
	p.status.SetRejectedSync()
	return p
}
