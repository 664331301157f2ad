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

// Package sched provides the deferred-execution scheduler consumed by the
// promise core.
//
// The scheduler is a trampoline: tasks are appended to a flat FIFO queue,
// and the first Invoke call on an idle queue drains it in a loop on the
// calling goroutine, including any tasks enqueued while draining.
// This bounds the call-stack depth of long promise chains, as nested
// notifications become queue appends instead of nested calls.
package sched

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Task is a zero-argument unit of deferred work.
type Task func()

// Config holds the scheduler's configuration.
type Config struct {
	// FatalHandler is called with the reason of an unhandled rejection
	// that reached a terminal promise, after the reason is logged.
	// If it's nil, the default handler is used, which panics with the
	// reason.
	FatalHandler func(err error)

	// Logger is the logger used for the fatal-error sink.
	// If it's nil, the logrus standard logger is used.
	Logger *logrus.Logger
}

// Trampoline is a flat task queue with a fatal-error sink.
// The zero value is not usable, use New.
type Trampoline struct {
	mu       sync.Mutex
	queue    []Task
	draining bool

	fatalHandler func(err error)
	log          *logrus.Logger
}

// New creates a new Trampoline, optionally configured by c.
func New(c ...*Config) *Trampoline {
	t := &Trampoline{}

	if len(c) != 0 && c[0] != nil {
		if cb := c[0].FatalHandler; cb != nil {
			t.fatalHandler = cb
		}
		if l := c[0].Logger; l != nil {
			t.log = l
		}
	}

	if t.log == nil {
		t.log = logrus.StandardLogger()
	}

	return t
}

// Invoke schedules task for deferred, trampoline-safe execution.
//
// If no drain is active, the calling goroutine becomes the drainer and
// runs the queue until it's empty, so the task (and any tasks it enqueues)
// runs before Invoke returns.
// If another goroutine is already draining, the task is only enqueued,
// and will run on the draining goroutine.
func (t *Trampoline) Invoke(task Task) {
	if task == nil {
		panic("sched: the provided task is nil")
	}

	t.mu.Lock()
	t.queue = append(t.queue, task)
	if t.draining {
		t.mu.Unlock()
		return
	}
	t.draining = true
	t.mu.Unlock()

	t.drain()
}

// drain runs queued tasks, in FIFO order, until the queue is empty.
// It must be called only by the goroutine that set the draining flag.
func (t *Trampoline) drain() {
	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.draining = false
			t.mu.Unlock()
			return
		}
		task := t.queue[0]
		t.queue[0] = nil
		t.queue = t.queue[1:]
		t.mu.Unlock()

		task()
	}
}

// Fatal reports an unrecoverable unhandled rejection.
// It's a terminal diagnostic sink, not a retry path: the reason is logged,
// then handed to the configured fatal handler, which by default panics
// with it.
func (t *Trampoline) Fatal(err error) {
	t.log.WithError(err).Error("promise: unhandled rejection in terminal promise")

	if t.fatalHandler != nil {
		t.fatalHandler(err)
		return
	}
	panic(err)
}
