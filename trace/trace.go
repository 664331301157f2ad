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

// Package trace provides the diagnostic context stack consumed by the
// promise core.
//
// A Context is a stack-scoped resource: it's entered around executor and
// handler invocation, and work can be queued against it to run when it's
// convenient for the queue's owner.
// The promise core snapshots the innermost Context at promise-creation
// time, and drains its queue before blocking a goroutine on a promise, so
// a promise waiting on work queued in that same context can't deadlock
// against itself.
package trace

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context is one frame of the diagnostic context stack.
type Context struct {
	id     string
	parent *Context

	mu    sync.Mutex
	queue []func()
}

var (
	stackMu sync.Mutex
	top     *Context

	log = logrus.StandardLogger()
)

// SetLogger replaces the logger used for drain diagnostics.
// It's not safe to call concurrently with any other function in this
// package.
func SetLogger(l *logrus.Logger) {
	log = l
}

// Peek returns the innermost Context, or nil if the stack is empty.
func Peek() *Context {
	stackMu.Lock()
	defer stackMu.Unlock()
	return top
}

// Enter pushes a new Context onto the stack and returns it.
// Each call must be paired with a call to the Context's Exit method.
func Enter() *Context {
	stackMu.Lock()
	defer stackMu.Unlock()

	c := &Context{
		id:     uuid.NewString(),
		parent: top,
	}
	top = c
	return c
}

// Exit pops this Context off the stack.
// Scopes on different goroutines may interleave rather than nest, so the
// pop is tolerant: any inner frames still above this Context are unwound
// with it, and exiting a Context that was already unwound is a no-op.
func (c *Context) Exit() {
	stackMu.Lock()
	defer stackMu.Unlock()

	for f := top; f != nil; f = f.parent {
		if f == c {
			top = c.parent
			return
		}
	}
}

// With runs fn inside a new Context, popping it on all exit paths,
// including a panic in fn.
func With(fn func()) {
	c := Enter()
	defer c.Exit()
	fn()
}

// ID returns this Context's identity, used to correlate drain logs.
func (c *Context) ID() string {
	return c.id
}

// Defer queues fn to run when this Context's queue is next drained.
func (c *Context) Defer(fn func()) {
	if fn == nil {
		panic("trace: the provided function is nil")
	}
	c.mu.Lock()
	c.queue = append(c.queue, fn)
	c.mu.Unlock()
}

// DrainQueue runs all work queued against this Context, in registration
// order, including work queued while draining.
func (c *Context) DrainQueue() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		fn := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.mu.Unlock()

		log.WithField("context", c.id).Debug("trace: draining queued work")
		fn()
	}
}
