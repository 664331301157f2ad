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
	"github.com/aplusgo/promise/interop"
)

// futureCapable is the capability of future-like values: completion
// callbacks receiving the eventual (value, error) pair.
type futureCapable interface {
	AddDoneCallback(cb func(val any, err error))
}

// doneCapable is the capability of values exposing a Done registration
// with separate success and failure callbacks.
type doneCapable interface {
	Done(resolve func(val any), reject func(reason error))
}

// thenCapable is the capability of then-style thenables.
// The signature differs from Promise.Then on purpose, so a *Promise is
// never adapted through this path.
type thenCapable interface {
	Then(resolve func(val any), reject func(reason error))
}

// tryConvert adapts a value into a promise if it carries one of the
// recognized capabilities, probed in precedence order: a *Promise is
// used as-is, future-like values are bridged through their completion
// callback, Done- and Then-style thenables are subscribed to, and
// coroutine functions are run to completion through a future.
// Anything else reports false.
func tryConvert(v any) (*Promise, bool) {
	switch t := v.(type) {
	case *Promise:
		return t, true
	case futureCapable:
		return fromFuture(t), true
	case doneCapable:
		p := newPromise(nil)
		t.Done(p.resolveWith, p.rejectChecked)
		return p, true
	case thenCapable:
		p := newPromise(nil)
		t.Then(p.resolveWith, p.rejectChecked)
		return p, true
	case interop.Coroutine:
		return fromFuture(interop.EnsureFuture(t, DefaultScheduler())), true
	case func() (any, error):
		return fromFuture(interop.EnsureFuture(t, DefaultScheduler())), true
	default:
		return nil, false
	}
}

// fromFuture returns a promise tracking the future's completion.
func fromFuture(f futureCapable) *Promise {
	p := newPromise(nil)
	if ff, ok := f.(*interop.Future); ok {
		p.future = ff
	}
	f.AddDoneCallback(func(val any, err error) {
		if err != nil {
			p.rejectChecked(err)
		} else {
			p.resolveWith(val)
		}
	})
	return p
}

// IsThenable reports whether v would be adapted into a promise by the
// resolution algorithm.
func IsThenable(v any) bool {
	switch v.(type) {
	case *Promise, futureCapable, doneCapable, thenCapable,
		interop.Coroutine, func() (any, error):
		return true
	default:
		return false
	}
}
