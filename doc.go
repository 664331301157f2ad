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

// Package promise provides a Promises/A+ style promise implementation: a
// value that starts undetermined and is eventually settled exactly once,
// either successfully or with a failure, after which any number of
// dependent computations are notified in registration order.
//
// A Promise has three states, and it can be in only one of them, at any time:
// Pending: the promise has not settled yet.
// Fulfilled: the promise settled successfully, and holds a value.
// Rejected: the promise settled with a failure, and holds an error.
//
// The state is monotonic: once a promise leaves Pending, its state and its
// result never change again.
// A Pending promise may instead become a follower, delegating its eventual
// outcome to another promise(the followee); chains of followers are
// collapsed eagerly, so a follower always points at the ultimate promise
// of its chain, never at an intermediate one.
//
// General Notes:-
//
// * Rejection reasons are always error values; rejecting with a nil error
// is a programming error and panics.
//
// * Resolving a promise with itself, directly or through a chain, rejects
// it with ErrSelfResolution, never hangs or overflows the stack.
//
// * A failure raised inside a Then/Catch/Done callback never escapes to
// the notifier; it becomes the rejection reason of the dependent promise.
//
// * A rejection that reaches a Done-created promise with no callbacks is
// escalated to the scheduler's fatal sink; every other rejection stays
// recoverable within the chain, through a later Catch.
//
// * Notification of dependents is dispatched through a trampoline
// scheduler, so long promise chains settle with a flat call stack.
//
// * There is no cancellation: once registered, a dependent cannot be
// unregistered; cancellation is approximated only by never observing the
// result.
package promise
