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

// OnFulfilled is the type of the success callbacks passed to Then, Done,
// and their batch variants.
// The returned value feeds the dependent promise's resolution, so it may
// be a plain value or any thenable, including another Promise.
// Returning a non-nil error rejects the dependent promise with it.
type OnFulfilled func(val any) (any, error)

// OnRejected is the type of the failure callbacks passed to Then, Catch,
// Done, and their batch variants.
// Its return values are handled the same way as OnFulfilled's, which is
// how a Catch callback recovers a chain.
type OnRejected func(reason error) (any, error)

// Handlers is one success/failure callback pair, for the ThenAll and
// DoneAll batch variants.
// Either field may be nil, meaning no action is taken on that path, and
// the value or reason passes through to the dependent promise unchanged.
type Handlers struct {
	Fulfilled OnFulfilled
	Rejected  OnRejected
}

// tryCatch invokes a callback inside a captured-failure scope: a panic
// raised by the callback is recovered and returned as the error, so it
// never escapes to the notifier.
// It returns an explicit (value, error) pair instead of signalling the
// failure through shared state, as concurrent callbacks may be running.
func tryCatch(invoke func() (any, error)) (val any, err error) {
	defer func() {
		if v := recover(); v != nil {
			val, err = nil, asError(v)
		}
	}()
	return invoke()
}
