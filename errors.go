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
	"errors"
	"fmt"
)

var (
	// ErrSelfResolution is the rejection reason of a promise that was
	// resolved with itself, directly or through a chain of promises.
	ErrSelfResolution = errors.New("promise: promise is resolved with itself")

	// ErrNotSettled is returned from value queries on a promise that
	// hasn't settled yet, including blocking queries whose wait timed out.
	ErrNotSettled = errors.New("promise: promise is not settled yet")
)

// panic messages
const (
	nilCallbackPanicMsg  = "promise: the provided callback is nil"
	nilReasonPanicMsg    = "promise: a promise was rejected with a nil error"
	nilSchedulerPanicMsg = "promise: the provided scheduler is nil"
)

// PanicError wraps a non-error panic value raised inside a callback or an
// executor, so it can propagate through a chain as a rejection reason.
type PanicError struct {
	// V is the original panic value.
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("promise: panic in promise chain: %v", e.V)
}

// isContractPanic reports whether v is one of the package's own
// programming-error assertions, which must propagate as panics instead of
// being captured as rejections.
func isContractPanic(v any) bool {
	switch v {
	case nilCallbackPanicMsg, nilReasonPanicMsg, nilSchedulerPanicMsg:
		return true
	}
	return false
}

// asError converts a recovered panic value into an error, keeping error
// values as they are.
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return PanicError{V: v}
}
