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

// Package latch provides a countdown latch, a one-way counter that reaches
// a terminal open state after a fixed number of decrements.
//
// It's used by the All combinator to detect that the last input promise
// has settled, where the inputs may settle on different goroutines at the
// same time and race to decrement.
package latch

import "sync"

// Latch is a thread-safe decrement-to-zero counter.
type Latch struct {
	mu    sync.Mutex
	count int
}

// New returns a Latch that opens after count decrements.
// It panics if count is negative.
func New(count int) *Latch {
	if count < 0 {
		panic("latch: count must be greater than or equal to 0")
	}
	return &Latch{count: count}
}

// Dec decrements the counter and returns its new value.
// The value is returned while still holding the internal lock's result,
// so exactly one caller ever observes 0.
// It panics if the counter is already 0.
func (l *Latch) Dec() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count <= 0 {
		panic("latch: decremented below zero")
	}
	l.count--

	// return inside the lock to return the correct value, otherwise
	// another goroutine could already have decremented again.
	return l.count
}

// Count returns the current value of the counter.
// It could be wrong the moment the method returns.
func (l *Latch) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
