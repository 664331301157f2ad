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

// maxSubscribers is the fixed capacity of a promise's callback store.
// Registering past it wraps the store back onto the inline slot, a
// deliberate bound against unbounded growth in pathological fan-out.
const maxSubscribers = 0xFFFF

// subscriber is one registered reaction: an optional handler pair, plus
// the dependent promise their result propagates into.
type subscriber struct {
	onFulfilled OnFulfilled
	onRejected  OnRejected
	promise     *Promise
}

// addCallbacks appends a subscriber to the store and returns its index.
// The first subscriber occupies the inline slot, later ones occupy the
// overflow map.
// It must be called with p.mu held.
func (p *Promise) addCallbacks(onFulfilled OnFulfilled, onRejected OnRejected, dep *Promise) int {
	index := p.subCount
	if index >= maxSubscribers {
		// wrap: reuse the inline slot, abandoning the oldest entries
		// rather than growing without bound.
		// the overflow map is released with them, so the abandoned
		// handlers don't stay referenced for the promise's lifetime.
		index = 0
		p.subCount = 0
		p.subs = nil
	}

	sub := subscriber{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		promise:     dep,
	}

	if index == 0 {
		p.sub0 = sub
	} else {
		if p.subs == nil {
			p.subs = make(map[int]subscriber)
		}
		p.subs[index] = sub
	}

	p.subCount = index + 1
	return index
}

// clearCallbackAt returns the subscriber at index and clears its slot,
// releasing both handlers and the dependent promise together.
// It must be called with p.mu held.
func (p *Promise) clearCallbackAt(index int) subscriber {
	if index == 0 {
		sub := p.sub0
		p.sub0 = subscriber{}
		return sub
	}
	sub := p.subs[index]
	delete(p.subs, index)
	return sub
}

// takeCallbacks clears the whole store and returns its subscribers in
// registration order: the inline slot first, then the overflow slots by
// ascending index.
// It must be called with p.mu held.
func (p *Promise) takeCallbacks() []subscriber {
	n := p.subCount
	if n == 0 {
		return nil
	}

	subs := make([]subscriber, 0, n)
	for i := 0; i < n; i++ {
		subs = append(subs, p.clearCallbackAt(i))
	}
	p.subCount = 0
	return subs
}
