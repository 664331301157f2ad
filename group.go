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
	"github.com/aplusgo/promise/internal/latch"
)

// All returns a promise for the outcomes of all inputs.
// Each input is normalized through Resolve, so plain values and
// thenables mix freely.
// The returned promise fulfills with a []any holding the values in input
// order once every input fulfills, or rejects with the reason of the
// first input to reject.
// An empty or nil input fulfills immediately with an empty slice.
func All(inputs []any) *Promise {
	if len(inputs) == 0 {
		return Resolve([]any{})
	}

	allProm := newPromise(nil)
	counter := latch.New(len(inputs))
	results := make([]any, len(inputs))

	for i, in := range inputs {
		i := i
		Resolve(in).Done(
			func(val any) (any, error) {
				// the latch's lock orders this write before the final
				// countdown's read of the full slice
				results[i] = val
				if counter.Dec() == 0 {
					allProm.resolveWith(results)
				}
				return nil, nil
			},
			func(reason error) (any, error) {
				allProm.reject(reason)
				return nil, nil
			},
		)
	}
	return allProm
}

// ForDict returns a promise for the outcomes of all values of m.
// It fulfills with a map[string]any carrying each key's settled value,
// or rejects with the reason of the first value to reject.
// An empty or nil map fulfills immediately with an empty map.
func ForDict(m map[string]any) *Promise {
	if len(m) == 0 {
		return Resolve(map[string]any{})
	}

	keys := make([]string, 0, len(m))
	values := make([]any, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		values = append(values, v)
	}

	return All(values).Then(func(val any) (any, error) {
		resolved := val.([]any)
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k] = resolved[i]
		}
		return out, nil
	}, nil)
}
