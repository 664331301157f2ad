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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := All(nil)
		require.True(t, p.IsFulfilled())
		require.Equal(t, []any{}, p.Value())
	})

	t.Run("PlainValues", func(t *testing.T) {
		p := All([]any{1, "two", 3.0})
		require.Equal(t, []any{1, "two", 3.0}, p.Value())
	})

	t.Run("MixedValuesAndPromises", func(t *testing.T) {
		p := All([]any{1, Resolve(2), 3})
		require.Equal(t, []any{1, 2, 3}, p.Value())
	})

	t.Run("OrderIsInputOrderNotSettlementOrder", func(t *testing.T) {
		var resolveFirst, resolveLast func(val any)
		first := New(func(res func(val any), rej func(reason error)) {
			resolveFirst = res
		})
		last := New(func(res func(val any), rej func(reason error)) {
			resolveLast = res
		})

		p := All([]any{first, "middle", last})
		require.True(t, p.IsPending())

		resolveLast("c")
		require.True(t, p.IsPending())
		resolveFirst("a")
		require.Equal(t, []any{"a", "middle", "c"}, p.Value())
	})

	t.Run("FirstRejectionWins", func(t *testing.T) {
		errOther := errors.New("other error")

		var rejectA, rejectB func(reason error)
		a := New(func(res func(val any), rej func(reason error)) {
			rejectA = rej
		})
		b := New(func(res func(val any), rej func(reason error)) {
			rejectB = rej
		})

		p := All([]any{a, b})
		rejectB(errTest)
		rejectA(errOther)
		require.Same(t, errTest, p.Reason())
	})

	t.Run("RejectionBeatsLaterFulfillments", func(t *testing.T) {
		var resolveA func(val any)
		a := New(func(res func(val any), rej func(reason error)) {
			resolveA = res
		})

		p := All([]any{a, Reject(errTest)})
		require.Same(t, errTest, p.Reason())

		// a late fulfillment must not flip the settled group
		resolveA("late")
		require.True(t, p.IsRejected())
	})
}

func TestForDict(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := ForDict(nil)
		require.True(t, p.IsFulfilled())
		require.Equal(t, map[string]any{}, p.Value())
	})

	t.Run("KeysKeepTheirValues", func(t *testing.T) {
		p := ForDict(map[string]any{
			"a": 1,
			"b": Resolve(2),
			"c": Resolve("three"),
		})
		require.Equal(t, map[string]any{"a": 1, "b": 2, "c": "three"}, p.Value())
	})

	t.Run("RejectsWithFirstFailure", func(t *testing.T) {
		p := ForDict(map[string]any{
			"ok":   Resolve(1),
			"boom": Reject(errTest),
		})
		require.Same(t, errTest, p.Reason())
	})

	t.Run("PendingUntilAllSettle", func(t *testing.T) {
		var resolve func(val any)
		slow := New(func(res func(val any), rej func(reason error)) {
			resolve = res
		})

		p := ForDict(map[string]any{"slow": slow, "fast": 1})
		require.True(t, p.IsPending())

		resolve(2)
		require.Equal(t, map[string]any{"slow": 2, "fast": 1}, p.Value())
	})
}
