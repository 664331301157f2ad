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

package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterExit(t *testing.T) {
	require.Nil(t, Peek(), "stack should start empty")

	outer := Enter()
	assert.Same(t, outer, Peek())
	assert.NotEmpty(t, outer.ID())

	inner := Enter()
	assert.Same(t, inner, Peek())
	assert.NotEqual(t, outer.ID(), inner.ID())

	inner.Exit()
	assert.Same(t, outer, Peek())

	outer.Exit()
	assert.Nil(t, Peek())
}

func TestExit_OutOfOrder(t *testing.T) {
	t.Run("unwinds inner frames", func(t *testing.T) {
		outer := Enter()
		inner := Enter()

		outer.Exit()
		assert.Nil(t, Peek(), "exiting an outer context should unwind inner frames with it")

		// already unwound, must be a no-op
		inner.Exit()
		assert.Nil(t, Peek())
	})

	t.Run("interleaved goroutine scopes", func(t *testing.T) {
		// two scopes that overlap without nesting, the way scopes on
		// separate goroutines do
		aEntered := make(chan struct{})
		aExit := make(chan struct{})
		done := make(chan struct{})

		go func() {
			defer close(done)
			c := Enter()
			close(aEntered)
			<-aExit
			c.Exit()
		}()

		<-aEntered
		b := Enter()
		close(aExit)
		<-done

		b.Exit()
		assert.Nil(t, Peek())
	})
}

func TestWith(t *testing.T) {
	t.Run("pops on return", func(t *testing.T) {
		var seen *Context
		With(func() { seen = Peek() })

		require.NotNil(t, seen)
		assert.Nil(t, Peek(), "context should be popped after With returns")
	})

	t.Run("pops on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			With(func() { panic("with_test_panic") })
		})
		assert.Nil(t, Peek(), "context should be popped after a panic in fn")
	})
}

func TestDrainQueue(t *testing.T) {
	c := Enter()
	defer c.Exit()

	var order []int
	c.Defer(func() {
		order = append(order, 1)
		// queued while draining, runs in the same drain pass
		c.Defer(func() { order = append(order, 3) })
	})
	c.Defer(func() { order = append(order, 2) })

	c.DrainQueue()
	assert.Equal(t, []int{1, 2, 3}, order)

	// a drained queue stays usable
	c.Defer(func() { order = append(order, 4) })
	c.DrainQueue()
	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestDefer_Nil(t *testing.T) {
	c := Enter()
	defer c.Exit()

	assert.Panics(t, func() { c.Defer(nil) })
}
