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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aplusgo/promise/interop"
)

// doneThenable resolves through a Done registration.
type doneThenable struct{ val any }

func (d doneThenable) Done(resolve func(val any), reject func(reason error)) {
	resolve(d.val)
}

// thenThenable resolves through a Then registration.
type thenThenable struct{ val any }

func (d thenThenable) Then(resolve func(val any), reject func(reason error)) {
	resolve(d.val)
}

// futureAndThenThenable carries both capabilities, to observe which one
// the adapter picks.
type futureAndThenThenable struct {
	usedFuture bool
	usedThen   bool
}

func (d *futureAndThenThenable) AddDoneCallback(cb func(val any, err error)) {
	d.usedFuture = true
	cb("via future", nil)
}

func (d *futureAndThenThenable) Then(resolve func(val any), reject func(reason error)) {
	d.usedThen = true
	resolve("via then")
}

func TestResolveAdaptsThenables(t *testing.T) {
	t.Run("Future", func(t *testing.T) {
		f := interop.NewFuture()
		p := Resolve(f)
		require.True(t, p.IsPending())

		f.SetResult(42)
		require.Equal(t, 42, p.Value())
	})

	t.Run("FutureError", func(t *testing.T) {
		f := interop.NewFuture()
		p := Resolve(f)

		f.SetError(errTest)
		require.Same(t, errTest, p.Reason())
	})

	t.Run("DoneCapable", func(t *testing.T) {
		p := Resolve(doneThenable{val: "d"})
		require.Equal(t, "d", p.Value())
	})

	t.Run("ThenCapable", func(t *testing.T) {
		p := Resolve(thenThenable{val: "t"})
		require.Equal(t, "t", p.Value())
	})

	t.Run("Coroutine", func(t *testing.T) {
		p := Resolve(func() (any, error) { return 7, nil })
		require.Equal(t, 7, p.Value())
	})

	t.Run("FailingCoroutine", func(t *testing.T) {
		p := Resolve(func() (any, error) { return nil, errTest })
		require.Same(t, errTest, p.Reason())
	})

	t.Run("FuturePrecedesThen", func(t *testing.T) {
		d := &futureAndThenThenable{}
		p := Resolve(d)
		require.Equal(t, "via future", p.Value())
		require.True(t, d.usedFuture)
		require.False(t, d.usedThen)
	})
}

func TestHandlerResultIsAdapted(t *testing.T) {
	f := interop.NewFuture()
	p := Resolve(1).Then(func(val any) (any, error) {
		return f, nil
	}, nil)
	require.True(t, p.IsPending())

	f.SetResult("from future")
	require.Equal(t, "from future", p.Value())
}

func TestIsThenable(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    any
		want bool
	}{
		{"Promise", New(nil), true},
		{"Future", interop.NewFuture(), true},
		{"DoneCapable", doneThenable{}, true},
		{"ThenCapable", thenThenable{}, true},
		{"Coroutine", interop.Coroutine(func() (any, error) { return nil, nil }), true},
		{"PlainFunc", func() (any, error) { return nil, nil }, true},
		{"Int", 42, false},
		{"String", "nope", false},
		{"Nil", nil, false},
		{"WrongFuncShape", func() any { return nil }, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsThenable(tc.v))
		})
	}
}
