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

package status

import (
	"runtime"
	"sync/atomic"
)

var (
	cas  = atomic.CompareAndSwapUint32
	load = atomic.LoadUint32
	swap = atomic.SwapUint32
)

// PromStatus holds the value that defines and represents the state of the
// promise, along with its behavior flags.
// It's read and written/updated atomically.
type PromStatus uint32

// the lock's related values and constants, using 1 bit(the 1st bit)
const (
	// lockAcquired is the value of the status when some update call is
	// running(any of the Set or Clear methods).
	lockAcquired uint32 = 1
)

// the state's related values and constants, using 2 bits(the [2nd : 3rd] bits)
const (
	// starting with a shift amount of 1, which is the number of bits used by
	// previous sections.

	// state modes, using 2 bits.
	// the state is monotonic: once it leaves statePending it never changes.
	statePending   uint32 = iota << 1
	stateFulfilled uint32 = iota << 1
	stateRejected  uint32 = iota << 1

	// stateBitsSetMask and stateBitsClrMask are &-ed with the status to get
	// the state value and clear the state value, respectively.
	stateBitsSetMask = 3 << 1
	stateBitsClrMask = ^uint32(stateBitsSetMask)
)

// the flags' related values and constants, using 4 bits(the [4th : 7th] bits)
const (
	// starting with a shift amount of 3, which is the number of bits used by
	// previous sections.

	// FlagFollowing is set while the promise's eventual outcome is delegated
	// to another promise(the followee), instead of being held locally.
	FlagFollowing uint32 = 1 << (iota + 3)

	// FlagFinal is set on promises created as terminal leaves of a chain,
	// through a 'Done' call, so no further dependents are possible.
	FlagFinal uint32 = 1 << (iota + 3)

	// FlagAsyncGuaranteed is set when settlement of the promise is known to
	// be already happening inside the deferred scheduler, so re-scheduling
	// the notification of its subscribers would be redundant.
	FlagAsyncGuaranteed uint32 = 1 << (iota + 3)

	// FlagWaiting is set while some thread is synchronously blocked on the
	// promise, through a 'Get' or 'Wait' call.
	FlagWaiting uint32 = 1 << (iota + 3)
)

func (s *PromStatus) readAndAcquireLock() (currentStatus uint32) {
	// read the current status value, and acquire the update lock,
	// by checking if there's any other, previous, update call is
	// still processing, and wait for it to finish.
	cs := swap((*uint32)(s), lockAcquired)
	for cs == lockAcquired {
		// don't actively wait for concurrent update calls, instead,
		// tell the go scheduler to run other goroutines(including the
		// one which has the lock) instead of the current(waiting) one.
		runtime.Gosched()
		cs = swap((*uint32)(s), lockAcquired)
	}
	// at this point, the value of the current status, cs, here is
	// only available to this method and its caller.
	return cs
}

func (s *PromStatus) saveAndReleaseLock(newStatus uint32) {
	// save the new status value, and release the update lock
	if !cas((*uint32)(s), lockAcquired, newStatus) {
		// panic if the status value has been changed unexpectedly
		panic("promise: internal: unexpected status change")
	}
}

// Load returns the current status value, if it's not being updated right now,
// and if it's, it waits until it's updated then return the value.
func (s *PromStatus) Load() (currentStatus uint32) {
	cs := load((*uint32)(s))
	for cs == lockAcquired {
		cs = load((*uint32)(s))
	}
	return cs
}

// SetFulfilled sets the state to Fulfilled, only if the state is Pending.
// It reports whether this call is the one that caused the transition out
// of Pending, so that settlement logic runs at most once per promise.
func (s *PromStatus) SetFulfilled() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	if ns&stateBitsSetMask == statePending {
		ns &= stateBitsClrMask // clear the state section
		ns |= stateFulfilled   // set the state to fulfilled
		set = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}

// SetFulfilledSync should be used only on promises which haven't been
// returned to the caller yet, as it updates the status value directly,
// without any synchronization.
func (s *PromStatus) SetFulfilledSync() (status uint32) {
	ns := stateFulfilled
	*s = PromStatus(ns)
	return ns
}

// SetRejected sets the state to Rejected, only if the state is Pending.
// It reports whether this call is the one that caused the transition out
// of Pending.
func (s *PromStatus) SetRejected() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	if ns&stateBitsSetMask == statePending {
		ns &= stateBitsClrMask // clear the state section
		ns |= stateRejected    // set the state to rejected
		set = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}

// SetRejectedSync should be used only on promises which haven't been
// returned to the caller yet, as it updates the status value directly,
// without any synchronization.
func (s *PromStatus) SetRejectedSync() (status uint32) {
	ns := stateRejected
	*s = PromStatus(ns)
	return ns
}

// SetFollowing sets the Following flag, only if the state is Pending and
// the flag isn't already set.
func (s *PromStatus) SetFollowing() (set bool, status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs

	if ns&stateBitsSetMask == statePending && ns&FlagFollowing == 0 {
		ns |= FlagFollowing
		set = true
	}

	s.saveAndReleaseLock(ns)
	return set, ns
}

// ClearFollowing clears the Following flag.
// It's required for the blocking bridge, which re-resolves the promise
// locally with its followee's outcome before blocking on it.
func (s *PromStatus) ClearFollowing() (status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs &^ FlagFollowing
	s.saveAndReleaseLock(ns)
	return ns
}

// SetFinal sets the Final flag.
func (s *PromStatus) SetFinal() (status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs | FlagFinal
	s.saveAndReleaseLock(ns)
	return ns
}

// SetAsyncGuaranteed sets the AsyncGuaranteed flag.
func (s *PromStatus) SetAsyncGuaranteed() (status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs | FlagAsyncGuaranteed
	s.saveAndReleaseLock(ns)
	return ns
}

// SetWaiting sets the Waiting flag.
func (s *PromStatus) SetWaiting() (status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs | FlagWaiting
	s.saveAndReleaseLock(ns)
	return ns
}

// ClearWaiting clears the Waiting flag.
// It's required for wait calls which timed-out before the promise got
// resolved, so that a later wait call can block again.
func (s *PromStatus) ClearWaiting() (status uint32) {
	cs := s.readAndAcquireLock()
	ns := cs &^ FlagWaiting
	s.saveAndReleaseLock(ns)
	return ns
}
