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

// Package status represents values for the promise's status.
//
// The value is split into 3 sections, lock, state, and flags, as follows,
// starting from the right:
// - The lock section takes 1 bit.
// - The state section takes 2 bits.
// - The flags section takes 4 bits.
//
// Description of the sections:
//
//   - the lock section.
//     = although it's named 'lock', it doesn't use any Mutexes.
//     = the lock is implemented through atomic writing, reading, and updating
//     of the status value.
//     = the lock logic is just a way to tell new comers(that want to update
//     the status) that: "the value is currently being updated by some previous
//     update call, so wait here until it finish, then you can get your chance
//     to update the status too".
//     = the lock will be acquired for only a small period of time by any call,
//     because the operations done while the lock is acquired are very basic
//     (and, or, assign, compare, and conditions).
//     = the whole waiting behaviour is passed to the 'go scheduler'(through a
//     call to runtime.Gosched) to decide which goroutine should run now(and
//     hence acquire the lock first).
//
//   - the state section.
//     = it holds one of the three promise states, Pending, Fulfilled, or
//     Rejected.
//     = the state is monotonic, the transition out of Pending happens at
//     most once, and is guarded by the setters returning a 'set' value.
//
//   - the flags section.
//     = it holds the Following, Final, AsyncGuaranteed, and Waiting flags.
//     = the Following and Waiting flags are the only ones that can be
//     cleared, both on behalf of the blocking bridge.
package status
