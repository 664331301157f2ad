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

func IsStatePending(status uint32) bool {
	return status&stateBitsSetMask == statePending
}

func IsStateFulfilled(status uint32) bool {
	return status&stateBitsSetMask == stateFulfilled
}

func IsStateRejected(status uint32) bool {
	return status&stateBitsSetMask == stateRejected
}

func IsFollowing(status uint32) bool {
	return status&FlagFollowing == FlagFollowing
}

func IsFinal(status uint32) bool {
	return status&FlagFinal == FlagFinal
}

func IsAsyncGuaranteed(status uint32) bool {
	return status&FlagAsyncGuaranteed == FlagAsyncGuaranteed
}

func IsWaiting(status uint32) bool {
	return status&FlagWaiting == FlagWaiting
}
